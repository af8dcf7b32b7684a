package handler

import (
	"fmt"

	"wordflow/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleReview shows the first word due today
func (h *Handler) handleReview(c tele.Context) error {
	unlock := h.lockUser(c.Sender().ID)
	defer unlock()
	return h.showNextReview(c, "")
}

func (h *Handler) showNextReview(c tele.Context, prefix string) error {
	backend, err := h.authService.Backend(c.Sender().ID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	due, err := h.reviewService.DueWords(ctx, backend)
	if err != nil {
		return h.fail(c, err, "Failed to load review queue")
	}
	if len(due) == 0 {
		return h.render(c, prefix+"🎉 All caught up. No words due right now.", nil)
	}

	word := due[0]
	text := fmt.Sprintf("%s🔁 Review (%d due)\n\n%s\n\nRecall the translation, then reveal it.", prefix, len(due), word.Term)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("👀 Show", fmt.Sprintf("%s%d", cbReviewShow, word.ID))))
	return h.render(c, text, markup)
}

// handleReviewAction handles show, good and bad buttons
func (h *Handler) handleReviewAction(c tele.Context, data string) error {
	prefix := data[:3]
	args, ok := callbackInts(data, prefix)
	if !ok || len(args) != 1 {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid action"})
	}
	wordID := args[0]

	if prefix == cbReviewShow {
		return h.revealReview(c, wordID)
	}

	backend, err := h.authService.Backend(c.Sender().ID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	word, err := h.reviewService.Grade(ctx, backend, wordID, prefix == cbReviewGood)
	if err != nil {
		return h.fail(c, err, "Failed to record review")
	}

	h.logger.Info("Review recorded",
		zap.Int64("user_id", c.Sender().ID),
		zap.Int("word_id", wordID),
		zap.Bool("good", prefix == cbReviewGood),
	)
	return h.showNextReview(c, fmt.Sprintf("Next review of «%s»: %s\n\n", word.Term, word.NextReview))
}

func (h *Handler) revealReview(c tele.Context, wordID int) error {
	backend, err := h.authService.Backend(c.Sender().ID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	due, err := h.reviewService.DueWords(ctx, backend)
	if err != nil {
		return h.fail(c, err, "Failed to load review queue")
	}
	var word *domain.Word
	for i := range due {
		if due[i].ID == wordID {
			word = &due[i]
			break
		}
	}
	if word == nil {
		return h.showNextReview(c, "")
	}

	text := fmt.Sprintf("🔁 Review\n\n%s — %s", word.Term, word.Translation)
	if word.HasExample() {
		text += "\n\n💬 " + word.Example
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Good", fmt.Sprintf("%s%d", cbReviewGood, word.ID)),
		markup.Data("❌ Bad", fmt.Sprintf("%s%d", cbReviewBad, word.ID)),
	))
	return h.render(c, text, markup)
}
