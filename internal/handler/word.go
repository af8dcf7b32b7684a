package handler

import (
	"fmt"
	"strings"

	"wordflow/internal/domain"
	"wordflow/internal/service"

	"github.com/samber/lo"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// State is read under the user lock
	unlock := h.lockUser(userID)
	defer unlock()

	state := h.GetState(userID)
	switch state.State {
	case domain.StateWaitingEmail, domain.StateWaitingPassword:
		return h.handleCredentials(c, state, text)
	}

	// Ensure user exists
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgGenericError)
	}
	if !authorized {
		return c.Send(msgSignIn)
	}

	// User is authorized, handle based on state
	switch state.State {
	case domain.StateTrainingAnswer:
		return h.handleTaskAnswer(c, state, text)

	case domain.StateWaitingTranslation:
		// User sent translation, save the pair
		return h.saveWord(c, state.CurrentWord, text)

	default:
		// Idle or waiting for the next word - start word input flow
		cancelMarkup := &tele.ReplyMarkup{}
		cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingTranslation,
			CurrentWord: text,
		})

		return c.Send("Send the translation of «"+text+"».\nAdd #tags at the end to file it under themes.", cancelMarkup)
	}
}

func (h *Handler) saveWord(c tele.Context, term, translation string) error {
	userID := c.Sender().ID

	backend, err := h.authService.Backend(userID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	word, err := h.wordService.AddWord(ctx, backend, term, translation)
	if err != nil {
		h.logger.Error("Failed to save word pair",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return h.fail(c, err, "Failed to save word pair")
	}

	h.logger.Info("Word pair saved",
		zap.Int64("user_id", userID),
		zap.Int("word_id", word.ID),
	)

	// Reset to waiting for next word
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingWord})

	return c.Send(fmt.Sprintf("✅ Saved: %s — %s\n\nSend the next word, or use the menu.", word.Term, word.Translation))
}

// handleWords shows the first page of word cards
func (h *Handler) handleWords(c tele.Context) error {
	unlock := h.lockUser(c.Sender().ID)
	defer unlock()
	return h.showWords(c, 1)
}

// handleFind filters the word cards by "/find text #tag"; a bare /find
// clears the search and keeps the starred toggle
func (h *Handler) handleFind(c tele.Context) error {
	userID := c.Sender().ID
	unlock := h.lockUser(userID)
	defer unlock()

	var payload string
	if msg := c.Message(); msg != nil {
		payload = msg.Payload
	}
	filter := service.ParseCardFilter(payload)
	filter.Starred = h.CardFilter(userID).Starred
	h.SetCardFilter(userID, filter)

	h.logger.Debug("Word filter changed",
		zap.Int64("user_id", userID),
		zap.String("query", filter.Query),
		zap.String("tag", filter.Tag),
	)
	return h.showWords(c, 1)
}

// handleWordsFilter toggles the starred-only filter or clears every filter
func (h *Handler) handleWordsFilter(c tele.Context, data string) error {
	userID := c.Sender().ID

	filter := service.CardFilter{}
	if data == cbWordsStarred {
		filter = h.CardFilter(userID)
		filter.Starred = !filter.Starred
	}
	h.SetCardFilter(userID, filter)
	return h.showWords(c, 1)
}

func (h *Handler) handleWordsPage(c tele.Context, data string) error {
	args, ok := callbackInts(data, cbWordsPage)
	if !ok || len(args) != 1 {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid page"})
	}
	return h.showWords(c, args[0])
}

func (h *Handler) showWords(c tele.Context, page int) error {
	userID := c.Sender().ID

	backend, err := h.authService.Backend(userID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	filter := h.CardFilter(userID)
	cards, err := h.wordService.FilteredCards(ctx, backend, userID, filter)
	if err != nil {
		return h.fail(c, err, "Failed to load words")
	}
	return h.renderCards(c, cards, page, filter)
}

func (h *Handler) renderCards(c tele.Context, cards []domain.Word, page int, filter service.CardFilter) error {
	if len(cards) == 0 && !filter.Active() {
		return h.render(c, "📚 No words yet. Send a word to add the first one.", nil)
	}

	text, markup := cardsView(cards, page, filter)
	return h.render(c, text, markup)
}

func filterTitle(filter service.CardFilter) string {
	parts := []string{}
	if filter.Query != "" {
		parts = append(parts, "«"+filter.Query+"»")
	}
	if filter.Tag != "" {
		parts = append(parts, "#"+filter.Tag)
	}
	if filter.Starred {
		parts = append(parts, "⭐ only")
	}
	return strings.Join(parts, " ")
}

// cardsView renders one page of word cards with their action buttons.
// Cards can only be moved while no filter is active.
func cardsView(cards []domain.Word, page int, filter service.CardFilter) (string, *tele.ReplyMarkup) {
	pageCards, totalPages := service.Page(cards, page)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * service.PageSize

	var sb strings.Builder
	if filter.Active() {
		fmt.Fprintf(&sb, "🔎 %s: %d found, page %d/%d\n\n", filterTitle(filter), len(cards), page, totalPages)
		if len(cards) == 0 {
			sb.WriteString("No matches found.\n")
		}
	} else {
		fmt.Fprintf(&sb, "📚 Your words (%d), page %d/%d\n\n", len(cards), page, totalPages)
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for i, w := range pageCards {
		n := offset + i + 1
		fmt.Fprintf(&sb, "%d. %s — %s", n, w.Term, w.Translation)
		if w.Starred {
			sb.WriteString(" ⭐")
		}
		if tags := w.TagList(); len(tags) > 0 {
			sb.WriteString("  #" + strings.Join(tags, " #"))
		}
		sb.WriteString("\n")

		star := "☆"
		if w.Starred {
			star = "⭐"
		}
		row := tele.Row{}
		if filter.Active() {
			star = fmt.Sprintf("%d %s", n, star)
		} else {
			row = append(row,
				markup.Data(fmt.Sprintf("%d ⬆", n), fmt.Sprintf("%s%d_%d", cbWordUp, w.ID, page)),
				markup.Data(fmt.Sprintf("%d ⬇", n), fmt.Sprintf("%s%d_%d", cbWordDown, w.ID, page)),
			)
		}
		row = append(row,
			markup.Data(star, fmt.Sprintf("%s%d_%d", cbWordStar, w.ID, page)),
			markup.Data("🗑", fmt.Sprintf("%s%d_%d", cbWordDelete, w.ID, page)),
		)
		rows = append(rows, row)
	}

	// Add pagination buttons
	if totalPages > 1 {
		navRow := tele.Row{}
		if page > 1 {
			navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("%s%d", cbWordsPage, page-1)))
		}
		if page < totalPages {
			navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("%s%d", cbWordsPage, page+1)))
		}
		rows = append(rows, navRow)
	}

	filterRow := tele.Row{markup.Data(lo.Ternary(filter.Starred, "☆ All words", "⭐ Starred only"), cbWordsStarred)}
	if filter.Active() {
		filterRow = append(filterRow, markup.Data("✖ Clear filter", cbWordsClear))
	}
	rows = append(rows, filterRow)

	markup.Inline(rows...)
	if !filter.Active() {
		sb.WriteString("\nSearch with /find text #tag")
	}
	return sb.String(), markup
}

// handleWordAction handles the move, star and delete buttons of a card
func (h *Handler) handleWordAction(c tele.Context, data string) error {
	userID := c.Sender().ID
	prefix := data[:3]

	args, ok := callbackInts(data, prefix)
	if !ok || len(args) != 2 {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid action"})
	}
	wordID, page := args[0], args[1]

	backend, err := h.authService.Backend(userID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	filter := h.CardFilter(userID)

	var cards []domain.Word
	switch prefix {
	case cbWordUp, cbWordDown:
		if filter.Active() {
			return c.Respond(&tele.CallbackResponse{Text: "Clear the filter to reorder cards"})
		}
		cards, err = h.wordService.MoveCard(ctx, backend, userID, wordID, lo.Ternary(prefix == cbWordUp, service.Up, service.Down))
	case cbWordStar:
		cards, err = h.wordService.FilteredCards(ctx, backend, userID, filter)
		if err != nil {
			break
		}
		word, found := lo.Find(cards, func(w domain.Word) bool { return w.ID == wordID })
		if !found {
			return c.Respond(&tele.CallbackResponse{Text: "This word no longer exists"})
		}
		if _, err = h.wordService.ToggleStar(ctx, backend, word); err == nil {
			cards, err = h.wordService.FilteredCards(ctx, backend, userID, filter)
		}
	case cbWordDelete:
		if err = h.wordService.DeleteWord(ctx, backend, wordID); err == nil {
			h.logger.Info("Word deleted", zap.Int64("user_id", userID), zap.Int("word_id", wordID))
			cards, err = h.wordService.FilteredCards(ctx, backend, userID, filter)
		}
	}
	if err != nil {
		return h.fail(c, err, "Failed to update word card")
	}

	return h.renderCards(c, cards, page, filter)
}
