package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wordflow/internal/domain"
	"wordflow/internal/training"

	"github.com/samber/lo"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// maxThemeButtons bounds the theme picker
const maxThemeButtons = 20

// handleTraining shows the theme picker
func (h *Handler) handleTraining(c tele.Context) error {
	unlock := h.lockUser(c.Sender().ID)
	defer unlock()

	themes, err := h.themes(c)
	if err != nil {
		return h.fail(c, err, "Failed to load themes")
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{markup.Row(markup.Data("All words", cbTheme+"all"))}
	for i, theme := range themes {
		rows = append(rows, markup.Row(markup.Data(
			fmt.Sprintf("%s (%d)", theme.Tag, theme.Count),
			fmt.Sprintf("%s%d", cbTheme, i),
		)))
	}
	markup.Inline(rows...)

	return h.render(c, "🎯 Training\n\nPick a theme:", markup)
}

func (h *Handler) themes(c tele.Context) ([]domain.Theme, error) {
	backend, err := h.authService.Backend(c.Sender().ID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := requestContext()
	defer cancel()

	themes, err := h.wordService.Themes(ctx, backend)
	if err != nil {
		return nil, err
	}
	if len(themes) > maxThemeButtons {
		themes = themes[:maxThemeButtons]
	}
	return themes, nil
}

// handleThemeSelection loads the words of the chosen theme
func (h *Handler) handleThemeSelection(c tele.Context, data string) error {
	userID := c.Sender().ID

	tag := ""
	if data != cbTheme+"all" {
		args, ok := callbackInts(data, cbTheme)
		if !ok || len(args) != 1 {
			return c.Respond(&tele.CallbackResponse{Text: "Invalid theme"})
		}
		themes, err := h.themes(c)
		if err != nil {
			return h.fail(c, err, "Failed to load themes")
		}
		if args[0] < 0 || args[0] >= len(themes) {
			return c.Respond(&tele.CallbackResponse{Text: "This theme no longer exists"})
		}
		tag = themes[args[0]].Tag
	}

	backend, err := h.authService.Backend(userID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := h.trainingService.LoadTheme(ctx, backend, userID, tag); err != nil {
		return h.fail(c, err, "Failed to load training words")
	}
	return h.handleLevelMenu(c)
}

// handleLevelMenu shows the level picker for the loaded word set
func (h *Handler) handleLevelMenu(c tele.Context) error {
	userID := c.Sender().ID
	h.ResetState(userID)

	theme := h.trainingService.Theme(userID)
	if theme == "" {
		theme = "all words"
	}
	var count int
	_ = h.trainingService.With(userID, func(ctrl *training.Controller) error {
		ctrl.Reset()
		count = len(ctrl.Words())
		return nil
	})

	if count == 0 {
		return h.render(c, "No words found for this theme.", nil)
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, 4)
	for _, level := range []training.Level{training.Level1, training.Level2, training.Level3, training.Level4} {
		rows = append(rows, markup.Row(markup.Data(
			fmt.Sprintf("Level %d: %s", level, level),
			fmt.Sprintf("%s%d", cbLevel, level),
		)))
	}
	markup.Inline(rows...)

	return h.render(c, fmt.Sprintf("🎯 %s: %d words\n\nChoose a level:", theme, count), markup)
}

// handleLevelSelection starts a session of the chosen level
func (h *Handler) handleLevelSelection(c tele.Context, data string) error {
	level, err := training.ParseLevel(strings.TrimPrefix(data, cbLevel))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid level"})
	}
	return h.startLevel(c, level)
}

// handleRestart starts the running level again with a fresh sample
func (h *Handler) handleRestart(c tele.Context) error {
	var level training.Level
	_ = h.trainingService.With(c.Sender().ID, func(ctrl *training.Controller) error {
		level = ctrl.Level()
		return nil
	})
	if level == 0 {
		return h.handleLevelMenu(c)
	}
	return h.startLevel(c, level)
}

func (h *Handler) startLevel(c tele.Context, level training.Level) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.trainingService.Start(ctx, userID, level); err != nil {
		if errors.Is(err, training.ErrUnknownLevel) {
			return c.Respond(&tele.CallbackResponse{Text: "Invalid level"})
		}
		return c.Respond(&tele.CallbackResponse{Text: userMessage(err), ShowAlert: true})
	}

	h.logger.Info("Training started",
		zap.Int64("user_id", userID),
		zap.Stringer("level", level),
	)

	if err := h.renderSession(c); err != nil {
		return err
	}
	if level == training.Level3 || level == training.Level4 {
		return h.askTask(c, 0)
	}
	return nil
}

// renderSession shows the running session in the callback's message
func (h *Handler) renderSession(c tele.Context) error {
	var (
		text   string
		markup *tele.ReplyMarkup
	)
	err := h.trainingService.With(c.Sender().ID, func(ctrl *training.Controller) error {
		var err error
		text, markup, err = sessionView(ctrl)
		return err
	})
	if err != nil {
		return h.fail(c, err, "Failed to render training session")
	}
	return h.render(c, text, markup)
}

// handleLevel1Answer locks the current multiple choice question
func (h *Handler) handleLevel1Answer(c tele.Context, data string) error {
	args, ok := callbackInts(data, cbL1Answer)
	if !ok || len(args) != 1 {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid option"})
	}

	err := h.trainingService.With(c.Sender().ID, func(ctrl *training.Controller) error {
		session, err := ctrl.Level1()
		if err != nil {
			return err
		}
		_, _, err = session.AnswerIndex(args[0])
		return err
	})
	if err != nil {
		return h.fail(c, err, "Failed to answer question")
	}
	return h.renderSession(c)
}

// handleLevel1Next moves to the next question, skipping the current one if unanswered
func (h *Handler) handleLevel1Next(c tele.Context) error {
	err := h.trainingService.With(c.Sender().ID, func(ctrl *training.Controller) error {
		return ctrl.Next()
	})
	if err != nil {
		return h.fail(c, err, "Failed to advance question")
	}
	return h.renderSession(c)
}

// handleLevel2Select handles a click in either matching column
func (h *Handler) handleLevel2Select(c tele.Context, data string) error {
	prefix := data[:3]
	args, ok := callbackInts(data, prefix)
	if !ok || len(args) != 1 {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid item"})
	}

	err := h.trainingService.With(c.Sender().ID, func(ctrl *training.Controller) error {
		session, err := ctrl.Level2()
		if err != nil {
			return err
		}
		if prefix == cbL2Term {
			return session.SelectTerm(args[0])
		}
		return session.SelectTranslation(args[0])
	})
	if err != nil {
		return h.fail(c, err, "Failed to select item")
	}
	return h.renderSession(c)
}

// handleCheck scores the running level 2, 3 or 4 session
func (h *Handler) handleCheck(c tele.Context) error {
	userID := c.Sender().ID

	var score training.Score
	err := h.trainingService.With(userID, func(ctrl *training.Controller) error {
		var err error
		score, err = ctrl.Check()
		return err
	})
	if err != nil {
		return h.fail(c, err, "Failed to check session")
	}

	h.ResetState(userID)
	h.logger.Info("Training checked",
		zap.Int64("user_id", userID),
		zap.Stringer("score", score),
	)
	return h.renderSession(c)
}

// handleTaskEdit asks for a new answer to one task
func (h *Handler) handleTaskEdit(c tele.Context, data string) error {
	args, ok := callbackInts(data, cbTaskEdit)
	if !ok || len(args) != 1 {
		return c.Respond(&tele.CallbackResponse{Text: "Invalid task"})
	}
	_ = c.Respond()
	return h.askTask(c, args[0])
}

// askTask prompts for the answer of task i and waits for it as text
func (h *Handler) askTask(c tele.Context, i int) error {
	userID := c.Sender().ID

	var prompt string
	err := h.trainingService.With(userID, func(ctrl *training.Controller) error {
		session, err := ctrl.Tasks()
		if err != nil {
			return err
		}
		if session.Checked() {
			return training.ErrSessionChecked
		}
		if i < 0 || i >= len(session.Tasks) {
			return fmt.Errorf("task %d: %w", i, training.ErrUnknownItem)
		}
		prompt = taskPrompt(session, i)
		return nil
	})
	if err != nil {
		return h.fail(c, err, "Failed to open task")
	}

	h.SetState(userID, &domain.StateData{State: domain.StateTrainingAnswer, TaskIndex: i})
	return c.Send(prompt)
}

// handleTaskAnswer records a typed answer and moves on to the next open task
func (h *Handler) handleTaskAnswer(c tele.Context, state *domain.StateData, text string) error {
	userID := c.Sender().ID

	next := -1
	err := h.trainingService.With(userID, func(ctrl *training.Controller) error {
		session, err := ctrl.Tasks()
		if err != nil {
			return err
		}
		if err := session.SetAnswer(state.TaskIndex, text); err != nil {
			return err
		}
		next = nextOpenTask(session, state.TaskIndex)
		return nil
	})
	if err != nil {
		h.ResetState(userID)
		return h.fail(c, err, "Failed to record answer")
	}

	if next >= 0 {
		return h.askTask(c, next)
	}

	h.ResetState(userID)
	return h.renderSession(c)
}

// nextOpenTask returns the first unanswered task after from, wrapping around,
// or -1 when every task has an answer
func nextOpenTask(session *training.TaskSession, from int) int {
	n := len(session.Tasks)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if strings.TrimSpace(session.Tasks[i].Answer) == "" {
			return i
		}
	}
	return -1
}

func taskPrompt(session *training.TaskSession, i int) string {
	task := session.Tasks[i]
	if session.Level == training.Level4 {
		return fmt.Sprintf("Task %d/%d\n\n%s\n\nType the missing word:", i+1, len(session.Tasks), task.Prompt)
	}
	return fmt.Sprintf("Task %d/%d\n\n%s\n\nType the translation:", i+1, len(session.Tasks), task.Prompt)
}

// sessionView renders the running session of ctrl
func sessionView(ctrl *training.Controller) (string, *tele.ReplyMarkup, error) {
	switch ctrl.Level() {
	case training.Level1:
		session, err := ctrl.Level1()
		if err != nil {
			return "", nil, err
		}
		text, markup := level1View(session)
		return text, markup, nil
	case training.Level2:
		session, err := ctrl.Level2()
		if err != nil {
			return "", nil, err
		}
		text, markup := level2View(session)
		return text, markup, nil
	case training.Level3, training.Level4:
		session, err := ctrl.Tasks()
		if err != nil {
			return "", nil, err
		}
		text, markup := tasksView(session)
		return text, markup, nil
	}
	return "", nil, training.ErrNoActiveSession
}

func finishedRow(markup *tele.ReplyMarkup) tele.Row {
	return markup.Row(
		markup.Data("🔄 Again", cbRestart),
		markup.Data("🎚 Levels", cbLevels),
	)
}

func level1View(session *training.Level1Session) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}

	q, ok := session.Current()
	if !ok {
		markup.Inline(finishedRow(markup))
		return fmt.Sprintf("🏁 Done! Score: %s", session.Score()), markup
	}

	text := fmt.Sprintf("Question %d/%d · score %s\n\nChoose the translation of:\n%s",
		session.Index+1, session.Total(), session.Progress(), q.Word.Term)

	rows := make([]tele.Row, 0, len(q.Choices)+1)
	for i, choice := range q.Choices {
		label := choice
		if q.Answered {
			switch {
			case choice == q.Correct:
				label = "✅ " + choice
			case choice == q.Selected:
				label = "❌ " + choice
			}
		}
		rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("%s%d", cbL1Answer, i))))
	}

	next := "⏭ Skip"
	if q.Answered {
		next = "➡️ Next"
		if q.IsCorrect() {
			text += "\n\n✅ Correct!"
		} else {
			text += "\n\n❌ Correct answer: " + q.Correct
		}
	}
	rows = append(rows, markup.Row(markup.Data(next, cbL1Next)))
	markup.Inline(rows...)
	return text, markup
}

func level2View(session *training.Level2Session) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}

	// Number pairs in term column order so both sides show the same mark
	pairs := session.Pairs()
	numbers := make(map[int]int, len(pairs))
	for _, w := range session.Terms {
		if _, ok := pairs[w.ID]; ok {
			numbers[w.ID] = len(numbers) + 1
		}
	}
	pendingTerm, hasPendingTerm := session.PendingTerm()
	pendingTr, hasPendingTr := session.PendingTranslation()

	rows := make([]tele.Row, 0, len(session.Terms)+1)
	for i := range session.Terms {
		term := session.Terms[i]
		tr := session.Translations[i]

		termLabel := term.Term
		if n, ok := numbers[term.ID]; ok {
			termLabel = fmt.Sprintf("%d. %s", n, term.Term)
			if session.Checked() {
				termLabel = lo.Ternary(pairs[term.ID] == term.ID, "✅ ", "❌ ") + termLabel
			}
		} else if hasPendingTerm && pendingTerm == term.ID {
			termLabel = "👉 " + termLabel
		}

		trLabel := tr.Translation
		if termID, ok := session.PairOfTranslation(tr.ID); ok {
			trLabel = fmt.Sprintf("%d. %s", numbers[termID], tr.Translation)
		} else if hasPendingTr && pendingTr == tr.ID {
			trLabel = "👉 " + trLabel
		}

		rows = append(rows, markup.Row(
			markup.Data(termLabel, cbL2Term+strconv.Itoa(term.ID)),
			markup.Data(trLabel, cbL2Tr+strconv.Itoa(tr.ID)),
		))
	}

	var text string
	switch {
	case session.Checked():
		text = fmt.Sprintf("🏁 Matching checked. Score: %s", session.Score())
		rows = append(rows, finishedRow(markup))
	case session.CanCheck():
		text = "All pairs matched. Tap a paired item to undo it, or check."
		rows = append(rows, markup.Row(markup.Data("✅ Check", cbCheck)))
	default:
		text = fmt.Sprintf("Match each word with its translation (%d/%d)\n\nTap a word, then its translation.", len(pairs), len(session.Terms))
	}

	markup.Inline(rows...)
	return text, markup
}

func tasksView(session *training.TaskSession) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}

	var sb strings.Builder
	if session.Level == training.Level4 {
		sb.WriteString("Fill in the context\n\n")
	} else {
		sb.WriteString("Translate the words\n\n")
	}

	for i, task := range session.Tasks {
		answer := task.Answer
		if strings.TrimSpace(answer) == "" {
			answer = "…"
		}
		mark := ""
		if task.Correct != nil {
			mark = lo.Ternary(*task.Correct, "✅ ", "❌ ")
		}
		fmt.Fprintf(&sb, "%s%d. %s → %s", mark, i+1, task.Prompt, answer)
		if task.Correct != nil && !*task.Correct {
			if session.Level == training.Level4 {
				fmt.Fprintf(&sb, " (%s / %s)", task.Term, task.Translation)
			} else {
				fmt.Fprintf(&sb, " (%s)", task.Translation)
			}
		}
		sb.WriteString("\n")
	}

	if session.Checked() {
		fmt.Fprintf(&sb, "\n🏁 Score: %s", session.Score())
		markup.Inline(finishedRow(markup))
		return sb.String(), markup
	}

	buttons := make([]tele.Btn, len(session.Tasks))
	for i := range session.Tasks {
		buttons[i] = markup.Data(fmt.Sprintf("✏️ %d", i+1), fmt.Sprintf("%s%d", cbTaskEdit, i))
	}
	rows := markup.Split(4, buttons)
	rows = append(rows, markup.Row(markup.Data("✅ Check", cbCheck)))
	markup.Inline(rows...)
	return sb.String(), markup
}
