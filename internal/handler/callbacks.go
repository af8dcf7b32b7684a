package handler

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Callback data prefixes of dynamic buttons
const (
	cbWordsPage    = "wp_" // wp_<page>
	cbWordsStarred = "wf_star"
	cbWordsClear   = "wf_clear"
	cbWordUp       = "wu_" // wu_<id>_<page>
	cbWordDown     = "wd_" // wd_<id>_<page>
	cbWordStar     = "ws_" // ws_<id>_<page>
	cbWordDelete   = "wx_" // wx_<id>_<page>
	cbReviewShow   = "rs_" // rs_<id>
	cbReviewGood   = "rg_" // rg_<id>
	cbReviewBad    = "rb_" // rb_<id>
	cbTheme        = "th_" // th_<index>, th_all
	cbLevel        = "lv_" // lv_<level>
	cbL1Answer     = "la_" // la_<option>
	cbL1Next       = "l1_next"
	cbL2Term       = "mt_" // mt_<word id>
	cbL2Tr         = "mr_" // mr_<word id>
	cbCheck        = "t_check"
	cbTaskEdit     = "te_" // te_<index>
	cbRestart      = "t_again"
	cbLevels       = "t_levels"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackInts parses the underscore separated integers after prefix
func callbackInts(data, prefix string) ([]int, bool) {
	rest := strings.TrimPrefix(data, prefix)
	if rest == data || rest == "" {
		return nil, false
	}
	parts := strings.Split(rest, "_")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// If message is not modified, it means it was already edited by another callback
	// Just acknowledge and return nil - don't send new message
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	// Log the error to understand why Edit failed
	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// render edits the message of a callback, or sends a new one for commands
// and when the edit fails
func (h *Handler) render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	var opts []interface{}
	if markup != nil {
		opts = append(opts, markup)
	}
	if c.Callback() == nil {
		return c.Send(text, opts...)
	}
	if err := c.Edit(text, opts...); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, opts...)
	}
	return c.Respond()
}

// handleCallback handles ALL dynamic callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Buttons with a Unique that did not reach their own handler
	switch data {
	case "cancel":
		return h.handleCancel(c)
	case "main_menu":
		return h.handleMainMenu(c)
	}

	unlock := h.lockUser(c.Sender().ID)
	defer unlock()

	switch {
	case strings.HasPrefix(data, cbWordsPage):
		return h.handleWordsPage(c, data)
	case data == cbWordsStarred, data == cbWordsClear:
		return h.handleWordsFilter(c, data)
	case strings.HasPrefix(data, cbWordUp),
		strings.HasPrefix(data, cbWordDown),
		strings.HasPrefix(data, cbWordStar),
		strings.HasPrefix(data, cbWordDelete):
		return h.handleWordAction(c, data)
	case strings.HasPrefix(data, cbReviewShow),
		strings.HasPrefix(data, cbReviewGood),
		strings.HasPrefix(data, cbReviewBad):
		return h.handleReviewAction(c, data)
	case strings.HasPrefix(data, cbTheme):
		return h.handleThemeSelection(c, data)
	case strings.HasPrefix(data, cbLevel):
		return h.handleLevelSelection(c, data)
	case strings.HasPrefix(data, cbL1Answer):
		return h.handleLevel1Answer(c, data)
	case data == cbL1Next:
		return h.handleLevel1Next(c)
	case strings.HasPrefix(data, cbL2Term), strings.HasPrefix(data, cbL2Tr):
		return h.handleLevel2Select(c, data)
	case data == cbCheck:
		return h.handleCheck(c)
	case strings.HasPrefix(data, cbTaskEdit):
		return h.handleTaskEdit(c, data)
	case data == cbRestart:
		return h.handleRestart(c)
	case data == cbLevels:
		return h.handleLevelMenu(c)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
