package handler

import (
	"errors"

	"wordflow/internal/api"
	"wordflow/internal/repository"
	"wordflow/internal/service"
	"wordflow/internal/training"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgGenericError = "Something went wrong. Please try again later."
	msgSignIn       = "Please sign in first: send /start."
	msgExpired      = "Your session has expired. Send /start to sign in again."
)

// userMessage turns an error into text that can be shown to the user
func userMessage(err error) string {
	var apiErr *api.Error
	switch {
	case errors.Is(err, repository.ErrUnauthorized):
		return msgExpired
	case errors.Is(err, service.ErrEmptyWord):
		return "Both the word and its translation are needed."
	case errors.Is(err, training.ErrNoTranslation):
		return "Some words in this set have no translation. Fix them first."
	case errors.Is(err, training.ErrNotEnoughDistractors):
		return "This level needs at least 4 different translations in the set."
	case errors.Is(err, training.ErrNotEnoughWords):
		return "Not enough words for this level. Add more words or pick another theme."
	case errors.Is(err, training.ErrIncompleteMatching):
		return "Match every pair before checking."
	case errors.Is(err, training.ErrSessionChecked):
		return "Already checked. Start again to play once more."
	case errors.Is(err, training.ErrSessionComplete):
		return "This round is over."
	case errors.Is(err, training.ErrNoActiveSession):
		return "No training is running. Open 🎯 Training to start one."
	case errors.As(err, &apiErr) && apiErr.Detail != "":
		return apiErr.Detail
	default:
		return msgGenericError
	}
}

// fail logs err and tells the user what went wrong. A rejected session is
// forgotten so the next /start asks for credentials again.
func (h *Handler) fail(c tele.Context, err error, action string) error {
	userID := c.Sender().ID
	if errors.Is(err, repository.ErrUnauthorized) {
		if expireErr := h.authService.Expire(userID); expireErr != nil {
			h.logger.Error("Failed to clear expired session", zap.Error(expireErr))
		}
		h.trainingService.Drop(userID)
		h.ResetState(userID)
	} else {
		h.logger.Warn(action,
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	text := userMessage(err)
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}
