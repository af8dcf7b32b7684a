package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgGenericError = "Something went wrong. Please try again later."
	msgSignIn       = "Please sign in first: send /start."
)

// Authorizer reports whether a Telegram user has a stored backend session
type Authorizer interface {
	EnsureUserExists(userID int64) error
	IsAuthorized(userID int64) (bool, error)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(auth Authorizer, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil {
				return nil
			}
			userID := c.Sender().ID

			// Ensure user exists
			if err := auth.EnsureUserExists(userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return reply(c, msgGenericError)
			}

			// Check authorization
			authorized, err := auth.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return reply(c, msgGenericError)
			}

			if !authorized {
				logger.Debug("Unauthorized update rejected", zap.Int64("user_id", userID))
				return reply(c, msgSignIn)
			}

			return next(c)
		}
	}
}

// reply answers callbacks with an alert and messages with a message
func reply(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}
