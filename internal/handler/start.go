package handler

import (
	"context"
	"errors"
	"time"

	"wordflow/internal/domain"
	"wordflow/internal/repository"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// requestTimeout bounds the backend calls made for one update
const requestTimeout = 30 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(msgGenericError)
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgGenericError)
	}

	if authorized {
		account, err := h.currentAccount(userID)
		switch {
		case err == nil:
			h.ResetState(userID)
			return c.Send("👋 Signed in as "+account.Email+"\n\n"+mainMenuText, mainMenuMarkup())
		case !errors.Is(err, repository.ErrUnauthorized):
			h.logger.Error("Failed to verify session", zap.Error(err))
			return c.Send(msgGenericError)
		}
		if err := h.authService.Expire(userID); err != nil {
			h.logger.Error("Failed to clear expired session", zap.Error(err))
		}
	}

	// Request credentials
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingEmail})
	return c.Send("Welcome to WordFlow!\n\nSend your email to sign in, or /register to create an account.", tele.RemoveKeyboard)
}

func (h *Handler) currentAccount(userID int64) (*domain.Account, error) {
	backend, err := h.authService.Backend(userID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := requestContext()
	defer cancel()
	return backend.Me(ctx)
}

// handleRegister handles /register command
func (h *Handler) handleRegister(c tele.Context) error {
	userID := c.Sender().ID

	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(msgGenericError)
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingEmail, Register: true})
	return c.Send("Let's create your account. Send your email:", tele.RemoveKeyboard)
}

// handleLogout handles /logout command
func (h *Handler) handleLogout(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.authService.Logout(ctx, userID); err != nil {
		h.logger.Error("Failed to log out", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(msgGenericError)
	}
	h.trainingService.Drop(userID)
	h.ResetState(userID)

	h.logger.Info("User logged out", zap.Int64("user_id", userID))
	return c.Send("You are signed out. Send /start to sign in again.", tele.RemoveKeyboard)
}

// handleCredentials handles the email and password steps of sign-in and sign-up
func (h *Handler) handleCredentials(c tele.Context, state *domain.StateData, text string) error {
	userID := c.Sender().ID

	if state.State == domain.StateWaitingEmail {
		h.SetState(userID, &domain.StateData{
			State:    domain.StateWaitingPassword,
			Email:    text,
			Register: state.Register,
		})
		return c.Send("Now send your password:")
	}

	// The password should not stay in the chat history
	if err := c.Delete(); err != nil {
		h.logger.Debug("Failed to delete password message", zap.Error(err))
	}

	ctx, cancel := requestContext()
	defer cancel()

	var (
		account *domain.Account
		err     error
	)
	if state.Register {
		account, err = h.authService.Register(ctx, userID, state.Email, text)
	} else {
		account, err = h.authService.Login(ctx, userID, state.Email, text)
	}
	if err != nil {
		h.logger.Info("Sign-in rejected", zap.Int64("user_id", userID), zap.Error(err))
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingEmail, Register: state.Register})

		msg := "Invalid email or password."
		if !errors.Is(err, repository.ErrUnauthorized) {
			msg = userMessage(err)
		}
		return c.Send(msg + "\n\nSend your email to try again.")
	}

	h.logger.Info("User authorized", zap.Int64("user_id", userID), zap.Int("account_id", account.ID))
	h.ResetState(userID)
	return c.Send("✅ Signed in as "+account.Email+"\n\n"+mainMenuText, mainMenuMarkup())
}

// handleMainMenu shows the main menu
func (h *Handler) handleMainMenu(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(mainMenuText, mainMenuMarkup())
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	h.ResetState(userID)

	if err := c.Edit("Cancelled."); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
	} else {
		_ = c.Respond()
	}
	return c.Send(mainMenuText, mainMenuMarkup())
}
