package domain

import "time"

// User represents a bot user linked to a backend account
type User struct {
	UserID        int64
	Email         string
	SessionCookie string
	Authorized    bool
	CreatedAt     time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingEmail       UserState = "waiting_email"
	StateWaitingPassword    UserState = "waiting_password"
	StateWaitingWord        UserState = "waiting_word"
	StateWaitingTranslation UserState = "waiting_translation"
	StateTrainingAnswer     UserState = "training_answer"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State       UserState
	CurrentWord string
	Email       string
	Register    bool // sign-up instead of sign-in
	TaskIndex   int
	MessageID   int // For editing messages
}
