package testutil

import (
	"fmt"
	"time"

	"wordflow/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	user := &domain.User{
		UserID:     userID,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
	if authorized {
		user.Email = "user@example.com"
		user.SessionCookie = "session=abc"
	}
	return user
}

// NewTestWord creates a test word
func NewTestWord(id int, term, translation string) domain.Word {
	return domain.Word{
		ID:          id,
		Term:        term,
		Translation: translation,
		CreatedAt:   time.Now(),
	}
}

// NewTestWords creates n words with distinct terms and translations
func NewTestWords(n int) []domain.Word {
	words := make([]domain.Word, n)
	for i := range words {
		words[i] = NewTestWord(i+1, fmt.Sprintf("term%d", i+1), fmt.Sprintf("translation%d", i+1))
	}
	return words
}
