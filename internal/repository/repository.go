package repository

import (
	"context"
	"errors"

	"wordflow/internal/domain"
)

// ErrUnauthorized is returned when the backend session is missing or expired
var ErrUnauthorized = errors.New("not authenticated")

// UserRepository defines bot user data operations
type UserRepository interface {
	GetUser(userID int64) (*domain.User, error)
	IsAuthorized(userID int64) (bool, error)
	EnsureUserExists(userID int64) error
	SaveSession(userID int64, email, cookie string) error
	ClearSession(userID int64) error
}

// OrderRepository stores item orderings by storage key
type OrderRepository interface {
	LoadOrder(key string) ([]string, error)
	SaveOrder(key string, ids []string) error
}

// Backend defines the WordFlow REST operations available to one session
type Backend interface {
	Login(ctx context.Context, email, password string) (*domain.Account, error)
	Register(ctx context.Context, email, password string) (*domain.Account, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.Account, error)
	Profile(ctx context.Context) (*domain.Profile, error)

	ListWords(ctx context.Context, q domain.WordQuery) ([]domain.Word, error)
	CreateWord(ctx context.Context, in domain.WordInput) (*domain.Word, error)
	UpdateWord(ctx context.Context, id int, in domain.WordInput) (*domain.Word, error)
	DeleteWord(ctx context.Context, id int) error
	Themes(ctx context.Context) ([]domain.Theme, error)
	GenerateExamples(ctx context.Context, ids []int) ([]domain.Word, error)

	ReviewToday(ctx context.Context, limit int) ([]domain.Word, error)
	Review(ctx context.Context, id int, result domain.ReviewResult) (*domain.Word, error)

	Stats(ctx context.Context) (*domain.Stats, error)
	StatsSeries(ctx context.Context, rng string) (*domain.Series, error)

	// Cookie returns the serialized session cookies of this backend session
	Cookie() string
}

// BackendProvider opens a backend session from serialized cookies
type BackendProvider interface {
	Backend(cookie string) Backend
}
