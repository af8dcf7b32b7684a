package testutil

import (
	"context"

	"wordflow/internal/domain"
	"wordflow/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUser(userID int64) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) EnsureUserExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) SaveSession(userID int64, email, cookie string) error {
	args := m.Called(userID, email, cookie)
	return args.Error(0)
}

func (m *MockUserRepository) ClearSession(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockOrderRepository is a mock for OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) LoadOrder(key string) ([]string, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOrderRepository) SaveOrder(key string, ids []string) error {
	args := m.Called(key, ids)
	return args.Error(0)
}

// MockBackendProvider is a mock for BackendProvider
type MockBackendProvider struct {
	mock.Mock
}

func (m *MockBackendProvider) Backend(cookie string) repository.Backend {
	args := m.Called(cookie)
	return args.Get(0).(repository.Backend)
}

// MockBackend is a mock for Backend
type MockBackend struct {
	mock.Mock
}

func accountResult(args mock.Arguments) (*domain.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func wordResult(args mock.Arguments) (*domain.Word, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func wordsResult(args mock.Arguments) ([]domain.Word, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, email, password))
}

func (m *MockBackend) Register(ctx context.Context, email, password string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, email, password))
}

func (m *MockBackend) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBackend) Me(ctx context.Context) (*domain.Account, error) {
	return accountResult(m.Called(ctx))
}

func (m *MockBackend) Profile(ctx context.Context) (*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockBackend) ListWords(ctx context.Context, q domain.WordQuery) ([]domain.Word, error) {
	return wordsResult(m.Called(ctx, q))
}

func (m *MockBackend) CreateWord(ctx context.Context, in domain.WordInput) (*domain.Word, error) {
	return wordResult(m.Called(ctx, in))
}

func (m *MockBackend) UpdateWord(ctx context.Context, id int, in domain.WordInput) (*domain.Word, error) {
	return wordResult(m.Called(ctx, id, in))
}

func (m *MockBackend) DeleteWord(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) Themes(ctx context.Context) ([]domain.Theme, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Theme), args.Error(1)
}

func (m *MockBackend) GenerateExamples(ctx context.Context, ids []int) ([]domain.Word, error) {
	return wordsResult(m.Called(ctx, ids))
}

func (m *MockBackend) ReviewToday(ctx context.Context, limit int) ([]domain.Word, error) {
	return wordsResult(m.Called(ctx, limit))
}

func (m *MockBackend) Review(ctx context.Context, id int, result domain.ReviewResult) (*domain.Word, error) {
	return wordResult(m.Called(ctx, id, result))
}

func (m *MockBackend) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

func (m *MockBackend) StatsSeries(ctx context.Context, rng string) (*domain.Series, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Series), args.Error(1)
}

func (m *MockBackend) Cookie() string {
	args := m.Called()
	return args.String(0)
}

// MockExampleFiller is a mock for training.ExampleFiller
type MockExampleFiller struct {
	mock.Mock
}

func (m *MockExampleFiller) FillExamples(ctx context.Context, words []domain.Word) ([]domain.Word, error) {
	args := m.Called(ctx, words)
	if fn, ok := args.Get(0).(func(context.Context, []domain.Word) []domain.Word); ok {
		return fn(ctx, words), args.Error(1)
	}
	return wordsResult(args)
}
