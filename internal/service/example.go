package service

import (
	"context"
	"time"

	"wordflow/internal/domain"
	"wordflow/internal/training"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ExampleService asks the backend to generate example sentences
type ExampleService struct {
	auth    *AuthService
	timeout time.Duration
	logger  *zap.Logger
}

// NewExampleService creates a new example service. Each generation request
// is bounded by timeout.
func NewExampleService(auth *AuthService, timeout time.Duration, logger *zap.Logger) *ExampleService {
	return &ExampleService{
		auth:    auth,
		timeout: timeout,
		logger:  logger,
	}
}

// Filler returns the example filler of one user
func (s *ExampleService) Filler(userID int64) training.ExampleFiller {
	return &userFiller{service: s, userID: userID}
}

type userFiller struct {
	service *ExampleService
	userID  int64
}

func (f *userFiller) FillExamples(ctx context.Context, words []domain.Word) ([]domain.Word, error) {
	if len(words) == 0 {
		return nil, nil
	}
	backend, err := f.service.auth.Backend(f.userID)
	if err != nil {
		return nil, err
	}

	if f.service.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.service.timeout)
		defer cancel()
	}

	ids := lo.Map(words, func(w domain.Word, _ int) int { return w.ID })
	updated, err := backend.GenerateExamples(ctx, ids)
	if err != nil {
		return nil, err
	}
	f.service.logger.Debug("Examples generated",
		zap.Int64("user_id", f.userID),
		zap.Int("requested", len(ids)),
		zap.Int("filled", lo.CountBy(updated, domain.Word.HasExample)),
	)
	return updated, nil
}
