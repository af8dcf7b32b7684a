package service

import (
	"context"

	"wordflow/internal/domain"
	"wordflow/internal/repository"

	"go.uber.org/zap"
)

// reviewBatch is how many due words are fetched per review round
const reviewBatch = 50

// ReviewService handles spaced-repetition reviews
type ReviewService struct {
	logger *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(logger *zap.Logger) *ReviewService {
	return &ReviewService{logger: logger}
}

// DueWords returns the words due for review today
func (s *ReviewService) DueWords(ctx context.Context, backend repository.Backend) ([]domain.Word, error) {
	return backend.ReviewToday(ctx, reviewBatch)
}

// Grade records a review result and returns the rescheduled word
func (s *ReviewService) Grade(ctx context.Context, backend repository.Backend, wordID int, good bool) (*domain.Word, error) {
	result := domain.ReviewBad
	if good {
		result = domain.ReviewGood
	}
	word, err := backend.Review(ctx, wordID, result)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Word reviewed",
		zap.Int("word_id", wordID),
		zap.String("result", string(result)),
		zap.Int("stage", word.Stage),
	)
	return word, nil
}
