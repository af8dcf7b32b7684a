package service

import (
	"context"
	"sync"
	"time"

	"wordflow/internal/domain"
	"wordflow/internal/repository"
	"wordflow/internal/training"

	"go.uber.org/zap"
)

// themeWordLimit bounds the word set loaded for one training theme
const themeWordLimit = 2000

type trainingEntry struct {
	mu         sync.Mutex
	controller *training.Controller
	theme      string
	lastUsed   time.Time
}

// TrainingService keeps one training controller per user. Calls for the same
// user are serialized; different users run in parallel.
type TrainingService struct {
	mu      sync.Mutex
	entries map[int64]*trainingEntry

	examples *ExampleService
	seed     int64
	logger   *zap.Logger
	now      func() time.Time
}

// NewTrainingService creates a new training service. A non-zero seed makes
// every user's sampler deterministic.
func NewTrainingService(examples *ExampleService, seed int64, logger *zap.Logger) *TrainingService {
	return &TrainingService{
		entries:  make(map[int64]*trainingEntry),
		examples: examples,
		seed:     seed,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TrainingService) entry(userID int64) *trainingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		sampler := training.NewSampler(nil)
		if s.seed != 0 {
			sampler = training.NewSeededSampler(s.seed + userID)
		}
		var filler training.ExampleFiller
		if s.examples != nil {
			filler = s.examples.Filler(userID)
		}
		e = &trainingEntry{controller: training.NewController(sampler, filler, s.logger)}
		s.entries[userID] = e
	}
	e.lastUsed = s.now()
	return e
}

// LoadTheme loads the words tagged with tag, or every word when tag is empty,
// and discards any running session
func (s *TrainingService) LoadTheme(ctx context.Context, backend repository.Backend, userID int64, tag string) (int, error) {
	words, err := backend.ListWords(ctx, domain.WordQuery{Tag: tag, Limit: themeWordLimit})
	if err != nil {
		return 0, err
	}

	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.controller.Load(words)
	e.theme = tag

	s.logger.Info("Training theme loaded",
		zap.Int64("user_id", userID),
		zap.String("theme", tag),
		zap.Int("words", len(words)),
	)
	return len(words), nil
}

// Start begins a session of level on the loaded word set
func (s *TrainingService) Start(ctx context.Context, userID int64, level training.Level) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.controller.Start(ctx, level); err != nil {
		s.logger.Info("Training start rejected",
			zap.Int64("user_id", userID),
			zap.Stringer("level", level),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// With runs fn on the user's controller under the user's lock
func (s *TrainingService) With(userID int64, fn func(c *training.Controller) error) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.controller)
}

// Theme returns the theme loaded for the user
func (s *TrainingService) Theme(userID int64) string {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme
}

// ActiveUsers returns how many users hold training state
func (s *TrainingService) ActiveUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Drop forgets the user's training state
func (s *TrainingService) Drop(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// SweepIdle forgets training state unused for longer than maxIdle and
// returns how many users were swept
func (s *TrainingService) SweepIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	swept := 0
	for userID, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, userID)
			swept++
		}
	}
	if swept > 0 {
		s.logger.Info("Idle training sessions swept", zap.Int("count", swept))
	}
	return swept
}
