package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wordflow/internal/domain"
	"wordflow/internal/testutil"
	"wordflow/internal/training"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrainingService() *TrainingService {
	return NewTrainingService(nil, 42, testutil.NewTestLogger())
}

func TestTrainingService_LoadThemeAndStart(t *testing.T) {
	ctx := context.Background()
	mockBackend := new(testutil.MockBackend)
	mockBackend.On("ListWords", ctx, domain.WordQuery{Tag: "food", Limit: themeWordLimit}).Return(testutil.NewTestWords(10), nil)

	service := newTestTrainingService()

	n, err := service.LoadTheme(ctx, mockBackend, 123, "food")
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "food", service.Theme(123))

	require.NoError(t, service.Start(ctx, 123, training.Level2))

	err = service.With(123, func(c *training.Controller) error {
		assert.Equal(t, training.Level2, c.Level())
		assert.NotEmpty(t, c.SessionID())
		return nil
	})
	assert.NoError(t, err)
}

func TestTrainingService_StartWithoutWords(t *testing.T) {
	service := newTestTrainingService()

	err := service.Start(context.Background(), 123, training.Level1)

	assert.True(t, errors.Is(err, training.ErrNotEnoughWords))
	_ = service.With(123, func(c *training.Controller) error {
		assert.False(t, c.Active())
		return nil
	})
}

func TestTrainingService_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	mockBackend := new(testutil.MockBackend)
	mockBackend.On("ListWords", ctx, domain.WordQuery{Limit: themeWordLimit}).Return(testutil.NewTestWords(8), nil)

	service := newTestTrainingService()

	_, err := service.LoadTheme(ctx, mockBackend, 1, "")
	require.NoError(t, err)

	_ = service.With(2, func(c *training.Controller) error {
		assert.Empty(t, c.Words())
		return nil
	})
	_ = service.With(1, func(c *training.Controller) error {
		assert.Len(t, c.Words(), 8)
		return nil
	})
}

func TestTrainingService_SweepIdle(t *testing.T) {
	service := newTestTrainingService()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	_ = service.With(1, func(*training.Controller) error { return nil })
	now = now.Add(2 * time.Hour)
	_ = service.With(2, func(*training.Controller) error { return nil })

	swept := service.SweepIdle(time.Hour)

	assert.Equal(t, 1, swept)
	assert.Equal(t, 1, service.ActiveUsers())
	assert.Contains(t, service.entries, int64(2))
}

func TestTrainingService_Drop(t *testing.T) {
	service := newTestTrainingService()
	_ = service.With(1, func(*training.Controller) error { return nil })

	service.Drop(1)

	assert.Empty(t, service.entries)
}
