package service

import (
	"context"

	"wordflow/internal/domain"
	"wordflow/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SeriesRange is the period of the activity series shown with the stats
const SeriesRange = "7d"

// starredPreview bounds the starred words listed on the profile
const starredPreview = 10

// Summary combines the counters with the recent activity series
type Summary struct {
	Stats  domain.Stats
	Series domain.Series
}

// ProfileView is everything shown on the profile screen
type ProfileView struct {
	Account domain.Account
	Profile domain.Profile
	Starred []domain.Word
}

// StatsService assembles statistics and profile views
type StatsService struct {
	logger *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(logger *zap.Logger) *StatsService {
	return &StatsService{logger: logger}
}

// Summary fetches the stats and the activity series in parallel
func (s *StatsService) Summary(ctx context.Context, backend repository.Backend) (*Summary, error) {
	var summary Summary

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := backend.Stats(ctx)
		if err != nil {
			return err
		}
		summary.Stats = *stats
		return nil
	})
	g.Go(func() error {
		series, err := backend.StatsSeries(ctx, SeriesRange)
		if err != nil {
			return err
		}
		summary.Series = *series
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Failed to load stats", zap.Error(err))
		return nil, err
	}
	return &summary, nil
}

// Profile fetches the account, the profile counters and the starred words in parallel
func (s *StatsService) Profile(ctx context.Context, backend repository.Backend) (*ProfileView, error) {
	var view ProfileView

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		account, err := backend.Me(ctx)
		if err != nil {
			return err
		}
		view.Account = *account
		return nil
	})
	g.Go(func() error {
		profile, err := backend.Profile(ctx)
		if err != nil {
			return err
		}
		view.Profile = *profile
		return nil
	})
	g.Go(func() error {
		starred, err := backend.ListWords(ctx, domain.WordQuery{Starred: true, Limit: starredPreview})
		if err != nil {
			return err
		}
		view.Starred = starred
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Failed to load profile", zap.Error(err))
		return nil, err
	}
	return &view, nil
}
