package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/target/blogger-api/internal/core"
	"github.com/target/blogger-api/internal/domain/model"
	apperrors "github.com/target/blogger-api/internal/errors"
)

// WellnessServiceOptions groups dependencies for WellnessService.
type WellnessServiceOptions struct {
	Repo   core.WellnessRepository
	Users  core.UserRepository
	Logger *slog.Logger
}

// WellnessService records private check-ins and produces the anonymized aggregate.
type WellnessService struct {
	repo   core.WellnessRepository
	users  core.UserRepository
	logger *slog.Logger
}

// NewWellnessService constructs a new WellnessService.
func NewWellnessService(opts WellnessServiceOptions) *WellnessService {
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "wellness_service")
	}
	return &WellnessService{repo: opts.Repo, users: opts.Users, logger: logger}
}

// Create validates and stores a check-in for req.UserID.
func (s *WellnessService) Create(ctx context.Context, req *model.CreateWellnessRequest) (*model.WellnessCheckin, error) {
	if req == nil {
		return nil, apperrors.Validation("request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	checkin, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create wellness checkin: %w", err)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "wellness checkin recorded", "id", checkin.ID)
	}
	return checkin, nil
}

// WellnessPage is one page of a user's own check-ins.
type WellnessPage struct {
	Items []*model.WellnessCheckin
	Total int
}

// ListOwn returns the caller's check-ins, newest first. Other users' records are never visible.
func (s *WellnessService) ListOwn(ctx context.Context, opts model.WellnessListOptions) (*WellnessPage, error) {
	if opts.UserID == "" {
		return nil, apperrors.Unauthorized(ReasonNoToken)
	}

	var page WellnessPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.ListByUser(gctx, opts)
		if err != nil {
			return fmt.Errorf("list wellness checkins: %w", err)
		}
		page.Items = items
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.CountByUser(gctx, opts.UserID)
		if err != nil {
			return fmt.Errorf("count wellness checkins: %w", err)
		}
		page.Total = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &page, nil
}

// Aggregate computes organisation-wide totals without exposing any individual record.
func (s *WellnessService) Aggregate(ctx context.Context) (*model.WellnessAggregate, error) {
	var (
		stats      core.WellnessStats
		moods      []model.MoodCount
		totalUsers int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.repo.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		moods, err = s.repo.MoodDistribution(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totalUsers, err = s.users.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate wellness: %w", err)
	}

	dist := make(map[model.Mood]int, len(model.Moods()))
	for _, m := range model.Moods() {
		dist[m] = 0
	}
	for _, mc := range moods {
		dist[mc.Mood] = mc.Count
	}

	rate := 0
	if totalUsers > 0 {
		rate = int(math.Round(float64(stats.UsersWithCheckins) / float64(totalUsers) * 100))
	}

	return &model.WellnessAggregate{
		TotalCheckins:     stats.TotalCheckins,
		AvgStress:         math.Round(stats.AvgStress*100) / 100,
		MoodDistribution:  dist,
		ParticipationRate: rate,
		TotalUsers:        totalUsers,
		UsersWithCheckins: stats.UsersWithCheckins,
	}, nil
}
