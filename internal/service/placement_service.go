package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/scheduling"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
)

type placementScheduleStore interface {
	ReplaceAssignments(ctx context.Context, tx *sqlx.Tx, scheduleID string, placements map[string][]string) error
}

// PlacementService runs the local-search optimizer over a schedule and,
// unless asked for a dry run, commits the improved assignment in one
// transaction. Pinned rows survive untouched.
type PlacementService struct {
	scoring        *ScoringService
	schedules      placementScheduleStore
	tx             txProvider
	cache          *CacheService
	maxEvaluations int
	metrics        *MetricsService
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewPlacementService constructs PlacementService.
func NewPlacementService(scoring *ScoringService, schedules placementScheduleStore, tx txProvider, cache *CacheService, maxEvaluations int, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PlacementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{
		scoring:        scoring,
		schedules:      schedules,
		tx:             tx,
		cache:          cache,
		maxEvaluations: maxEvaluations,
		metrics:        metrics,
		validator:      validate,
		logger:         logger,
	}
}

// Optimize improves one schedule's placements. The search never moves
// pinned rows; the caller's owner must match the schedule's.
func (s *PlacementService) Optimize(ctx context.Context, scheduleID string, req dto.OptimizeRequest) (*dto.OptimizeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimize payload")
	}
	start := time.Now()
	schedule, run, assignment, _, err := s.scoring.loadRun(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Owner != req.Owner {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owner may optimize a schedule")
	}

	maxEvaluations := req.MaxEvaluations
	if maxEvaluations <= 0 {
		maxEvaluations = s.maxEvaluations
	}
	result := run.Optimize(assignment, scheduling.OptimizeOptions{MaxEvaluations: maxEvaluations})

	committed := false
	if !req.DryRun && result.Moves > 0 {
		placements := make(map[string][]string, len(result.Placements))
		for sessionID, slots := range result.Placements {
			placements[sessionID] = slots
		}
		tx, err := s.tx.BeginTxx(ctx, nil)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
		}
		if err := s.schedules.ReplaceAssignments(ctx, tx, scheduleID, placements); err != nil {
			_ = tx.Rollback()
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit placements")
		}
		if err := tx.Commit(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit placements")
		}
		committed = true
		_ = s.cache.InvalidateBadness(ctx, scheduleID)
	}

	s.metrics.ObserveScoring("optimize", result.Stats, time.Since(start))
	s.metrics.ObserveOptimizerMoves(result.Moves)
	s.logger.Info("schedule optimized",
		zap.String("schedule_id", scheduleID),
		zap.Int("before", result.Before),
		zap.Int("after", result.After),
		zap.Int("moves", result.Moves),
		zap.Int("evaluations", result.Evaluations),
		zap.Bool("committed", committed),
		zap.Duration("took", time.Since(start)))

	return &dto.OptimizeResponse{
		ScheduleID:  scheduleID,
		Before:      result.Before,
		After:       result.After,
		Sweeps:      result.Sweeps,
		Moves:       result.Moves,
		Evaluations: result.Evaluations,
		Committed:   committed,
		Stats:       result.Stats,
	}, nil
}
