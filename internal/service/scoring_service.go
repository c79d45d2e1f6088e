package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/models"
	"github.com/noah-isme/confsched-api/internal/scheduling"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
	"github.com/noah-isme/confsched-api/pkg/jobs"
)

type assignmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ListAssignments(ctx context.Context, scheduleID string) ([]models.ScheduledSession, error)
	UpdateBadness(ctx context.Context, rows []models.ScheduledSession) error
}

type roomReader interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Room, error)
}

type timeslotLister interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]models.TimeSlot, error)
}

type sessionLister interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Session, error)
}

type constraintLister interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Constraint, error)
}

// rescoreJobType labels queued full-rescore jobs.
const rescoreJobType = "schedule.rescore"

// ScoringService runs the badness engine over persisted schedules: full
// reports with per-session breakdowns, cached in Redis, and incremental
// what-if probes. Full reports also write the per-row costs back so the
// grid UI shows them without re-scoring.
type ScoringService struct {
	schedules   assignmentStore
	rooms       roomReader
	slots       timeslotLister
	sessions    sessionLister
	constraints constraintLister
	settings    scheduling.Settings
	cache       *CacheService
	cacheTTL    time.Duration
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger

	rescores *jobs.Queue
}

// NewScoringService constructs ScoringService.
func NewScoringService(schedules assignmentStore, rooms roomReader, slots timeslotLister, sessions sessionLister, constraints constraintLister, settings scheduling.Settings, cache *CacheService, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScoringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		schedules:   schedules,
		rooms:       rooms,
		slots:       slots,
		sessions:    sessions,
		constraints: constraints,
		settings:    settings,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// StartRescoreQueue wires the async rescore workers. Jobs carry a schedule
// ID and run a full scoring pass, refreshing both the row bookkeeping and
// the cache.
func (s *ScoringService) StartRescoreQueue(ctx context.Context, workers int) {
	s.rescores = jobs.NewQueue("rescore", func(ctx context.Context, job jobs.Job) error {
		scheduleID, ok := job.Payload.(string)
		if !ok {
			s.logger.Error("rescore job has no schedule id", zap.String("key", job.Key))
			return nil
		}
		_, err := s.Score(ctx, scheduleID, true)
		return err
	}, jobs.QueueConfig{Workers: workers, Logger: s.logger})
	s.rescores.Start(ctx)
}

// StopRescoreQueue drains the async workers.
func (s *ScoringService) StopRescoreQueue() {
	if s.rescores != nil {
		s.rescores.Stop()
	}
}

// EnqueueRescore schedules an async full rescore of one schedule.
func (s *ScoringService) EnqueueRescore(scheduleID string) error {
	if s.rescores == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "rescore queue not started")
	}
	return s.rescores.Enqueue(jobs.Job{Key: scheduleID, Type: rescoreJobType, Payload: scheduleID})
}

// buildRun assembles the immutable scoring inputs of one meeting.
func (s *ScoringService) buildRun(ctx context.Context, meetingID string) (*scheduling.Run, error) {
	rooms, err := s.rooms.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	slots, err := s.slots.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	sessions, err := s.sessions.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	constraints, err := s.constraints.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	run, err := scheduling.NewRun(s.settings, meetingID, rooms, slots, sessions, constraints)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "scoring inputs are inconsistent")
	}
	return run, nil
}

// loadRun loads one schedule together with its scoring run and indexed
// assignment.
func (s *ScoringService) loadRun(ctx context.Context, scheduleID string) (*models.Schedule, *scheduling.Run, *scheduling.Assignment, []models.ScheduledSession, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	run, err := s.buildRun(ctx, schedule.MeetingID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	rows, err := s.schedules.ListAssignments(ctx, scheduleID)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	assignment, err := run.BuildAssignment(rows)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "assignment rows are inconsistent")
	}
	return schedule, run, assignment, rows, nil
}

// Score runs a full scoring pass over one schedule. Unless force is set, a
// fresh cached report is returned as-is. A fresh pass persists the per-row
// badness and refreshes the cache.
func (s *ScoringService) Score(ctx context.Context, scheduleID string, force bool) (*dto.BadnessReport, error) {
	key := s.cache.BadnessKey(scheduleID)
	if !force {
		var cached dto.BadnessReport
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	start := time.Now()
	_, run, assignment, _, err := s.loadRun(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	stats := scheduling.Stats{}
	total, perSession, err := run.ScoreBreakdown(assignment, &stats)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "scoring failed")
	}

	report := &dto.BadnessReport{
		ScheduleID: scheduleID,
		Total:      total,
		Stats:      stats,
		ComputedAt: time.Now().UTC(),
	}
	for id, session := range run.Sessions() {
		entry := dto.SessionBadnessReport{SessionID: id, Group: session.Group, Badness: perSession[id]}
		placements := assignment.SessionPlacements(id)
		entry.Placed = len(placements) > 0
		for _, row := range placements {
			entry.TimeSlotIDs = append(entry.TimeSlotIDs, row.TimeSlotID)
		}
		report.Sessions = append(report.Sessions, entry)
	}
	sort.Slice(report.Sessions, func(i, j int) bool {
		if report.Sessions[i].Group != report.Sessions[j].Group {
			return report.Sessions[i].Group < report.Sessions[j].Group
		}
		return report.Sessions[i].SessionID < report.Sessions[j].SessionID
	})

	placed := make([]models.ScheduledSession, 0, len(assignment.Rows()))
	for _, row := range assignment.Rows() {
		placed = append(placed, *row)
	}
	if err := s.schedules.UpdateBadness(ctx, placed); err != nil {
		s.logger.Warn("failed to persist row badness", zap.String("schedule_id", scheduleID), zap.Error(err))
	}

	_ = s.cache.Set(ctx, key, report, s.cacheTTL)
	s.metrics.ObserveScoring("full", stats, time.Since(start))
	s.logger.Info("schedule scored",
		zap.String("schedule_id", scheduleID),
		zap.Int("total", total),
		zap.Int("sessions", stats.SessionsScored),
		zap.Duration("took", time.Since(start)))
	return report, nil
}

// WhatIf answers "what would this one placement cost right now" with the
// incremental scorer, without touching the schedule. An empty timeslot ID
// asks for the cost of leaving the session unplaced.
func (s *ScoringService) WhatIf(ctx context.Context, scheduleID string, req dto.WhatIfRequest) (*dto.WhatIfResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid what-if payload")
	}
	start := time.Now()
	_, run, assignment, _, err := s.loadRun(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if _, ok := run.Session(req.SessionID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session is not schedulable in this meeting")
	}

	// The hypothetical state has the probed session lifted out, so its
	// current placement does not conflict with the candidate.
	placements := assignment.Placements()
	delete(placements, req.SessionID)

	stats := scheduling.Stats{}
	badness, err := run.FastBadness(req.SessionID, req.TimeSlotID, placements, &stats)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "what-if evaluation failed")
	}
	s.metrics.ObserveScoring("whatif", stats, time.Since(start))
	return &dto.WhatIfResponse{
		SessionID:  req.SessionID,
		TimeSlotID: req.TimeSlotID,
		Badness:    badness,
		Stats:      stats,
	}, nil
}
