package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/models"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
)

type scheduleRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindByOwnerName(ctx context.Context, meetingID, owner, name string) (*models.Schedule, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Schedule, error)
	Delete(ctx context.Context, id string) error
	InsertAssignments(ctx context.Context, exec sqlx.ExtContext, rows []models.ScheduledSession) error
	ListAssignments(ctx context.Context, scheduleID string) ([]models.ScheduledSession, error)
	MissingTimeSlotIDs(ctx context.Context, scheduleID, meetingID string) ([]string, error)
	PlaceSession(ctx context.Context, scheduleID, timeslotID string, sessionID *string, pinned bool) error
}

type meetingAgendaStore interface {
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
	SetAgenda(ctx context.Context, meetingID string, scheduleID *string) error
}

type timeslotReader interface {
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]models.TimeSlot, error)
}

type sessionReader interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
}

// ScheduleService manages the lifecycle of schedules and the hand editing
// of their assignments. Mutations go through the owner check: only the
// schedule's owner edits it in place, everyone else copies first.
type ScheduleService struct {
	schedules scheduleRepository
	meetings  meetingAgendaStore
	slots     timeslotReader
	sessions  sessionReader
	tx        txProvider
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(schedules scheduleRepository, meetings meetingAgendaStore, slots timeslotReader, sessions sessionReader, tx txProvider, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{schedules: schedules, meetings: meetings, slots: slots, sessions: sessions, tx: tx, cache: cache, validator: validate, logger: logger}
}

// CreateSchedule opens a new named assignment with one empty row per
// meeting timeslot, so the grid is complete from the start.
func (s *ScheduleService) CreateSchedule(ctx context.Context, meetingID string, req dto.CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	if _, err := s.schedules.FindByOwnerName(ctx, meetingID, req.Owner, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "schedule "+req.Owner+"/"+req.Name+" already exists")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule name")
	}

	slots, err := s.slots.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}

	schedule := &models.Schedule{
		MeetingID: meetingID,
		Owner:     req.Owner,
		Name:      req.Name,
		Visible:   req.Visible,
		Public:    req.Public,
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.schedules.Create(ctx, tx, schedule); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	rows := make([]models.ScheduledSession, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, models.ScheduledSession{ScheduleID: schedule.ID, TimeSlotID: slot.ID})
	}
	if err := s.schedules.InsertAssignments(ctx, tx, rows); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to materialize schedule rows")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule")
	}
	return schedule, nil
}

// GetSchedule loads one schedule.
func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// ListSchedules returns a meeting's schedules.
func (s *ScheduleService) ListSchedules(ctx context.Context, meetingID string) ([]models.Schedule, error) {
	schedules, err := s.schedules.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// ListAssignments returns every row of one schedule, placeholders included.
func (s *ScheduleService) ListAssignments(ctx context.Context, scheduleID string) ([]models.ScheduledSession, error) {
	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	rows, err := s.schedules.ListAssignments(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return rows, nil
}

// CopySchedule clones a schedule, assignments and pins included, under a
// new owner and name. Copying is how anyone who is not the owner starts
// experimenting.
func (s *ScheduleService) CopySchedule(ctx context.Context, sourceID string, req dto.CopyScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}
	source, err := s.GetSchedule(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.schedules.FindByOwnerName(ctx, source.MeetingID, req.Owner, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "schedule "+req.Owner+"/"+req.Name+" already exists")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule name")
	}
	sourceRows, err := s.schedules.ListAssignments(ctx, sourceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source assignments")
	}

	clone := &models.Schedule{
		MeetingID: source.MeetingID,
		Owner:     req.Owner,
		Name:      req.Name,
		Visible:   source.Visible,
		Public:    false,
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.schedules.Create(ctx, tx, clone); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule copy")
	}
	rows := make([]models.ScheduledSession, 0, len(sourceRows))
	for _, row := range sourceRows {
		rows = append(rows, models.ScheduledSession{
			ScheduleID: clone.ID,
			TimeSlotID: row.TimeSlotID,
			SessionID:  row.SessionID,
			Pinned:     row.Pinned,
		})
	}
	if err := s.schedules.InsertAssignments(ctx, tx, rows); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy assignments")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule copy")
	}
	return clone, nil
}

// DeleteSchedule removes a schedule and its rows. The official agenda
// cannot be deleted while it is official.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id, owner string) error {
	schedule, err := s.GetSchedule(ctx, id)
	if err != nil {
		return err
	}
	if schedule.Owner != owner {
		return appErrors.Clone(appErrors.ErrForbidden, "only the owner may delete a schedule")
	}
	meeting, err := s.meetings.FindByID(ctx, schedule.MeetingID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	if meeting.AgendaID != nil && *meeting.AgendaID == id {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "schedule is the official agenda")
	}
	if err := s.schedules.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	_ = s.cache.InvalidateBadness(ctx, id)
	return nil
}

// SetOfficialAgenda designates a schedule as the meeting's agenda. An
// empty schedule ID clears the designation.
func (s *ScheduleService) SetOfficialAgenda(ctx context.Context, meetingID, scheduleID string) error {
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	if scheduleID == "" {
		if err := s.meetings.SetAgenda(ctx, meetingID, nil); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear agenda")
		}
		return nil
	}
	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule.MeetingID != meetingID {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "schedule belongs to another meeting")
	}
	if !schedule.Visible || !schedule.Public {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "the official agenda must be visible and public")
	}
	if err := s.meetings.SetAgenda(ctx, meetingID, &scheduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set agenda")
	}
	s.logger.Info("official agenda set", zap.String("meeting_id", meetingID), zap.String("schedule_id", scheduleID))
	return nil
}

// PlaceSession assigns a session to a timeslot by hand. The session and
// slot must belong to the schedule's meeting, the slot must be one that
// holds sessions, and the session must still be schedulable.
func (s *ScheduleService) PlaceSession(ctx context.Context, scheduleID string, req dto.PlaceSessionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}
	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule.Owner != req.Owner {
		return appErrors.Clone(appErrors.ErrForbidden, "only the owner may edit a schedule")
	}
	session, err := s.sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.MeetingID != schedule.MeetingID {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "session belongs to another meeting")
	}
	if !session.Status.Eligible() {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "session is not schedulable in status "+string(session.Status))
	}
	slot, err := s.slots.FindByID(ctx, req.TimeSlotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timeslot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslot")
	}
	if slot.MeetingID != schedule.MeetingID {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "timeslot belongs to another meeting")
	}
	if !slot.HoldsSessions() {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, slot.Type+" slots do not hold sessions")
	}
	sessionID := req.SessionID
	if err := s.schedules.PlaceSession(ctx, scheduleID, req.TimeSlotID, &sessionID, req.Pinned); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrDataIntegrity, "schedule has no row for this timeslot")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to place session")
	}
	_ = s.cache.InvalidateBadness(ctx, scheduleID)
	return nil
}

// ClearSlot empties a timeslot within a schedule.
func (s *ScheduleService) ClearSlot(ctx context.Context, scheduleID string, req dto.ClearSlotRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clear payload")
	}
	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule.Owner != req.Owner {
		return appErrors.Clone(appErrors.ErrForbidden, "only the owner may edit a schedule")
	}
	if err := s.schedules.PlaceSession(ctx, scheduleID, req.TimeSlotID, nil, false); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrDataIntegrity, "schedule has no row for this timeslot")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear slot")
	}
	_ = s.cache.InvalidateBadness(ctx, scheduleID)
	return nil
}

// Backfill inserts empty rows for any meeting timeslots the schedule is
// missing. Normally a no-op; needed after timeslots were added outside the
// generation path.
func (s *ScheduleService) Backfill(ctx context.Context, scheduleID string) (int, error) {
	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return 0, err
	}
	missing, err := s.schedules.MissingTimeSlotIDs(ctx, scheduleID, schedule.MeetingID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find missing rows")
	}
	if len(missing) == 0 {
		return 0, nil
	}
	rows := make([]models.ScheduledSession, 0, len(missing))
	for _, slotID := range missing {
		rows = append(rows, models.ScheduledSession{ScheduleID: scheduleID, TimeSlotID: slotID})
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.schedules.InsertAssignments(ctx, tx, rows); err != nil {
		_ = tx.Rollback()
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to backfill rows")
	}
	if err := tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit backfill")
	}
	return len(rows), nil
}
