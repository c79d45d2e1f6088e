package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/models"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
)

type meetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
	List(ctx context.Context) ([]models.Meeting, error)
}

type roomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Room, error)
}

type timeslotRepository interface {
	Create(ctx context.Context, slot *models.TimeSlot) error
	BulkCreate(ctx context.Context, tx *sqlx.Tx, slots []models.TimeSlot) error
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]models.TimeSlot, error)
}

type scheduleGrid interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Schedule, error)
	InsertAssignments(ctx context.Context, exec sqlx.ExtContext, rows []models.ScheduledSession) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

var timeslotTypes = map[string]bool{
	models.TimeSlotTypeSession: true,
	models.TimeSlotTypePlenary: true,
	models.TimeSlotTypeBreak:   true,
	models.TimeSlotTypeReg:     true,
	models.TimeSlotTypeLead:    true,
}

// MeetingService manages meetings, their rooms and their timeslot grid.
type MeetingService struct {
	meetings  meetingRepository
	rooms     roomRepository
	slots     timeslotRepository
	schedules scheduleGrid
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMeetingService constructs MeetingService.
func NewMeetingService(meetings meetingRepository, rooms roomRepository, slots timeslotRepository, schedules scheduleGrid, tx txProvider, validate *validator.Validate, logger *zap.Logger) *MeetingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingService{meetings: meetings, rooms: rooms, slots: slots, schedules: schedules, tx: tx, validator: validate, logger: logger}
}

// CreateMeeting registers a new conference instance.
func (s *MeetingService) CreateMeeting(ctx context.Context, req dto.CreateMeetingRequest) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}
	if _, err := time.LoadLocation(req.TimeZone); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown time zone "+req.TimeZone)
	}
	meeting := &models.Meeting{
		Number:    req.Number,
		City:      req.City,
		Country:   req.Country,
		StartDate: req.StartDate,
		Days:      req.Days,
		TimeZone:  req.TimeZone,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting")
	}
	return meeting, nil
}

// GetMeeting loads one meeting.
func (s *MeetingService) GetMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	return meeting, nil
}

// ListMeetings returns all meetings, newest first.
func (s *MeetingService) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	meetings, err := s.meetings.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meetings")
	}
	return meetings, nil
}

// CreateRoom adds a room to a meeting venue.
func (s *MeetingService) CreateRoom(ctx context.Context, meetingID string, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	for _, t := range req.SessionTypes {
		if !timeslotTypes[t] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown timeslot type "+t)
		}
	}
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	room := &models.Room{
		MeetingID:    meetingID,
		Name:         req.Name,
		Capacity:     req.Capacity,
		SessionTypes: req.SessionTypes,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// ListRooms returns a meeting's rooms.
func (s *MeetingService) ListRooms(ctx context.Context, meetingID string) ([]models.Room, error) {
	rooms, err := s.rooms.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// CreateTimeSlot adds a single slot to the meeting grid. New slots are
// back-filled into existing schedules as empty rows so every schedule keeps
// one row per timeslot.
func (s *MeetingService) CreateTimeSlot(ctx context.Context, meetingID string, req dto.CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timeslot payload")
	}
	if !timeslotTypes[req.Type] {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown timeslot type "+req.Type)
	}
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	if req.RoomID != nil {
		room, err := s.rooms.FindByID(ctx, *req.RoomID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
		if room.MeetingID != meetingID {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "room belongs to another meeting")
		}
		if !room.AllowsType(req.Type) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "room does not host "+req.Type+" slots")
		}
	}
	slot := &models.TimeSlot{
		MeetingID:   meetingID,
		RoomID:      req.RoomID,
		Type:        req.Type,
		Name:        req.Name,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timeslot")
	}
	if err := s.backfillSchedules(ctx, meetingID, []models.TimeSlot{*slot}); err != nil {
		return nil, err
	}
	return slot, nil
}

// ListTimeSlots returns a meeting's grid in chronological order.
func (s *MeetingService) ListTimeSlots(ctx context.Context, meetingID string) ([]models.TimeSlot, error) {
	slots, err := s.slots.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	return slots, nil
}

// GenerateTimeSlots expands rooms x periods x meeting days into the session
// grid, in one transaction. Generated slots are back-filled into existing
// schedules.
func (s *MeetingService) GenerateTimeSlots(ctx context.Context, meetingID string, req dto.GenerateTimeSlotsRequest) ([]models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	slotType := req.Type
	if slotType == "" {
		slotType = models.TimeSlotTypeSession
	}
	if !timeslotTypes[slotType] {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown timeslot type "+slotType)
	}

	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(meeting.TimeZone)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "meeting has unknown time zone")
	}

	rooms := make([]models.Room, 0, len(req.RoomIDs))
	for _, roomID := range req.RoomIDs {
		room, err := s.rooms.FindByID(ctx, roomID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "room "+roomID+" not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
		if room.MeetingID != meetingID {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "room "+roomID+" belongs to another meeting")
		}
		if !room.AllowsType(slotType) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "room "+room.Name+" does not host "+slotType+" slots")
		}
		rooms = append(rooms, *room)
	}

	start := meeting.StartDate.In(loc)
	slots := make([]models.TimeSlot, 0, len(rooms)*len(req.Periods)*meeting.Days)
	for day := 0; day < meeting.Days; day++ {
		date := start.AddDate(0, 0, day)
		for _, period := range req.Periods {
			startTime := time.Date(date.Year(), date.Month(), date.Day(), period.StartHour, period.StartMinute, 0, 0, loc)
			for i := range rooms {
				roomID := rooms[i].ID
				slots = append(slots, models.TimeSlot{
					MeetingID:   meetingID,
					RoomID:      &roomID,
					Type:        slotType,
					Name:        period.Name,
					StartTime:   startTime,
					DurationMin: period.DurationMin,
				})
			}
		}
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.slots.BulkCreate(ctx, tx, slots); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate timeslots")
	}
	if err := s.backfillSchedulesTx(ctx, tx, meetingID, slots); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timeslot generation")
	}

	s.logger.Info("generated timeslots",
		zap.String("meeting_id", meetingID),
		zap.Int("slots", len(slots)),
		zap.Int("rooms", len(rooms)),
		zap.Int("days", meeting.Days))
	return slots, nil
}

func (s *MeetingService) backfillSchedules(ctx context.Context, meetingID string, slots []models.TimeSlot) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.backfillSchedulesTx(ctx, tx, meetingID, slots); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule backfill")
	}
	return nil
}

func (s *MeetingService) backfillSchedulesTx(ctx context.Context, tx *sqlx.Tx, meetingID string, slots []models.TimeSlot) error {
	schedules, err := s.schedules.ListByMeeting(ctx, meetingID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	for _, schedule := range schedules {
		rows := make([]models.ScheduledSession, 0, len(slots))
		for _, slot := range slots {
			rows = append(rows, models.ScheduledSession{ScheduleID: schedule.ID, TimeSlotID: slot.ID})
		}
		if err := s.schedules.InsertAssignments(ctx, tx, rows); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to backfill schedule rows")
		}
	}
	return nil
}
