package service

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/models"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
)

type stubScheduleRepo struct {
	schedules map[string]models.Schedule
	rows      map[string][]models.ScheduledSession
	placed    []string
	inserted  int
	deleted   []string
}

func (m *stubScheduleRepo) Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	if m.schedules == nil {
		m.schedules = make(map[string]models.Schedule)
	}
	if schedule.ID == "" {
		schedule.ID = "new-sched"
	}
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *stubScheduleRepo) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubScheduleRepo) FindByOwnerName(ctx context.Context, meetingID, owner, name string) (*models.Schedule, error) {
	for _, s := range m.schedules {
		if s.MeetingID == meetingID && s.Owner == owner && s.Name == name {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *stubScheduleRepo) ListByMeeting(ctx context.Context, meetingID string) ([]models.Schedule, error) {
	var list []models.Schedule
	for _, s := range m.schedules {
		if s.MeetingID == meetingID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *stubScheduleRepo) Delete(ctx context.Context, id string) error {
	delete(m.schedules, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *stubScheduleRepo) InsertAssignments(ctx context.Context, exec sqlx.ExtContext, rows []models.ScheduledSession) error {
	m.inserted += len(rows)
	return nil
}

func (m *stubScheduleRepo) ListAssignments(ctx context.Context, scheduleID string) ([]models.ScheduledSession, error) {
	return m.rows[scheduleID], nil
}

func (m *stubScheduleRepo) MissingTimeSlotIDs(ctx context.Context, scheduleID, meetingID string) ([]string, error) {
	return nil, nil
}

func (m *stubScheduleRepo) PlaceSession(ctx context.Context, scheduleID, timeslotID string, sessionID *string, pinned bool) error {
	m.placed = append(m.placed, timeslotID)
	return nil
}

func newScheduleServiceFixture(t *testing.T) (*ScheduleService, *stubScheduleRepo, *stubMeetings, sqlmock.Sqlmock, func()) {
	repo := &stubScheduleRepo{
		schedules: map[string]models.Schedule{
			"sched-1": {ID: "sched-1", MeetingID: "meeting-1", Owner: "ana", Name: "draft-1", Visible: true, Public: true},
			"sched-2": {ID: "sched-2", MeetingID: "meeting-1", Owner: "bob", Name: "private", Visible: false},
		},
	}
	meetings := &stubMeetings{meetings: map[string]models.Meeting{"meeting-1": {ID: "meeting-1", Number: "120"}}}

	roomA := "room-a"
	slots := &fakeSlotLister{slots: []models.TimeSlot{
		{ID: "slot-a1", MeetingID: "meeting-1", RoomID: &roomA, Type: models.TimeSlotTypeSession},
		{ID: "slot-break", MeetingID: "meeting-1", Type: models.TimeSlotTypeBreak},
	}}
	sessions := &stubSessionRepo{sessions: map[string]models.Session{
		"sess-1": {ID: "sess-1", MeetingID: "meeting-1", Group: "tls", Status: models.SessionStatusApproved},
		"sess-x": {ID: "sess-x", MeetingID: "meeting-2", Group: "ext", Status: models.SessionStatusApproved},
	}}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	cache := NewCacheService(nil, nil, 0, nil, false)
	svc := NewScheduleService(repo, meetings, slots, sessions, sqlxDB, cache, validator.New(), zap.NewNop())
	return svc, repo, meetings, mock, func() { db.Close() }
}

func TestScheduleServiceCreateMaterializesGrid(t *testing.T) {
	svc, repo, _, mock, cleanup := newScheduleServiceFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	schedule, err := svc.CreateSchedule(context.Background(), "meeting-1", dto.CreateScheduleRequest{Owner: "ana", Name: "draft-2"})
	require.NoError(t, err)
	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, 2, repo.inserted, "one row per meeting timeslot, break slots included")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceCreateRejectsDuplicateName(t *testing.T) {
	svc, _, _, _, cleanup := newScheduleServiceFixture(t)
	defer cleanup()

	_, err := svc.CreateSchedule(context.Background(), "meeting-1", dto.CreateScheduleRequest{Owner: "ana", Name: "draft-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestScheduleServicePlaceSessionOwnerCheck(t *testing.T) {
	svc, repo, _, _, cleanup := newScheduleServiceFixture(t)
	defer cleanup()

	err := svc.PlaceSession(context.Background(), "sched-1", dto.PlaceSessionRequest{Owner: "mallory", SessionID: "sess-1", TimeSlotID: "slot-a1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.placed)
}

func TestScheduleServicePlaceSessionValidation(t *testing.T) {
	svc, repo, _, _, cleanup := newScheduleServiceFixture(t)
	defer cleanup()
	ctx := context.Background()

	// Cross-meeting sessions never enter a schedule.
	err := svc.PlaceSession(ctx, "sched-1", dto.PlaceSessionRequest{Owner: "ana", SessionID: "sess-x", TimeSlotID: "slot-a1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	// Break slots hold no sessions.
	err = svc.PlaceSession(ctx, "sched-1", dto.PlaceSessionRequest{Owner: "ana", SessionID: "sess-1", TimeSlotID: "slot-break"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.PlaceSession(ctx, "sched-1", dto.PlaceSessionRequest{Owner: "ana", SessionID: "sess-1", TimeSlotID: "slot-a1", Pinned: true}))
	assert.Equal(t, []string{"slot-a1"}, repo.placed)
}

func TestScheduleServiceSetOfficialAgenda(t *testing.T) {
	svc, _, meetings, _, cleanup := newScheduleServiceFixture(t)
	defer cleanup()
	ctx := context.Background()

	// Hidden drafts cannot become the official agenda.
	err := svc.SetOfficialAgenda(ctx, "meeting-1", "sched-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.SetOfficialAgenda(ctx, "meeting-1", "sched-1"))
	require.NotNil(t, meetings.agenda["meeting-1"])
	assert.Equal(t, "sched-1", *meetings.agenda["meeting-1"])

	// Clearing the designation.
	require.NoError(t, svc.SetOfficialAgenda(ctx, "meeting-1", ""))
	assert.Nil(t, meetings.agenda["meeting-1"])
}

func TestScheduleServiceDeleteGuardsOfficialAgenda(t *testing.T) {
	svc, repo, meetings, _, cleanup := newScheduleServiceFixture(t)
	defer cleanup()
	ctx := context.Background()

	agendaID := "sched-1"
	m := meetings.meetings["meeting-1"]
	m.AgendaID = &agendaID
	meetings.meetings["meeting-1"] = m

	err := svc.DeleteSchedule(ctx, "sched-1", "ana")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.DeleteSchedule(ctx, "sched-2", "bob"))
	assert.Equal(t, []string{"sched-2"}, repo.deleted)
}
