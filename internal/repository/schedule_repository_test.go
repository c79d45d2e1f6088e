package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/confsched-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(sqlmock.AnyArg(), "meeting-1", "ana", "draft-1", true, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	schedule := &models.Schedule{MeetingID: "meeting-1", Owner: "ana", Name: "draft-1", Visible: true}
	require.NoError(t, repo.Create(context.Background(), db, schedule))
	assert.NotEmpty(t, schedule.ID)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "meeting_id", "owner", "name", "visible", "public", "created_at", "updated_at"}).
		AddRow(schedule.ID, "meeting-1", "ana", "draft-1", true, false, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, meeting_id, owner, name, visible, public, created_at, updated_at")).
		WithArgs(schedule.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft-1", found.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryPlaceSessionMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("UPDATE scheduled_sessions SET session_id").
		WithArgs("sess-1", false, sqlmock.AnyArg(), "sched-1", "slot-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	sessionID := "sess-1"
	err := repo.PlaceSession(context.Background(), "sched-1", "slot-404", &sessionID, false)
	assert.Error(t, err, "a schedule must have a row for every timeslot; a missing row is surfaced, not ignored")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryReplaceAssignmentsClearsUnpinnedFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE scheduled_sessions SET session_id = NULL").
		WithArgs(sqlmock.AnyArg(), "sched-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("UPDATE scheduled_sessions SET session_id").
		WithArgs("sess-1", sqlmock.AnyArg(), "sched-1", "slot-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceAssignments(context.Background(), tx, "sched-1", map[string][]string{"sess-1": {"slot-1"}}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("UPDATE sessions SET status").
		WithArgs(models.SessionStatusScheduled, sqlmock.AnyArg(), "sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "sess-1", models.SessionStatusScheduled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryRoundTripsSessionTypes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec("INSERT INTO rooms").
		WithArgs(sqlmock.AnyArg(), "meeting-1", "Grand Hall", 450, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	capacity := 450
	room := &models.Room{
		MeetingID:    "meeting-1",
		Name:         "Grand Hall",
		Capacity:     &capacity,
		SessionTypes: []string{models.TimeSlotTypeSession, models.TimeSlotTypePlenary},
	}
	require.NoError(t, repo.Create(context.Background(), room))

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "meeting_id", "name", "capacity", "session_types", "created_at", "updated_at"}).
		AddRow(room.ID, "meeting-1", "Grand Hall", 450, "{session,plenary}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, meeting_id, name, capacity, session_types, created_at, updated_at")).
		WithArgs(room.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"session", "plenary"}, found.SessionTypes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
