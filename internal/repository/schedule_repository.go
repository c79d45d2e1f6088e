package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/confsched-api/internal/models"
)

// ScheduleRepository provides persistence for schedules and their
// scheduled-session rows.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a schedule inside the given transaction.
func (r *ScheduleRepository) Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	query := `INSERT INTO schedules (id, meeting_id, owner, name, visible, public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := exec.ExecContext(ctx, query,
		schedule.ID, schedule.MeetingID, schedule.Owner, schedule.Name,
		schedule.Visible, schedule.Public, schedule.CreatedAt, schedule.UpdatedAt)
	return err
}

// FindByID loads one schedule.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `SELECT id, meeting_id, owner, name, visible, public, created_at, updated_at
		FROM schedules WHERE id = $1`
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindByOwnerName resolves the (meeting, owner, name) unique key.
func (r *ScheduleRepository) FindByOwnerName(ctx context.Context, meetingID, owner, name string) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `SELECT id, meeting_id, owner, name, visible, public, created_at, updated_at
		FROM schedules WHERE meeting_id = $1 AND owner = $2 AND name = $3`
	if err := r.db.GetContext(ctx, &schedule, query, meetingID, owner, name); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListByMeeting returns a meeting's schedules.
func (r *ScheduleRepository) ListByMeeting(ctx context.Context, meetingID string) ([]models.Schedule, error) {
	schedules := []models.Schedule{}
	query := `SELECT id, meeting_id, owner, name, visible, public, created_at, updated_at
		FROM schedules WHERE meeting_id = $1 ORDER BY owner, name`
	if err := r.db.SelectContext(ctx, &schedules, query, meetingID); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Delete removes a schedule; assignment rows go with it.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_sessions WHERE schedule_id = $1`, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	return err
}

// InsertAssignments materializes scheduled-session rows inside the given
// transaction. Used both for the empty grid a new schedule starts with and
// for copying an existing schedule.
func (r *ScheduleRepository) InsertAssignments(ctx context.Context, exec sqlx.ExtContext, rows []models.ScheduledSession) error {
	query := `INSERT INTO scheduled_sessions (id, schedule_id, timeslot_id, session_id, pinned, badness, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	now := time.Now().UTC()
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		rows[i].UpdatedAt = now
		if _, err := exec.ExecContext(ctx, query,
			rows[i].ID, rows[i].ScheduleID, rows[i].TimeSlotID,
			rows[i].SessionID, rows[i].Pinned, rows[i].Badness, rows[i].UpdatedAt); err != nil {
			return err
		}
	}
	return nil
}

// ListAssignments returns every scheduled-session row of one schedule,
// placeholders included.
func (r *ScheduleRepository) ListAssignments(ctx context.Context, scheduleID string) ([]models.ScheduledSession, error) {
	rows := []models.ScheduledSession{}
	query := `SELECT id, schedule_id, timeslot_id, session_id, pinned, badness, updated_at
		FROM scheduled_sessions WHERE schedule_id = $1 ORDER BY timeslot_id`
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, err
	}
	return rows, nil
}

// MissingTimeSlotIDs lists meeting timeslots the schedule has no row for
// yet, so late-added slots can be back-filled.
func (r *ScheduleRepository) MissingTimeSlotIDs(ctx context.Context, scheduleID, meetingID string) ([]string, error) {
	ids := []string{}
	query := `SELECT t.id FROM timeslots t
		WHERE t.meeting_id = $1
		AND NOT EXISTS (SELECT 1 FROM scheduled_sessions ss WHERE ss.schedule_id = $2 AND ss.timeslot_id = t.id)`
	if err := r.db.SelectContext(ctx, &ids, query, meetingID, scheduleID); err != nil {
		return nil, err
	}
	return ids, nil
}

// PlaceSession writes one assignment into the schedule's row for the
// timeslot. A nil sessionID empties the slot.
func (r *ScheduleRepository) PlaceSession(ctx context.Context, scheduleID, timeslotID string, sessionID *string, pinned bool) error {
	query := `UPDATE scheduled_sessions SET session_id = $1, pinned = $2, badness = 0, updated_at = $3
		WHERE schedule_id = $4 AND timeslot_id = $5`
	result, err := r.db.ExecContext(ctx, query, sessionID, pinned, time.Now().UTC(), scheduleID, timeslotID)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReplaceAssignments rewrites the whole assignment of a schedule inside
// one transaction: every unpinned row is cleared, then each session is
// written into its new slot. Pinned rows are left untouched.
func (r *ScheduleRepository) ReplaceAssignments(ctx context.Context, tx *sqlx.Tx, scheduleID string, placements map[string][]string) error {
	now := time.Now().UTC()
	clear := `UPDATE scheduled_sessions SET session_id = NULL, badness = 0, updated_at = $1
		WHERE schedule_id = $2 AND pinned = FALSE`
	if _, err := tx.ExecContext(ctx, clear, now, scheduleID); err != nil {
		return err
	}
	place := `UPDATE scheduled_sessions SET session_id = $1, updated_at = $2
		WHERE schedule_id = $3 AND timeslot_id = $4 AND pinned = FALSE`
	for sessionID, timeslotIDs := range placements {
		for _, timeslotID := range timeslotIDs {
			if _, err := tx.ExecContext(ctx, place, sessionID, now, scheduleID, timeslotID); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateBadness persists the per-row conflict costs recorded by a full
// scoring pass.
func (r *ScheduleRepository) UpdateBadness(ctx context.Context, rows []models.ScheduledSession) error {
	query := `UPDATE scheduled_sessions SET badness = $1, updated_at = $2 WHERE id = $3`
	now := time.Now().UTC()
	for _, row := range rows {
		if _, err := r.db.ExecContext(ctx, query, row.Badness, now, row.ID); err != nil {
			return err
		}
	}
	return nil
}
