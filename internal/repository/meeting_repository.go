package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/confsched-api/internal/models"
)

// MeetingRepository provides persistence for meetings.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository creates a new meeting repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts a meeting, assigning ID and timestamps.
func (r *MeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	query := `INSERT INTO meetings (id, number, city, country, start_date, days, time_zone, agenda_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		meeting.ID, meeting.Number, meeting.City, meeting.Country,
		meeting.StartDate, meeting.Days, meeting.TimeZone, meeting.AgendaID,
		meeting.CreatedAt, meeting.UpdatedAt)
	return err
}

// FindByID loads one meeting.
func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	var meeting models.Meeting
	query := `SELECT id, number, city, country, start_date, days, time_zone, agenda_id, created_at, updated_at
		FROM meetings WHERE id = $1`
	if err := r.db.GetContext(ctx, &meeting, query, id); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// List returns meetings ordered by start date, newest first.
func (r *MeetingRepository) List(ctx context.Context) ([]models.Meeting, error) {
	meetings := []models.Meeting{}
	query := `SELECT id, number, city, country, start_date, days, time_zone, agenda_id, created_at, updated_at
		FROM meetings ORDER BY start_date DESC`
	if err := r.db.SelectContext(ctx, &meetings, query); err != nil {
		return nil, err
	}
	return meetings, nil
}

// SetAgenda points the meeting at its official schedule; nil clears it.
func (r *MeetingRepository) SetAgenda(ctx context.Context, meetingID string, scheduleID *string) error {
	query := `UPDATE meetings SET agenda_id = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, scheduleID, time.Now().UTC(), meetingID)
	return err
}
