package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/confsched-api/internal/models"
)

// SessionRepository provides persistence for session requests.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session request.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `INSERT INTO sessions (id, meeting_id, group_acronym, attendees, requested_min, comments, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.MeetingID, session.Group, session.Attendees,
		session.RequestedMin, session.Comments, session.Status,
		session.CreatedAt, session.UpdatedAt)
	return err
}

// FindByID loads one session.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	query := `SELECT id, meeting_id, group_acronym, attendees, requested_min, comments, status, created_at, updated_at
		FROM sessions WHERE id = $1`
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListByMeeting returns a meeting's sessions ordered by group.
func (r *SessionRepository) ListByMeeting(ctx context.Context, meetingID string) ([]models.Session, error) {
	sessions := []models.Session{}
	query := `SELECT id, meeting_id, group_acronym, attendees, requested_min, comments, status, created_at, updated_at
		FROM sessions WHERE meeting_id = $1 ORDER BY group_acronym, id`
	if err := r.db.SelectContext(ctx, &sessions, query, meetingID); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateStatus moves a session to a new lifecycle state.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	query := `UPDATE sessions SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	return err
}
