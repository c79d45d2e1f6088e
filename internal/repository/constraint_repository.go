package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/confsched-api/internal/models"
)

// ConstraintRepository provides persistence for scheduling constraints.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository creates a new constraint repository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// Create inserts a constraint.
func (r *ConstraintRepository) Create(ctx context.Context, c *models.Constraint) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	query := `INSERT INTO constraints (id, meeting_id, source_group, name, target_group, target_person, target_day, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.MeetingID, c.SourceGroup, c.Name,
		c.TargetGroup, c.TargetPerson, c.TargetDay, c.CreatedAt)
	return err
}

// FindByID loads one constraint.
func (r *ConstraintRepository) FindByID(ctx context.Context, id string) (*models.Constraint, error) {
	var c models.Constraint
	query := `SELECT id, meeting_id, source_group, name, target_group, target_person, target_day, created_at
		FROM constraints WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByMeeting returns a meeting's constraints.
func (r *ConstraintRepository) ListByMeeting(ctx context.Context, meetingID string) ([]models.Constraint, error) {
	constraints := []models.Constraint{}
	query := `SELECT id, meeting_id, source_group, name, target_group, target_person, target_day, created_at
		FROM constraints WHERE meeting_id = $1 ORDER BY source_group, name, id`
	if err := r.db.SelectContext(ctx, &constraints, query, meetingID); err != nil {
		return nil, err
	}
	return constraints, nil
}

// Delete removes a constraint.
func (r *ConstraintRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM constraints WHERE id = $1`, id)
	return err
}
