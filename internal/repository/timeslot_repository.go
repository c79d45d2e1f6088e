package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/confsched-api/internal/models"
)

// TimeSlotRepository provides persistence for timeslots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository creates a new timeslot repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// Create inserts a single timeslot.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	query := `INSERT INTO timeslots (id, meeting_id, room_id, type, name, start_time, duration_min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.MeetingID, slot.RoomID, slot.Type, slot.Name,
		slot.StartTime, slot.DurationMin, slot.CreatedAt, slot.UpdatedAt)
	return err
}

// BulkCreate inserts generated timeslots inside one transaction.
func (r *TimeSlotRepository) BulkCreate(ctx context.Context, tx *sqlx.Tx, slots []models.TimeSlot) error {
	query := `INSERT INTO timeslots (id, meeting_id, room_id, type, name, start_time, duration_min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now().UTC()
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		slots[i].CreatedAt = now
		slots[i].UpdatedAt = now
		if _, err := tx.ExecContext(ctx, query,
			slots[i].ID, slots[i].MeetingID, slots[i].RoomID, slots[i].Type, slots[i].Name,
			slots[i].StartTime, slots[i].DurationMin, slots[i].CreatedAt, slots[i].UpdatedAt); err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads one timeslot.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	query := `SELECT id, meeting_id, room_id, type, name, start_time, duration_min, created_at, updated_at
		FROM timeslots WHERE id = $1`
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListByMeeting returns a meeting's timeslots in chronological order.
func (r *TimeSlotRepository) ListByMeeting(ctx context.Context, meetingID string) ([]models.TimeSlot, error) {
	slots := []models.TimeSlot{}
	query := `SELECT id, meeting_id, room_id, type, name, start_time, duration_min, created_at, updated_at
		FROM timeslots WHERE meeting_id = $1 ORDER BY start_time, id`
	if err := r.db.SelectContext(ctx, &slots, query, meetingID); err != nil {
		return nil, err
	}
	return slots, nil
}
