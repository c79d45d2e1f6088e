package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/confsched-api/internal/models"
)

// RoomRepository provides persistence for rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// roomRow adapts the session_types text[] column for sqlx scanning.
type roomRow struct {
	ID           string         `db:"id"`
	MeetingID    string         `db:"meeting_id"`
	Name         string         `db:"name"`
	Capacity     *int           `db:"capacity"`
	SessionTypes pq.StringArray `db:"session_types"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (row roomRow) toModel() models.Room {
	return models.Room{
		ID:           row.ID,
		MeetingID:    row.MeetingID,
		Name:         row.Name,
		Capacity:     row.Capacity,
		SessionTypes: []string(row.SessionTypes),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// Create inserts a room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	query := `INSERT INTO rooms (id, meeting_id, name, capacity, session_types, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		room.ID, room.MeetingID, room.Name, room.Capacity,
		pq.StringArray(room.SessionTypes), room.CreatedAt, room.UpdatedAt)
	return err
}

// FindByID loads one room.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	var row roomRow
	query := `SELECT id, meeting_id, name, capacity, session_types, created_at, updated_at
		FROM rooms WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	room := row.toModel()
	return &room, nil
}

// ListByMeeting returns a meeting's rooms ordered by name.
func (r *RoomRepository) ListByMeeting(ctx context.Context, meetingID string) ([]models.Room, error) {
	rows := []roomRow{}
	query := `SELECT id, meeting_id, name, capacity, session_types, created_at, updated_at
		FROM rooms WHERE meeting_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query, meetingID); err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.toModel())
	}
	return rooms, nil
}
