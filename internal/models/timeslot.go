package models

import "time"

// TimeSlot types. Only session and plenary slots may hold group sessions;
// the rest exist so the full meeting grid can be drawn.
const (
	TimeSlotTypeSession = "session"
	TimeSlotTypePlenary = "plenary"
	TimeSlotTypeBreak   = "break"
	TimeSlotTypeReg     = "reg"
	TimeSlotTypeLead    = "lead"
)

// TimeSlot is a concrete (start time, duration, room) cell in the meeting
// grid. Slots in different rooms sharing a start time are concurrent; that
// parallelism is what the constraint system reasons about. RoomID may be
// nil for slots that are not tied to a location (registration, breaks).
type TimeSlot struct {
	ID          string    `db:"id" json:"id"`
	MeetingID   string    `db:"meeting_id" json:"meeting_id"`
	RoomID      *string   `db:"room_id" json:"room_id,omitempty"`
	Type        string    `db:"type" json:"type"`
	Name        string    `db:"name" json:"name"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	DurationMin int       `db:"duration_min" json:"duration_min"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HoldsSessions reports whether group sessions may be placed in this slot.
func (t TimeSlot) HoldsSessions() bool {
	return t.Type == TimeSlotTypeSession || t.Type == TimeSlotTypePlenary
}

// Concurrent reports whether two slots share a start time.
func (t TimeSlot) Concurrent(other TimeSlot) bool {
	return t.StartTime.Equal(other.StartTime)
}
