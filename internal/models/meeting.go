package models

import "time"

// Meeting is one conference instance. It owns the rooms, timeslots,
// sessions, constraints and schedules created for it. AgendaID points at
// the schedule currently designated as the official agenda; everything
// else is immutable once scheduling has begun.
type Meeting struct {
	ID        string    `db:"id" json:"id"`
	Number    string    `db:"number" json:"number"`
	City      string    `db:"city" json:"city"`
	Country   string    `db:"country" json:"country"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	Days      int       `db:"days" json:"days"`
	TimeZone  string    `db:"time_zone" json:"time_zone"`
	AgendaID  *string   `db:"agenda_id" json:"agenda_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Room is a physical location within a meeting venue. Capacity is nil when
// the venue has not published seating numbers; scoring skips room-fit
// penalties in that case. SessionTypes lists the timeslot types the room
// may host.
type Room struct {
	ID           string    `db:"id" json:"id"`
	MeetingID    string    `db:"meeting_id" json:"meeting_id"`
	Name         string    `db:"name" json:"name"`
	Capacity     *int      `db:"capacity" json:"capacity,omitempty"`
	SessionTypes []string  `json:"session_types"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AllowsType reports whether the room may host timeslots of the given type.
// A room with no declared types accepts anything.
func (r Room) AllowsType(slotType string) bool {
	if len(r.SessionTypes) == 0 {
		return true
	}
	for _, t := range r.SessionTypes {
		if t == slotType {
			return true
		}
	}
	return false
}
