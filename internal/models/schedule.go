package models

import "time"

// Schedule is one named, independently owned assignment of sessions to
// timeslots. Several schedules may coexist for a meeting (drafts, personal
// experiments); at most one is the meeting's official agenda. Only the
// owner mutates a schedule in place; others copy it.
type Schedule struct {
	ID        string    `db:"id" json:"id"`
	MeetingID string    `db:"meeting_id" json:"meeting_id"`
	Owner     string    `db:"owner" json:"owner"`
	Name      string    `db:"name" json:"name"`
	Visible   bool      `db:"visible" json:"visible"`
	Public    bool      `db:"public" json:"public"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduledSession realizes "this session occupies this timeslot within
// this schedule". SessionID is nil for the empty-placeholder rows that give
// every schedule a row for every timeslot of its meeting. Pinned marks an
// assignment the optimizer must not move. Badness is the per-row conflict
// cost recorded by the last full scoring pass so the UI can show it without
// re-scoring.
type ScheduledSession struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	TimeSlotID string    `db:"timeslot_id" json:"timeslot_id"`
	SessionID  *string   `db:"session_id" json:"session_id,omitempty"`
	Pinned     bool      `db:"pinned" json:"pinned"`
	Badness    int       `db:"badness" json:"badness"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Placed reports whether the row carries a real assignment.
func (s ScheduledSession) Placed() bool {
	return s.SessionID != nil && *s.SessionID != ""
}

// Pagination describes paged list results.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
