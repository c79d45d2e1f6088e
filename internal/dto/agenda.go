package dto

import "time"

// AgendaRow is one placed session in the human-facing schedule grid.
type AgendaRow struct {
	Group       string    `json:"group"`
	SessionID   string    `json:"session_id"`
	TimeSlotID  string    `json:"timeslot_id"`
	SlotName    string    `json:"slot_name"`
	Room        string    `json:"room"`
	StartTime   time.Time `json:"start_time"`
	DurationMin int       `json:"duration_min"`
	Pinned      bool      `json:"pinned"`
	Badness     int       `json:"badness"`
}

// Agenda is the group→placements view of one schedule that reporting
// consumers read.
type Agenda struct {
	ScheduleID string                `json:"schedule_id"`
	MeetingID  string                `json:"meeting_id"`
	Groups     map[string][]AgendaRow `json:"groups"`
	Unplaced   []string              `json:"unplaced_groups,omitempty"`
}
