package dto

import (
	"time"

	"github.com/noah-isme/confsched-api/internal/models"
	"github.com/noah-isme/confsched-api/internal/scheduling"
)

// CreateMeetingRequest registers a new conference instance.
type CreateMeetingRequest struct {
	Number    string    `json:"number" validate:"required"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	StartDate time.Time `json:"start_date" validate:"required"`
	Days      int       `json:"days" validate:"required,min=1,max=14"`
	TimeZone  string    `json:"time_zone" validate:"required"`
}

// CreateRoomRequest adds a room to a meeting venue.
type CreateRoomRequest struct {
	Name         string   `json:"name" validate:"required"`
	Capacity     *int     `json:"capacity" validate:"omitempty,min=1"`
	SessionTypes []string `json:"session_types"`
}

// CreateTimeSlotRequest adds a single timeslot.
type CreateTimeSlotRequest struct {
	RoomID      *string   `json:"room_id"`
	Type        string    `json:"type" validate:"required"`
	Name        string    `json:"name"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	DurationMin int       `json:"duration_min" validate:"required,min=5"`
}

// TimeSlotPeriod is one daily period template for bulk generation.
type TimeSlotPeriod struct {
	Name        string `json:"name" validate:"required"`
	StartHour   int    `json:"start_hour" validate:"min=0,max=23"`
	StartMinute int    `json:"start_minute" validate:"min=0,max=59"`
	DurationMin int    `json:"duration_min" validate:"required,min=5"`
}

// GenerateTimeSlotsRequest expands rooms × periods × meeting days into
// session timeslots.
type GenerateTimeSlotsRequest struct {
	RoomIDs []string         `json:"room_ids" validate:"required,min=1"`
	Periods []TimeSlotPeriod `json:"periods" validate:"required,min=1,dive"`
	Type    string           `json:"type"`
}

// CreateSessionRequest files one group's request to meet.
type CreateSessionRequest struct {
	Group        string `json:"group" validate:"required"`
	Attendees    *int   `json:"attendees" validate:"omitempty,min=1"`
	RequestedMin int    `json:"requested_min" validate:"required,min=5"`
	Comments     string `json:"comments"`
}

// UpdateSessionStatusRequest moves a session through its lifecycle.
type UpdateSessionStatusRequest struct {
	Status models.SessionStatus `json:"status" validate:"required"`
}

// CreateConstraintRequest declares a scheduling constraint. Exactly one of
// TargetGroup, TargetPerson and TargetDay must be set, matching the kind.
type CreateConstraintRequest struct {
	SourceGroup  string                `json:"source_group" validate:"required"`
	Name         models.ConstraintName `json:"name" validate:"required"`
	TargetGroup  *string               `json:"target_group"`
	TargetPerson *string               `json:"target_person"`
	TargetDay    *int                  `json:"target_day" validate:"omitempty,min=0,max=6"`
}

// CreateScheduleRequest opens a new named assignment.
type CreateScheduleRequest struct {
	Owner   string `json:"owner" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Visible bool   `json:"visible"`
	Public  bool   `json:"public"`
}

// CopyScheduleRequest clones a schedule, assignments included, under a new
// owner and name.
type CopyScheduleRequest struct {
	Owner string `json:"owner" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

// SetAgendaRequest designates a schedule as the meeting's official agenda.
// An empty schedule ID clears the designation.
type SetAgendaRequest struct {
	ScheduleID string `json:"schedule_id"`
}

// PlaceSessionRequest assigns a session to a timeslot within a schedule.
type PlaceSessionRequest struct {
	Owner      string `json:"owner" validate:"required"`
	SessionID  string `json:"session_id" validate:"required"`
	TimeSlotID string `json:"timeslot_id" validate:"required"`
	Pinned     bool   `json:"pinned"`
}

// ClearSlotRequest empties a timeslot within a schedule.
type ClearSlotRequest struct {
	Owner      string `json:"owner" validate:"required"`
	TimeSlotID string `json:"timeslot_id" validate:"required"`
}

// SessionBadnessReport is the per-session breakdown of a full scoring pass.
type SessionBadnessReport struct {
	SessionID   string   `json:"session_id"`
	Group       string   `json:"group"`
	Placed      bool     `json:"placed"`
	TimeSlotIDs []string `json:"timeslot_ids,omitempty"`
	Badness     int      `json:"badness"`
}

// BadnessReport is the result of fully scoring one schedule.
type BadnessReport struct {
	ScheduleID string                 `json:"schedule_id"`
	Total      int                    `json:"total"`
	Sessions   []SessionBadnessReport `json:"sessions"`
	Stats      scheduling.Stats       `json:"stats"`
	Cached     bool                   `json:"cached"`
	ComputedAt time.Time              `json:"computed_at"`
}

// WhatIfRequest asks what a hypothetical single placement would cost.
type WhatIfRequest struct {
	SessionID  string `json:"session_id" validate:"required"`
	TimeSlotID string `json:"timeslot_id"`
}

// WhatIfResponse carries the incremental score of the candidate move.
type WhatIfResponse struct {
	SessionID  string           `json:"session_id"`
	TimeSlotID string           `json:"timeslot_id,omitempty"`
	Badness    int              `json:"badness"`
	Stats      scheduling.Stats `json:"stats"`
}

// OptimizeRequest runs the placement search over a schedule.
type OptimizeRequest struct {
	Owner          string `json:"owner" validate:"required"`
	MaxEvaluations int    `json:"max_evaluations" validate:"omitempty,min=1"`
	DryRun         bool   `json:"dry_run"`
}

// OptimizeResponse reports the search outcome.
type OptimizeResponse struct {
	ScheduleID  string           `json:"schedule_id"`
	Before      int              `json:"before"`
	After       int              `json:"after"`
	Sweeps      int              `json:"sweeps"`
	Moves       int              `json:"moves"`
	Evaluations int              `json:"evaluations"`
	Committed   bool             `json:"committed"`
	Stats       scheduling.Stats `json:"stats"`
}
