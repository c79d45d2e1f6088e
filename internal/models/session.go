package models

import "time"

// SessionStatus is the lifecycle state of a session request.
type SessionStatus string

const (
	SessionStatusRequestWait  SessionStatus = "apprw"
	SessionStatusApproved     SessionStatus = "appr"
	SessionStatusScheduleWait SessionStatus = "schedw"
	SessionStatusScheduled    SessionStatus = "scheda"
	SessionStatusCanceled     SessionStatus = "canceled"
	SessionStatusNotMeeting   SessionStatus = "notmeet"
	SessionStatusDisapproved  SessionStatus = "disappr"
	SessionStatusDeleted      SessionStatus = "deleted"
)

var sessionStatuses = map[SessionStatus]bool{
	SessionStatusRequestWait:  true,
	SessionStatusApproved:     true,
	SessionStatusScheduleWait: true,
	SessionStatusScheduled:    true,
	SessionStatusCanceled:     true,
	SessionStatusNotMeeting:   true,
	SessionStatusDisapproved:  true,
	SessionStatusDeleted:      true,
}

// Valid reports whether the status is part of the fixed vocabulary.
func (s SessionStatus) Valid() bool {
	return sessionStatuses[s]
}

// Eligible reports whether a session in this status should be scheduled.
// Terminal states (canceled, won't meet, disapproved, deleted) are excluded
// from scoring entirely.
func (s SessionStatus) Eligible() bool {
	switch s {
	case SessionStatusRequestWait, SessionStatusApproved, SessionStatusScheduleWait, SessionStatusScheduled:
		return true
	}
	return false
}

// sessionTransitions lists the permitted status moves. Terminal states can
// be entered from any live state but never left.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusRequestWait:  {SessionStatusApproved, SessionStatusDisapproved, SessionStatusDeleted},
	SessionStatusApproved:     {SessionStatusScheduleWait, SessionStatusCanceled, SessionStatusNotMeeting, SessionStatusDeleted},
	SessionStatusScheduleWait: {SessionStatusScheduled, SessionStatusCanceled, SessionStatusNotMeeting, SessionStatusDeleted},
	SessionStatusScheduled:    {SessionStatusScheduleWait, SessionStatusCanceled, SessionStatusNotMeeting, SessionStatusDeleted},
}

// CanTransitionTo reports whether the status may move to the target state.
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Session is one group's request to meet: the unit being placed. Attendees
// is an estimate used for room-fit scoring and may be nil when the group
// has not provided one. The scoring engine treats sessions as read-only.
type Session struct {
	ID           string        `db:"id" json:"id"`
	MeetingID    string        `db:"meeting_id" json:"meeting_id"`
	Group        string        `db:"group_acronym" json:"group"`
	Attendees    *int          `db:"attendees" json:"attendees,omitempty"`
	RequestedMin int           `db:"requested_min" json:"requested_min"`
	Comments     string        `db:"comments" json:"comments"`
	Status       SessionStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}
