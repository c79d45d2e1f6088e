package scheduling

import (
	"fmt"
	"time"

	"github.com/noah-isme/confsched-api/internal/models"
)

// ConflictEdge is one flattened conflict: scheduling the owning session
// concurrently with OtherSessionID in a different room costs
// Constraint.Name.Cost().
type ConflictEdge struct {
	OtherSessionID string
	Constraint     models.Constraint
}

// Run holds the immutable inputs of one scoring run together with the
// derived views the scoring functions consume: the resolved per-group
// constraint maps and the flattened per-session conflict edges. Both are
// computed once, here, and never inside the optimizer's inner loop. A Run
// is safe for use by a single optimizer goroutine; concurrent optimizers
// build their own.
type Run struct {
	settings Settings

	rooms    map[string]models.Room
	slots    map[string]models.TimeSlot
	sessions map[string]models.Session

	groupSessions map[string][]string
	resolved      map[string]map[string]models.Constraint
	conflicts     map[string][]ConflictEdge
	avoidDays     map[string]map[time.Weekday]models.Constraint
}

// NewRun validates the inputs and precomputes the constraint views.
// Sessions in terminal states are dropped; unknown constraint names and
// cross-meeting references are rejected rather than silently scored.
func NewRun(settings Settings, meetingID string, rooms []models.Room, slots []models.TimeSlot, sessions []models.Session, constraints []models.Constraint) (*Run, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("scoring settings: %w", err)
	}

	r := &Run{
		settings:      settings,
		rooms:         make(map[string]models.Room, len(rooms)),
		slots:         make(map[string]models.TimeSlot, len(slots)),
		sessions:      make(map[string]models.Session, len(sessions)),
		groupSessions: make(map[string][]string),
		resolved:      make(map[string]map[string]models.Constraint),
		conflicts:     make(map[string][]ConflictEdge),
		avoidDays:     make(map[string]map[time.Weekday]models.Constraint),
	}

	for _, room := range rooms {
		if room.MeetingID != meetingID {
			return nil, fmt.Errorf("room %s belongs to meeting %s, not %s", room.ID, room.MeetingID, meetingID)
		}
		r.rooms[room.ID] = room
	}
	for _, slot := range slots {
		if slot.MeetingID != meetingID {
			return nil, fmt.Errorf("timeslot %s belongs to meeting %s, not %s", slot.ID, slot.MeetingID, meetingID)
		}
		if slot.RoomID != nil {
			if _, ok := r.rooms[*slot.RoomID]; !ok {
				return nil, fmt.Errorf("timeslot %s references unknown room %s", slot.ID, *slot.RoomID)
			}
		}
		r.slots[slot.ID] = slot
	}
	for _, session := range sessions {
		if session.MeetingID != meetingID {
			return nil, fmt.Errorf("session %s belongs to meeting %s, not %s", session.ID, session.MeetingID, meetingID)
		}
		if !session.Status.Eligible() {
			continue
		}
		r.sessions[session.ID] = session
		r.groupSessions[session.Group] = append(r.groupSessions[session.Group], session.ID)
	}

	groupConstraints := make(map[string][]models.Constraint)
	for _, c := range constraints {
		if c.MeetingID != meetingID {
			return nil, fmt.Errorf("constraint %s belongs to meeting %s, not %s", c.ID, c.MeetingID, meetingID)
		}
		if !c.Name.Valid() {
			return nil, fmt.Errorf("constraint %s has unknown kind %q", c.ID, c.Name)
		}
		switch {
		case c.Name.PairwiseGroup():
			if c.TargetGroup == nil || *c.TargetGroup == "" {
				return nil, fmt.Errorf("constraint %s (%s) has no target group", c.ID, c.Name)
			}
			if *c.TargetGroup == c.SourceGroup {
				return nil, fmt.Errorf("constraint %s relates group %s to itself", c.ID, c.SourceGroup)
			}
			groupConstraints[c.SourceGroup] = append(groupConstraints[c.SourceGroup], c)
			groupConstraints[*c.TargetGroup] = append(groupConstraints[*c.TargetGroup], c)
		case c.Name == models.ConstraintAvoidDay:
			day, ok := c.AvoidedDay()
			if !ok {
				return nil, fmt.Errorf("constraint %s (%s) has no target day", c.ID, c.Name)
			}
			if r.avoidDays[c.SourceGroup] == nil {
				r.avoidDays[c.SourceGroup] = make(map[time.Weekday]models.Constraint)
			}
			r.avoidDays[c.SourceGroup][day] = c
		}
		// bethere constraints carry no pairwise score; they are surfaced to
		// agenda consumers directly.
	}

	for group, list := range groupConstraints {
		r.resolved[group] = resolveConstraints(group, list)
	}
	r.flattenConflicts()

	return r, nil
}

// resolveConstraints collapses the possibly duplicated, possibly
// bidirectional constraint edges of one group into at most one entry per
// distinct other group: always the most severe applicable edge, regardless
// of the direction it was declared in or the order it was encountered.
func resolveConstraints(group string, constraints []models.Constraint) map[string]models.Constraint {
	result := make(map[string]models.Constraint)
	for _, c := range constraints {
		var other string
		switch {
		case c.SourceGroup == group && c.TargetGroup != nil:
			other = *c.TargetGroup
		case c.TargetGroup != nil && *c.TargetGroup == group:
			other = c.SourceGroup
		default:
			continue
		}
		existing, ok := result[other]
		if !ok || moreSevere(c, existing) {
			result[other] = c
		}
	}
	return result
}

// moreSevere reports whether a strictly outranks b. Severity rank decides
// first; the partial order leaves non-conflict kinds unranked, so ties fall
// back to the higher cost, and on equal cost the existing entry stands.
func moreSevere(a, b models.Constraint) bool {
	if a.Name.Severity() != b.Name.Severity() {
		return a.Name.Severity() > b.Name.Severity()
	}
	return a.Name.Cost() > b.Name.Cost()
}

// flattenConflicts turns the resolved per-group maps into per-session edge
// lists so the fast scorer does no map-of-maps traversal in the hot loop.
func (r *Run) flattenConflicts() {
	for id, session := range r.sessions {
		for other, c := range r.resolved[session.Group] {
			for _, otherID := range r.groupSessions[other] {
				r.conflicts[id] = append(r.conflicts[id], ConflictEdge{OtherSessionID: otherID, Constraint: c})
			}
		}
	}
}

// ResolvedConstraints returns the resolved constraint map of one group:
// other group to most severe applicable edge.
func (r *Run) ResolvedConstraints(group string) map[string]models.Constraint {
	out := make(map[string]models.Constraint, len(r.resolved[group]))
	for k, v := range r.resolved[group] {
		out[k] = v
	}
	return out
}

// Sessions returns the eligible sessions of the run keyed by ID.
func (r *Run) Sessions() map[string]models.Session {
	return r.sessions
}

// Session returns one eligible session.
func (r *Run) Session(id string) (models.Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// TimeSlot returns one timeslot.
func (r *Run) TimeSlot(id string) (models.TimeSlot, bool) {
	t, ok := r.slots[id]
	return t, ok
}

// Room returns one room.
func (r *Run) Room(id string) (models.Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

// roomOf resolves a slot's room, when it has one.
func (r *Run) roomOf(slot models.TimeSlot) (models.Room, bool) {
	if slot.RoomID == nil {
		return models.Room{}, false
	}
	room, ok := r.rooms[*slot.RoomID]
	return room, ok
}

// sameRoom reports whether two slots are co-located. Slots without a room
// are never co-located with anything.
func sameRoom(a, b models.TimeSlot) bool {
	return a.RoomID != nil && b.RoomID != nil && *a.RoomID == *b.RoomID
}
