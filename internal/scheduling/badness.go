package scheduling

import (
	"fmt"

	"github.com/noah-isme/confsched-api/internal/models"
)

// Placements is the global "where everyone is right now" view consumed by
// the fast scorer: eligible session ID to the timeslot IDs it occupies. It
// may describe a hypothetical, not-yet-committed state.
type Placements map[string][]string

// Clone returns an independent copy safe to mutate.
func (p Placements) Clone() Placements {
	out := make(Placements, len(p))
	for id, slots := range p {
		cp := make([]string, len(slots))
		copy(cp, slots)
		out[id] = cp
	}
	return out
}

// Stats are the instrumentation counters of one scoring call or run. They
// are returned to the caller instead of accumulating in process-wide
// globals so repeated and concurrent runs cannot interfere.
type Stats struct {
	SessionsScored int `json:"sessions_scored"`
	FastCalls      int `json:"fast_calls"`
	ConflictChecks int `json:"conflict_checks"`
	CapacityChecks int `json:"capacity_checks"`
}

// Merge folds other into s.
func (s *Stats) Merge(other Stats) {
	s.SessionsScored += other.SessionsScored
	s.FastCalls += other.FastCalls
	s.ConflictChecks += other.ConflictChecks
	s.CapacityChecks += other.CapacityChecks
}

// SessionBadness is the full evaluation of one session against the current
// assignment. An unplaced session costs exactly the unplaced penalty and
// nothing else. Otherwise every placement accrues room-fit and avoided-day
// penalties, and every concurrent different-room pairing with a constrained
// other group accrues that constraint's cost. The per-pair cost is also
// recorded on both rows' Badness fields so the UI needs no second pass.
func (r *Run) SessionBadness(sessionID string, a *Assignment, stats *Stats) (int, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return 0, fmt.Errorf("session %s is not part of this scoring run", sessionID)
	}
	if stats != nil {
		stats.SessionsScored++
	}

	mine := a.SessionPlacements(sessionID)
	if len(mine) == 0 {
		return r.settings.UnplacedPenalty, nil
	}

	total := 0
	for _, row := range mine {
		slot := r.slots[row.TimeSlotID]
		total += r.placementPenalty(session, slot, stats)
	}

	for _, c := range r.resolved[session.Group] {
		other := otherGroup(c, session.Group)
		for _, theirs := range a.GroupPlacements(other) {
			for _, ours := range mine {
				if stats != nil {
					stats.ConflictChecks++
				}
				mySlot, theirSlot := r.slots[ours.TimeSlotID], r.slots[theirs.TimeSlotID]
				if !mySlot.Concurrent(theirSlot) || sameRoom(mySlot, theirSlot) {
					continue
				}
				cost := c.Name.Cost()
				total += cost
				ours.Badness += cost
				theirs.Badness += cost
			}
		}
	}
	return total, nil
}

// ScheduleBadness is the full-recomputation oracle: the sum of
// SessionBadness over every eligible session, unplaced ones included. Row
// bookkeeping is reset first so repeated calls are idempotent.
func (r *Run) ScheduleBadness(a *Assignment, stats *Stats) (int, error) {
	a.resetBadness()
	total := 0
	for id := range r.sessions {
		b, err := r.SessionBadness(id, a, stats)
		if err != nil {
			return 0, err
		}
		total += b
	}
	return total, nil
}

// ScoreBreakdown runs one full pass and returns the schedule total together
// with each eligible session's share. Row bookkeeping is reset first, and
// each session is scored exactly once, so the per-row costs come out the
// same as a plain ScheduleBadness call.
func (r *Run) ScoreBreakdown(a *Assignment, stats *Stats) (int, map[string]int, error) {
	a.resetBadness()
	perSession := make(map[string]int, len(r.sessions))
	total := 0
	for id := range r.sessions {
		b, err := r.SessionBadness(id, a, stats)
		if err != nil {
			return 0, nil, err
		}
		perSession[id] = b
		total += b
	}
	return total, perSession, nil
}

// FastBadness evaluates "what would placing this session at this candidate
// slot cost" against a hypothetical global placement state, without
// touching the full assignment. It is pure with respect to its inputs and
// is the function a local-search loop calls thousands of times per second.
// An empty candidate means unplaced.
func (r *Run) FastBadness(sessionID, candidateSlotID string, placements Placements, stats *Stats) (int, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return 0, fmt.Errorf("session %s is not part of this scoring run", sessionID)
	}
	if stats != nil {
		stats.FastCalls++
	}
	if candidateSlotID == "" {
		return r.settings.UnplacedPenalty, nil
	}
	slot, ok := r.slots[candidateSlotID]
	if !ok {
		return 0, fmt.Errorf("timeslot %s is not part of this scoring run", candidateSlotID)
	}

	total := r.placementPenalty(session, slot, stats)

	for _, edge := range r.conflicts[sessionID] {
		for _, otherSlotID := range placements[edge.OtherSessionID] {
			if stats != nil {
				stats.ConflictChecks++
			}
			otherSlot, ok := r.slots[otherSlotID]
			if !ok {
				continue
			}
			if otherSlot.Concurrent(slot) && !sameRoom(otherSlot, slot) {
				total += edge.Constraint.Name.Cost()
			}
		}
	}
	return total, nil
}

// placementPenalty accrues the per-placement terms: the four-band room-fit
// penalty and the avoided-day cost. Missing capacity or attendee counts
// skip the room-fit band rather than raising.
func (r *Run) placementPenalty(session models.Session, slot models.TimeSlot, stats *Stats) int {
	total := 0
	if room, ok := r.roomOf(slot); ok && room.Capacity != nil && session.Attendees != nil {
		if stats != nil {
			stats.CapacityChecks++
		}
		total += r.settings.Capacity.penalty(*session.Attendees - *room.Capacity)
	}
	if days := r.avoidDays[session.Group]; len(days) > 0 {
		if c, ok := days[slot.StartTime.Weekday()]; ok {
			total += c.Name.Cost()
		}
	}
	return total
}

// otherGroup returns the end of a pairwise constraint that is not the
// given group.
func otherGroup(c models.Constraint, group string) string {
	if c.SourceGroup == group && c.TargetGroup != nil {
		return *c.TargetGroup
	}
	return c.SourceGroup
}
