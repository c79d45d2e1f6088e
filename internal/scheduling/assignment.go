package scheduling

import (
	"fmt"
	"sort"

	"github.com/noah-isme/confsched-api/internal/models"
)

// Assignment is the mutable state an optimizer works over: one schedule's
// scheduled-session rows, indexed by session and by group. Placeholder rows
// (no session) and rows for ineligible sessions are kept out of the
// indexes; a session with no qualifying rows is simply unplaced, never an
// error.
type Assignment struct {
	rows      []*models.ScheduledSession
	bySession map[string][]*models.ScheduledSession
	byGroup   map[string][]*models.ScheduledSession
}

// BuildAssignment indexes one schedule's rows against the run's inputs. A
// row pointing at a timeslot outside the run's meeting indicates a data
// integrity bug upstream and fails fast.
func (r *Run) BuildAssignment(rows []models.ScheduledSession) (*Assignment, error) {
	a := &Assignment{
		rows:      make([]*models.ScheduledSession, 0, len(rows)),
		bySession: make(map[string][]*models.ScheduledSession),
		byGroup:   make(map[string][]*models.ScheduledSession),
	}
	for i := range rows {
		row := rows[i]
		if _, ok := r.slots[row.TimeSlotID]; !ok {
			return nil, fmt.Errorf("scheduled session %s references timeslot %s outside this meeting", row.ID, row.TimeSlotID)
		}
		ptr := &row
		a.rows = append(a.rows, ptr)
		if !row.Placed() {
			continue
		}
		session, ok := r.sessions[*row.SessionID]
		if !ok {
			// Ineligible or withdrawn sessions stay on the grid for the UI
			// but are invisible to scoring.
			continue
		}
		a.bySession[session.ID] = append(a.bySession[session.ID], ptr)
		a.byGroup[session.Group] = append(a.byGroup[session.Group], ptr)
	}

	for id := range a.bySession {
		slices := a.bySession[id]
		sort.Slice(slices, func(i, j int) bool {
			si, sj := r.slots[slices[i].TimeSlotID], r.slots[slices[j].TimeSlotID]
			return si.StartTime.Before(sj.StartTime)
		})
	}
	return a, nil
}

// Rows returns every row of the assignment, placeholders included.
func (a *Assignment) Rows() []*models.ScheduledSession {
	return a.rows
}

// SessionPlacements returns the rows occupied by one session, earliest
// first.
func (a *Assignment) SessionPlacements(sessionID string) []*models.ScheduledSession {
	return a.bySession[sessionID]
}

// GroupPlacements returns the rows occupied by all of a group's sessions.
func (a *Assignment) GroupPlacements(group string) []*models.ScheduledSession {
	return a.byGroup[group]
}

// Primary returns a session's first placement, or nil when unplaced.
func (a *Assignment) Primary(sessionID string) *models.ScheduledSession {
	rows := a.bySession[sessionID]
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// Placements flattens the assignment into the "where everyone is right
// now" view the fast scorer consumes. The returned map is a copy; callers
// may mutate it to describe hypothetical states.
func (a *Assignment) Placements() Placements {
	p := make(Placements, len(a.bySession))
	for id, rows := range a.bySession {
		slots := make([]string, len(rows))
		for i, row := range rows {
			slots[i] = row.TimeSlotID
		}
		p[id] = slots
	}
	return p
}

// resetBadness clears the per-row bookkeeping before a full pass.
func (a *Assignment) resetBadness() {
	for _, row := range a.rows {
		row.Badness = 0
	}
}
