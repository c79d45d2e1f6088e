package scheduling

import (
	"sort"
)

// OptimizeOptions bounds one placement run. MaxEvaluations caps the number
// of fast-badness calls; the loop also stops on the first full sweep that
// finds no improving move.
type OptimizeOptions struct {
	MaxEvaluations int
}

// OptimizeResult reports the outcome of one placement run. Placements is
// the accepted final state; committing it is the caller's responsibility,
// batched outside the loop.
type OptimizeResult struct {
	Before      int        `json:"before"`
	After       int        `json:"after"`
	Sweeps      int        `json:"sweeps"`
	Moves       int        `json:"moves"`
	Evaluations int        `json:"evaluations"`
	Placements  Placements `json:"-"`
	Stats       Stats      `json:"stats"`
}

// Optimize runs a greedy seeding pass for unplaced sessions followed by
// first-improvement local search over single-session moves, scoring every
// candidate with FastBadness. Pinned placements are never moved. The
// assignment itself is not mutated; the result carries the proposed state.
func (r *Run) Optimize(a *Assignment, opts OptimizeOptions) OptimizeResult {
	if opts.MaxEvaluations <= 0 {
		opts.MaxEvaluations = 5000
	}

	placements := a.Placements()
	occupied := make(map[string]string)
	pinned := make(map[string]bool)
	for id, slots := range placements {
		for _, slotID := range slots {
			occupied[slotID] = id
		}
	}
	for id, rows := range a.bySession {
		for _, row := range rows {
			if row.Pinned {
				pinned[id] = true
			}
		}
	}

	var candidates []string
	for id, slot := range r.slots {
		if slot.HoldsSessions() {
			candidates = append(candidates, id)
		}
	}
	sort.Strings(candidates)

	result := OptimizeResult{Stats: Stats{}}
	result.Before = r.totalFast(placements, &result.Stats)

	// Movable sessions, largest first: big groups have the fewest rooms
	// that fit them, so they get first pick.
	var movable []string
	for id := range r.sessions {
		if !pinned[id] {
			movable = append(movable, id)
		}
	}
	sort.Slice(movable, func(i, j int) bool {
		ai, aj := 0, 0
		si, sj := r.sessions[movable[i]], r.sessions[movable[j]]
		if si.Attendees != nil {
			ai = *si.Attendees
		}
		if sj.Attendees != nil {
			aj = *sj.Attendees
		}
		if ai != aj {
			return ai > aj
		}
		return movable[i] < movable[j]
	})

	evaluate := func(sessionID, slotID string) int {
		result.Evaluations++
		b, err := r.FastBadness(sessionID, slotID, placements, &result.Stats)
		if err != nil {
			return result.Before + 1
		}
		return b
	}

	for result.Evaluations < opts.MaxEvaluations {
		improved := false
		result.Sweeps++
		for _, sessionID := range movable {
			saved := placements[sessionID]
			if len(saved) > 1 {
				// Multi-slot sessions keep their hand-made placements; the
				// search only relocates single-slot sessions.
				continue
			}
			current := ""
			if len(saved) == 1 {
				current = saved[0]
			}
			// Score against the state with this session lifted out, so the
			// current slot competes on equal terms.
			delete(placements, sessionID)
			if current != "" {
				delete(occupied, current)
			}

			bestSlot, bestScore := current, evaluate(sessionID, current)
			for _, slotID := range candidates {
				if slotID == current {
					continue
				}
				if _, taken := occupied[slotID]; taken {
					continue
				}
				if score := evaluate(sessionID, slotID); score < bestScore {
					bestSlot, bestScore = slotID, score
				}
				if result.Evaluations >= opts.MaxEvaluations {
					break
				}
			}

			if bestSlot == "" {
				placements[sessionID] = saved
				continue
			}
			placements[sessionID] = []string{bestSlot}
			occupied[bestSlot] = sessionID
			if bestSlot != current {
				result.Moves++
				improved = true
			}
			if result.Evaluations >= opts.MaxEvaluations {
				break
			}
		}
		if !improved {
			break
		}
	}

	result.After = r.totalFast(placements, &result.Stats)
	result.Placements = placements
	return result
}

// totalFast sums the fast score of every eligible session against one
// placement state, each session scored at its own current slot.
func (r *Run) totalFast(placements Placements, stats *Stats) int {
	total := 0
	for id := range r.sessions {
		slot := ""
		if slots := placements[id]; len(slots) > 0 {
			slot = slots[0]
		}
		b, err := r.FastBadness(id, slot, placements, stats)
		if err != nil {
			continue
		}
		total += b
	}
	return total
}
