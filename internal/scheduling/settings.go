package scheduling

import "fmt"

// Settings is the scoring policy for one run: the unplaced penalty and the
// four-band room-fit schedule. Constraint costs are fixed per kind and live
// on the constraint model.
type Settings struct {
	UnplacedPenalty int
	Capacity        CapacityBands
}

// CapacityBands defines the four disjoint room-fit penalty bands over the
// mismatch value attendees-capacity. At most one band applies per
// placement.
type CapacityBands struct {
	FarTooSmallThreshold int
	TooSmallThreshold    int
	FarTooBigThreshold   int
	TooBigThreshold      int

	FarTooSmallCost int
	TooSmallCost    int
	FarTooBigCost   int
	TooBigCost      int
}

// DefaultSettings returns the stock policy.
func DefaultSettings() Settings {
	return Settings{
		UnplacedPenalty: 1000000,
		Capacity: CapacityBands{
			FarTooSmallThreshold: 100,
			TooSmallThreshold:    50,
			FarTooBigThreshold:   -100,
			TooBigThreshold:      -50,
			FarTooSmallCost:      50000,
			TooSmallCost:         5000,
			FarTooBigCost:        2000,
			TooBigCost:           200,
		},
	}
}

// Validate enforces the required shape of the policy: a small penalty
// region around good fit with escalating costs at both extremes, dominated
// by the unplaced penalty.
func (s Settings) Validate() error {
	b := s.Capacity
	if b.FarTooSmallThreshold <= b.TooSmallThreshold || b.TooSmallThreshold <= 0 {
		return fmt.Errorf("too-small thresholds must satisfy far(%d) > near(%d) > 0", b.FarTooSmallThreshold, b.TooSmallThreshold)
	}
	if b.FarTooBigThreshold >= b.TooBigThreshold || b.TooBigThreshold >= 0 {
		return fmt.Errorf("too-big thresholds must satisfy far(%d) < near(%d) < 0", b.FarTooBigThreshold, b.TooBigThreshold)
	}
	if b.FarTooSmallCost <= b.TooSmallCost || b.TooSmallCost <= b.FarTooBigCost || b.FarTooBigCost <= b.TooBigCost || b.TooBigCost < 0 {
		return fmt.Errorf("band costs must satisfy far-too-small > too-small > far-too-big > too-big >= 0")
	}
	if s.UnplacedPenalty <= b.FarTooSmallCost {
		return fmt.Errorf("unplaced penalty %d must dominate every band cost", s.UnplacedPenalty)
	}
	return nil
}

// penalty returns the room-fit cost for one placement, or zero when the
// mismatch falls in the good-fit region. Callers skip the band entirely
// when either side of the comparison is unknown.
func (b CapacityBands) penalty(mismatch int) int {
	switch {
	case mismatch > b.FarTooSmallThreshold:
		return b.FarTooSmallCost
	case mismatch > b.TooSmallThreshold:
		return b.TooSmallCost
	case mismatch < b.FarTooBigThreshold:
		return b.FarTooBigCost
	case mismatch < b.TooBigThreshold:
		return b.TooBigCost
	}
	return 0
}
