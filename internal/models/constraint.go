package models

import "time"

// ConstraintName identifies the kind of a constraint. The vocabulary is
// fixed: three group-conflict kinds of strictly decreasing importance, a
// person-availability kind, and a day-avoidance kind. Unknown names are a
// data error and are rejected when a constraint is created.
type ConstraintName string

const (
	ConstraintConflict  ConstraintName = "conflict"
	ConstraintConflict2 ConstraintName = "conflic2"
	ConstraintConflict3 ConstraintName = "conflic3"
	ConstraintBethere   ConstraintName = "bethere"
	ConstraintAvoidDay  ConstraintName = "avoid_day"
)

// constraintCosts is the fixed cost table per kind.
var constraintCosts = map[ConstraintName]int{
	ConstraintConflict:  100000,
	ConstraintConflict2: 10000,
	ConstraintConflict3: 1000,
	ConstraintBethere:   10000,
	ConstraintAvoidDay:  1000,
}

// constraintSeverities ranks only the three conflict kinds. Every other
// kind ranks zero: the severity order is deliberately partial, and callers
// must not rely on ordering between non-conflict kinds.
var constraintSeverities = map[ConstraintName]int{
	ConstraintConflict:  3,
	ConstraintConflict2: 2,
	ConstraintConflict3: 1,
}

// Valid reports whether the name is part of the fixed vocabulary.
func (n ConstraintName) Valid() bool {
	_, ok := constraintCosts[n]
	return ok
}

// Cost returns the fixed badness contribution of one violated instance of
// this constraint kind.
func (n ConstraintName) Cost() int {
	return constraintCosts[n]
}

// Severity returns the conflict rank: conflict > conflic2 > conflic3.
// Non-conflict kinds return zero.
func (n ConstraintName) Severity() int {
	return constraintSeverities[n]
}

// PairwiseGroup reports whether the kind relates two groups and therefore
// participates in concurrent-slot conflict scoring.
func (n ConstraintName) PairwiseGroup() bool {
	return n.Severity() > 0
}

// Constraint is a directed relation (meeting, source group, name, target).
// Exactly one of TargetGroup, TargetPerson and TargetDay is set, depending
// on the kind. Constraints between groups are symmetric in effect: an edge
// declared in either direction influences both endpoints identically.
type Constraint struct {
	ID           string         `db:"id" json:"id"`
	MeetingID    string         `db:"meeting_id" json:"meeting_id"`
	SourceGroup  string         `db:"source_group" json:"source_group"`
	Name         ConstraintName `db:"name" json:"name"`
	TargetGroup  *string        `db:"target_group" json:"target_group,omitempty"`
	TargetPerson *string        `db:"target_person" json:"target_person,omitempty"`
	TargetDay    *int           `db:"target_day" json:"target_day,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// AvoidedDay returns the weekday a day-avoidance constraint names.
func (c Constraint) AvoidedDay() (time.Weekday, bool) {
	if c.Name != ConstraintAvoidDay || c.TargetDay == nil {
		return 0, false
	}
	return time.Weekday(*c.TargetDay), true
}
