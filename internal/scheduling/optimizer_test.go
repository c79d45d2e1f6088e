package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/confsched-api/internal/models"
)

func optimizerFixture(t *testing.T) (*Run, []models.ScheduledSession) {
	t.Helper()
	run, err := NewRun(DefaultSettings(), testMeeting,
		[]models.Room{fixtureRoom("room-1", 100), fixtureRoom("room-2", 100)},
		[]models.TimeSlot{
			fixtureSlot("mon-9-r1", "room-1", mondayMorning),
			fixtureSlot("mon-9-r2", "room-2", mondayMorning),
			fixtureSlot("mon-11-r1", "room-1", mondayMorning.Add(2*time.Hour)),
			fixtureSlot("mon-11-r2", "room-2", mondayMorning.Add(2*time.Hour)),
		},
		[]models.Session{
			fixtureSession("sess-a", "alpha", 60),
			fixtureSession("sess-b", "beta", 60),
		},
		[]models.Constraint{groupConstraint("c1", "alpha", "beta", models.ConstraintConflict)},
	)
	require.NoError(t, err)

	// Both groups clash at Monday 09:00 in different rooms.
	rows := []models.ScheduledSession{
		{ID: "row-1", ScheduleID: "sched-1", TimeSlotID: "mon-9-r1", SessionID: strp("sess-a")},
		{ID: "row-2", ScheduleID: "sched-1", TimeSlotID: "mon-9-r2", SessionID: strp("sess-b")},
		{ID: "row-3", ScheduleID: "sched-1", TimeSlotID: "mon-11-r1"},
		{ID: "row-4", ScheduleID: "sched-1", TimeSlotID: "mon-11-r2"},
	}
	return run, rows
}

func TestOptimizeResolvesConflictByMovingASession(t *testing.T) {
	run, rows := optimizerFixture(t)
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	result := run.Optimize(a, OptimizeOptions{MaxEvaluations: 500})

	assert.Equal(t, 2*models.ConstraintConflict.Cost(), result.Before)
	assert.Zero(t, result.After, "the conflict is avoidable, so the search must find a zero-cost state")
	assert.GreaterOrEqual(t, result.Moves, 1)

	// The proposal keeps both sessions placed.
	assert.Len(t, result.Placements["sess-a"], 1)
	assert.Len(t, result.Placements["sess-b"], 1)
}

func TestOptimizePlacesUnplacedSessions(t *testing.T) {
	run, rows := optimizerFixture(t)
	rows[1].SessionID = nil // sess-b starts unplaced
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	result := run.Optimize(a, OptimizeOptions{MaxEvaluations: 500})

	assert.Zero(t, result.After)
	require.Len(t, result.Placements["sess-b"], 1)
	assert.NotEmpty(t, result.Placements["sess-b"][0])
}

func TestOptimizeNeverMovesPinnedSessions(t *testing.T) {
	run, rows := optimizerFixture(t)
	rows[0].Pinned = true
	rows[1].Pinned = true
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	result := run.Optimize(a, OptimizeOptions{MaxEvaluations: 500})

	assert.Equal(t, result.Before, result.After, "both sides pinned: nothing may move")
	assert.Zero(t, result.Moves)
	assert.Equal(t, []string{"mon-9-r1"}, result.Placements["sess-a"])
	assert.Equal(t, []string{"mon-9-r2"}, result.Placements["sess-b"])
}

func TestOptimizeDoesNotMutateTheAssignment(t *testing.T) {
	run, rows := optimizerFixture(t)
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	_ = run.Optimize(a, OptimizeOptions{MaxEvaluations: 500})

	assert.Equal(t, "mon-9-r1", a.Primary("sess-a").TimeSlotID)
	assert.Equal(t, "mon-9-r2", a.Primary("sess-b").TimeSlotID)
}

func TestOptimizeHonoursEvaluationBudget(t *testing.T) {
	run, rows := optimizerFixture(t)
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	result := run.Optimize(a, OptimizeOptions{MaxEvaluations: 3})
	assert.LessOrEqual(t, result.Evaluations, 3)
}
