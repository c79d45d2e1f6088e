package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/confsched-api/internal/models"
)

// conflictFixture builds the canonical two-group scenario: groups alpha and
// beta with one session each, two rooms with identical capacity, and a pair
// of concurrent Monday 09:00 slots plus a Monday 11:00 escape slot.
func conflictFixture(t *testing.T, name models.ConstraintName) (*Run, []models.ScheduledSession) {
	t.Helper()
	run, err := NewRun(DefaultSettings(), testMeeting,
		[]models.Room{fixtureRoom("room-1", 100), fixtureRoom("room-2", 100)},
		[]models.TimeSlot{
			fixtureSlot("mon-9-r1", "room-1", mondayMorning),
			fixtureSlot("mon-9-r2", "room-2", mondayMorning),
			fixtureSlot("mon-11-r1", "room-1", mondayMorning.Add(2*time.Hour)),
		},
		[]models.Session{
			fixtureSession("sess-a", "alpha", 60),
			fixtureSession("sess-b", "beta", 60),
		},
		[]models.Constraint{groupConstraint("c1", "alpha", "beta", name)},
	)
	require.NoError(t, err)

	rows := []models.ScheduledSession{
		{ID: "row-1", ScheduleID: "sched-1", TimeSlotID: "mon-9-r1", SessionID: strp("sess-a")},
		{ID: "row-2", ScheduleID: "sched-1", TimeSlotID: "mon-9-r2", SessionID: strp("sess-b")},
		{ID: "row-3", ScheduleID: "sched-1", TimeSlotID: "mon-11-r1"},
	}
	return run, rows
}

func TestUnplacedSessionCostsOnlyTheFixedPenalty(t *testing.T) {
	run, err := NewRun(DefaultSettings(), testMeeting,
		[]models.Room{fixtureRoom("room-1", 10)},
		[]models.TimeSlot{fixtureSlot("mon-9-r1", "room-1", mondayMorning)},
		[]models.Session{fixtureSession("sess-a", "alpha", 500)},
		nil,
	)
	require.NoError(t, err)

	a, err := run.BuildAssignment(nil)
	require.NoError(t, err)

	b, err := run.SessionBadness("sess-a", a, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().UnplacedPenalty, b, "no room-fit term may leak into an unplaced score")

	fast, err := run.FastBadness("sess-a", "", Placements{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().UnplacedPenalty, fast)
}

func TestConcurrentDifferentRoomsCostExactlyOneConflict(t *testing.T) {
	run, rows := conflictFixture(t, models.ConstraintConflict)
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	b, err := run.SessionBadness("sess-a", a, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ConstraintConflict.Cost(), b,
		"cost must be added once even though it is recorded on both rows")

	assert.Equal(t, models.ConstraintConflict.Cost(), a.Primary("sess-a").Badness)
	assert.Equal(t, models.ConstraintConflict.Cost(), a.Primary("sess-b").Badness)
}

func TestColocatedSessionsNeverConflict(t *testing.T) {
	for _, name := range []models.ConstraintName{
		models.ConstraintConflict, models.ConstraintConflict2, models.ConstraintConflict3,
	} {
		run, rows := conflictFixture(t, name)
		rows[1].TimeSlotID = "mon-9-r1" // same room, same time as sess-a
		a, err := run.BuildAssignment(rows)
		require.NoError(t, err)

		b, err := run.SessionBadness("sess-a", a, nil)
		require.NoError(t, err)
		assert.Zero(t, b, "co-location resolves a %s constraint", name)
	}
}

func TestConflictCostIsDirectionSymmetric(t *testing.T) {
	forwardRun, rows := conflictFixture(t, models.ConstraintConflict2)
	forwardA, err := forwardRun.BuildAssignment(rows)
	require.NoError(t, err)
	forwardTotal, err := forwardRun.ScheduleBadness(forwardA, nil)
	require.NoError(t, err)

	reverseRun, err := NewRun(DefaultSettings(), testMeeting,
		[]models.Room{fixtureRoom("room-1", 100), fixtureRoom("room-2", 100)},
		[]models.TimeSlot{
			fixtureSlot("mon-9-r1", "room-1", mondayMorning),
			fixtureSlot("mon-9-r2", "room-2", mondayMorning),
			fixtureSlot("mon-11-r1", "room-1", mondayMorning.Add(2*time.Hour)),
		},
		[]models.Session{
			fixtureSession("sess-a", "alpha", 60),
			fixtureSession("sess-b", "beta", 60),
		},
		[]models.Constraint{groupConstraint("c1", "beta", "alpha", models.ConstraintConflict2)},
	)
	require.NoError(t, err)
	reverseA, err := reverseRun.BuildAssignment(rows)
	require.NoError(t, err)
	reverseTotal, err := reverseRun.ScheduleBadness(reverseA, nil)
	require.NoError(t, err)

	assert.Equal(t, forwardTotal, reverseTotal)
}

func TestRoomFitBands(t *testing.T) {
	bands := DefaultSettings().Capacity
	cases := []struct {
		name      string
		capacity  int
		attendees int
		want      int
	}{
		{"far too small", 50, 200, bands.FarTooSmallCost},
		{"too small", 50, 130, bands.TooSmallCost},
		{"upper boundary of too small", 50, 150, bands.TooSmallCost},
		{"comfortable", 50, 60, 0},
		{"slightly roomy is free", 50, 10, 0},
		{"too big", 130, 50, bands.TooBigCost},
		{"far too big", 500, 50, bands.FarTooBigCost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			run, err := NewRun(DefaultSettings(), testMeeting,
				[]models.Room{fixtureRoom("room-1", tc.capacity)},
				[]models.TimeSlot{fixtureSlot("mon-9-r1", "room-1", mondayMorning)},
				[]models.Session{fixtureSession("sess-a", "alpha", tc.attendees)},
				nil,
			)
			require.NoError(t, err)
			a, err := run.BuildAssignment([]models.ScheduledSession{
				{ID: "row-1", ScheduleID: "sched-1", TimeSlotID: "mon-9-r1", SessionID: strp("sess-a")},
			})
			require.NoError(t, err)

			b, err := run.SessionBadness("sess-a", a, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, b)
		})
	}
}

func TestRoomFitIsMonotonicAsRoomsShrink(t *testing.T) {
	previous := -1
	for capacity := 200; capacity >= 1; capacity -= 10 {
		run, err := NewRun(DefaultSettings(), testMeeting,
			[]models.Room{fixtureRoom("room-1", capacity)},
			[]models.TimeSlot{fixtureSlot("mon-9-r1", "room-1", mondayMorning)},
			[]models.Session{fixtureSession("sess-a", "alpha", 200)},
			nil,
		)
		require.NoError(t, err)
		a, err := run.BuildAssignment([]models.ScheduledSession{
			{ID: "row-1", ScheduleID: "sched-1", TimeSlotID: "mon-9-r1", SessionID: strp("sess-a")},
		})
		require.NoError(t, err)
		b, err := run.SessionBadness("sess-a", a, nil)
		require.NoError(t, err)
		if previous >= 0 {
			assert.GreaterOrEqual(t, b, previous, "capacity %d", capacity)
		}
		previous = b
	}
}

func TestMissingCapacityOrAttendeesSkipsRoomFit(t *testing.T) {
	run, err := NewRun(DefaultSettings(), testMeeting,
		[]models.Room{fixtureRoom("no-cap", 0), fixtureRoom("room-1", 10)},
		[]models.TimeSlot{
			fixtureSlot("mon-9-nocap", "no-cap", mondayMorning),
			fixtureSlot("mon-11-r1", "room-1", mondayMorning.Add(2*time.Hour)),
		},
		[]models.Session{
			fixtureSession("sess-a", "alpha", 500),
			fixtureSession("sess-b", "beta", 0), // no attendee estimate
		},
		nil,
	)
	require.NoError(t, err)

	a, err := run.BuildAssignment([]models.ScheduledSession{
		{ID: "row-1", ScheduleID: "sched-1", TimeSlotID: "mon-9-nocap", SessionID: strp("sess-a")},
		{ID: "row-2", ScheduleID: "sched-1", TimeSlotID: "mon-11-r1", SessionID: strp("sess-b")},
	})
	require.NoError(t, err)

	b, err := run.SessionBadness("sess-a", a, nil)
	require.NoError(t, err)
	assert.Zero(t, b, "missing capacity must skip the band, not raise")

	b, err = run.SessionBadness("sess-b", a, nil)
	require.NoError(t, err)
	assert.Zero(t, b, "missing attendee estimate must skip the band, not raise")
}

func TestAvoidedDayPenalisesEveryPlacementOnThatDay(t *testing.T) {
	monday := int(time.Monday)
	run, err := NewRun(DefaultSettings(), testMeeting,
		[]models.Room{fixtureRoom("room-1", 100)},
		[]models.TimeSlot{
			fixtureSlot("mon-9-r1", "room-1", mondayMorning),
			fixtureSlot("tue-9-r1", "room-1", mondayMorning.AddDate(0, 0, 1)),
		},
		[]models.Session{fixtureSession("sess-a", "alpha", 60)},
		[]models.Constraint{{
			ID: "c1", MeetingID: testMeeting, SourceGroup: "alpha",
			Name: models.ConstraintAvoidDay, TargetDay: &monday,
		}},
	)
	require.NoError(t, err)

	onMonday, err := run.FastBadness("sess-a", "mon-9-r1", Placements{}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ConstraintAvoidDay.Cost(), onMonday)

	onTuesday, err := run.FastBadness("sess-a", "tue-9-r1", Placements{}, nil)
	require.NoError(t, err)
	assert.Zero(t, onTuesday)
}

func TestFastAndFullScoringAgree(t *testing.T) {
	run, err := NewRun(DefaultSettings(), testMeeting,
		[]models.Room{
			fixtureRoom("room-1", 100),
			fixtureRoom("room-2", 60),
			fixtureRoom("room-3", 400),
		},
		[]models.TimeSlot{
			fixtureSlot("mon-9-r1", "room-1", mondayMorning),
			fixtureSlot("mon-9-r2", "room-2", mondayMorning),
			fixtureSlot("mon-9-r3", "room-3", mondayMorning),
			fixtureSlot("mon-11-r1", "room-1", mondayMorning.Add(2*time.Hour)),
			fixtureSlot("tue-9-r2", "room-2", mondayMorning.AddDate(0, 0, 1)),
		},
		[]models.Session{
			fixtureSession("sess-a", "alpha", 220),
			fixtureSession("sess-b", "beta", 55),
			fixtureSession("sess-c", "gamma", 90),
			fixtureSession("sess-d", "delta", 30),
			fixtureSession("sess-e", "epsilon", 70), // stays unplaced
		},
		[]models.Constraint{
			groupConstraint("c1", "alpha", "beta", models.ConstraintConflict),
			groupConstraint("c2", "gamma", "alpha", models.ConstraintConflict2),
			groupConstraint("c3", "beta", "delta", models.ConstraintConflict3),
			groupConstraint("c4", "delta", "beta", models.ConstraintConflict),
		},
	)
	require.NoError(t, err)

	rows := []models.ScheduledSession{
		{ID: "row-1", ScheduleID: "sched-1", TimeSlotID: "mon-9-r1", SessionID: strp("sess-a")},
		{ID: "row-2", ScheduleID: "sched-1", TimeSlotID: "mon-9-r2", SessionID: strp("sess-b")},
		{ID: "row-3", ScheduleID: "sched-1", TimeSlotID: "mon-9-r3", SessionID: strp("sess-c")},
		{ID: "row-4", ScheduleID: "sched-1", TimeSlotID: "mon-11-r1", SessionID: strp("sess-d")},
		{ID: "row-5", ScheduleID: "sched-1", TimeSlotID: "tue-9-r2"},
	}
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	var fullStats Stats
	full, err := run.ScheduleBadness(a, &fullStats)
	require.NoError(t, err)

	placements := a.Placements()
	sumFast := 0
	for id := range run.Sessions() {
		candidate := ""
		if p := a.Primary(id); p != nil {
			candidate = p.TimeSlotID
		}
		fast, err := run.FastBadness(id, candidate, placements, nil)
		require.NoError(t, err)
		sumFast += fast
	}

	assert.Equal(t, full, sumFast)
	assert.Equal(t, len(run.Sessions()), fullStats.SessionsScored)
	assert.Greater(t, full, DefaultSettings().UnplacedPenalty, "sess-e is unplaced")
}

func TestConstraintAgainstGroupWithNoPlacementsContributesNothing(t *testing.T) {
	run, rows := conflictFixture(t, models.ConstraintConflict)
	rows[1].SessionID = nil // beta never placed
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	b, err := run.SessionBadness("sess-a", a, nil)
	require.NoError(t, err)
	assert.Zero(t, b)
}

func TestFastBadnessDoesNotMutateItsInputs(t *testing.T) {
	run, rows := conflictFixture(t, models.ConstraintConflict)
	a, err := run.BuildAssignment(rows)
	require.NoError(t, err)

	placements := a.Placements()
	before := placements.Clone()
	_, err = run.FastBadness("sess-a", "mon-11-r1", placements, nil)
	require.NoError(t, err)
	assert.Equal(t, before, placements)
	assert.Zero(t, a.Primary("sess-a").Badness, "fast scoring must not write row bookkeeping")
}
