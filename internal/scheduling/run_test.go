package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/confsched-api/internal/models"
)

const testMeeting = "meeting-1"

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

// Monday 2026-03-02 09:00 UTC as a base; the fixture meeting runs Mon-Fri.
var mondayMorning = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixtureRoom(id string, capacity int) models.Room {
	room := models.Room{ID: id, MeetingID: testMeeting, Name: id}
	if capacity > 0 {
		room.Capacity = intp(capacity)
	}
	return room
}

func fixtureSlot(id, roomID string, start time.Time) models.TimeSlot {
	slot := models.TimeSlot{
		ID:          id,
		MeetingID:   testMeeting,
		Type:        models.TimeSlotTypeSession,
		Name:        id,
		StartTime:   start,
		DurationMin: 60,
	}
	if roomID != "" {
		slot.RoomID = strp(roomID)
	}
	return slot
}

func fixtureSession(id, group string, attendees int) models.Session {
	s := models.Session{
		ID:           id,
		MeetingID:    testMeeting,
		Group:        group,
		RequestedMin: 60,
		Status:       models.SessionStatusScheduleWait,
	}
	if attendees > 0 {
		s.Attendees = intp(attendees)
	}
	return s
}

func groupConstraint(id, source, target string, name models.ConstraintName) models.Constraint {
	return models.Constraint{ID: id, MeetingID: testMeeting, SourceGroup: source, Name: name, TargetGroup: strp(target)}
}

func TestNewRunRejectsUnknownConstraintKind(t *testing.T) {
	_, err := NewRun(DefaultSettings(), testMeeting, nil, nil, nil, []models.Constraint{
		{ID: "c1", MeetingID: testMeeting, SourceGroup: "alpha", Name: "sorta-conflict", TargetGroup: strp("beta")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestNewRunRejectsCrossMeetingReferences(t *testing.T) {
	_, err := NewRun(DefaultSettings(), testMeeting, nil, []models.TimeSlot{
		{ID: "ts1", MeetingID: "other-meeting", Type: models.TimeSlotTypeSession, StartTime: mondayMorning},
	}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other-meeting")
}

func TestNewRunRejectsSelfConflict(t *testing.T) {
	_, err := NewRun(DefaultSettings(), testMeeting, nil, nil, nil, []models.Constraint{
		groupConstraint("c1", "alpha", "alpha", models.ConstraintConflict),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")
}

func TestNewRunExcludesTerminalSessions(t *testing.T) {
	canceled := fixtureSession("sess-x", "gamma", 40)
	canceled.Status = models.SessionStatusCanceled
	run, err := NewRun(DefaultSettings(), testMeeting, nil, nil, []models.Session{
		fixtureSession("sess-a", "alpha", 40),
		canceled,
	}, nil)
	require.NoError(t, err)

	_, ok := run.Session("sess-a")
	assert.True(t, ok)
	_, ok = run.Session("sess-x")
	assert.False(t, ok)
}

func TestResolveConstraintsKeepsMostSevereEdge(t *testing.T) {
	forward := groupConstraint("c1", "alpha", "beta", models.ConstraintConflict3)
	reverse := groupConstraint("c2", "beta", "alpha", models.ConstraintConflict)

	// The more severe reverse edge must win for both endpoints no matter
	// the order the edges are scanned in.
	for name, order := range map[string][]models.Constraint{
		"forward first": {forward, reverse},
		"reverse first": {reverse, forward},
	} {
		t.Run(name, func(t *testing.T) {
			run, err := NewRun(DefaultSettings(), testMeeting, nil, nil, nil, order)
			require.NoError(t, err)

			alpha := run.ResolvedConstraints("alpha")
			require.Len(t, alpha, 1)
			assert.Equal(t, models.ConstraintConflict, alpha["beta"].Name)

			beta := run.ResolvedConstraints("beta")
			require.Len(t, beta, 1)
			assert.Equal(t, models.ConstraintConflict, beta["alpha"].Name)
		})
	}
}

func TestResolveConstraintsOneEntryPerGroup(t *testing.T) {
	run, err := NewRun(DefaultSettings(), testMeeting, nil, nil, nil, []models.Constraint{
		groupConstraint("c1", "alpha", "beta", models.ConstraintConflict2),
		groupConstraint("c2", "alpha", "beta", models.ConstraintConflict3),
		groupConstraint("c3", "beta", "alpha", models.ConstraintConflict3),
		groupConstraint("c4", "alpha", "delta", models.ConstraintConflict),
	})
	require.NoError(t, err)

	alpha := run.ResolvedConstraints("alpha")
	require.Len(t, alpha, 2)
	assert.Equal(t, models.ConstraintConflict2, alpha["beta"].Name)
	assert.Equal(t, models.ConstraintConflict, alpha["delta"].Name)
}

func TestSeverityOrderIsStrictAmongConflictKinds(t *testing.T) {
	assert.Greater(t, models.ConstraintConflict.Severity(), models.ConstraintConflict2.Severity())
	assert.Greater(t, models.ConstraintConflict2.Severity(), models.ConstraintConflict3.Severity())
	assert.Zero(t, models.ConstraintBethere.Severity())
	assert.Zero(t, models.ConstraintAvoidDay.Severity())
}
