package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/models"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
)

type stubSessionRepo struct {
	sessions map[string]models.Session
	status   map[string]models.SessionStatus
}

func (m *stubSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]models.Session)
	}
	if session.ID == "" {
		session.ID = "new-session"
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *stubSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubSessionRepo) ListByMeeting(ctx context.Context, meetingID string) ([]models.Session, error) {
	var list []models.Session
	for _, s := range m.sessions {
		if s.MeetingID == meetingID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *stubSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	if m.status == nil {
		m.status = make(map[string]models.SessionStatus)
	}
	m.status[id] = status
	if s, ok := m.sessions[id]; ok {
		s.Status = status
		m.sessions[id] = s
	}
	return nil
}

type stubConstraintRepo struct {
	constraints map[string]models.Constraint
	created     *models.Constraint
}

func (m *stubConstraintRepo) Create(ctx context.Context, c *models.Constraint) error {
	if m.constraints == nil {
		m.constraints = make(map[string]models.Constraint)
	}
	if c.ID == "" {
		c.ID = "new-constraint"
	}
	m.constraints[c.ID] = *c
	m.created = c
	return nil
}

func (m *stubConstraintRepo) FindByID(ctx context.Context, id string) (*models.Constraint, error) {
	if c, ok := m.constraints[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubConstraintRepo) ListByMeeting(ctx context.Context, meetingID string) ([]models.Constraint, error) {
	var list []models.Constraint
	for _, c := range m.constraints {
		if c.MeetingID == meetingID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *stubConstraintRepo) Delete(ctx context.Context, id string) error {
	delete(m.constraints, id)
	return nil
}

type stubMeetings struct {
	meetings map[string]models.Meeting
	agenda   map[string]*string
}

func (m *stubMeetings) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	if meeting, ok := m.meetings[id]; ok {
		return &meeting, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubMeetings) SetAgenda(ctx context.Context, meetingID string, scheduleID *string) error {
	if m.agenda == nil {
		m.agenda = make(map[string]*string)
	}
	m.agenda[meetingID] = scheduleID
	return nil
}

func newSessionServiceFixture() (*SessionService, *stubSessionRepo, *stubConstraintRepo) {
	sessions := &stubSessionRepo{}
	constraints := &stubConstraintRepo{}
	meetings := &stubMeetings{meetings: map[string]models.Meeting{"meeting-1": {ID: "meeting-1", Number: "120"}}}
	svc := NewSessionService(sessions, constraints, meetings, validator.New(), zap.NewNop())
	return svc, sessions, constraints
}

func TestSessionServiceCreateStartsInRequestWait(t *testing.T) {
	svc, _, _ := newSessionServiceFixture()

	session, err := svc.CreateSession(context.Background(), "meeting-1", dto.CreateSessionRequest{Group: "tls", RequestedMin: 120})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusRequestWait, session.Status)
	assert.Equal(t, "tls", session.Group)
}

func TestSessionServiceStatusTransitions(t *testing.T) {
	svc, repo, _ := newSessionServiceFixture()
	repo.sessions = map[string]models.Session{
		"sess-1": {ID: "sess-1", MeetingID: "meeting-1", Group: "tls", Status: models.SessionStatusRequestWait},
		"sess-2": {ID: "sess-2", MeetingID: "meeting-1", Group: "ops", Status: models.SessionStatusCanceled},
	}

	updated, err := svc.UpdateStatus(context.Background(), "sess-1", dto.UpdateSessionStatusRequest{Status: models.SessionStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusApproved, updated.Status)
	assert.Equal(t, models.SessionStatusApproved, repo.status["sess-1"])

	// A request cannot jump straight to scheduled.
	repo.sessions["sess-1"] = models.Session{ID: "sess-1", MeetingID: "meeting-1", Group: "tls", Status: models.SessionStatusRequestWait}
	_, err = svc.UpdateStatus(context.Background(), "sess-1", dto.UpdateSessionStatusRequest{Status: models.SessionStatusScheduled})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	// Terminal states are never left.
	_, err = svc.UpdateStatus(context.Background(), "sess-2", dto.UpdateSessionStatusRequest{Status: models.SessionStatusApproved})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceConstraintValidation(t *testing.T) {
	svc, _, constraints := newSessionServiceFixture()
	target := "ops"
	person := "chair@example.org"
	day := 1

	cases := []struct {
		name string
		req  dto.CreateConstraintRequest
		ok   bool
	}{
		{"valid conflict", dto.CreateConstraintRequest{SourceGroup: "tls", Name: models.ConstraintConflict, TargetGroup: &target}, true},
		{"valid bethere", dto.CreateConstraintRequest{SourceGroup: "tls", Name: models.ConstraintBethere, TargetPerson: &person}, true},
		{"valid avoid_day", dto.CreateConstraintRequest{SourceGroup: "tls", Name: models.ConstraintAvoidDay, TargetDay: &day}, true},
		{"unknown kind", dto.CreateConstraintRequest{SourceGroup: "tls", Name: "clash", TargetGroup: &target}, false},
		{"conflict without target", dto.CreateConstraintRequest{SourceGroup: "tls", Name: models.ConstraintConflict2}, false},
		{"self conflict", dto.CreateConstraintRequest{SourceGroup: "ops", Name: models.ConstraintConflict, TargetGroup: &target}, false},
		{"bethere without person", dto.CreateConstraintRequest{SourceGroup: "tls", Name: models.ConstraintBethere}, false},
		{"avoid_day without day", dto.CreateConstraintRequest{SourceGroup: "tls", Name: models.ConstraintAvoidDay}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateConstraint(context.Background(), "meeting-1", tc.req)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			}
		})
	}
	assert.NotNil(t, constraints.created)
}
