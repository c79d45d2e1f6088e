package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/confsched-api/internal/dto"
	"github.com/noah-isme/confsched-api/internal/models"
	appErrors "github.com/noah-isme/confsched-api/pkg/errors"
)

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Session, error)
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
}

type constraintRepository interface {
	Create(ctx context.Context, c *models.Constraint) error
	FindByID(ctx context.Context, id string) (*models.Constraint, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]models.Constraint, error)
	Delete(ctx context.Context, id string) error
}

type meetingReader interface {
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
}

// SessionService manages session requests, their lifecycle and the
// constraints declared against them.
type SessionService struct {
	sessions    sessionRepository
	constraints constraintRepository
	meetings    meetingReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSessionService constructs SessionService.
func NewSessionService(sessions sessionRepository, constraints constraintRepository, meetings meetingReader, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{sessions: sessions, constraints: constraints, meetings: meetings, validator: validate, logger: logger}
}

// CreateSession files one group's request to meet. New requests start in
// the approval-wait state.
func (s *SessionService) CreateSession(ctx context.Context, meetingID string, req dto.CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	session := &models.Session{
		MeetingID:    meetingID,
		Group:        req.Group,
		Attendees:    req.Attendees,
		RequestedMin: req.RequestedMin,
		Comments:     req.Comments,
		Status:       models.SessionStatusRequestWait,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// GetSession loads one session.
func (s *SessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// ListSessions returns a meeting's sessions.
func (s *SessionService) ListSessions(ctx context.Context, meetingID string) ([]models.Session, error) {
	sessions, err := s.sessions.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// UpdateStatus moves a session through its lifecycle. Only the transitions
// the lifecycle graph permits are accepted; terminal states are never left.
func (s *SessionService) UpdateStatus(ctx context.Context, id string, req dto.UpdateSessionStatusRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown session status "+string(req.Status))
	}
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
			"session cannot move from "+string(session.Status)+" to "+string(req.Status))
	}
	if err := s.sessions.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session status")
	}
	s.logger.Info("session status changed",
		zap.String("session_id", id),
		zap.String("group", session.Group),
		zap.String("from", string(session.Status)),
		zap.String("to", string(req.Status)))
	session.Status = req.Status
	return session, nil
}

// CreateConstraint declares a scheduling constraint. Unknown kinds and
// malformed targets are rejected here so the scoring engine never sees
// them.
func (s *SessionService) CreateConstraint(ctx context.Context, meetingID string, req dto.CreateConstraintRequest) (*models.Constraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}
	if !req.Name.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown constraint kind "+string(req.Name))
	}
	switch {
	case req.Name.PairwiseGroup():
		if req.TargetGroup == nil || *req.TargetGroup == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, string(req.Name)+" constraints require a target group")
		}
		if *req.TargetGroup == req.SourceGroup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "a group cannot conflict with itself")
		}
	case req.Name == models.ConstraintBethere:
		if req.TargetPerson == nil || *req.TargetPerson == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "bethere constraints require a target person")
		}
	case req.Name == models.ConstraintAvoidDay:
		if req.TargetDay == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "avoid_day constraints require a target day")
		}
	}
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	constraint := &models.Constraint{
		MeetingID:    meetingID,
		SourceGroup:  req.SourceGroup,
		Name:         req.Name,
		TargetGroup:  req.TargetGroup,
		TargetPerson: req.TargetPerson,
		TargetDay:    req.TargetDay,
	}
	if err := s.constraints.Create(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create constraint")
	}
	return constraint, nil
}

// ListConstraints returns a meeting's constraints.
func (s *SessionService) ListConstraints(ctx context.Context, meetingID string) ([]models.Constraint, error) {
	constraints, err := s.constraints.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	return constraints, nil
}

// DeleteConstraint removes a constraint.
func (s *SessionService) DeleteConstraint(ctx context.Context, id string) error {
	if _, err := s.constraints.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}
	if err := s.constraints.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete constraint")
	}
	return nil
}
