package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workforce-portal/grievance-service/internal/domain"
	"github.com/workforce-portal/grievance-service/internal/events"
	"github.com/workforce-portal/grievance-service/internal/policy"
	"github.com/workforce-portal/grievance-service/internal/repository"
	apperrors "github.com/workforce-portal/grievance-service/pkg/util/errorutil"
)

const (
	actionView         = "view"
	actionReply        = "reply"
	actionChangeStatus = "change_status"
	actionList         = "list"
)

type grievanceMetrics interface {
	RecordTransition(from, to string)
	RecordDenial(action, reason string)
}

// GrievanceService coordinates grievance workflows. Every operation consults the
// authorization policy before touching the store.
type GrievanceService struct {
	grievances repository.GrievanceRepository
	dispatcher events.Dispatcher
	metrics    grievanceMetrics
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// GrievanceDependencies bundles collaborators for the grievance service.
type GrievanceDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	Dispatcher    events.Dispatcher
	Metrics       grievanceMetrics
	Validator     *validator.Validate
	Logger        *zap.Logger
}

// GrievanceCreateInput describes grievance creation payload.
type GrievanceCreateInput struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=5000"`
	Department  string `validate:"max=120"`
}

// NewGrievanceService constructs the service.
func NewGrievanceService(deps GrievanceDependencies) *GrievanceService {
	validate := deps.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrievanceService{
		grievances: deps.GrievanceRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		validate:   validate,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateGrievance files a grievance for the actor. The department defaults to the
// actor's own department and never changes afterwards.
func (s *GrievanceService) CreateGrievance(ctx context.Context, actor domain.Actor, input GrievanceCreateInput) (*domain.Grievance, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Department = strings.TrimSpace(input.Department)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	department := input.Department
	if department == "" {
		department = strings.TrimSpace(actor.Department)
	}
	if department == "" {
		return nil, apperrors.NewValidationError("department required", map[string]any{"department": "required"})
	}

	grievance := &domain.Grievance{
		ID:          uuid.NewString(),
		SubmitterID: actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Department:  department,
		Status:      domain.GrievanceStatusPending,
		Replies:     []domain.Reply{},
	}
	if err := s.grievances.Create(ctx, grievance); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.logger.Info("grievance created",
		zap.String("grievance_id", grievance.ID),
		zap.String("submitter_id", actor.ID),
		zap.String("department", grievance.Department))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventGrievanceCreated,
		GrievanceID: grievance.ID,
		Actor:       events.ActorFrom(actor),
		Payload: events.GrievanceCreatedPayload{
			SubmitterID: grievance.SubmitterID,
			Department:  grievance.Department,
			Title:       grievance.Title,
		},
	})
	return grievance, nil
}

// ListGrievances returns grievances in scope, newest first.
func (s *GrievanceService) ListGrievances(ctx context.Context, actor domain.Actor, scope policy.ListScope) ([]domain.Grievance, error) {
	if !scope.IsValid() {
		return nil, apperrors.NewValidationError("invalid scope", map[string]any{"scope": string(scope)})
	}
	if err := s.enforce(actionList, policy.CanListScope(actor, scope)); err != nil {
		return nil, err
	}

	var (
		items []domain.Grievance
		err   error
	)
	switch scope {
	case policy.ScopeOwn:
		items, err = s.grievances.ListBySubmitter(ctx, actor.ID)
	case policy.ScopeDepartment:
		if strings.TrimSpace(actor.Department) == "" {
			return []domain.Grievance{}, nil
		}
		items, err = s.grievances.ListByDepartment(ctx, actor.Department)
	case policy.ScopeAllHR:
		items, err = s.grievances.ListHRClass(ctx)
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return items, nil
}

// GetGrievance fetches a grievance the actor may view.
func (s *GrievanceService) GetGrievance(ctx context.Context, actor domain.Actor, id string) (*domain.Grievance, error) {
	grievance, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.enforce(actionView, policy.CanView(actor, grievance)); err != nil {
		return nil, err
	}
	return grievance, nil
}

// ChangeStatus moves a grievance to status through the grievance state machine.
// Setting the current status again is a no-op. A lost compare-and-set race is
// retried once against the fresh document.
func (s *GrievanceService) ChangeStatus(ctx context.Context, actor domain.Actor, id string, status domain.GrievanceStatus) (*domain.Grievance, error) {
	if !status.IsValid() {
		return nil, apperrors.NewInvalidStatus(string(status))
	}

	for attempt := 0; ; attempt++ {
		grievance, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.enforce(actionChangeStatus, policy.CanChangeStatus(actor, grievance, status)); err != nil {
			return nil, err
		}
		oldStatus := grievance.Status
		changed, err := grievance.TransitionTo(status)
		if err != nil {
			return nil, s.stateError(actionChangeStatus, status, err)
		}
		if !changed {
			return grievance, nil
		}

		updated, err := s.grievances.SetStatus(ctx, grievance.ID, oldStatus, grievance.Status)
		switch {
		case errors.Is(err, repository.ErrConflict) && attempt == 0:
			s.logger.Debug("status update conflict, retrying", zap.String("grievance_id", id))
			continue
		case errors.Is(err, repository.ErrConflict):
			return nil, apperrors.NewConflict("grievance was modified concurrently", map[string]any{"grievance_id": id})
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("grievance", map[string]any{"grievance_id": id})
		case err != nil:
			return nil, apperrors.NewStorageError(err)
		}

		if s.metrics != nil {
			s.metrics.RecordTransition(string(oldStatus), string(status))
		}
		s.logger.Info("grievance status changed",
			zap.String("grievance_id", id),
			zap.String("actor_id", actor.ID),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(status)))
		s.publishEvent(ctx, events.Event{
			Type:        events.EventGrievanceStatusChanged,
			GrievanceID: id,
			Actor:       events.ActorFrom(actor),
			Payload: events.GrievanceStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: status,
			},
		})
		return updated, nil
	}
}

// AddReply appends a reply from the actor, capturing the actor's current role.
func (s *GrievanceService) AddReply(ctx context.Context, actor domain.Actor, id, message string) (*domain.Grievance, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", map[string]any{"message": "required"})
	}

	grievance, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.enforce(actionReply, policy.CanReply(actor, grievance)); err != nil {
		return nil, err
	}

	reply := domain.Reply{
		ID:         uuid.NewString(),
		SenderID:   actor.ID,
		SenderRole: actor.Role,
		Message:    message,
		CreatedAt:  s.now(),
	}
	if err := grievance.AppendReply(reply); err != nil {
		return nil, s.stateError(actionReply, grievance.Status, err)
	}
	updated, err := s.grievances.AppendReply(ctx, grievance.ID, reply)
	switch {
	case errors.Is(err, domain.ErrGrievanceClosed):
		return nil, s.denied(actionReply, policy.ReasonGrievanceClosed)
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewNotFound("grievance", map[string]any{"grievance_id": id})
	case err != nil:
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventGrievanceReplyAdded,
		GrievanceID: id,
		Actor:       events.ActorFrom(actor),
		Payload: events.GrievanceReplyAddedPayload{
			ReplyID:     reply.ID,
			SenderRole:  reply.SenderRole,
			BodyPreview: stringPreview(reply.Message, 120),
		},
	})
	return updated, nil
}

func (s *GrievanceService) load(ctx context.Context, id string) (*domain.Grievance, error) {
	grievance, err := s.grievances.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("grievance", map[string]any{"grievance_id": id})
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return grievance, nil
}

// stateError maps a state machine rejection to its API error.
func (s *GrievanceService) stateError(action string, status domain.GrievanceStatus, err error) error {
	switch {
	case errors.Is(err, domain.ErrGrievanceClosed):
		return s.denied(action, policy.ReasonGrievanceClosed)
	case errors.Is(err, domain.ErrInvalidStatus):
		return apperrors.NewInvalidStatus(string(status))
	}
	return apperrors.NewInternalError(err)
}

func (s *GrievanceService) enforce(action string, decision policy.Decision) error {
	if decision.Allowed {
		return nil
	}
	return s.denied(action, decision.Reason)
}

func (s *GrievanceService) denied(action string, reason policy.Reason) error {
	if s.metrics != nil {
		s.metrics.RecordDenial(action, string(reason))
	}
	switch reason {
	case policy.ReasonInvalidStatus:
		return apperrors.NewInvalidStatus("")
	case policy.ReasonGrievanceClosed:
		return apperrors.NewForbiddenReason(string(reason), "grievance is closed")
	case policy.ReasonHROnly:
		return apperrors.NewForbiddenReason(string(reason), "only HR or administration staff may act on this grievance")
	case policy.ReasonNotDepartmentOwner:
		return apperrors.NewForbiddenReason(string(reason), "grievance belongs to another department")
	default:
		return apperrors.NewForbiddenReason(string(reason), "access denied")
	}
}

func (s *GrievanceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("grievance_id", event.GrievanceID),
			zap.Error(err))
	}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
