package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/workforce-portal/grievance-service/internal/auth"
	"github.com/workforce-portal/grievance-service/internal/config"
	"github.com/workforce-portal/grievance-service/internal/domain"
	"github.com/workforce-portal/grievance-service/internal/repository"
	apperrors "github.com/workforce-portal/grievance-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and directory assignment changes.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	validate   *validator.Validate
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	Validator *validator.Validate
	Logger    *zap.Logger
}

// RegisterInput describes a self-registration request.
type RegisterInput struct {
	Name       string `validate:"required,max=120"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=8,max=72"`
	Department string `validate:"required,max=120"`
}

// AssignmentInput describes a role/department change made by HR.
type AssignmentInput struct {
	Role       domain.Role `validate:"required,oneof=worker supervisor official hr"`
	Department string      `validate:"max=120"`
}

// AuthResult carries the user together with an access token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	validate := deps.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		validate:   validate,
		logger:     logger,
	}
}

// TokenManager exposes token handling for middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a worker account. Elevated roles are granted by HR afterwards.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Department = strings.TrimSpace(input.Department)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleWorker,
		Department:   input.Department,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account inactive")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// UpdateAssignment changes a user's role and department. Only HR may do this; the
// change applies to the user's next request because actors are resolved per request.
func (s *AuthService) UpdateAssignment(ctx context.Context, actor domain.Actor, userID string, input AssignmentInput) (*domain.User, error) {
	if actor.Role != domain.RoleHR {
		return nil, apperrors.NewForbidden("hr role required")
	}
	input.Department = strings.TrimSpace(input.Department)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	user, err := s.users.UpdateAssignment(ctx, userID, input.Role, input.Department)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	s.logger.Info("user assignment updated",
		zap.String("user_id", userID),
		zap.String("actor_id", actor.ID),
		zap.String("role", string(user.Role)),
		zap.String("department", user.Department))
	return user, nil
}

// DirectoryQuery filters the user directory listing.
type DirectoryQuery struct {
	Role       *domain.Role
	Department *string
	Active     *bool
	Limit      int
	Offset     int
}

// ListUsers returns directory entries for HR, newest first.
func (s *AuthService) ListUsers(ctx context.Context, actor domain.Actor, query DirectoryQuery) ([]domain.User, error) {
	if actor.Role != domain.RoleHR {
		return nil, apperrors.NewForbidden("hr role required")
	}
	if query.Role != nil && !query.Role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(*query.Role)})
	}
	if query.Limit > 200 {
		query.Limit = 200
	}
	users, err := s.users.List(ctx, repository.UserFilter{
		Role:       query.Role,
		Department: query.Department,
		Active:     query.Active,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
