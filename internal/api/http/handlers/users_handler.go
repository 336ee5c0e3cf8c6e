package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/workforce-portal/grievance-service/internal/api/dto"
	"github.com/workforce-portal/grievance-service/internal/domain"
	"github.com/workforce-portal/grievance-service/internal/service"
	apperrors "github.com/workforce-portal/grievance-service/pkg/util/errorutil"
)

// UsersHandler exposes auth and directory endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authPayload(result))
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authPayload(result))
}

// UpdateAssignment handles PUT /users/:id/assignment.
func (h *UsersHandler) UpdateAssignment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.auth.UpdateAssignment(c.UserContext(), actor, c.Params("id"), service.AssignmentInput{
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListUsers handles GET /users?role=&department=&active=&limit=&offset=.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	users, err := h.auth.ListUsers(c.UserContext(), actor, parseDirectoryQuery(c))
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseDirectoryQuery(c *fiber.Ctx) service.DirectoryQuery {
	var query service.DirectoryQuery
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.Role(roleStr)
		query.Role = &role
	}
	if department := c.Query("department"); department != "" {
		query.Department = &department
	}
	if val := c.Query("active"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			query.Active = &parsed
		}
	}
	query.Limit = parseIntQuery(c, "limit", 50)
	query.Offset = parseIntQuery(c, "offset", 0)
	return query
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

func authPayload(result *service.AuthResult) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(result.User),
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	}
}
