package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/workforce-portal/grievance-service/internal/api/dto"
	"github.com/workforce-portal/grievance-service/internal/auth"
	"github.com/workforce-portal/grievance-service/internal/domain"
	"github.com/workforce-portal/grievance-service/internal/policy"
	"github.com/workforce-portal/grievance-service/internal/service"
	apperrors "github.com/workforce-portal/grievance-service/pkg/util/errorutil"
)

// GrievancesHandler exposes grievance endpoints.
type GrievancesHandler struct {
	service *service.GrievanceService
}

// NewGrievancesHandler constructs handler.
func NewGrievancesHandler(grievanceService *service.GrievanceService) *GrievancesHandler {
	return &GrievancesHandler{service: grievanceService}
}

// CreateGrievance POST /grievances.
func (h *GrievancesHandler) CreateGrievance(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateGrievanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	grievance, err := h.service.CreateGrievance(c.UserContext(), actor, service.GrievanceCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

// ListGrievances GET /grievances?scope=own|department|all-hr.
func (h *GrievancesHandler) ListGrievances(c *fiber.Ctx) error {
	return h.list(c, policy.ListScope(c.Query("scope", string(policy.ScopeOwn))))
}

// ListDepartmentGrievances GET /grievances/department.
func (h *GrievancesHandler) ListDepartmentGrievances(c *fiber.Ctx) error {
	return h.list(c, policy.ScopeDepartment)
}

// ListHRGrievances GET /grievances/hr.
func (h *GrievancesHandler) ListHRGrievances(c *fiber.Ctx) error {
	return h.list(c, policy.ScopeAllHR)
}

// GetGrievance GET /grievances/:id.
func (h *GrievancesHandler) GetGrievance(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	grievance, err := h.service.GetGrievance(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

// ChangeStatus PATCH /grievances/:id/status.
func (h *GrievancesHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grievance, err := h.service.ChangeStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

// AddReply POST /grievances/:id/replies.
func (h *GrievancesHandler) AddReply(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grievance, err := h.service.AddReply(c.UserContext(), actor, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

func (h *GrievancesHandler) list(c *fiber.Ctx, scope policy.ListScope) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	grievances, err := h.service.ListGrievances(c.UserContext(), actor, scope)
	if err != nil {
		return err
	}
	items := make([]dto.GrievanceSummary, 0, len(grievances))
	for i := range grievances {
		items = append(items, dto.NewGrievanceSummary(&grievances[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func requireActor(c *fiber.Ctx) (domain.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}
