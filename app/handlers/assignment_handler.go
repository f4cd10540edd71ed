// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	"github.com/echoooaiglobal/echooo-backend-sub000/app/middleware"
	businessflow "github.com/echoooaiglobal/echooo-backend-sub000/business_flow"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AssignmentHandlerInterface defines the contract for assignment handlers.
type AssignmentHandlerInterface interface {
	ValidateBulk(c fiber.Ctx) error
	ExecuteBulk(c fiber.Ctx) error
	Reassign(c fiber.Ctx) error
}

// AssignmentHandler handles bulk assignment and reassignment requests.
type AssignmentHandler struct {
	bulkFlow     businessflow.BulkAssignmentFlow
	reassignFlow businessflow.ReassignmentFlow
	validator    *validator.Validate
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(bulkFlow businessflow.BulkAssignmentFlow, reassignFlow businessflow.ReassignmentFlow) *AssignmentHandler {
	return &AssignmentHandler{
		bulkFlow:     bulkFlow,
		reassignFlow: reassignFlow,
		validator:    validator.New(),
	}
}

func (h *AssignmentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AssignmentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ValidateBulk previews a bulk assignment without mutating anything.
// @Summary Validate bulk assignment
// @Description Preview agent capacities and feasibility for a campaign list (authenticated)
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body dto.ValidateBulkAssignmentRequest true "Validation payload"
// @Success 200 {object} dto.APIResponse{data=dto.ValidateBulkAssignmentResponse} "Validated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign list not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/assignments/bulk/validate [post]
func (h *AssignmentHandler) ValidateBulk(c fiber.Ctx) error {
	var req dto.ValidateBulkAssignmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	res, err := h.bulkFlow.ValidateBulkAssignment(ctx, &req, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to validate bulk assignment", "BULK_VALIDATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Bulk assignment validated", res)
}

// ExecuteBulk runs a bulk assignment for a campaign list.
// @Summary Execute bulk assignment
// @Description Distribute unassigned influencers across eligible agents (authenticated)
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body dto.ExecuteBulkAssignmentRequest true "Execution payload"
// @Success 200 {object} dto.APIResponse{data=dto.ExecuteBulkAssignmentResponse} "Executed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign list not found"
// @Failure 409 {object} dto.APIResponse "No capacity or no unassigned influencers"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/assignments/bulk [post]
func (h *AssignmentHandler) ExecuteBulk(c fiber.Ctx) error {
	var req dto.ExecuteBulkAssignmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	res, err := h.bulkFlow.ExecuteBulkAssignment(ctx, &req, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to execute bulk assignment", "BULK_EXECUTION_FAILED", nil)
	}

	middleware.ObserveBulkAssignment(req.Strategy, res.AssignmentSummary.TotalAssigned, len(res.UnassignedInfluencers))

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// Reassign moves one assigned influencer to another agent.
// @Summary Reassign influencer
// @Description Move an active assigned influencer to a different agent with capacity (authenticated)
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assigned influencer ID"
// @Param request body dto.ReassignInfluencerRequest true "Reassignment payload"
// @Success 200 {object} dto.APIResponse{data=dto.ReassignInfluencerResponse} "Reassigned"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Assigned influencer not found"
// @Failure 409 {object} dto.APIResponse "No candidate agent with capacity"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/assignments/{id}/reassign [post]
func (h *AssignmentHandler) Reassign(c fiber.Ctx) error {
	assignedID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || assignedID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid assigned influencer ID", "INVALID_REQUEST", nil)
	}

	var req dto.ReassignInfluencerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}
	req.AssignedInfluencerID = uint(assignedID)

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	res, err := h.reassignFlow.ReassignInfluencer(ctx, &req, metadata)
	if err != nil {
		middleware.ObserveReassignment("failed")
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reassign influencer", "REASSIGNMENT_FAILED", nil)
	}

	middleware.ObserveReassignment("success")

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

func (h *AssignmentHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	return ctx, cancel
}
