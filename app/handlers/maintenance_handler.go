// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	businessflow "github.com/echoooaiglobal/echooo-backend-sub000/business_flow"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// MaintenanceHandlerInterface defines the contract for maintenance handlers.
type MaintenanceHandlerInterface interface {
	SyncAgentCounters(c fiber.Ctx) error
	SyncAssignmentCounters(c fiber.Ctx) error
	ValidateCounterIntegrity(c fiber.Ctx) error
}

// MaintenanceHandler handles counter reconciliation requests. All routes are admin-only.
type MaintenanceHandler struct {
	flow      businessflow.CounterSyncFlow
	validator *validator.Validate
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(flow businessflow.CounterSyncFlow) *MaintenanceHandler {
	return &MaintenanceHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *MaintenanceHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MaintenanceHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SyncAgentCounters rebuilds agent counters from assignment rows.
// @Summary Sync agent counters
// @Description Recompute agent counters from ground truth, optionally scoped to specific agents (admin)
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.SyncAgentCountersRequest false "Optional agent scope"
// @Success 200 {object} dto.APIResponse{data=dto.SyncAgentCountersResponse} "Synced"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/maintenance/counters/sync [post]
func (h *MaintenanceHandler) SyncAgentCounters(c fiber.Ctx) error {
	var req dto.SyncAgentCountersRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
		if err := h.validator.Struct(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
		}
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	var res *dto.SyncAgentCountersResponse
	var err error
	if len(req.AgentIDs) > 0 {
		res, err = h.flow.SyncAgentCounters(ctx, req.AgentIDs)
	} else {
		res, err = h.flow.SyncAllAgentCounters(ctx)
	}
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to sync agent counters", "COUNTER_SYNC_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// SyncAssignmentCounters rebuilds per-assignment counters.
// @Summary Sync assignment counters
// @Description Recompute agent assignment influencer counters from ground truth (admin)
// @Tags Maintenance
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SyncAssignmentCountersResponse} "Synced"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/maintenance/counters/sync-assignments [post]
func (h *MaintenanceHandler) SyncAssignmentCounters(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	res, err := h.flow.SyncAgentAssignmentCounters(ctx)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to sync assignment counters", "COUNTER_SYNC_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// ValidateCounterIntegrity reports counter drift without mutating anything.
// @Summary Validate counter integrity
// @Description Compare stored counters against ground truth and report discrepancies (admin)
// @Tags Maintenance
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ValidateCounterIntegrityResponse} "Checked"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/maintenance/counters/validate [get]
func (h *MaintenanceHandler) ValidateCounterIntegrity(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	res, err := h.flow.ValidateCounterIntegrity(ctx)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to validate counter integrity", "COUNTER_VALIDATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

func (h *MaintenanceHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	return ctx, cancel
}
