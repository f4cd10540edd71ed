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

// ContactAttemptHandlerInterface defines the contract for contact attempt handlers.
type ContactAttemptHandlerInterface interface {
	RecordAttempt(c fiber.Ctx) error
}

// ContactAttemptHandler handles outreach attempt recording requests.
type ContactAttemptHandler struct {
	flow      businessflow.ContactAttemptFlow
	validator *validator.Validate
}

// NewContactAttemptHandler creates a new contact attempt handler.
func NewContactAttemptHandler(flow businessflow.ContactAttemptFlow) *ContactAttemptHandler {
	return &ContactAttemptHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *ContactAttemptHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ContactAttemptHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RecordAttempt records an outreach attempt against an assigned influencer.
// @Summary Record contact attempt
// @Description Record an outreach attempt and schedule the next follow-up (authenticated)
// @Tags Contact Attempts
// @Accept json
// @Produce json
// @Param id path int true "Assigned influencer ID"
// @Param request body dto.RecordContactAttemptRequest true "Contact attempt payload"
// @Success 200 {object} dto.APIResponse{data=dto.RecordContactAttemptResponse} "Recorded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Assigned influencer not found"
// @Failure 409 {object} dto.APIResponse "Maximum attempts already reached"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/assignments/{id}/contact-attempts [post]
func (h *ContactAttemptHandler) RecordAttempt(c fiber.Ctx) error {
	assignedID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || assignedID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid assigned influencer ID", "INVALID_REQUEST", nil)
	}

	var req dto.RecordContactAttemptRequest
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
	res, err := h.flow.RecordContactAttempt(ctx, &req, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record contact attempt", "CONTACT_ATTEMPT_FAILED", nil)
	}

	middleware.ObserveContactAttempt(res.TemplateInfo.Reason)

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

func (h *ContactAttemptHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	return ctx, cancel
}
