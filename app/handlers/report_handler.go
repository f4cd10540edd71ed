// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/app/dto"
	businessflow "github.com/echoooaiglobal/echooo-backend-sub000/business_flow"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/gofiber/fiber/v3"
)

// ReportHandlerInterface defines the contract for report handlers.
type ReportHandlerInterface interface {
	DownloadAssignmentReport(c fiber.Ctx) error
}

// ReportHandler handles assignment report export requests.
type ReportHandler struct {
	flow businessflow.AssignmentReportFlow
}

// NewReportHandler creates a new report handler.
func NewReportHandler(flow businessflow.AssignmentReportFlow) *ReportHandler {
	return &ReportHandler{flow: flow}
}

func (h *ReportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// DownloadAssignmentReport returns an xlsx workbook with one sheet per agent.
// @Summary Download assignment report
// @Description Export a campaign list's assignments as an Excel workbook, one sheet per agent (authenticated)
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Campaign list ID"
// @Success 200 {string} string "Excel file"
// @Failure 400 {object} dto.APIResponse "Invalid campaign list ID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign list not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaign-lists/{id}/assignment-report [get]
func (h *ReportHandler) DownloadAssignmentReport(c fiber.Ctx) error {
	listID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || listID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid campaign list ID", "INVALID_REQUEST", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	res, err := h.flow.DownloadAssignmentReport(ctx, &dto.AssignmentReportRequest{CampaignListID: uint(listID)})
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			return h.ErrorResponse(c, businessErrorStatus(be.Code), be.Message, be.Code, be.Error())
		}
		log.Println("Assignment report generation failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate report", "REPORT_GENERATION_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+res.FileName)
	return c.Send(res.Content)
}

func (h *ReportHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	return ctx, cancel
}
