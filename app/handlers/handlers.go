// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

func validationMessages(err error) []string {
	var messages []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			messages = append(messages, getValidationErrorMessage(e))
		}
		return messages
	}
	return []string{err.Error()}
}

// businessErrorStatus maps business error codes to HTTP status codes.
// Lookup failures are 404, precondition failures 409, bad input 400,
// anything unrecognized 500.
func businessErrorStatus(code string) int {
	switch code {
	case "CAMPAIGN_LIST_NOT_FOUND",
		"AGENT_NOT_FOUND",
		"ASSIGNED_INFLUENCER_NOT_FOUND",
		"ASSIGNMENT_NOT_FOUND":
		return fiber.StatusNotFound
	case "INVALID_REQUEST",
		"INVALID_STRATEGY":
		return fiber.StatusBadRequest
	case "NO_ELIGIBLE_AGENTS",
		"NO_AVAILABLE_CAPACITY",
		"NO_UNASSIGNED_INFLUENCERS",
		"NO_ACTIVE_ASSIGNMENT",
		"NO_REASSIGNMENT_CANDIDATE",
		"MAX_ATTEMPTS_REACHED":
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
