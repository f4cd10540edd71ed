// Package businessflow contains the core business logic and use cases for influencer allocation workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Lookup errors
	ErrCampaignListNotFound       = errors.New("campaign list not found")
	ErrAgentNotFound              = errors.New("outreach agent not found")
	ErrAssignedInfluencerNotFound = errors.New("assigned influencer not found")
	ErrAgentAssignmentNotFound    = errors.New("agent assignment not found")

	// Allocation errors
	ErrNoEligibleAgents        = errors.New("no eligible agents available")
	ErrNoAvailableCapacity     = errors.New("no available capacity across eligible agents")
	ErrNoUnassignedInfluencers = errors.New("no unassigned influencers in campaign list")
	ErrInvalidStrategy         = errors.New("invalid distribution strategy")

	// Reassignment errors
	ErrNoActiveAssignment      = errors.New("influencer has no active assignment")
	ErrNoReassignmentCandidate = errors.New("no agent with capacity found for reassignment")

	// Contact attempt errors
	ErrMaxAttemptsReached = errors.New("maximum contact attempts already reached")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCampaignListNotFound(err error) bool {
	return errors.Is(err, ErrCampaignListNotFound)
}

func IsAgentNotFound(err error) bool {
	return errors.Is(err, ErrAgentNotFound)
}

func IsAssignedInfluencerNotFound(err error) bool {
	return errors.Is(err, ErrAssignedInfluencerNotFound)
}

func IsAgentAssignmentNotFound(err error) bool {
	return errors.Is(err, ErrAgentAssignmentNotFound)
}

func IsNoEligibleAgents(err error) bool {
	return errors.Is(err, ErrNoEligibleAgents)
}

func IsNoAvailableCapacity(err error) bool {
	return errors.Is(err, ErrNoAvailableCapacity)
}

func IsNoUnassignedInfluencers(err error) bool {
	return errors.Is(err, ErrNoUnassignedInfluencers)
}

func IsInvalidStrategy(err error) bool {
	return errors.Is(err, ErrInvalidStrategy)
}

func IsNoActiveAssignment(err error) bool {
	return errors.Is(err, ErrNoActiveAssignment)
}

func IsNoReassignmentCandidate(err error) bool {
	return errors.Is(err, ErrNoReassignmentCandidate)
}

func IsMaxAttemptsReached(err error) bool {
	return errors.Is(err, ErrMaxAttemptsReached)
}
