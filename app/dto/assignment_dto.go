package dto

// ValidateBulkAssignmentRequest represents the request to preview a bulk assignment
type ValidateBulkAssignmentRequest struct {
	CampaignListID    uint   `json:"campaign_list_id" validate:"required,min=1"`
	PreferredAgentIDs []uint `json:"preferred_agent_ids,omitempty" validate:"omitempty,dive,min=1"`
}

// AgentCapacityDTO represents one agent's capacity standing for a campaign list
type AgentCapacityDTO struct {
	AgentID              uint   `json:"agent_id"`
	AgentName            string `json:"agent_name"`
	CurrentActiveGlobal  int    `json:"current_active_global"`
	ActiveInAssignment   int    `json:"active_in_assignment"`
	AvailableCapacity    int    `json:"available_capacity"`
	CanAcceptNew         bool   `json:"can_accept_new"`
	AssignmentStatus     string `json:"assignment_status"`
	ExistingAssignmentID *uint  `json:"existing_assignment_id,omitempty"`
}

// CampaignListInfoDTO identifies the campaign list a bulk operation targets
type CampaignListInfoDTO struct {
	ID         uint   `json:"id"`
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	CampaignID uint   `json:"campaign_id"`
	CompanyID  uint   `json:"company_id"`
}

// ValidateBulkAssignmentResponse represents the bulk assignment preview
type ValidateBulkAssignmentResponse struct {
	CampaignList           CampaignListInfoDTO `json:"campaign_list"`
	AvailableAgents        []AgentCapacityDTO  `json:"available_agents"`
	TotalUnassigned        int                 `json:"total_unassigned"`
	TotalAvailableCapacity int                 `json:"total_available_capacity"`
	CanAssignAll           bool                `json:"can_assign_all"`
	Recommendations        []string            `json:"recommendations,omitempty"`
}

// ExecuteBulkAssignmentRequest represents the request to run a bulk assignment
type ExecuteBulkAssignmentRequest struct {
	CampaignListID      uint   `json:"campaign_list_id" validate:"required,min=1"`
	Strategy            string `json:"strategy" validate:"required,oneof=round_robin load_balanced manual"`
	PreferredAgentIDs   []uint `json:"preferred_agent_ids,omitempty" validate:"omitempty,dive,min=1"`
	MaxPerAgentOverride *int   `json:"max_per_agent_override,omitempty" validate:"omitempty,min=1"`
	ForceNewAssignments bool   `json:"force_new_assignments,omitempty"`
}

// AgentAssignmentResultDTO represents the outcome for one agent in a bulk run
type AgentAssignmentResultDTO struct {
	AgentID           uint   `json:"agent_id"`
	AgentAssignmentID uint   `json:"agent_assignment_id"`
	AssignedCount     int    `json:"assigned_count"`
	TotalInAssignment int    `json:"total_in_assignment"`
	IsNewAssignment   bool   `json:"is_new_assignment"`
	InfluencerIDs     []uint `json:"influencer_ids"`
}

// AssignmentSummaryDTO aggregates the outcome of a bulk run
type AssignmentSummaryDTO struct {
	TotalRequested int `json:"total_requested"`
	TotalAssigned  int `json:"total_assigned"`
	TotalFailed    int `json:"total_failed"`
}

// ExecuteBulkAssignmentResponse represents the full bulk assignment result
type ExecuteBulkAssignmentResponse struct {
	Message               string                     `json:"message"`
	AssignmentSummary     AssignmentSummaryDTO       `json:"assignment_summary"`
	AgentResults          []AgentAssignmentResultDTO `json:"agent_results"`
	UnassignedInfluencers []uint                     `json:"unassigned_influencers"`
	Warnings              []string                   `json:"warnings,omitempty"`
	Errors                []string                   `json:"errors,omitempty"`
}

// ReassignInfluencerRequest represents the request to move one work item to another agent
type ReassignInfluencerRequest struct {
	AssignedInfluencerID uint   `json:"-"`
	Reason               string `json:"reason" validate:"required,max=500"`
	PreferExisting       bool   `json:"prefer_existing,omitempty"`
	ReassignedBy         string `json:"reassigned_by,omitempty" validate:"omitempty,max=255"`
}

// ReassignInfluencerResponse represents the reassignment outcome
type ReassignInfluencerResponse struct {
	Message              string `json:"message"`
	AssignedInfluencerID uint   `json:"assigned_influencer_id"`
	FromAgentID          uint   `json:"from_agent_id"`
	ToAgentID            uint   `json:"to_agent_id"`
	NewAgentAssignmentID uint   `json:"new_agent_assignment_id"`
	HistoryID            uint   `json:"history_id"`
}
