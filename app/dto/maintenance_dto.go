package dto

// SyncAgentCountersRequest optionally scopes a counter sync to specific agents
type SyncAgentCountersRequest struct {
	AgentIDs []uint `json:"agent_ids,omitempty" validate:"omitempty,dive,min=1"`
}

// AgentCounterSyncDTO represents one agent's counters after reconciliation
type AgentCounterSyncDTO struct {
	AgentID                  uint `json:"agent_id"`
	ActiveInfluencersCount   int  `json:"active_influencers_count"`
	ActiveListsCount         int  `json:"active_lists_count"`
	PreviousInfluencersCount int  `json:"previous_influencers_count"`
	PreviousListsCount       int  `json:"previous_lists_count"`
}

// SyncAgentCountersResponse represents the outcome of an agent counter sync run
type SyncAgentCountersResponse struct {
	Message       string                `json:"message"`
	AgentsSynced  int                   `json:"agents_synced"`
	AgentsChanged int                   `json:"agents_changed"`
	Agents        []AgentCounterSyncDTO `json:"agents,omitempty"`
}

// AssignmentCounterSyncDTO represents one assignment's counter after reconciliation
type AssignmentCounterSyncDTO struct {
	AgentAssignmentID uint `json:"agent_assignment_id"`
	AgentID           uint `json:"agent_id"`
	CampaignListID    uint `json:"campaign_list_id"`
	AssignedCount     int  `json:"assigned_count"`
	PreviousCount     int  `json:"previous_count"`
}

// SyncAssignmentCountersResponse represents the outcome of an assignment counter sync run
type SyncAssignmentCountersResponse struct {
	Message            string                     `json:"message"`
	AssignmentsSynced  int                        `json:"assignments_synced"`
	AssignmentsChanged int                        `json:"assignments_changed"`
	Assignments        []AssignmentCounterSyncDTO `json:"assignments,omitempty"`
}

// CounterDiscrepancyDTO represents one stored-vs-actual counter mismatch
type CounterDiscrepancyDTO struct {
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	CounterName string `json:"counter_name"`
	StoredValue int    `json:"stored_value"`
	ActualValue int    `json:"actual_value"`
}

// ValidateCounterIntegrityResponse represents a report-only drift check
type ValidateCounterIntegrityResponse struct {
	Message            string                  `json:"message"`
	AgentsChecked      int                     `json:"agents_checked"`
	AssignmentsChecked int                     `json:"assignments_checked"`
	Discrepancies      []CounterDiscrepancyDTO `json:"discrepancies"`
	IsConsistent       bool                    `json:"is_consistent"`
}
