package models

import (
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentAssignment pairs one outreach agent with one campaign list. At most
// one non-deleted row should exist per (agent, list) pair; the pairing is
// soft-deleted rather than removed so history stays resolvable.
//
// assigned_influencers_count is the total ever assigned under this pairing
// (all types), distinct from the agent-level active-only counter.
type AgentAssignment struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	UUID                     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_agent_assignments_uuid" json:"uuid"`
	AgentID                  uint       `gorm:"not null;index:idx_agent_assignments_agent_id" json:"agent_id"`
	CampaignListID           uint       `gorm:"not null;index:idx_agent_assignments_list_id" json:"campaign_list_id"`
	AssignedInfluencersCount int        `gorm:"not null;default:0" json:"assigned_influencers_count"`
	IsDeleted                *bool      `gorm:"not null;default:false;index:idx_agent_assignments_is_deleted" json:"is_deleted"`
	CreatedAt                time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt                *time.Time `json:"updated_at,omitempty"`

	// Relations
	Agent               *OutreachAgent       `gorm:"foreignKey:AgentID;references:ID" json:"agent,omitempty"`
	CampaignList        *CampaignList        `gorm:"foreignKey:CampaignListID;references:ID" json:"campaign_list,omitempty"`
	AssignedInfluencers []AssignedInfluencer `gorm:"foreignKey:AgentAssignmentID;constraint:OnDelete:CASCADE" json:"assigned_influencers,omitempty"`
}

// TableName returns the table name for the model
func (AgentAssignment) TableName() string {
	return "agent_assignments"
}

// BeforeCreate is called before creating a new record
func (aa *AgentAssignment) BeforeCreate(tx *gorm.DB) error {
	if aa.UUID == uuid.Nil {
		aa.UUID = uuid.New()
	}
	if aa.IsDeleted == nil {
		aa.IsDeleted = utils.ToPtr(false)
	}
	if aa.CreatedAt.IsZero() {
		aa.CreatedAt = utils.UTCNow()
	}
	return nil
}

// AgentAssignmentFilter represents filter criteria for agent assignments
type AgentAssignmentFilter struct {
	ID             *uint      `json:"id,omitempty"`
	UUID           *uuid.UUID `json:"uuid,omitempty"`
	AgentID        *uint      `json:"agent_id,omitempty"`
	CampaignListID *uint      `json:"campaign_list_id,omitempty"`
	IsDeleted      *bool      `json:"is_deleted,omitempty"`
	CreatedAfter   *time.Time `json:"created_after,omitempty"`
	CreatedBefore  *time.Time `json:"created_before,omitempty"`
}
