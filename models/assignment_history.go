package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentSnapshot captures the state of the work item at the moment of a
// reassignment, stored as jsonb for later audit.
type AssignmentSnapshot struct {
	AssignedInfluencerID uint                     `json:"assigned_influencer_id"`
	CampaignListID       uint                     `json:"campaign_list_id"`
	Status               AssignedInfluencerStatus `json:"status"`
	AttemptsMade         int                      `json:"attempts_made"`
	LastContactedAt      *time.Time               `json:"last_contacted_at,omitempty"`
	NextContactAt        *time.Time               `json:"next_contact_at,omitempty"`
}

// Value implements the driver.Valuer interface for AssignmentSnapshot
func (s AssignmentSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for AssignmentSnapshot
func (s *AssignmentSnapshot) Scan(value any) error {
	if value == nil {
		*s = AssignmentSnapshot{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AssignmentSnapshot", value)
	}

	return json.Unmarshal(bytes, s)
}

// InfluencerAssignmentHistory is an immutable audit record of a reassignment.
// Rows are created once and never mutated.
type InfluencerAssignmentHistory struct {
	ID                         uint               `gorm:"primaryKey" json:"id"`
	UUID                       uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uk_assignment_history_uuid" json:"uuid"`
	CampaignInfluencerID       uint               `gorm:"not null;index:idx_assignment_history_influencer_id" json:"campaign_influencer_id"`
	FromAgentID                uint               `gorm:"not null;index:idx_assignment_history_from_agent" json:"from_agent_id"`
	ToAgentID                  uint               `gorm:"not null;index:idx_assignment_history_to_agent" json:"to_agent_id"`
	Reason                     string             `gorm:"type:text;not null" json:"reason"`
	AttemptsBeforeReassignment int                `gorm:"not null;default:0" json:"attempts_before_reassignment"`
	TriggeredBy                string             `gorm:"type:varchar(255);not null" json:"triggered_by"`
	Snapshot                   AssignmentSnapshot `gorm:"type:jsonb" json:"snapshot"`
	CreatedAt                  time.Time          `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	CampaignInfluencer *CampaignInfluencer `gorm:"foreignKey:CampaignInfluencerID;references:ID" json:"campaign_influencer,omitempty"`
	FromAgent          *OutreachAgent      `gorm:"foreignKey:FromAgentID;references:ID" json:"from_agent,omitempty"`
	ToAgent            *OutreachAgent      `gorm:"foreignKey:ToAgentID;references:ID" json:"to_agent,omitempty"`
}

// TableName returns the table name for the model
func (InfluencerAssignmentHistory) TableName() string {
	return "influencer_assignment_history"
}

// BeforeCreate is called before creating a new record
func (h *InfluencerAssignmentHistory) BeforeCreate(tx *gorm.DB) error {
	if h.UUID == uuid.Nil {
		h.UUID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = utils.UTCNow()
	}
	return nil
}

// InfluencerAssignmentHistoryFilter represents filter criteria for history rows
type InfluencerAssignmentHistoryFilter struct {
	ID                   *uint      `json:"id,omitempty"`
	UUID                 *uuid.UUID `json:"uuid,omitempty"`
	CampaignInfluencerID *uint      `json:"campaign_influencer_id,omitempty"`
	FromAgentID          *uint      `json:"from_agent_id,omitempty"`
	ToAgentID            *uint      `json:"to_agent_id,omitempty"`
	TriggeredBy          *string    `json:"triggered_by,omitempty"`
	CreatedAfter         *time.Time `json:"created_after,omitempty"`
	CreatedBefore        *time.Time `json:"created_before,omitempty"`
}
