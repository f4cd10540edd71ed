package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentType is the authoritative lifecycle state of an assigned
// influencer. Capacity accounting only ever counts active rows.
type AssignmentType string

const (
	AssignmentTypeActive    AssignmentType = "active"
	AssignmentTypeArchived  AssignmentType = "archived"
	AssignmentTypeCompleted AssignmentType = "completed"
)

// String returns the string representation of the type
func (t AssignmentType) String() string {
	return string(t)
}

// Valid checks if the type is valid
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentTypeActive, AssignmentTypeArchived, AssignmentTypeCompleted:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for AssignmentType
func (t *AssignmentType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = AssignmentType(v)
	case []byte:
		*t = AssignmentType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AssignmentType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AssignmentType
func (t AssignmentType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid AssignmentType: %s", t)
	}
	return string(t), nil
}

// AssignedInfluencerStatus is the workflow classification of an assigned
// influencer, orthogonal to the lifecycle type.
type AssignedInfluencerStatus string

const (
	AssignedStatusAssigned           AssignedInfluencerStatus = "assigned"
	AssignedStatusAwaitingResponse   AssignedInfluencerStatus = "awaiting_response"
	AssignedStatusResponded          AssignedInfluencerStatus = "responded"
	AssignedStatusCompleted          AssignedInfluencerStatus = "completed"
	AssignedStatusMaxAttemptsReached AssignedInfluencerStatus = "max_attempts_reached"
)

// String returns the string representation of the status
func (s AssignedInfluencerStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s AssignedInfluencerStatus) Valid() bool {
	switch s {
	case AssignedStatusAssigned, AssignedStatusAwaitingResponse,
		AssignedStatusResponded, AssignedStatusCompleted,
		AssignedStatusMaxAttemptsReached:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for AssignedInfluencerStatus
func (s *AssignedInfluencerStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = AssignedInfluencerStatus(v)
	case []byte:
		*s = AssignedInfluencerStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AssignedInfluencerStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AssignedInfluencerStatus
func (s AssignedInfluencerStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid AssignedInfluencerStatus: %s", s)
	}
	return string(s), nil
}

// AssignedInfluencer is the unit of outreach work: one campaign influencer
// under one agent assignment. At most one active row should exist per
// campaign influencer at a time; reassignment archives the old row while
// creating the new one.
type AssignedInfluencer struct {
	ID                   uint                     `gorm:"primaryKey" json:"id"`
	UUID                 uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:uk_assigned_influencers_uuid" json:"uuid"`
	AgentAssignmentID    uint                     `gorm:"not null;index:idx_assigned_influencers_assignment_id" json:"agent_assignment_id"`
	CampaignInfluencerID uint                     `gorm:"not null;index:idx_assigned_influencers_influencer_id" json:"campaign_influencer_id"`
	Type                 AssignmentType           `gorm:"type:varchar(20);not null;default:'active';index:idx_assigned_influencers_type" json:"type"`
	Status               AssignedInfluencerStatus `gorm:"type:varchar(30);not null;default:'assigned'" json:"status"`
	AttemptsMade         int                      `gorm:"not null;default:0" json:"attempts_made"`
	LastContactedAt      *time.Time               `json:"last_contacted_at,omitempty"`
	NextContactAt        *time.Time               `json:"next_contact_at,omitempty"`
	RespondedAt          *time.Time               `json:"responded_at,omitempty"`
	ArchivedAt           *time.Time               `json:"archived_at,omitempty"`
	CreatedAt            time.Time                `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt            *time.Time               `json:"updated_at,omitempty"`

	// Relations
	AgentAssignment    *AgentAssignment    `gorm:"foreignKey:AgentAssignmentID;references:ID;constraint:OnDelete:CASCADE" json:"agent_assignment,omitempty"`
	CampaignInfluencer *CampaignInfluencer `gorm:"foreignKey:CampaignInfluencerID;references:ID;constraint:OnDelete:CASCADE" json:"campaign_influencer,omitempty"`
}

// TableName returns the table name for the model
func (AssignedInfluencer) TableName() string {
	return "assigned_influencers"
}

// BeforeCreate is called before creating a new record
func (ai *AssignedInfluencer) BeforeCreate(tx *gorm.DB) error {
	if ai.UUID == uuid.Nil {
		ai.UUID = uuid.New()
	}
	if ai.Type == "" {
		ai.Type = AssignmentTypeActive
	}
	if ai.Status == "" {
		ai.Status = AssignedStatusAssigned
	}
	if ai.CreatedAt.IsZero() {
		ai.CreatedAt = utils.UTCNow()
	}
	return nil
}

// IsActive reports whether the row still counts toward capacity.
func (ai *AssignedInfluencer) IsActive() bool {
	return ai.Type == AssignmentTypeActive
}

// AssignedInfluencerFilter represents filter criteria for assigned influencers
type AssignedInfluencerFilter struct {
	ID                   *uint                     `json:"id,omitempty"`
	UUID                 *uuid.UUID                `json:"uuid,omitempty"`
	AgentAssignmentID    *uint                     `json:"agent_assignment_id,omitempty"`
	CampaignInfluencerID *uint                     `json:"campaign_influencer_id,omitempty"`
	Type                 *AssignmentType           `json:"type,omitempty"`
	Status               *AssignedInfluencerStatus `json:"status,omitempty"`
	NextContactBefore    *time.Time                `json:"next_contact_before,omitempty"`
	CreatedAfter         *time.Time                `json:"created_after,omitempty"`
	CreatedBefore        *time.Time                `json:"created_before,omitempty"`
}
