package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InfluencerStatus represents the outreach status of an influencer on a list
type InfluencerStatus string

const (
	InfluencerStatusDiscovered InfluencerStatus = "discovered"
	InfluencerStatusContacted  InfluencerStatus = "contacted"
	InfluencerStatusResponded  InfluencerStatus = "responded"
	InfluencerStatusCompleted  InfluencerStatus = "completed"
)

// String returns the string representation of the status
func (s InfluencerStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s InfluencerStatus) Valid() bool {
	switch s {
	case InfluencerStatusDiscovered, InfluencerStatusContacted,
		InfluencerStatusResponded, InfluencerStatusCompleted:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for InfluencerStatus
func (s *InfluencerStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = InfluencerStatus(v)
	case []byte:
		*s = InfluencerStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into InfluencerStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for InfluencerStatus
func (s InfluencerStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid InfluencerStatus: %s", s)
	}
	return string(s), nil
}

// CampaignInfluencer is one influencer's membership in a campaign list.
// is_assigned_to_agent flips true once any active AssignedInfluencer row
// exists for it; total_contact_attempts accumulates across reassignments.
type CampaignInfluencer struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	UUID                 uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_campaign_influencers_uuid" json:"uuid"`
	CampaignListID       uint             `gorm:"not null;index:idx_campaign_influencers_list_id" json:"campaign_list_id"`
	Handle               string           `gorm:"type:varchar(255);not null" json:"handle"`
	FullName             *string          `gorm:"type:varchar(255)" json:"full_name,omitempty"`
	Platform             string           `gorm:"type:varchar(50);not null;default:'instagram'" json:"platform"`
	FollowersCount       *int64           `json:"followers_count,omitempty"`
	IsAssignedToAgent    *bool            `gorm:"not null;default:false;index:idx_campaign_influencers_assigned" json:"is_assigned_to_agent"`
	TotalContactAttempts int              `gorm:"not null;default:0" json:"total_contact_attempts"`
	Status               InfluencerStatus `gorm:"type:varchar(20);not null;default:'discovered'" json:"status"`
	CreatedAt            time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt            *time.Time       `json:"updated_at,omitempty"`

	// Relations
	CampaignList *CampaignList `gorm:"foreignKey:CampaignListID;references:ID;constraint:OnDelete:CASCADE" json:"campaign_list,omitempty"`
}

// TableName returns the table name for the model
func (CampaignInfluencer) TableName() string {
	return "campaign_influencers"
}

// BeforeCreate is called before creating a new record
func (ci *CampaignInfluencer) BeforeCreate(tx *gorm.DB) error {
	if ci.UUID == uuid.Nil {
		ci.UUID = uuid.New()
	}
	if ci.Status == "" {
		ci.Status = InfluencerStatusDiscovered
	}
	if ci.IsAssignedToAgent == nil {
		ci.IsAssignedToAgent = utils.ToPtr(false)
	}
	if ci.CreatedAt.IsZero() {
		ci.CreatedAt = utils.UTCNow()
	}
	return nil
}

// CampaignInfluencerFilter represents filter criteria for campaign influencers
type CampaignInfluencerFilter struct {
	ID                *uint             `json:"id,omitempty"`
	UUID              *uuid.UUID        `json:"uuid,omitempty"`
	CampaignListID    *uint             `json:"campaign_list_id,omitempty"`
	Handle            *string           `json:"handle,omitempty"`
	Platform          *string           `json:"platform,omitempty"`
	IsAssignedToAgent *bool             `json:"is_assigned_to_agent,omitempty"`
	Status            *InfluencerStatus `json:"status,omitempty"`
	CreatedAfter      *time.Time        `json:"created_after,omitempty"`
	CreatedBefore     *time.Time        `json:"created_before,omitempty"`
}
