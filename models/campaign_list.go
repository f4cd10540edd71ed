package models

import (
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignList is a named container of target influencers under one campaign.
type CampaignList struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_campaign_lists_uuid" json:"uuid"`
	CampaignID uint       `gorm:"not null;index:idx_campaign_lists_campaign_id" json:"campaign_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt  time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`

	// Relations
	Campaign    *Campaign            `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	Influencers []CampaignInfluencer `gorm:"foreignKey:CampaignListID;constraint:OnDelete:CASCADE" json:"influencers,omitempty"`
}

// TableName returns the table name for the model
func (CampaignList) TableName() string {
	return "campaign_lists"
}

// BeforeCreate is called before creating a new record
func (l *CampaignList) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// CampaignListFilter represents filter criteria for campaign lists
type CampaignListFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	CampaignID    *uint      `json:"campaign_id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
