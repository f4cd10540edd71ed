package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateType distinguishes the initial outreach message from its follow-ups
type TemplateType string

const (
	TemplateTypeInitial  TemplateType = "initial"
	TemplateTypeFollowup TemplateType = "followup"
)

// String returns the string representation of the type
func (t TemplateType) String() string {
	return string(t)
}

// Valid checks if the type is valid
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateTypeInitial, TemplateTypeFollowup:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for TemplateType
func (t *TemplateType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = TemplateType(v)
	case []byte:
		*t = TemplateType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TemplateType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for TemplateType
func (t TemplateType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid TemplateType: %s", t)
	}
	return string(t), nil
}

// MessageTemplate drives the follow-up cadence of a campaign: follow-ups
// reference their initial template and carry a 1-based sequence position plus
// a delay in hours. Templates only feed next_contact_at computation; message
// delivery happens outside this service.
type MessageTemplate struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	UUID               uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uk_message_templates_uuid" json:"uuid"`
	CampaignID         uint         `gorm:"not null;index:idx_message_templates_campaign_id" json:"campaign_id"`
	TemplateType       TemplateType `gorm:"type:varchar(20);not null;default:'initial'" json:"template_type"`
	ParentTemplateID   *uint        `gorm:"index:idx_message_templates_parent_id" json:"parent_template_id,omitempty"`
	FollowupSequence   *int         `json:"followup_sequence,omitempty"`
	FollowupDelayHours *int         `json:"followup_delay_hours,omitempty"`
	Subject            *string      `gorm:"type:varchar(255)" json:"subject,omitempty"`
	Body               string       `gorm:"type:text;not null" json:"body"`
	CreatedAt          time.Time    `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt          *time.Time   `json:"updated_at,omitempty"`

	// Relations
	Campaign       *Campaign        `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	ParentTemplate *MessageTemplate `gorm:"foreignKey:ParentTemplateID;references:ID" json:"parent_template,omitempty"`
}

// TableName returns the table name for the model
func (MessageTemplate) TableName() string {
	return "message_templates"
}

// BeforeCreate is called before creating a new record
func (mt *MessageTemplate) BeforeCreate(tx *gorm.DB) error {
	if mt.UUID == uuid.Nil {
		mt.UUID = uuid.New()
	}
	if mt.TemplateType == "" {
		mt.TemplateType = TemplateTypeInitial
	}
	if mt.CreatedAt.IsZero() {
		mt.CreatedAt = utils.UTCNow()
	}
	return nil
}

// DelayHours returns the follow-up delay, falling back to the platform
// default when the template carries none or a non-positive value.
func (mt *MessageTemplate) DelayHours() int {
	if mt.FollowupDelayHours != nil && *mt.FollowupDelayHours > 0 {
		return *mt.FollowupDelayHours
	}
	return utils.DefaultFollowupDelayHours
}

// MessageTemplateFilter represents filter criteria for message templates
type MessageTemplateFilter struct {
	ID               *uint         `json:"id,omitempty"`
	UUID             *uuid.UUID    `json:"uuid,omitempty"`
	CampaignID       *uint         `json:"campaign_id,omitempty"`
	TemplateType     *TemplateType `json:"template_type,omitempty"`
	ParentTemplateID *uint         `json:"parent_template_id,omitempty"`
	FollowupSequence *int          `json:"followup_sequence,omitempty"`
}
