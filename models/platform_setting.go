package models

import (
	"strconv"
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlatformSetting is a key-value row for operational tunables such as the
// assignment capacity ceilings. Missing keys fall back to hardcoded defaults.
type PlatformSetting struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_platform_settings_uuid" json:"uuid"`
	Key         string     `gorm:"type:varchar(100);not null;uniqueIndex:uk_platform_settings_key" json:"key"`
	Value       string     `gorm:"type:varchar(255);not null" json:"value"`
	ValueType   string     `gorm:"type:varchar(20);not null;default:'string'" json:"value_type"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (PlatformSetting) TableName() string {
	return "platform_settings"
}

// BeforeCreate is called before creating a new record
func (s *PlatformSetting) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.ValueType == "" {
		s.ValueType = "string"
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// IntValue parses the setting as an integer, returning the fallback on any
// parse failure.
func (s *PlatformSetting) IntValue(fallback int) int {
	v, err := strconv.Atoi(s.Value)
	if err != nil {
		return fallback
	}
	return v
}

// PlatformSettingFilter represents filter criteria for platform settings
type PlatformSettingFilter struct {
	ID        *uint      `json:"id,omitempty"`
	UUID      *uuid.UUID `json:"uuid,omitempty"`
	Key       *string    `json:"key,omitempty"`
	ValueType *string    `json:"value_type,omitempty"`
}
