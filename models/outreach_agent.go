package models

import (
	"time"

	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutreachAgent is a human worker who contacts assigned influencers.
// company_id nil means a platform-shared agent usable by any company
// unless is_company_exclusive is set.
//
// active_influencers_count and active_lists_count are derived caches;
// ground truth is always the count of active AssignedInfluencer rows.
type OutreachAgent struct {
	ID                        uint       `gorm:"primaryKey" json:"id"`
	UUID                      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_outreach_agents_uuid" json:"uuid"`
	FullName                  string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Email                     string     `gorm:"type:varchar(255);not null;uniqueIndex:uk_outreach_agents_email" json:"email"`
	CompanyID                 *uint      `gorm:"index:idx_outreach_agents_company_id" json:"company_id,omitempty"`
	IsCompanyExclusive        *bool      `gorm:"not null;default:false" json:"is_company_exclusive"`
	IsAvailableForAssignment  *bool      `gorm:"not null;default:true;index:idx_outreach_agents_available" json:"is_available_for_assignment"`
	ActiveInfluencersCount    int        `gorm:"not null;default:0" json:"active_influencers_count"`
	ActiveListsCount          int        `gorm:"not null;default:0" json:"active_lists_count"`
	CreatedAt                 time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt                 *time.Time `json:"updated_at,omitempty"`

	// Relations
	Assignments []AgentAssignment `gorm:"foreignKey:AgentID" json:"assignments,omitempty"`
}

// TableName returns the table name for the model
func (OutreachAgent) TableName() string {
	return "outreach_agents"
}

// BeforeCreate is called before creating a new record
func (a *OutreachAgent) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.IsCompanyExclusive == nil {
		a.IsCompanyExclusive = utils.ToPtr(false)
	}
	if a.IsAvailableForAssignment == nil {
		a.IsAvailableForAssignment = utils.ToPtr(true)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// EligibleForCompany reports whether the agent may work campaign lists of the
// given company: company-owned agents serve only their own company, shared
// agents serve anyone unless flagged exclusive.
func (a *OutreachAgent) EligibleForCompany(companyID uint) bool {
	if a.CompanyID != nil {
		return *a.CompanyID == companyID
	}
	return !utils.IsTrue(a.IsCompanyExclusive)
}

// OutreachAgentFilter represents filter criteria for outreach agents
type OutreachAgentFilter struct {
	ID                       *uint      `json:"id,omitempty"`
	UUID                     *uuid.UUID `json:"uuid,omitempty"`
	CompanyID                *uint      `json:"company_id,omitempty"`
	IsCompanyExclusive       *bool      `json:"is_company_exclusive,omitempty"`
	IsAvailableForAssignment *bool      `json:"is_available_for_assignment,omitempty"`
	Email                    *string    `json:"email,omitempty"`
	CreatedAfter             *time.Time `json:"created_after,omitempty"`
	CreatedBefore            *time.Time `json:"created_before,omitempty"`
}
