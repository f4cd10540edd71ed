// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CampaignListRepository defines operations for campaign lists
type CampaignListRepository interface {
	Repository[models.CampaignList, models.CampaignListFilter]
	ByUUID(ctx context.Context, uuid string) (*models.CampaignList, error)
}

// CampaignInfluencerRepository defines operations for campaign influencers
type CampaignInfluencerRepository interface {
	Repository[models.CampaignInfluencer, models.CampaignInfluencerFilter]
	UnassignedByList(ctx context.Context, campaignListID uint) ([]*models.CampaignInfluencer, error)
	MarkAssigned(ctx context.Context, id uint, assigned bool) error
	Update(ctx context.Context, influencer models.CampaignInfluencer) error
}

// OutreachAgentRepository defines operations for outreach agents
type OutreachAgentRepository interface {
	Repository[models.OutreachAgent, models.OutreachAgentFilter]
	EligibleForCompany(ctx context.Context, companyID uint) ([]*models.OutreachAgent, error)
	UpdateCounters(ctx context.Context, agentID uint, activeInfluencers, activeLists int) error
}

// AgentAssignmentRepository defines operations for agent-to-list assignments
type AgentAssignmentRepository interface {
	Repository[models.AgentAssignment, models.AgentAssignmentFilter]
	ByAgentAndList(ctx context.Context, agentID, campaignListID uint) (*models.AgentAssignment, error)
	NonDeletedByAgent(ctx context.Context, agentID uint) ([]*models.AgentAssignment, error)
	NonDeletedByList(ctx context.Context, campaignListID uint) ([]*models.AgentAssignment, error)
	ListNonDeleted(ctx context.Context) ([]*models.AgentAssignment, error)
	Update(ctx context.Context, assignment models.AgentAssignment) error
	UpdateAssignedCount(ctx context.Context, id uint, count int) error
}

// AssignedInfluencerRepository defines operations for assigned influencer work items
type AssignedInfluencerRepository interface {
	Repository[models.AssignedInfluencer, models.AssignedInfluencerFilter]
	Update(ctx context.Context, assigned models.AssignedInfluencer) error
	CountActiveByAgent(ctx context.Context, agentID uint) (int64, error)
	CountActiveByAssignment(ctx context.Context, agentAssignmentID uint) (int64, error)
	CountByAssignment(ctx context.Context, agentAssignmentID uint) (int64, error)
	ActiveByCampaignInfluencer(ctx context.Context, campaignInfluencerID uint) (*models.AssignedInfluencer, error)
	ListByAssignment(ctx context.Context, agentAssignmentID uint) ([]*models.AssignedInfluencer, error)
}

// AssignmentHistoryRepository defines operations for reassignment audit records
type AssignmentHistoryRepository interface {
	Repository[models.InfluencerAssignmentHistory, models.InfluencerAssignmentHistoryFilter]
	ByCampaignInfluencer(ctx context.Context, campaignInfluencerID uint) ([]*models.InfluencerAssignmentHistory, error)
}

// MessageTemplateRepository defines operations for message templates
type MessageTemplateRepository interface {
	Repository[models.MessageTemplate, models.MessageTemplateFilter]
	InitialByCampaign(ctx context.Context, campaignID uint) (*models.MessageTemplate, error)
	FollowupBySequence(ctx context.Context, campaignID uint, sequence int) (*models.MessageTemplate, error)
}

// PlatformSettingRepository defines operations for platform settings
type PlatformSettingRepository interface {
	Repository[models.PlatformSetting, models.PlatformSettingFilter]
	ByKey(ctx context.Context, key string) (*models.PlatformSetting, error)
	Upsert(ctx context.Context, key, value, valueType string) error
}
