package repository

import (
	"context"
	"errors"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// AssignedInfluencerRepositoryImpl implements the AssignedInfluencerRepository interface
type AssignedInfluencerRepositoryImpl struct {
	*BaseRepository[models.AssignedInfluencer, models.AssignedInfluencerFilter]
}

// NewAssignedInfluencerRepository creates a new assigned influencer repository
func NewAssignedInfluencerRepository(db *gorm.DB) AssignedInfluencerRepository {
	return &AssignedInfluencerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AssignedInfluencer, models.AssignedInfluencerFilter](db),
	}
}

// ByID retrieves an assigned influencer with its assignment and campaign
// influencer preloaded
func (r *AssignedInfluencerRepositoryImpl) ByID(ctx context.Context, id uint) (*models.AssignedInfluencer, error) {
	db := r.getDB(ctx)

	var assigned models.AssignedInfluencer
	err := db.Preload("AgentAssignment").
		Preload("CampaignInfluencer").
		Last(&assigned, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &assigned, nil
}

// Update updates an assigned influencer
func (r *AssignedInfluencerRepositoryImpl) Update(ctx context.Context, assigned models.AssignedInfluencer) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	assigned.UpdatedAt = utils.UTCNowPtr()

	// Save would cascade into preloaded relations; restrict to own columns.
	err = db.Omit("AgentAssignment", "CampaignInfluencer").Save(&assigned).Error
	if err != nil {
		return err
	}

	return nil
}

// CountActiveByAgent counts active work items across all live assignments of
// an agent; this is the ground truth for the global capacity ceiling
func (r *AssignedInfluencerRepositoryImpl) CountActiveByAgent(ctx context.Context, agentID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.AssignedInfluencer{}).
		Joins("JOIN agent_assignments ON agent_assignments.id = assigned_influencers.agent_assignment_id").
		Where("agent_assignments.agent_id = ?", agentID).
		Where("agent_assignments.is_deleted = ?", false).
		Where("assigned_influencers.type = ?", models.AssignmentTypeActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CountActiveByAssignment counts active work items under one assignment
func (r *AssignedInfluencerRepositoryImpl) CountActiveByAssignment(ctx context.Context, agentAssignmentID uint) (int64, error) {
	activeType := models.AssignmentTypeActive
	return r.Count(ctx, models.AssignedInfluencerFilter{
		AgentAssignmentID: &agentAssignmentID,
		Type:              &activeType,
	})
}

// CountByAssignment counts all work items ever created under one assignment,
// regardless of lifecycle type
func (r *AssignedInfluencerRepositoryImpl) CountByAssignment(ctx context.Context, agentAssignmentID uint) (int64, error) {
	return r.Count(ctx, models.AssignedInfluencerFilter{
		AgentAssignmentID: &agentAssignmentID,
	})
}

// ActiveByCampaignInfluencer retrieves the single active work item of a
// campaign influencer, or nil when none exists
func (r *AssignedInfluencerRepositoryImpl) ActiveByCampaignInfluencer(ctx context.Context, campaignInfluencerID uint) (*models.AssignedInfluencer, error) {
	db := r.getDB(ctx)

	var assigned models.AssignedInfluencer
	err := db.Preload("AgentAssignment").
		Preload("CampaignInfluencer").
		Where("campaign_influencer_id = ? AND type = ?", campaignInfluencerID, models.AssignmentTypeActive).
		Last(&assigned).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &assigned, nil
}

// ListByAssignment retrieves all work items under one assignment with their
// campaign influencers preloaded
func (r *AssignedInfluencerRepositoryImpl) ListByAssignment(ctx context.Context, agentAssignmentID uint) ([]*models.AssignedInfluencer, error) {
	db := r.getDB(ctx)

	var assigned []*models.AssignedInfluencer
	err := db.Preload("CampaignInfluencer").
		Where("agent_assignment_id = ?", agentAssignmentID).
		Order("id ASC").
		Find(&assigned).Error
	if err != nil {
		return nil, err
	}

	return assigned, nil
}

// ByFilter retrieves assigned influencers based on filter criteria
func (r *AssignedInfluencerRepositoryImpl) ByFilter(ctx context.Context, filter models.AssignedInfluencerFilter, orderBy string, limit, offset int) ([]*models.AssignedInfluencer, error) {
	db := r.getDB(ctx)

	var assigned []*models.AssignedInfluencer
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&assigned).Error
	if err != nil {
		return nil, err
	}

	return assigned, nil
}

// Count returns the number of assigned influencers matching the filter
func (r *AssignedInfluencerRepositoryImpl) Count(ctx context.Context, filter models.AssignedInfluencerFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.AssignedInfluencer{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any assigned influencer matching the filter exists
func (r *AssignedInfluencerRepositoryImpl) Exists(ctx context.Context, filter models.AssignedInfluencerFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AssignedInfluencerRepositoryImpl) applyFilter(db *gorm.DB, filter models.AssignedInfluencerFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.AgentAssignmentID != nil {
		db = db.Where("agent_assignment_id = ?", *filter.AgentAssignmentID)
	}
	if filter.CampaignInfluencerID != nil {
		db = db.Where("campaign_influencer_id = ?", *filter.CampaignInfluencerID)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.NextContactBefore != nil {
		db = db.Where("next_contact_at < ?", *filter.NextContactBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
