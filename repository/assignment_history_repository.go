package repository

import (
	"context"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"gorm.io/gorm"
)

// AssignmentHistoryRepositoryImpl implements the AssignmentHistoryRepository interface
type AssignmentHistoryRepositoryImpl struct {
	*BaseRepository[models.InfluencerAssignmentHistory, models.InfluencerAssignmentHistoryFilter]
}

// NewAssignmentHistoryRepository creates a new assignment history repository
func NewAssignmentHistoryRepository(db *gorm.DB) AssignmentHistoryRepository {
	return &AssignmentHistoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.InfluencerAssignmentHistory, models.InfluencerAssignmentHistoryFilter](db),
	}
}

// ByCampaignInfluencer retrieves the reassignment trail of a campaign
// influencer, newest first
func (r *AssignmentHistoryRepositoryImpl) ByCampaignInfluencer(ctx context.Context, campaignInfluencerID uint) ([]*models.InfluencerAssignmentHistory, error) {
	return r.ByFilter(ctx, models.InfluencerAssignmentHistoryFilter{
		CampaignInfluencerID: &campaignInfluencerID,
	}, "created_at DESC", 0, 0)
}

// ByFilter retrieves history records based on filter criteria
func (r *AssignmentHistoryRepositoryImpl) ByFilter(ctx context.Context, filter models.InfluencerAssignmentHistoryFilter, orderBy string, limit, offset int) ([]*models.InfluencerAssignmentHistory, error) {
	db := r.getDB(ctx)

	var histories []*models.InfluencerAssignmentHistory
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

	err := query.Find(&histories).Error
	if err != nil {
		return nil, err
	}

	return histories, nil
}

// Count returns the number of history records matching the filter
func (r *AssignmentHistoryRepositoryImpl) Count(ctx context.Context, filter models.InfluencerAssignmentHistoryFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.InfluencerAssignmentHistory{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any history record matching the filter exists
func (r *AssignmentHistoryRepositoryImpl) Exists(ctx context.Context, filter models.InfluencerAssignmentHistoryFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AssignmentHistoryRepositoryImpl) applyFilter(db *gorm.DB, filter models.InfluencerAssignmentHistoryFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CampaignInfluencerID != nil {
		db = db.Where("campaign_influencer_id = ?", *filter.CampaignInfluencerID)
	}
	if filter.FromAgentID != nil {
		db = db.Where("from_agent_id = ?", *filter.FromAgentID)
	}
	if filter.ToAgentID != nil {
		db = db.Where("to_agent_id = ?", *filter.ToAgentID)
	}
	if filter.TriggeredBy != nil {
		db = db.Where("triggered_by = ?", *filter.TriggeredBy)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
