package repository

import (
	"context"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// CampaignInfluencerRepositoryImpl implements the CampaignInfluencerRepository interface
type CampaignInfluencerRepositoryImpl struct {
	*BaseRepository[models.CampaignInfluencer, models.CampaignInfluencerFilter]
}

// NewCampaignInfluencerRepository creates a new campaign influencer repository
func NewCampaignInfluencerRepository(db *gorm.DB) CampaignInfluencerRepository {
	return &CampaignInfluencerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CampaignInfluencer, models.CampaignInfluencerFilter](db),
	}
}

// UnassignedByList retrieves influencers on a list that have no active agent yet
func (r *CampaignInfluencerRepositoryImpl) UnassignedByList(ctx context.Context, campaignListID uint) ([]*models.CampaignInfluencer, error) {
	filter := models.CampaignInfluencerFilter{
		CampaignListID:    &campaignListID,
		IsAssignedToAgent: utils.ToPtr(false),
	}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// MarkAssigned updates the assignment flag on a campaign influencer
func (r *CampaignInfluencerRepositoryImpl) MarkAssigned(ctx context.Context, id uint, assigned bool) error {
	db := r.getDB(ctx)
	return db.Model(&models.CampaignInfluencer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_assigned_to_agent": assigned,
			"updated_at":           utils.UTCNow(),
		}).Error
}

// Update updates a campaign influencer
func (r *CampaignInfluencerRepositoryImpl) Update(ctx context.Context, influencer models.CampaignInfluencer) error {
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

	influencer.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(&influencer).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves campaign influencers based on filter criteria
func (r *CampaignInfluencerRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignInfluencerFilter, orderBy string, limit, offset int) ([]*models.CampaignInfluencer, error) {
	db := r.getDB(ctx)

	var influencers []*models.CampaignInfluencer
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

	err := query.Find(&influencers).Error
	if err != nil {
		return nil, err
	}

	return influencers, nil
}

// Count returns the number of campaign influencers matching the filter
func (r *CampaignInfluencerRepositoryImpl) Count(ctx context.Context, filter models.CampaignInfluencerFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.CampaignInfluencer{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any campaign influencer matching the filter exists
func (r *CampaignInfluencerRepositoryImpl) Exists(ctx context.Context, filter models.CampaignInfluencerFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CampaignInfluencerRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignInfluencerFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CampaignListID != nil {
		db = db.Where("campaign_list_id = ?", *filter.CampaignListID)
	}
	if filter.Handle != nil {
		db = db.Where("handle = ?", *filter.Handle)
	}
	if filter.Platform != nil {
		db = db.Where("platform = ?", *filter.Platform)
	}
	if filter.IsAssignedToAgent != nil {
		db = db.Where("is_assigned_to_agent = ?", *filter.IsAssignedToAgent)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
