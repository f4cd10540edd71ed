package repository

import (
	"context"
	"errors"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignListRepositoryImpl implements the CampaignListRepository interface
type CampaignListRepositoryImpl struct {
	*BaseRepository[models.CampaignList, models.CampaignListFilter]
}

// NewCampaignListRepository creates a new campaign list repository
func NewCampaignListRepository(db *gorm.DB) CampaignListRepository {
	return &CampaignListRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CampaignList, models.CampaignListFilter](db),
	}
}

// ByID retrieves a campaign list by ID with its parent campaign preloaded
func (r *CampaignListRepositoryImpl) ByID(ctx context.Context, id uint) (*models.CampaignList, error) {
	db := r.getDB(ctx)

	var list models.CampaignList
	err := db.Preload("Campaign").Last(&list, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &list, nil
}

// ByUUID retrieves a campaign list by UUID
func (r *CampaignListRepositoryImpl) ByUUID(ctx context.Context, rawUUID string) (*models.CampaignList, error) {
	parsed, err := uuid.Parse(rawUUID)
	if err != nil {
		return nil, err
	}

	lists, err := r.ByFilter(ctx, models.CampaignListFilter{UUID: &parsed}, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, nil
	}

	return lists[0], nil
}

// ByFilter retrieves campaign lists based on filter criteria
func (r *CampaignListRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignListFilter, orderBy string, limit, offset int) ([]*models.CampaignList, error) {
	db := r.getDB(ctx)

	var lists []*models.CampaignList
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

	query = query.Preload("Campaign")

	err := query.Find(&lists).Error
	if err != nil {
		return nil, err
	}

	return lists, nil
}

// Count returns the number of campaign lists matching the filter
func (r *CampaignListRepositoryImpl) Count(ctx context.Context, filter models.CampaignListFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.CampaignList{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any campaign list matching the filter exists
func (r *CampaignListRepositoryImpl) Exists(ctx context.Context, filter models.CampaignListFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CampaignListRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignListFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.Name != nil {
		db = db.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
