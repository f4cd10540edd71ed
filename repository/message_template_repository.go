package repository

import (
	"context"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// MessageTemplateRepositoryImpl implements the MessageTemplateRepository interface
type MessageTemplateRepositoryImpl struct {
	*BaseRepository[models.MessageTemplate, models.MessageTemplateFilter]
}

// NewMessageTemplateRepository creates a new message template repository
func NewMessageTemplateRepository(db *gorm.DB) MessageTemplateRepository {
	return &MessageTemplateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MessageTemplate, models.MessageTemplateFilter](db),
	}
}

// InitialByCampaign retrieves the initial outreach template of a campaign,
// or nil when the campaign has none
func (r *MessageTemplateRepositoryImpl) InitialByCampaign(ctx context.Context, campaignID uint) (*models.MessageTemplate, error) {
	templates, err := r.ByFilter(ctx, models.MessageTemplateFilter{
		CampaignID:   &campaignID,
		TemplateType: utils.ToPtr(models.TemplateTypeInitial),
	}, "id ASC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, nil
	}

	return templates[0], nil
}

// FollowupBySequence retrieves the followup template of a campaign whose
// sequence position matches the given attempt number, or nil when none exists
func (r *MessageTemplateRepositoryImpl) FollowupBySequence(ctx context.Context, campaignID uint, sequence int) (*models.MessageTemplate, error) {
	templates, err := r.ByFilter(ctx, models.MessageTemplateFilter{
		CampaignID:       &campaignID,
		TemplateType:     utils.ToPtr(models.TemplateTypeFollowup),
		FollowupSequence: &sequence,
	}, "id ASC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, nil
	}

	return templates[0], nil
}

// ByFilter retrieves message templates based on filter criteria
func (r *MessageTemplateRepositoryImpl) ByFilter(ctx context.Context, filter models.MessageTemplateFilter, orderBy string, limit, offset int) ([]*models.MessageTemplate, error) {
	db := r.getDB(ctx)

	var templates []*models.MessageTemplate
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

	err := query.Find(&templates).Error
	if err != nil {
		return nil, err
	}

	return templates, nil
}

// Count returns the number of message templates matching the filter
func (r *MessageTemplateRepositoryImpl) Count(ctx context.Context, filter models.MessageTemplateFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.MessageTemplate{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any message template matching the filter exists
func (r *MessageTemplateRepositoryImpl) Exists(ctx context.Context, filter models.MessageTemplateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *MessageTemplateRepositoryImpl) applyFilter(db *gorm.DB, filter models.MessageTemplateFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.TemplateType != nil {
		db = db.Where("template_type = ?", *filter.TemplateType)
	}
	if filter.ParentTemplateID != nil {
		db = db.Where("parent_template_id = ?", *filter.ParentTemplateID)
	}
	if filter.FollowupSequence != nil {
		db = db.Where("followup_sequence = ?", *filter.FollowupSequence)
	}

	return db
}
