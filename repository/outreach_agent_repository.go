package repository

import (
	"context"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// OutreachAgentRepositoryImpl implements the OutreachAgentRepository interface
type OutreachAgentRepositoryImpl struct {
	*BaseRepository[models.OutreachAgent, models.OutreachAgentFilter]
}

// NewOutreachAgentRepository creates a new outreach agent repository
func NewOutreachAgentRepository(db *gorm.DB) OutreachAgentRepository {
	return &OutreachAgentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.OutreachAgent, models.OutreachAgentFilter](db),
	}
}

// EligibleForCompany retrieves available agents that may serve the given
// company: the company's own agents plus shared agents not flagged exclusive.
func (r *OutreachAgentRepositoryImpl) EligibleForCompany(ctx context.Context, companyID uint) ([]*models.OutreachAgent, error) {
	db := r.getDB(ctx)

	var agents []*models.OutreachAgent
	err := db.
		Where("is_available_for_assignment = ?", true).
		Where("company_id = ? OR (company_id IS NULL AND is_company_exclusive = ?)", companyID, false).
		Order("id ASC").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}

	return agents, nil
}

// UpdateCounters overwrites the cached counters for an agent
func (r *OutreachAgentRepositoryImpl) UpdateCounters(ctx context.Context, agentID uint, activeInfluencers, activeLists int) error {
	db := r.getDB(ctx)
	return db.Model(&models.OutreachAgent{}).
		Where("id = ?", agentID).
		Updates(map[string]any{
			"active_influencers_count": activeInfluencers,
			"active_lists_count":       activeLists,
			"updated_at":               utils.UTCNow(),
		}).Error
}

// ByFilter retrieves outreach agents based on filter criteria
func (r *OutreachAgentRepositoryImpl) ByFilter(ctx context.Context, filter models.OutreachAgentFilter, orderBy string, limit, offset int) ([]*models.OutreachAgent, error) {
	db := r.getDB(ctx)

	var agents []*models.OutreachAgent
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

	err := query.Find(&agents).Error
	if err != nil {
		return nil, err
	}

	return agents, nil
}

// Count returns the number of outreach agents matching the filter
func (r *OutreachAgentRepositoryImpl) Count(ctx context.Context, filter models.OutreachAgentFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.OutreachAgent{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any outreach agent matching the filter exists
func (r *OutreachAgentRepositoryImpl) Exists(ctx context.Context, filter models.OutreachAgentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *OutreachAgentRepositoryImpl) applyFilter(db *gorm.DB, filter models.OutreachAgentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CompanyID != nil {
		db = db.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.IsCompanyExclusive != nil {
		db = db.Where("is_company_exclusive = ?", *filter.IsCompanyExclusive)
	}
	if filter.IsAvailableForAssignment != nil {
		db = db.Where("is_available_for_assignment = ?", *filter.IsAvailableForAssignment)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
