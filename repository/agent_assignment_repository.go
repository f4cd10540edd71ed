package repository

import (
	"context"
	"errors"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
)

// AgentAssignmentRepositoryImpl implements the AgentAssignmentRepository interface
type AgentAssignmentRepositoryImpl struct {
	*BaseRepository[models.AgentAssignment, models.AgentAssignmentFilter]
}

// NewAgentAssignmentRepository creates a new agent assignment repository
func NewAgentAssignmentRepository(db *gorm.DB) AgentAssignmentRepository {
	return &AgentAssignmentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AgentAssignment, models.AgentAssignmentFilter](db),
	}
}

// ByAgentAndList retrieves the non-deleted assignment pairing an agent with a
// campaign list, or nil when none exists
func (r *AgentAssignmentRepositoryImpl) ByAgentAndList(ctx context.Context, agentID, campaignListID uint) (*models.AgentAssignment, error) {
	db := r.getDB(ctx)

	var assignment models.AgentAssignment
	err := db.
		Where("agent_id = ? AND campaign_list_id = ? AND is_deleted = ?", agentID, campaignListID, false).
		Last(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &assignment, nil
}

// NonDeletedByAgent retrieves all live assignments of one agent
func (r *AgentAssignmentRepositoryImpl) NonDeletedByAgent(ctx context.Context, agentID uint) ([]*models.AgentAssignment, error) {
	filter := models.AgentAssignmentFilter{
		AgentID:   &agentID,
		IsDeleted: utils.ToPtr(false),
	}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// NonDeletedByList retrieves all live assignments on one campaign list
func (r *AgentAssignmentRepositoryImpl) NonDeletedByList(ctx context.Context, campaignListID uint) ([]*models.AgentAssignment, error) {
	filter := models.AgentAssignmentFilter{
		CampaignListID: &campaignListID,
		IsDeleted:      utils.ToPtr(false),
	}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// ListNonDeleted retrieves every live assignment, for counter maintenance
func (r *AgentAssignmentRepositoryImpl) ListNonDeleted(ctx context.Context) ([]*models.AgentAssignment, error) {
	filter := models.AgentAssignmentFilter{
		IsDeleted: utils.ToPtr(false),
	}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// Update updates an agent assignment
func (r *AgentAssignmentRepositoryImpl) Update(ctx context.Context, assignment models.AgentAssignment) error {
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

	assignment.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(&assignment).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateAssignedCount overwrites the cached influencer count of an assignment
func (r *AgentAssignmentRepositoryImpl) UpdateAssignedCount(ctx context.Context, id uint, count int) error {
	db := r.getDB(ctx)
	return db.Model(&models.AgentAssignment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"assigned_influencers_count": count,
			"updated_at":                 utils.UTCNow(),
		}).Error
}

// ByFilter retrieves agent assignments based on filter criteria
func (r *AgentAssignmentRepositoryImpl) ByFilter(ctx context.Context, filter models.AgentAssignmentFilter, orderBy string, limit, offset int) ([]*models.AgentAssignment, error) {
	db := r.getDB(ctx)

	var assignments []*models.AgentAssignment
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

	err := query.Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

// Count returns the number of agent assignments matching the filter
func (r *AgentAssignmentRepositoryImpl) Count(ctx context.Context, filter models.AgentAssignmentFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.AgentAssignment{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any agent assignment matching the filter exists
func (r *AgentAssignmentRepositoryImpl) Exists(ctx context.Context, filter models.AgentAssignmentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AgentAssignmentRepositoryImpl) applyFilter(db *gorm.DB, filter models.AgentAssignmentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.AgentID != nil {
		db = db.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.CampaignListID != nil {
		db = db.Where("campaign_list_id = ?", *filter.CampaignListID)
	}
	if filter.IsDeleted != nil {
		db = db.Where("is_deleted = ?", *filter.IsDeleted)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
