package repository

import (
	"context"

	"github.com/echoooaiglobal/echooo-backend-sub000/models"
	"github.com/echoooaiglobal/echooo-backend-sub000/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlatformSettingRepositoryImpl implements the PlatformSettingRepository interface
type PlatformSettingRepositoryImpl struct {
	*BaseRepository[models.PlatformSetting, models.PlatformSettingFilter]
}

// NewPlatformSettingRepository creates a new platform setting repository
func NewPlatformSettingRepository(db *gorm.DB) PlatformSettingRepository {
	return &PlatformSettingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PlatformSetting, models.PlatformSettingFilter](db),
	}
}

// ByKey retrieves a setting by its unique key, or nil when it is not set
func (r *PlatformSettingRepositoryImpl) ByKey(ctx context.Context, key string) (*models.PlatformSetting, error) {
	settings, err := r.ByFilter(ctx, models.PlatformSettingFilter{
		Key: &key,
	}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, nil
	}

	return settings[0], nil
}

// Upsert inserts a setting or updates the value of an existing key
func (r *PlatformSettingRepositoryImpl) Upsert(ctx context.Context, key, value, valueType string) error {
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

	setting := models.PlatformSetting{
		Key:       key,
		Value:     value,
		ValueType: valueType,
		UpdatedAt: utils.UTCNowPtr(),
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves platform settings based on filter criteria
func (r *PlatformSettingRepositoryImpl) ByFilter(ctx context.Context, filter models.PlatformSettingFilter, orderBy string, limit, offset int) ([]*models.PlatformSetting, error) {
	db := r.getDB(ctx)

	var settings []*models.PlatformSetting
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

	err := query.Find(&settings).Error
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// Count returns the number of platform settings matching the filter
func (r *PlatformSettingRepositoryImpl) Count(ctx context.Context, filter models.PlatformSettingFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.PlatformSetting{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any platform setting matching the filter exists
func (r *PlatformSettingRepositoryImpl) Exists(ctx context.Context, filter models.PlatformSettingFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PlatformSettingRepositoryImpl) applyFilter(db *gorm.DB, filter models.PlatformSettingFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Key != nil {
		db = db.Where("key = ?", *filter.Key)
	}
	if filter.ValueType != nil {
		db = db.Where("value_type = ?", *filter.ValueType)
	}

	return db
}
