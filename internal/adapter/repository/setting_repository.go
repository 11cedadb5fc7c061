package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billspring/mandate-service/internal/domain/model"
	domainRepo "github.com/billspring/mandate-service/internal/domain/repository"
)

type settingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSettingRepository(db *gorm.DB, logger *zap.Logger) domainRepo.SettingRepository {
	return &settingRepository{db: db, logger: logger}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting model.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		r.logger.Error("failed to get setting",
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return setting.Value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	setting := model.Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
	if err != nil {
		r.logger.Error("failed to set setting",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}
