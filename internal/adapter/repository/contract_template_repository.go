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

type contractTemplateRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewContractTemplateRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ContractTemplateRepository {
	return &contractTemplateRepository{db: db, logger: logger}
}

func (r *contractTemplateRepository) GetByID(ctx context.Context, id int64) (*model.ContractTemplate, error) {
	var template model.ContractTemplate
	err := r.db.WithContext(ctx).First(&template, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get contract template",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get contract template: %w", err)
	}
	return &template, nil
}

func (r *contractTemplateRepository) GetByTemplateID(ctx context.Context, templateID int64) (*model.ContractTemplate, error) {
	var template model.ContractTemplate
	err := r.db.WithContext(ctx).Where("template_id = ?", templateID).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get contract template by remote id",
			zap.Int64("template_id", templateID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get contract template: %w", err)
	}
	return &template, nil
}

func (r *contractTemplateRepository) ListActive(ctx context.Context) ([]*model.ContractTemplate, error) {
	var templates []*model.ContractTemplate
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		r.logger.Error("failed to list contract templates", zap.Error(err))
		return nil, fmt.Errorf("failed to list contract templates: %w", err)
	}
	return templates, nil
}

func (r *contractTemplateRepository) Upsert(ctx context.Context, template *model.ContractTemplate) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "type", "active", "updated_at"}),
		}).
		Create(template).Error
	if err != nil {
		r.logger.Error("failed to upsert contract template",
			zap.Int64("template_id", template.TemplateID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert contract template: %w", err)
	}
	return nil
}
