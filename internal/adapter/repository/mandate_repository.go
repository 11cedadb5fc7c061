package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/billspring/mandate-service/internal/domain/model"
	domainRepo "github.com/billspring/mandate-service/internal/domain/repository"
)

type mandateRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMandateRepository(db *gorm.DB, logger *zap.Logger) domainRepo.MandateRepository {
	return &mandateRepository{db: db, logger: logger}
}

func (r *mandateRepository) Create(ctx context.Context, mandate *model.Mandate) error {
	if err := r.db.WithContext(ctx).Create(mandate).Error; err != nil {
		r.logger.Error("failed to create mandate",
			zap.String("reference", mandate.Reference),
			zap.Error(err))
		return fmt.Errorf("failed to create mandate: %w", err)
	}
	return nil
}

func (r *mandateRepository) GetByID(ctx context.Context, id int64) (*model.Mandate, error) {
	var mandate model.Mandate
	err := r.db.WithContext(ctx).Preload("Customer").Preload("ContractTemplate").First(&mandate, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get mandate by id",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get mandate: %w", err)
	}
	return &mandate, nil
}

func (r *mandateRepository) GetByReference(ctx context.Context, reference string) (*model.Mandate, error) {
	var mandate model.Mandate
	err := r.db.WithContext(ctx).Preload("Customer").Where("reference = ?", reference).First(&mandate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get mandate by reference",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get mandate: %w", err)
	}
	return &mandate, nil
}

func (r *mandateRepository) Update(ctx context.Context, mandate *model.Mandate) error {
	if err := r.db.WithContext(ctx).Save(mandate).Error; err != nil {
		r.logger.Error("failed to update mandate",
			zap.String("reference", mandate.Reference),
			zap.Error(err))
		return fmt.Errorf("failed to update mandate: %w", err)
	}
	return nil
}

func (r *mandateRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Mandate{}, id).Error; err != nil {
		r.logger.Error("failed to delete mandate",
			zap.Int64("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete mandate: %w", err)
	}
	return nil
}

func (r *mandateRepository) List(ctx context.Context, limit, offset int) ([]*model.Mandate, error) {
	var mandates []*model.Mandate
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&mandates).Error
	if err != nil {
		r.logger.Error("failed to list mandates", zap.Error(err))
		return nil, fmt.Errorf("failed to list mandates: %w", err)
	}
	return mandates, nil
}
