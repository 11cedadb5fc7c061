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

type customerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCustomerRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CustomerRepository {
	return &customerRepository{db: db, logger: logger}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		r.logger.Error("failed to create customer",
			zap.String("name", customer.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get customer by id",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByTwikeyReference(ctx context.Context, reference string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where("twikey_reference = ?", reference).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get customer by twikey reference",
			zap.String("twikey_reference", reference),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByName(ctx context.Context, name string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get customer by name",
			zap.String("name", name),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	// Save writes every column so enrichment clears fields absent from the
	// feed instead of keeping stale values.
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		r.logger.Error("failed to update customer",
			zap.Int64("id", customer.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
