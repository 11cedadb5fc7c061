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

type transactionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTransactionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.TransactionRepository {
	return &transactionRepository{db: db, logger: logger}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.PaymentTransaction) error {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		r.logger.Error("failed to create transaction",
			zap.String("reference", txn.Reference),
			zap.Error(err))
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	var txn model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Invoices").
		Where("reference = ?", reference).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get transaction by reference",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) Update(ctx context.Context, txn *model.PaymentTransaction) error {
	if err := r.db.WithContext(ctx).Save(txn).Error; err != nil {
		r.logger.Error("failed to update transaction",
			zap.String("reference", txn.Reference),
			zap.Error(err))
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

type paymentTokenRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPaymentTokenRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentTokenRepository {
	return &paymentTokenRepository{db: db, logger: logger}
}

func (r *paymentTokenRepository) Create(ctx context.Context, token *model.PaymentToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		r.logger.Error("failed to create payment token",
			zap.String("provider_ref", token.ProviderRef),
			zap.Error(err))
		return fmt.Errorf("failed to create payment token: %w", err)
	}
	return nil
}

func (r *paymentTokenRepository) GetByProviderRef(ctx context.Context, providerRef string) (*model.PaymentToken, error) {
	var token model.PaymentToken
	err := r.db.WithContext(ctx).Where("provider_ref = ?", providerRef).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get payment token",
			zap.String("provider_ref", providerRef),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment token: %w", err)
	}
	return &token, nil
}
