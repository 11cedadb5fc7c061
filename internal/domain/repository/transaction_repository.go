package repository

import (
	"context"

	"github.com/billspring/mandate-service/internal/domain/model"
)

// TransactionRepository persists payment transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.PaymentTransaction) error
	// GetByReference resolves a transaction by the order reference used in
	// redirect URLs and webhook payloads. Invoices and customer are
	// preloaded.
	GetByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error)
	Update(ctx context.Context, txn *model.PaymentTransaction) error
}

// PaymentTokenRepository persists reusable payment tokens.
type PaymentTokenRepository interface {
	Create(ctx context.Context, token *model.PaymentToken) error
	// GetByProviderRef returns the token stored for a mandate reference, or
	// (nil, nil). Poll post-processing uses it to avoid duplicates.
	GetByProviderRef(ctx context.Context, providerRef string) (*model.PaymentToken, error)
}
