package repository

import (
	"context"

	"github.com/billspring/mandate-service/internal/domain/model"
)

// CustomerRepository persists customers. GetByTwikeyReference and GetByName
// are the reconciliation fallback chain; both return (nil, nil) when
// nothing matches.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetByTwikeyReference(ctx context.Context, reference string) (*model.Customer, error)
	GetByName(ctx context.Context, name string) (*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
}
