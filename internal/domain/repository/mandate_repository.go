package repository

import (
	"context"

	"github.com/billspring/mandate-service/internal/domain/model"
)

// MandateRepository persists mandates. Lookups that find nothing return
// (nil, nil) so callers can branch on create-or-update without error
// inspection.
type MandateRepository interface {
	Create(ctx context.Context, mandate *model.Mandate) error
	GetByID(ctx context.Context, id int64) (*model.Mandate, error)
	GetByReference(ctx context.Context, reference string) (*model.Mandate, error)
	Update(ctx context.Context, mandate *model.Mandate) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*model.Mandate, error)
}
