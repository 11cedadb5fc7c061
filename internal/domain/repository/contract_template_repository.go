package repository

import (
	"context"

	"github.com/billspring/mandate-service/internal/domain/model"
)

// ContractTemplateRepository persists signing templates.
type ContractTemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*model.ContractTemplate, error)
	GetByTemplateID(ctx context.Context, templateID int64) (*model.ContractTemplate, error)
	ListActive(ctx context.Context) ([]*model.ContractTemplate, error)
	Upsert(ctx context.Context, template *model.ContractTemplate) error
}
