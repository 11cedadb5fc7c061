package repository

import (
	"context"

	"github.com/billspring/mandate-service/internal/domain/model"
)

// LanguageRepository resolves feed language codes against the installed
// languages. An unknown code resolves to (nil, nil).
type LanguageRepository interface {
	GetByISOCode(ctx context.Context, isoCode string) (*model.Language, error)
}

// CountryRepository resolves 2-letter country codes from postal address
// blocks. An unknown code resolves to (nil, nil).
type CountryRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Country, error)
}
