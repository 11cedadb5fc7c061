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

type languageRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLanguageRepository(db *gorm.DB, logger *zap.Logger) domainRepo.LanguageRepository {
	return &languageRepository{db: db, logger: logger}
}

func (r *languageRepository) GetByISOCode(ctx context.Context, isoCode string) (*model.Language, error) {
	var lang model.Language
	err := r.db.WithContext(ctx).Where("iso_code = ?", isoCode).First(&lang).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get language",
			zap.String("iso_code", isoCode),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get language: %w", err)
	}
	return &lang, nil
}

type countryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCountryRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CountryRepository {
	return &countryRepository{db: db, logger: logger}
}

func (r *countryRepository) GetByCode(ctx context.Context, code string) (*model.Country, error) {
	var country model.Country
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&country).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get country",
			zap.String("code", code),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	return &country, nil
}
