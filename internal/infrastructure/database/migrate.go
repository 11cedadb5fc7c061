package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/billspring/mandate-service/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Customer{},
		&model.ContractTemplate{},
		&model.Mandate{},
		&model.PaymentTransaction{},
		&model.Invoice{},
		&model.PaymentToken{},
		&model.Language{},
		&model.Country{},
		&model.Setting{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := seedLocales(db, logger); err != nil {
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// seedLocales installs a default language set and the SEPA-zone countries
// when the tables are empty, so feed resolution works out of the box.
func seedLocales(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Language{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		languages := []model.Language{
			{Code: "en_US", ISOCode: "en", Name: "English"},
			{Code: "nl_NL", ISOCode: "nl", Name: "Dutch"},
			{Code: "fr_FR", ISOCode: "fr", Name: "French"},
			{Code: "de_DE", ISOCode: "de", Name: "German"},
			{Code: "it_IT", ISOCode: "it", Name: "Italian"},
			{Code: "pt_PT", ISOCode: "pt", Name: "Portuguese"},
			{Code: "es_ES", ISOCode: "es", Name: "Spanish"},
		}
		if err := db.Create(&languages).Error; err != nil {
			return err
		}
		logger.Info("Seeded default languages", zap.Int("count", len(languages)))
	}

	if err := db.Model(&model.Country{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		countries := []model.Country{
			{Code: "AT", Name: "Austria"},
			{Code: "BE", Name: "Belgium"},
			{Code: "DE", Name: "Germany"},
			{Code: "ES", Name: "Spain"},
			{Code: "FR", Name: "France"},
			{Code: "GB", Name: "United Kingdom"},
			{Code: "IE", Name: "Ireland"},
			{Code: "IT", Name: "Italy"},
			{Code: "LU", Name: "Luxembourg"},
			{Code: "NL", Name: "Netherlands"},
			{Code: "PT", Name: "Portugal"},
		}
		if err := db.Create(&countries).Error; err != nil {
			return err
		}
		logger.Info("Seeded SEPA countries", zap.Int("count", len(countries)))
	}

	return nil
}
