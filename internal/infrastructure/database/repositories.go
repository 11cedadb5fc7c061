package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/billspring/mandate-service/internal/adapter/repository"
	domainRepo "github.com/billspring/mandate-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Mandate          domainRepo.MandateRepository
	Customer         domainRepo.CustomerRepository
	Transaction      domainRepo.TransactionRepository
	PaymentToken     domainRepo.PaymentTokenRepository
	ContractTemplate domainRepo.ContractTemplateRepository
	Language         domainRepo.LanguageRepository
	Country          domainRepo.CountryRepository
	Setting          domainRepo.SettingRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Mandate:          repository.NewMandateRepository(db, logger),
		Customer:         repository.NewCustomerRepository(db, logger),
		Transaction:      repository.NewTransactionRepository(db, logger),
		PaymentToken:     repository.NewPaymentTokenRepository(db, logger),
		ContractTemplate: repository.NewContractTemplateRepository(db, logger),
		Language:         repository.NewLanguageRepository(db, logger),
		Country:          repository.NewCountryRepository(db, logger),
		Setting:          repository.NewSettingRepository(db, logger),
	}
}
