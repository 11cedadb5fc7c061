package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyType distinguishes natural persons from companies. The outbound
// mandate profile splits the name for persons and sends name plus VAT for
// companies.
type CompanyType string

const (
	CompanyTypePerson  CompanyType = "person"
	CompanyTypeCompany CompanyType = "company"
)

// Customer is the host application's customer record, extended with the
// identifier the remote mandate service knows the debtor by.
type Customer struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UniversalID uuid.UUID   `gorm:"column:universal_id;type:uuid;not null;index" json:"universal_id"`
	// TwikeyReference is the debtor contact identifier carried in the feed's
	// "other" contact field. It is the first matching key during
	// reconciliation.
	TwikeyReference *string     `gorm:"column:twikey_reference;index;size:100" json:"twikey_reference,omitempty"`
	Name            string      `gorm:"size:255;not null" json:"name"`
	CompanyType     CompanyType `gorm:"size:10;default:'person'" json:"company_type"`
	VAT             *string     `gorm:"column:vat;size:30" json:"vat,omitempty"`
	Street          *string     `gorm:"size:255" json:"street,omitempty"`
	Zip             *string     `gorm:"size:20" json:"zip,omitempty"`
	City            *string     `gorm:"size:100" json:"city,omitempty"`
	CountryCode     *string     `gorm:"size:2" json:"country_code,omitempty"`
	Email           *string     `gorm:"size:255" json:"email,omitempty"`
	Language        *string     `gorm:"size:10" json:"language,omitempty"`
	CreatedAt       time.Time   `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"default:now()" json:"updated_at"`
}

// BeforeCreate assigns the universal id when absent.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.UniversalID == uuid.Nil {
		c.UniversalID = uuid.New()
	}
	return nil
}

// SplitName returns the first and last name of a person customer. Companies
// keep the full name and return empty parts.
func (c *Customer) SplitName() (firstName, lastName string) {
	if c.CompanyType != CompanyTypePerson {
		return "", ""
	}
	parts := strings.SplitN(c.Name, " ", 2)
	firstName = parts[0]
	if len(parts) > 1 {
		lastName = parts[1]
	}
	return firstName, lastName
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}
