package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the state of a payment transaction as driven
// by webhook notifications or poll post-processing.
type TransactionStatus string

const (
	TransactionStatusDraft      TransactionStatus = "draft"
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusAuthorized TransactionStatus = "authorized"
	TransactionStatusPaid       TransactionStatus = "paid"
	TransactionStatusCanceled   TransactionStatus = "canceled"
	TransactionStatusError      TransactionStatus = "error"
)

// Scan implements sql.Scanner interface
func (s *TransactionStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = TransactionStatus(v)
	case []byte:
		*s = TransactionStatus(v)
	default:
		*s = TransactionStatusDraft
	}
	return nil
}

// Value implements driver.Valuer interface
func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// PaymentTransaction is one payment attempt against the remote provider.
// ProviderReference holds the paylink id for one-off payments or the
// mandate reference for tokenized flows.
type PaymentTransaction struct {
	ID                int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference         string            `gorm:"uniqueIndex;size:100;not null" json:"reference"`
	ProviderReference *string           `gorm:"size:100;index" json:"provider_reference,omitempty"`
	CustomerID        int64             `gorm:"index;not null" json:"customer_id"`
	Amount            decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency          string            `gorm:"size:3;default:'EUR'" json:"currency"`
	Status            TransactionStatus `gorm:"size:20;not null;default:'draft'" json:"status"`
	// Tokenize marks transactions that request a reusable mandate instead
	// of a one-off payment.
	Tokenize     bool       `gorm:"default:false" json:"tokenize"`
	StateMessage *string    `json:"state_message,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"default:now()" json:"updated_at"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:TransactionID" json:"invoices,omitempty"`
}

// TableName specifies the table name for GORM
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// Invoice is the subset of the host application's invoice record the
// payment flow links into a paylink.
type Invoice struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID *int64    `gorm:"index" json:"transaction_id,omitempty"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	// TwikeyIdentifier marks invoices already known to the remote service;
	// unknown invoices are not linked to the paylink.
	TwikeyIdentifier bool      `gorm:"default:false" json:"twikey_identifier"`
	CreatedAt        time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}
