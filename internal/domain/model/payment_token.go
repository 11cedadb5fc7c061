package model

import "time"

// PaymentToken is a reusable payment method created once a tokenized
// transaction's mandate is confirmed signed. PaymentDetails carries the
// mandate IBAN, ProviderRef the mandate reference.
type PaymentToken struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID     int64     `gorm:"index;not null" json:"customer_id"`
	PaymentDetails string    `gorm:"size:64" json:"payment_details"`
	ProviderRef    string    `gorm:"size:100;not null;index" json:"provider_ref"`
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `gorm:"default:now()" json:"created_at"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for GORM
func (PaymentToken) TableName() string {
	return "payment_tokens"
}
