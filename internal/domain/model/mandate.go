package model

import (
	"database/sql/driver"
	"time"
)

// MandateState represents the lifecycle state of a direct-debit mandate.
// Transitions only move forward; a cancelled mandate never leaves that state.
type MandateState string

const (
	MandateStatePending   MandateState = "pending"
	MandateStateSigned    MandateState = "signed"
	MandateStateSuspended MandateState = "suspended"
	MandateStateCancelled MandateState = "cancelled"
)

// Scan implements sql.Scanner interface
func (s *MandateState) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = MandateState(v)
	case []byte:
		*s = MandateState(v)
	default:
		*s = MandateStatePending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s MandateState) Value() (driver.Value, error) {
	return string(s), nil
}

// Mandate represents a direct-debit authorization tracked against the
// remote mandate service. Reference is the stable join key to the remote
// system, so it is unique at the store level.
type Mandate struct {
	ID                 int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference          string       `gorm:"uniqueIndex;size:100;not null" json:"reference"`
	CustomerID         *int64       `gorm:"index" json:"customer_id,omitempty"`
	CreditorName       *string      `gorm:"size:255" json:"creditor_name,omitempty"`
	State              MandateState `gorm:"size:20;not null;default:'pending'" json:"state"`
	IBAN               *string      `gorm:"size:34" json:"iban,omitempty"`
	BIC                *string      `gorm:"size:11" json:"bic,omitempty"`
	ContractTemplateID *int64       `gorm:"index" json:"contract_template_id,omitempty"`
	Contract           string       `gorm:"size:255" json:"contract"`
	Description        string       `json:"description"`
	Language           *string      `gorm:"size:10" json:"language,omitempty"`
	SigningURL         *string      `gorm:"size:500" json:"signing_url,omitempty"`
	CreatedAt          time.Time    `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"default:now()" json:"updated_at"`

	// Relations
	Customer         *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ContractTemplate *ContractTemplate `gorm:"foreignKey:ContractTemplateID" json:"contract_template,omitempty"`
}

// TableName specifies the table name for GORM
func (Mandate) TableName() string {
	return "mandates"
}
