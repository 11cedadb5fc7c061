package model

import "time"

// TemplateType mirrors the contract kinds the remote service distinguishes.
type TemplateType string

const (
	TemplateTypeCore       TemplateType = "CORE"
	TemplateTypeB2B        TemplateType = "B2B"
	TemplateTypeContract   TemplateType = "CONTRACT"
	TemplateTypeConsent    TemplateType = "CONSENT"
	TemplateTypeIdent      TemplateType = "IDENT"
	TemplateTypeCreditCard TemplateType = "CREDITCARD"
	TemplateTypeWik        TemplateType = "WIK"
)

// ContractTemplate is a signing template configured on the remote service.
// TemplateID is the remote-side numeric identifier sent as "ct" in invite
// and paylink payloads.
type ContractTemplate struct {
	ID         int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string       `gorm:"size:255;not null" json:"name"`
	TemplateID int64        `gorm:"uniqueIndex;not null" json:"template_id"`
	Type       TemplateType `gorm:"size:20" json:"type"`
	Active     bool         `gorm:"default:true" json:"active"`
	CreatedAt  time.Time    `gorm:"default:now()" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ContractTemplate) TableName() string {
	return "contract_templates"
}
