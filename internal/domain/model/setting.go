package model

import "time"

// Well-known setting keys.
const (
	SettingAPIKey             = "twikey.api_key"
	SettingAuthorizationToken = "twikey.authorization_token"
	SettingModuleEnabled      = "twikey.module_enabled"
	SettingTemplateID         = "twikey.template_id"
	SettingMethod             = "twikey.method"
	SettingAllowTokenization  = "twikey.allow_tokenization"
)

// Setting is one persisted configuration pair. The API key, the derived
// authorization token and the provider template/method selection live here
// rather than in file config.
type Setting struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Setting) TableName() string {
	return "settings"
}
