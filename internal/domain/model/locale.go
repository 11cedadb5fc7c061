package model

// Language is an installed language. Feed supplementary data carries an ISO
// code which is resolved against this table; an unknown code resolves to no
// language, not an error.
type Language struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code    string `gorm:"uniqueIndex;size:10;not null" json:"code"`
	ISOCode string `gorm:"column:iso_code;size:10;not null;index" json:"iso_code"`
	Name    string `gorm:"size:100" json:"name"`
}

// TableName specifies the table name for GORM
func (Language) TableName() string {
	return "languages"
}

// Country resolves the 2-letter codes used in the feed's postal address
// blocks.
type Country struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"uniqueIndex;size:2;not null" json:"code"`
	Name string `gorm:"size:100" json:"name"`
}

// TableName specifies the table name for GORM
func (Country) TableName() string {
	return "countries"
}
