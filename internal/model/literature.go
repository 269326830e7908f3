package model

import "github.com/guregu/null/v5"

// Literature 文献条目，对应 literature
type Literature struct {
	ID      uint        `gorm:"primaryKey"                 json:"id"`
	UserID  uint        `gorm:"not null;index"             json:"user_id"`
	Title   string      `gorm:"type:varchar(500);not null" json:"title"`
	Authors string      `gorm:"type:text"                  json:"authors"`
	Journal string      `gorm:"type:varchar(200)"          json:"journal"`
	Year    null.Int    `json:"year"`
	DOI     null.String `gorm:"column:doi"                 json:"doi"`
	Notes   string      `gorm:"type:text"                  json:"notes"`
	BaseModel
}

// TableName 指定表名
func (Literature) TableName() string { return "literature" }
