package model

import "time"

// LabInfo 实验室基本信息，对应 lab_info，仅一行
type LabInfo struct {
	ID              uint      `gorm:"primaryKey"                 json:"id"`
	Name            string    `gorm:"type:varchar(200);not null" json:"name"`
	Institution     string    `gorm:"type:varchar(200)"          json:"institution"`
	EstablishedDate string    `gorm:"type:varchar(10)"           json:"established_date"`
	ResearchFocus   string    `gorm:"type:text"                  json:"research_focus"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime"    json:"updated_at"`
}

// TableName 指定表名
func (LabInfo) TableName() string { return "lab_info" }

// LabMember 实验室成员，对应 lab_members
type LabMember struct {
	ID           uint   `gorm:"primaryKey"                 json:"id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Position     string `gorm:"type:varchar(100)"          json:"position"`
	Email        string `gorm:"type:varchar(255)"          json:"email"`
	ResearchArea string `gorm:"type:varchar(200)"          json:"research_area"`
}

// TableName 指定表名
func (LabMember) TableName() string { return "lab_members" }

// LabEquipment 实验室固定资产设备，对应 lab_equipment
type LabEquipment struct {
	ID           uint   `gorm:"primaryKey"                 json:"id"`
	Name         string `gorm:"type:varchar(200);not null" json:"name"`
	Model        string `gorm:"type:varchar(100)"          json:"model"`
	PurchaseDate string `gorm:"type:varchar(10)"           json:"purchase_date"`
	Status       string `gorm:"type:varchar(50)"           json:"status"`
}

// TableName 指定表名
func (LabEquipment) TableName() string { return "lab_equipment" }

// Paper 发表论文，对应 papers
type Paper struct {
	ID      uint   `gorm:"primaryKey"                 json:"id"`
	Title   string `gorm:"type:varchar(500);not null" json:"title"`
	Authors string `gorm:"type:text"                  json:"authors"`
	Journal string `gorm:"type:varchar(200)"          json:"journal"`
	Date    string `gorm:"type:varchar(10)"           json:"date"`
}

// TableName 指定表名
func (Paper) TableName() string { return "papers" }
