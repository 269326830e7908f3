package model

import "time"

// File 云盘文件，对应 files
// Name 为用户上传时的文件名，StoredName 为磁盘上的实际文件名
type File struct {
	ID         uint      `gorm:"primaryKey"                 json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	StoredName string    `gorm:"type:varchar(300);not null" json:"-"`
	Path       string    `gorm:"type:text;not null"         json:"-"`
	Size       int64     `gorm:"not null"                   json:"size"`
	UserID     uint      `gorm:"not null;index"             json:"user_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"    json:"created_at"`
}

// TableName 指定表名
func (File) TableName() string { return "files" }

// FileShare 文件共享关系，对应 file_shares
type FileShare struct {
	ID         uint      `gorm:"primaryKey"              json:"id"`
	FileID     uint      `gorm:"not null"                json:"file_id"`
	SharedBy   uint      `gorm:"not null"                json:"shared_by"`
	SharedWith uint      `gorm:"not null;index"          json:"shared_with"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (FileShare) TableName() string { return "file_shares" }

// SharedFile 他人共享给我的文件（联表查询结果）
type SharedFile struct {
	FileID    uint      `json:"file_id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	SharedBy  string    `json:"shared_by"`
	CreatedAt time.Time `json:"created_at"`
}
