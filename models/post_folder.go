package models

import (
	"time"
)

// PostFolder представляет папку медиатеки редактора публикаций
type PostFolder struct {
	ID        uint              `gorm:"primaryKey;autoIncrement"`
	Name      string            `gorm:"column:name;not null;size:100"`
	Media     []PostFolderMedia `gorm:"foreignKey:FolderID"`
	CreatedAt time.Time         `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (PostFolder) TableName() string {
	return "post_folders"
}

// PostFolderMedia представляет медиафайл внутри папки медиатеки
type PostFolderMedia struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	FolderID  uint      `gorm:"column:folder_id;not null;index"`
	Path      string    `gorm:"column:path;not null;size:500"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (PostFolderMedia) TableName() string {
	return "post_folder_media"
}
