package models

import (
	"time"
)

// Post представляет публикацию витрины
type Post struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"`
	Title     string      `gorm:"column:title;not null;size:200"`
	Content   string      `gorm:"column:content;type:text"`
	MediaURL  string      `gorm:"column:media_url;size:500"`
	Published bool        `gorm:"column:published;not null;default:false"`
	Position  int         `gorm:"column:position;not null;default:0"`
	Media     []PostMedia `gorm:"foreignKey:PostID"`
	CreatedAt time.Time   `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time   `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Post) TableName() string {
	return "posts"
}

// PostMedia представляет медиафайл, привязанный к публикации
type PostMedia struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	PostID    uint      `gorm:"column:post_id;not null;index"`
	Path      string    `gorm:"column:path;not null;size:500"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (PostMedia) TableName() string {
	return "post_media"
}
