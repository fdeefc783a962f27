package models

import (
	"time"
)

// NoteStatus представляет статус ноты
type NoteStatus string

const (
	NoteStatusPending  NoteStatus = "PENDING"  // Ожидает решения
	NoteStatusApproved NoteStatus = "APPROVED" // Подтверждена, транзакция создана
	NoteStatusRejected NoteStatus = "REJECTED" // Отклонена без изменения леджера
)

// Note представляет заявку пользователя на зачисление.
// Переходы статуса: PENDING -> APPROVED (терминальный) или PENDING -> REJECTED (терминальный).
type Note struct {
	ID         uint          `gorm:"primaryKey;autoIncrement"`
	UserID     uint          `gorm:"column:user_id;not null;index"`
	User       User          `gorm:"foreignKey:UserID;references:ID"`
	CategoryID uint          `gorm:"column:category_id;not null;index"`
	Category   Category      `gorm:"foreignKey:CategoryID;references:ID"`
	Amount     float64       `gorm:"column:amount;not null"`
	Method     string        `gorm:"column:method;size:50"`
	Status     NoteStatus    `gorm:"column:status;type:varchar(20);not null;default:'PENDING'"`
	Target     BalanceTarget `gorm:"column:target;type:varchar(20);not null;default:'account_balance'"`
	MediaURL   string        `gorm:"column:media_url;size:500"`
	CreatedAt  time.Time     `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Note) TableName() string {
	return "notes"
}
