package models

import (
	"time"
)

// Baki представляет второй вид накопительного баланса (кредитный счет-"таб").
// Форма повторяет AccountBalance, транзакция затрагивает ровно один из двух видов.
type Baki struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:idx_bakis_user_category"`
	User       User      `gorm:"foreignKey:UserID;references:ID"`
	CategoryID uint      `gorm:"column:category_id;not null;uniqueIndex:idx_bakis_user_category"`
	Category   Category  `gorm:"foreignKey:CategoryID;references:ID"`
	Balance    float64   `gorm:"column:balance;type:decimal(20,2);not null;default:0.0"`
	CreatedAt  time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Baki) TableName() string {
	return "bakis"
}
