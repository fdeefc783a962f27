package models

import (
	"time"
)

// AccountBalance представляет основной баланс пользователя в рамках категории.
// На пару (пользователь, категория) приходится не более одной строки,
// строка создается лениво при первом зачислении.
type AccountBalance struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:idx_account_balances_user_category"`
	User       User      `gorm:"foreignKey:UserID;references:ID"`
	CategoryID uint      `gorm:"column:category_id;not null;uniqueIndex:idx_account_balances_user_category"`
	Category   Category  `gorm:"foreignKey:CategoryID;references:ID"`
	Balance    float64   `gorm:"column:balance;type:decimal(20,2);not null;default:0.0"`
	CreatedAt  time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (AccountBalance) TableName() string {
	return "account_balances"
}
