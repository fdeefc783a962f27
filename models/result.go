package models

import (
	"time"
)

// ResultStatus представляет статус результата
type ResultStatus string

const (
	ResultStatusProcessed ResultStatus = "PROCESSED" // Строки разобраны, транзакции созданы
)

// Result представляет пакетную загрузку корректировок: текстовый блок,
// по одной паре "<сумма> <имя пользователя>" на строку. Каждая распознанная
// строка порождает одну транзакцию с result_id этой записи.
type Result struct {
	ID         uint          `gorm:"primaryKey;autoIncrement"`
	CategoryID uint          `gorm:"column:category_id;not null;index"`
	Category   Category      `gorm:"foreignKey:CategoryID;references:ID"`
	Target     BalanceTarget `gorm:"column:target;type:varchar(20);not null;default:'account_balance'"`
	Result     string        `gorm:"column:result;type:text;not null"`
	Status     ResultStatus  `gorm:"column:status;type:varchar(20);not null;default:'PROCESSED'"`
	CreatedAt  time.Time     `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Result) TableName() string {
	return "results"
}
