package models

import (
	"time"
)

// TransactionType представляет направление транзакции
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit" // Зачисление, увеличивает баланс
	TransactionTypeDebit  TransactionType = "debit"  // Списание, уменьшает баланс
)

// BalanceTarget представляет вид баланса, к которому применяется транзакция
type BalanceTarget string

const (
	BalanceTargetAccount BalanceTarget = "account_balance"
	BalanceTargetBaki    BalanceTarget = "baki"
)

// TransactionSource представляет источник транзакции
type TransactionSource string

const (
	TransactionSourceNote   TransactionSource = "NOTE"
	TransactionSourceResult TransactionSource = "RESULT"
	TransactionSourceManual TransactionSource = "MANUAL"
)

// Transaction представляет неизменяемую запись о корректировке баланса.
// Эффект применяется ровно один раз при создании и обращается ровно один раз
// при удалении; заполнено ровно одно из полей AccountBalanceID/BakiID.
type Transaction struct {
	ID               uint              `gorm:"primaryKey;autoIncrement"`
	AccountBalanceID *uint             `gorm:"column:account_balance_id;index"`
	BakiID           *uint             `gorm:"column:baki_id;index"`
	UserID           uint              `gorm:"column:user_id;not null;index"`
	CategoryID       uint              `gorm:"column:category_id;not null;index"`
	Amount           float64           `gorm:"column:amount;not null"`
	Type             TransactionType   `gorm:"column:type;type:varchar(10);not null"`
	Target           BalanceTarget     `gorm:"column:target;type:varchar(20);not null"`
	Source           TransactionSource `gorm:"column:source;type:varchar(10);not null"`
	ResultID         *uint             `gorm:"column:result_id;index"`
	CreatedAt        time.Time         `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string {
	return "transactions"
}
