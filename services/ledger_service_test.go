package services

import (
	"testing"

	"loyaltyProject/models"
)

func TestApplyEffectCredit(t *testing.T) {
	// Кредит увеличивает баланс на сумму
	got := applyEffect(100, 25, models.TransactionTypeCredit)
	if got != 125 {
		t.Errorf("applyEffect credit: got %v want %v", got, 125.0)
	}
}

func TestApplyEffectDebit(t *testing.T) {
	// Дебет уменьшает баланс на сумму
	got := applyEffect(100, 25, models.TransactionTypeDebit)
	if got != 75 {
		t.Errorf("applyEffect debit: got %v want %v", got, 75.0)
	}
}

func TestApplyEffectNegativeAmount(t *testing.T) {
	// Отрицательная сумма допустима, направление задает поле type
	got := applyEffect(100, -25, models.TransactionTypeCredit)
	if got != 75 {
		t.Errorf("applyEffect credit with negative amount: got %v want %v", got, 75.0)
	}

	got = applyEffect(100, -25, models.TransactionTypeDebit)
	if got != 125 {
		t.Errorf("applyEffect debit with negative amount: got %v want %v", got, 125.0)
	}
}

func TestReverseEffectInvertsApply(t *testing.T) {
	// Отмена транзакции возвращает баланс к исходному значению
	cases := []struct {
		balance float64
		amount  float64
		txType  models.TransactionType
	}{
		{0, 10, models.TransactionTypeCredit},
		{100, 33.5, models.TransactionTypeDebit},
		{-50, -7, models.TransactionTypeCredit},
		{1000000, 0.01, models.TransactionTypeDebit},
	}

	for _, c := range cases {
		applied := applyEffect(c.balance, c.amount, c.txType)
		reversed := reverseEffect(applied, c.amount, c.txType)
		if reversed != c.balance {
			t.Errorf("reverseEffect(%v, %v, %v): got %v want %v",
				applied, c.amount, c.txType, reversed, c.balance)
		}
	}
}

func TestUpdateSequencePreservesBalance(t *testing.T) {
	// Изменение транзакции: полная отмена старого эффекта, затем применение нового.
	// Смена направления вместе с суммой обрабатывается корректно.
	balance := 200.0

	// Применяем исходную транзакцию: credit 50
	balance = applyEffect(balance, 50, models.TransactionTypeCredit)
	if balance != 250 {
		t.Fatalf("after apply: got %v want %v", balance, 250.0)
	}

	// Меняем на debit 30: сначала отменяем старый эффект
	balance = reverseEffect(balance, 50, models.TransactionTypeCredit)
	if balance != 200 {
		t.Fatalf("after reverse: got %v want %v", balance, 200.0)
	}

	// Затем применяем новый
	balance = applyEffect(balance, 30, models.TransactionTypeDebit)
	if balance != 170 {
		t.Errorf("after reapply: got %v want %v", balance, 170.0)
	}
}

func TestSetBalanceRef(t *testing.T) {
	// Заполняется ровно одна из двух ссылок в зависимости от вида баланса
	tr := &models.Transaction{Target: models.BalanceTargetAccount}
	setBalanceRef(tr, 7)
	if tr.AccountBalanceID == nil || *tr.AccountBalanceID != 7 {
		t.Errorf("setBalanceRef account: AccountBalanceID not set")
	}
	if tr.BakiID != nil {
		t.Errorf("setBalanceRef account: BakiID must be nil")
	}

	tr = &models.Transaction{Target: models.BalanceTargetBaki}
	setBalanceRef(tr, 9)
	if tr.BakiID == nil || *tr.BakiID != 9 {
		t.Errorf("setBalanceRef baki: BakiID not set")
	}
	if tr.AccountBalanceID != nil {
		t.Errorf("setBalanceRef baki: AccountBalanceID must be nil")
	}
}

func TestBalanceRefID(t *testing.T) {
	// Транзакция без ссылки на строку баланса считается некорректной
	tr := &models.Transaction{Target: models.BalanceTargetAccount}
	if _, err := balanceRefID(tr); err == nil {
		t.Errorf("balanceRefID without ref: expected error")
	}

	id := uint(3)
	tr.AccountBalanceID = &id
	got, err := balanceRefID(tr)
	if err != nil {
		t.Fatalf("balanceRefID: unexpected error %v", err)
	}
	if got != 3 {
		t.Errorf("balanceRefID: got %v want %v", got, 3)
	}
}
