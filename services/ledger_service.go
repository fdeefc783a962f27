package services

import (
	"errors"
	"time"

	"loyaltyProject/models"

	"gorm.io/gorm"
)

// applyEffect возвращает баланс после применения транзакции:
// credit увеличивает баланс на amount, debit уменьшает.
func applyEffect(balance float64, amount float64, txType models.TransactionType) float64 {
	if txType == models.TransactionTypeCredit {
		return balance + amount
	}
	return balance - amount
}

// reverseEffect возвращает баланс после отмены транзакции - точная инверсия applyEffect
func reverseEffect(balance float64, amount float64, txType models.TransactionType) float64 {
	if txType == models.TransactionTypeCredit {
		return balance - amount
	}
	return balance + amount
}

// LedgerService предоставляет методы для изменения балансов.
// Каждая логическая операция (применение, отмена, перенос эффекта) выполняется
// внутри одной транзакции БД вместе с записью строки транзакции - частичная
// запись из двух независимых сетевых вызовов исходной системы здесь невозможна.
type LedgerService struct {
	db *gorm.DB
}

// NewLedgerService создает новый экземпляр LedgerService
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// GetDB возвращает экземпляр базы данных
func (s *LedgerService) GetDB() *gorm.DB {
	return s.db
}

// GetAccountBalancesByUserID возвращает все основные балансы пользователя
func (s *LedgerService) GetAccountBalancesByUserID(userID uint) ([]models.AccountBalance, error) {
	var balances []models.AccountBalance
	if err := s.db.Where("user_id = ?", userID).Preload("Category").Order("category_id").Find(&balances).Error; err != nil {
		return nil, errors.New("ошибка при получении балансов")
	}
	if len(balances) == 0 {
		return []models.AccountBalance{}, nil
	}
	return balances, nil
}

// GetBakisByUserID возвращает все баки пользователя
func (s *LedgerService) GetBakisByUserID(userID uint) ([]models.Baki, error) {
	var bakis []models.Baki
	if err := s.db.Where("user_id = ?", userID).Preload("Category").Order("category_id").Find(&bakis).Error; err != nil {
		return nil, errors.New("ошибка при получении баки")
	}
	if len(bakis) == 0 {
		return []models.Baki{}, nil
	}
	return bakis, nil
}

// resolveBalanceRow возвращает id и текущее значение строки баланса для пары
// (пользователь, категория) заданного вида. При createIfMissing отсутствующая
// строка создается с balance=0.
func (s *LedgerService) resolveBalanceRow(tx *gorm.DB, target models.BalanceTarget, userID, categoryID uint, createIfMissing bool) (uint, float64, error) {
	switch target {
	case models.BalanceTargetAccount:
		var balance models.AccountBalance
		err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).First(&balance).Error
		if err == nil {
			return balance.ID, balance.Balance, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, errors.New("ошибка при поиске баланса")
		}
		if !createIfMissing {
			return 0, 0, errors.New("баланс не найден")
		}

		// Создаем строку баланса лениво
		balance = models.AccountBalance{
			UserID:     userID,
			CategoryID: categoryID,
			Balance:    0,
		}
		if err := tx.Create(&balance).Error; err != nil {
			return 0, 0, errors.New("не удалось создать баланс")
		}
		return balance.ID, balance.Balance, nil

	case models.BalanceTargetBaki:
		var baki models.Baki
		err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).First(&baki).Error
		if err == nil {
			return baki.ID, baki.Balance, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, errors.New("ошибка при поиске баки")
		}
		if !createIfMissing {
			return 0, 0, errors.New("баки не найден")
		}

		// Создаем строку баки лениво
		baki = models.Baki{
			UserID:     userID,
			CategoryID: categoryID,
			Balance:    0,
		}
		if err := tx.Create(&baki).Error; err != nil {
			return 0, 0, errors.New("не удалось создать баки")
		}
		return baki.ID, baki.Balance, nil
	}

	return 0, 0, errors.New("неизвестный вид баланса")
}

// setBalanceRef заполняет ссылку транзакции на строку баланса в соответствии с видом
func setBalanceRef(t *models.Transaction, balanceID uint) {
	switch t.Target {
	case models.BalanceTargetAccount:
		t.AccountBalanceID = &balanceID
		t.BakiID = nil
	case models.BalanceTargetBaki:
		t.BakiID = &balanceID
		t.AccountBalanceID = nil
	}
}

// balanceRefID возвращает id строки баланса, на которую ссылается транзакция
func balanceRefID(t *models.Transaction) (uint, error) {
	switch t.Target {
	case models.BalanceTargetAccount:
		if t.AccountBalanceID == nil {
			return 0, errors.New("транзакция не ссылается на баланс")
		}
		return *t.AccountBalanceID, nil
	case models.BalanceTargetBaki:
		if t.BakiID == nil {
			return 0, errors.New("транзакция не ссылается на баки")
		}
		return *t.BakiID, nil
	}
	return 0, errors.New("неизвестный вид баланса")
}

// shiftBalance изменяет значение строки баланса на newBalance
func (s *LedgerService) shiftBalance(tx *gorm.DB, target models.BalanceTarget, balanceID uint, newBalance float64) error {
	switch target {
	case models.BalanceTargetAccount:
		var balance models.AccountBalance
		if err := tx.First(&balance, balanceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("баланс не найден")
			}
			return errors.New("ошибка при поиске баланса")
		}
		balance.Balance = newBalance
		balance.UpdatedAt = time.Now()
		if err := tx.Save(&balance).Error; err != nil {
			return errors.New("ошибка при обновлении баланса")
		}
		return nil

	case models.BalanceTargetBaki:
		var baki models.Baki
		if err := tx.First(&baki, balanceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("баки не найден")
			}
			return errors.New("ошибка при поиске баки")
		}
		baki.Balance = newBalance
		baki.UpdatedAt = time.Now()
		if err := tx.Save(&baki).Error; err != nil {
			return errors.New("ошибка при обновлении баки")
		}
		return nil
	}

	return errors.New("неизвестный вид баланса")
}

// currentBalance возвращает текущее значение строки баланса
func (s *LedgerService) currentBalance(tx *gorm.DB, target models.BalanceTarget, balanceID uint) (float64, error) {
	switch target {
	case models.BalanceTargetAccount:
		var balance models.AccountBalance
		if err := tx.First(&balance, balanceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, errors.New("баланс не найден")
			}
			return 0, errors.New("ошибка при поиске баланса")
		}
		return balance.Balance, nil

	case models.BalanceTargetBaki:
		var baki models.Baki
		if err := tx.First(&baki, balanceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, errors.New("баки не найден")
			}
			return 0, errors.New("ошибка при поиске баки")
		}
		return baki.Balance, nil
	}

	return 0, errors.New("неизвестный вид баланса")
}

// applyTransaction применяет эффект транзакции к строке баланса, на которую она ссылается
func (s *LedgerService) applyTransaction(tx *gorm.DB, t *models.Transaction) error {
	balanceID, err := balanceRefID(t)
	if err != nil {
		return err
	}

	current, err := s.currentBalance(tx, t.Target, balanceID)
	if err != nil {
		return err
	}

	return s.shiftBalance(tx, t.Target, balanceID, applyEffect(current, t.Amount, t.Type))
}

// reverseTransaction отменяет эффект транзакции на строке баланса
func (s *LedgerService) reverseTransaction(tx *gorm.DB, t *models.Transaction) error {
	balanceID, err := balanceRefID(t)
	if err != nil {
		return err
	}

	current, err := s.currentBalance(tx, t.Target, balanceID)
	if err != nil {
		return err
	}

	return s.shiftBalance(tx, t.Target, balanceID, reverseEffect(current, t.Amount, t.Type))
}
