package services

import (
	"errors"
	"strings"
	"time"

	"loyaltyProject/models"
	"loyaltyProject/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CreateTransactionDTO представляет данные для создания транзакции
type CreateTransactionDTO struct {
	UserID     uint                     `json:"user_id" validate:"required"`
	CategoryID uint                     `json:"category_id" validate:"required"`
	Amount     float64                  `json:"amount" validate:"required"`
	Type       models.TransactionType   `json:"type" validate:"required,oneof=credit debit"`
	Target     models.BalanceTarget     `json:"target" validate:"required,oneof=account_balance baki"`
	Source     models.TransactionSource `json:"source" validate:"omitempty,oneof=NOTE RESULT MANUAL"`
	ResultID   *uint                    `json:"result_id,omitempty"`
}

// UpdateTransactionDTO представляет данные для изменения транзакции
type UpdateTransactionDTO struct {
	Amount float64                `json:"amount" validate:"required"`
	Type   models.TransactionType `json:"type" validate:"required,oneof=credit debit"`
}

// TransactionDTO представляет транзакцию для ответа
type TransactionDTO struct {
	ID               uint                     `json:"id"`
	AccountBalanceID *uint                    `json:"account_balance_id,omitempty"`
	BakiID           *uint                    `json:"baki_id,omitempty"`
	UserID           uint                     `json:"user_id"`
	CategoryID       uint                     `json:"category_id"`
	Amount           float64                  `json:"amount"`
	Type             models.TransactionType   `json:"type"`
	Target           models.BalanceTarget     `json:"target"`
	Source           models.TransactionSource `json:"source"`
	ResultID         *uint                    `json:"result_id,omitempty"`
	CreatedAt        string                   `json:"createdAt"`
	UpdatedAt        string                   `json:"updatedAt"`
}

// TransactionService предоставляет методы для работы с транзакциями
type TransactionService struct {
	db        *gorm.DB
	validator *validator.Validate
	ledger    *LedgerService
	feed      *ChangeFeed[models.Transaction]
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(db *gorm.DB, ledger *LedgerService) *TransactionService {
	return &TransactionService{
		db:        db,
		validator: validator.New(),
		ledger:    ledger,
		feed:      NewChangeFeed[models.Transaction](),
	}
}

// Feed возвращает ленту изменений транзакций
func (s *TransactionService) Feed() *ChangeFeed[models.Transaction] {
	return s.feed
}

// validateRequest валидирует DTO и возвращает ошибки валидации
func (s *TransactionService) validateRequest(dto interface{}) error {
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "oneof":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}
	return nil
}

// toTransactionDTO конвертирует модель в DTO ответа
func toTransactionDTO(t *models.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:               t.ID,
		AccountBalanceID: t.AccountBalanceID,
		BakiID:           t.BakiID,
		UserID:           t.UserID,
		CategoryID:       t.CategoryID,
		Amount:           t.Amount,
		Type:             t.Type,
		Target:           t.Target,
		Source:           t.Source,
		ResultID:         t.ResultID,
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339),
	}
}

// GetByID возвращает транзакцию по ID
func (s *TransactionService) GetByID(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("транзакция не найдена")
		}
		return nil, errors.New("ошибка при поиске транзакции")
	}
	return &transaction, nil
}

// GetAllByUserID возвращает все транзакции пользователя
func (s *TransactionService) GetAllByUserID(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, errors.New("ошибка при получении списка транзакций")
	}
	if len(transactions) == 0 {
		return []models.Transaction{}, nil
	}
	return transactions, nil
}

// GetAllByCategoryID возвращает все транзакции категории
func (s *TransactionService) GetAllByCategoryID(categoryID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("category_id = ?", categoryID).Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, errors.New("ошибка при получении списка транзакций")
	}
	if len(transactions) == 0 {
		return []models.Transaction{}, nil
	}
	return transactions, nil
}

// Create создает транзакцию и применяет ее эффект к балансу.
// Строка баланса и строка транзакции пишутся в одной транзакции БД.
func (s *TransactionService) Create(dto CreateTransactionDTO) (*TransactionDTO, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	// Источник по умолчанию - ручная корректировка
	if dto.Source == "" {
		dto.Source = models.TransactionSourceManual
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	transaction, err := s.createInTx(tx, dto)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	s.feed.Publish(ChangeEvent[models.Transaction]{Kind: ChangeInsert, Row: *transaction, Key: transaction.ID})
	utils.GetMetrics().RecordTransactionPosted()

	return toTransactionDTO(transaction), nil
}

// createInTx создает транзакцию внутри уже открытой транзакции БД.
// Используется также при подтверждении нот и загрузке результатов.
func (s *TransactionService) createInTx(tx *gorm.DB, dto CreateTransactionDTO) (*models.Transaction, error) {
	// Находим или создаем строку баланса
	balanceID, _, err := s.ledger.resolveBalanceRow(tx, dto.Target, dto.UserID, dto.CategoryID, true)
	if err != nil {
		return nil, err
	}

	// Создаем запись о транзакции
	transaction := &models.Transaction{
		UserID:     dto.UserID,
		CategoryID: dto.CategoryID,
		Amount:     dto.Amount,
		Type:       dto.Type,
		Target:     dto.Target,
		Source:     dto.Source,
		ResultID:   dto.ResultID,
	}
	setBalanceRef(transaction, balanceID)

	// Применяем эффект к балансу
	if err := s.ledger.applyTransaction(tx, transaction); err != nil {
		return nil, err
	}

	// Сохраняем транзакцию
	if err := tx.Create(transaction).Error; err != nil {
		return nil, errors.New("ошибка при сохранении транзакции")
	}

	return transaction, nil
}

// Update изменяет сумму и направление транзакции: сначала полностью отменяет
// старый эффект по старым {amount, type}, затем применяет новый по новым
// {amount, type}. Смена направления вместе с суммой обрабатывается корректно.
func (s *TransactionService) Update(id uint, dto UpdateTransactionDTO) (*TransactionDTO, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Получаем транзакцию
	var transaction models.Transaction
	if err := tx.First(&transaction, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("транзакция не найдена")
		}
		return nil, errors.New("ошибка при поиске транзакции")
	}

	// Отменяем старый эффект
	if err := s.ledger.reverseTransaction(tx, &transaction); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Применяем новый эффект
	transaction.Amount = dto.Amount
	transaction.Type = dto.Type
	transaction.UpdatedAt = time.Now()
	if err := s.ledger.applyTransaction(tx, &transaction); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Сохраняем изменения
	if err := tx.Save(&transaction).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при сохранении транзакции")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	s.feed.Publish(ChangeEvent[models.Transaction]{Kind: ChangeUpdate, Row: transaction, Key: transaction.ID})

	return toTransactionDTO(&transaction), nil
}

// Delete удаляет транзакцию, предварительно отменив ее эффект на балансе
func (s *TransactionService) Delete(id uint) error {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	// Получаем транзакцию
	var transaction models.Transaction
	if err := tx.First(&transaction, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("транзакция не найдена")
		}
		return errors.New("ошибка при поиске транзакции")
	}

	if err := s.deleteInTx(tx, &transaction); err != nil {
		tx.Rollback()
		return err
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	s.feed.Publish(ChangeEvent[models.Transaction]{Kind: ChangeDelete, Key: transaction.ID})
	utils.GetMetrics().RecordTransactionReversed()

	return nil
}

// deleteInTx отменяет эффект и удаляет транзакцию внутри открытой транзакции БД
func (s *TransactionService) deleteInTx(tx *gorm.DB, transaction *models.Transaction) error {
	// Отменяем эффект на балансе
	if err := s.ledger.reverseTransaction(tx, transaction); err != nil {
		return err
	}

	// Удаляем запись
	if err := tx.Delete(transaction).Error; err != nil {
		return errors.New("ошибка при удалении транзакции")
	}

	return nil
}
