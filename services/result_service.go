package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"loyaltyProject/models"
	"loyaltyProject/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CreateResultDTO представляет данные для создания результата
type CreateResultDTO struct {
	CategoryID uint                 `json:"category_id" validate:"required"`
	Target     models.BalanceTarget `json:"target" validate:"required,oneof=account_balance baki"`
	Result     string               `json:"result" validate:"required"`
}

// UpdateResultDTO представляет данные для изменения результата
type UpdateResultDTO struct {
	Result string `json:"result" validate:"required"`
}

// ResultDTO представляет результат для ответа
type ResultDTO struct {
	ID           uint                 `json:"id"`
	CategoryID   uint                 `json:"category_id"`
	Target       models.BalanceTarget `json:"target"`
	Result       string               `json:"result"`
	Status       models.ResultStatus  `json:"status"`
	LinesTotal   int                  `json:"lines_total"`
	LinesSkipped int                  `json:"lines_skipped"`
	CreatedAt    string               `json:"createdAt"`
	UpdatedAt    string               `json:"updatedAt"`
}

// resultLine представляет одну разобранную строку результата
type resultLine struct {
	Amount   float64
	Type     models.TransactionType
	Username string
}

// parseResultLines разбирает текстовый блок результата: по одной паре
// "<сумма> <имя>" на строку, разделитель - первый пробел. Строки без обоих
// токенов и строки с нечисловой суммой пропускаются без ошибки.
//
// Знаковое преобразование исходной системы сохранено дословно: ведущий минус
// обозначает кредит, и в обеих ветках сумма сохраняется с инвертированным
// знаком относительно текста. Направление везде определяется полем type,
// а не знаком сохраненной суммы.
func parseResultLines(text string) (lines []resultLine, skipped int) {
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parts := strings.SplitN(raw, " ", 2)
		if len(parts) < 2 {
			skipped++
			continue
		}

		amountText := parts[0]
		username := strings.TrimSpace(parts[1])
		if username == "" {
			skipped++
			continue
		}

		value, err := strconv.ParseFloat(amountText, 64)
		if err != nil {
			skipped++
			continue
		}

		var line resultLine
		line.Username = username
		if strings.HasPrefix(amountText, "-") {
			// Кредит хранится как -amount
			line.Type = models.TransactionTypeCredit
			line.Amount = -value
		} else {
			// Дебет хранится как amount*-1
			line.Type = models.TransactionTypeDebit
			line.Amount = value * -1
		}

		lines = append(lines, line)
	}

	return lines, skipped
}

// resolveResultUser сопоставляет имя из строки результата с пользователем:
// точное совпадение с локальной частью email (текст до '@') без учета регистра.
// Подстрочное сопоставление исходной системы неоднозначно и не воспроизводится.
func resolveResultUser(users []models.User, username string) *models.User {
	needle := strings.ToLower(strings.TrimSpace(username))
	for i := range users {
		local := users[i].Email
		if at := strings.Index(local, "@"); at >= 0 {
			local = local[:at]
		}
		if strings.ToLower(local) == needle {
			return &users[i]
		}
	}
	return nil
}

// ResultService предоставляет методы для пакетной загрузки результатов
type ResultService struct {
	db           *gorm.DB
	validator    *validator.Validate
	transactions *TransactionService
	feed         *ChangeFeed[models.Result]
}

// NewResultService создает новый экземпляр ResultService
func NewResultService(db *gorm.DB, transactions *TransactionService) *ResultService {
	return &ResultService{
		db:           db,
		validator:    validator.New(),
		transactions: transactions,
		feed:         NewChangeFeed[models.Result](),
	}
}

// Feed возвращает ленту изменений результатов
func (s *ResultService) Feed() *ChangeFeed[models.Result] {
	return s.feed
}

// validateRequest валидирует DTO и возвращает ошибки валидации
func (s *ResultService) validateRequest(dto interface{}) error {
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

// toResultDTO конвертирует модель в DTO ответа
func toResultDTO(r *models.Result, total, skipped int) *ResultDTO {
	return &ResultDTO{
		ID:           r.ID,
		CategoryID:   r.CategoryID,
		Target:       r.Target,
		Result:       r.Result,
		Status:       r.Status,
		LinesTotal:   total,
		LinesSkipped: skipped,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

// GetByID возвращает результат по ID
func (s *ResultService) GetByID(id uint) (*models.Result, error) {
	var result models.Result
	if err := s.db.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("результат не найден")
		}
		return nil, errors.New("ошибка при поиске результата")
	}
	return &result, nil
}

// GetAllByCategoryID возвращает все результаты категории
func (s *ResultService) GetAllByCategoryID(categoryID uint) ([]models.Result, error) {
	var results []models.Result
	if err := s.db.Where("category_id = ?", categoryID).Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, errors.New("ошибка при получении списка результатов")
	}
	if len(results) == 0 {
		return []models.Result{}, nil
	}
	return results, nil
}

// GetAll возвращает все результаты
func (s *ResultService) GetAll() ([]models.Result, error) {
	var results []models.Result
	if err := s.db.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, errors.New("ошибка при получении списка результатов")
	}
	if len(results) == 0 {
		return []models.Result{}, nil
	}
	return results, nil
}

// ingestInTx разбирает текст результата и создает по транзакции на каждую
// распознанную строку. Строка с именем, не сопоставленным ни одному
// пользователю, пропускается как нераспознанная.
func (s *ResultService) ingestInTx(tx *gorm.DB, result *models.Result) (total, skipped int, err error) {
	lines, skippedLines := parseResultLines(result.Result)
	skipped = skippedLines

	// Загружаем пользователей один раз на весь блок
	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return 0, 0, errors.New("ошибка при получении списка пользователей")
	}

	for _, line := range lines {
		user := resolveResultUser(users, line.Username)
		if user == nil {
			skipped++
			continue
		}

		resultID := result.ID
		if _, err := s.transactions.createInTx(tx, CreateTransactionDTO{
			UserID:     user.ID,
			CategoryID: result.CategoryID,
			Amount:     line.Amount,
			Type:       line.Type,
			Target:     result.Target,
			Source:     models.TransactionSourceResult,
			ResultID:   &resultID,
		}); err != nil {
			return 0, 0, err
		}
		total++
	}

	return total, skipped, nil
}

// Create создает результат и сразу загружает его строки в леджер.
// Запись результата, строки балансов и транзакции пишутся атомарно.
func (s *ResultService) Create(dto CreateResultDTO) (*ResultDTO, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Создаем запись результата
	result := &models.Result{
		CategoryID: dto.CategoryID,
		Target:     dto.Target,
		Result:     dto.Result,
		Status:     models.ResultStatusProcessed,
	}
	if err := tx.Create(result).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("не удалось создать результат")
	}

	// Загружаем строки
	total, skipped, err := s.ingestInTx(tx, result)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	if skipped > 0 {
		utils.LogInfo("Результат %d: пропущено %d нераспознанных строк", result.ID, skipped)
	}
	utils.GetMetrics().RecordResultIngested(total, skipped)
	s.feed.Publish(ChangeEvent[models.Result]{Kind: ChangeInsert, Row: *result, Key: result.ID})

	return toResultDTO(result, total, skipped), nil
}

// Update заменяет текст результата: сначала отменяет и удаляет все транзакции,
// ранее созданные этим результатом, затем разбирает новый текст заново.
// Полная замена, не дифф; все в одной транзакции БД.
func (s *ResultService) Update(id uint, dto UpdateResultDTO) (*ResultDTO, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Получаем результат
	var result models.Result
	if err := tx.First(&result, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("результат не найден")
		}
		return nil, errors.New("ошибка при поиске результата")
	}

	// Отменяем все транзакции, созданные этим результатом
	if err := s.reverseResultTransactions(tx, result.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Обновляем текст и загружаем заново
	result.Result = dto.Result
	result.UpdatedAt = time.Now()
	if err := tx.Save(&result).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении результата")
	}

	total, skipped, err := s.ingestInTx(tx, &result)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	if skipped > 0 {
		utils.LogInfo("Результат %d: пропущено %d нераспознанных строк", result.ID, skipped)
	}
	utils.GetMetrics().RecordResultIngested(total, skipped)
	s.feed.Publish(ChangeEvent[models.Result]{Kind: ChangeUpdate, Row: result, Key: result.ID})

	return toResultDTO(&result, total, skipped), nil
}

// Delete удаляет результат вместе с отменой всех его транзакций
func (s *ResultService) Delete(id uint) error {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	// Получаем результат
	var result models.Result
	if err := tx.First(&result, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("результат не найден")
		}
		return errors.New("ошибка при поиске результата")
	}

	// Отменяем транзакции результата
	if err := s.reverseResultTransactions(tx, result.ID); err != nil {
		tx.Rollback()
		return err
	}

	// Удаляем запись результата
	if err := tx.Delete(&result).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении результата")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	s.feed.Publish(ChangeEvent[models.Result]{Kind: ChangeDelete, Key: result.ID})

	return nil
}

// reverseResultTransactions отменяет и удаляет все транзакции с данным result_id
func (s *ResultService) reverseResultTransactions(tx *gorm.DB, resultID uint) error {
	var transactions []models.Transaction
	if err := tx.Where("result_id = ?", resultID).Find(&transactions).Error; err != nil {
		return errors.New("ошибка при получении транзакций результата")
	}

	for i := range transactions {
		if err := s.transactions.deleteInTx(tx, &transactions[i]); err != nil {
			return err
		}
	}

	return nil
}
