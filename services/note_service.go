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

// CreateNoteDTO представляет данные для создания ноты
type CreateNoteDTO struct {
	UserID     uint                 `json:"-" validate:"required"`
	CategoryID uint                 `json:"category_id" validate:"required"`
	Amount     float64              `json:"amount" validate:"required,gt=0"`
	Method     string               `json:"method" validate:"omitempty,max=50"`
	Target     models.BalanceTarget `json:"target" validate:"required,oneof=account_balance baki"`
	MediaPath  string               `json:"media_path" validate:"omitempty,max=400"`
}

// NoteDTO представляет ноту для ответа
type NoteDTO struct {
	ID         uint                 `json:"id"`
	UserID     uint                 `json:"user_id"`
	CategoryID uint                 `json:"category_id"`
	Amount     float64              `json:"amount"`
	Method     string               `json:"method"`
	Status     models.NoteStatus    `json:"status"`
	Target     models.BalanceTarget `json:"target"`
	MediaURL   string               `json:"media_url"`
	CreatedAt  string               `json:"createdAt"`
	UpdatedAt  string               `json:"updatedAt"`
}

// canTransition проверяет допустимость перехода статуса ноты.
// Разрешены только PENDING -> APPROVED и PENDING -> REJECTED.
func canTransition(from, to models.NoteStatus) bool {
	if from != models.NoteStatusPending {
		return false
	}
	return to == models.NoteStatusApproved || to == models.NoteStatusRejected
}

// NoteService предоставляет методы для работы с нотами
type NoteService struct {
	db           *gorm.DB
	validator    *validator.Validate
	transactions *TransactionService
	email        *EmailService
	mediaKey     string
	mediaPrefix  string
	feed         *ChangeFeed[models.Note]
}

// NewNoteService создает новый экземпляр NoteService
func NewNoteService(db *gorm.DB, transactions *TransactionService, email *EmailService, mediaKey, mediaPrefix string) *NoteService {
	return &NoteService{
		db:           db,
		validator:    validator.New(),
		transactions: transactions,
		email:        email,
		mediaKey:     mediaKey,
		mediaPrefix:  mediaPrefix,
		feed:         NewChangeFeed[models.Note](),
	}
}

// Feed возвращает ленту изменений нот
func (s *NoteService) Feed() *ChangeFeed[models.Note] {
	return s.feed
}

// validateRequest валидирует DTO и возвращает ошибки валидации
func (s *NoteService) validateRequest(dto interface{}) error {
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "gt":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше 0")
			case "max":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать максимум "+e.Param()+" символов")
			case "oneof":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}
	return nil
}

// toNoteDTO конвертирует модель в DTO ответа
func toNoteDTO(n *models.Note) *NoteDTO {
	return &NoteDTO{
		ID:         n.ID,
		UserID:     n.UserID,
		CategoryID: n.CategoryID,
		Amount:     n.Amount,
		Method:     n.Method,
		Status:     n.Status,
		Target:     n.Target,
		MediaURL:   n.MediaURL,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  n.UpdatedAt.Format(time.RFC3339),
	}
}

// Create создает ноту в статусе PENDING
func (s *NoteService) Create(dto CreateNoteDTO) (*NoteDTO, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	note := &models.Note{
		UserID:     dto.UserID,
		CategoryID: dto.CategoryID,
		Amount:     dto.Amount,
		Method:     dto.Method,
		Status:     models.NoteStatusPending,
		Target:     dto.Target,
	}

	// Формируем подписанную публичную ссылку на вложение
	if dto.MediaPath != "" {
		note.MediaURL = utils.PublicMediaURL(s.mediaPrefix, dto.MediaPath, s.mediaKey)
	}

	// Сохраняем ноту
	if err := s.db.Create(note).Error; err != nil {
		return nil, errors.New("не удалось создать ноту")
	}

	s.feed.Publish(ChangeEvent[models.Note]{Kind: ChangeInsert, Row: *note, Key: note.ID})

	return toNoteDTO(note), nil
}

// GetByID возвращает ноту по ID
func (s *NoteService) GetByID(id uint) (*models.Note, error) {
	var note models.Note
	if err := s.db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("нота не найдена")
		}
		return nil, errors.New("ошибка при поиске ноты")
	}
	return &note, nil
}

// GetAllByUserID возвращает все ноты пользователя
func (s *NoteService) GetAllByUserID(userID uint) ([]models.Note, error) {
	var notes []models.Note
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, errors.New("ошибка при получении списка нот")
	}
	if len(notes) == 0 {
		return []models.Note{}, nil
	}
	return notes, nil
}

// GetAll возвращает все ноты, опционально фильтруя по статусу
func (s *NoteService) GetAll(status models.NoteStatus) ([]models.Note, error) {
	var notes []models.Note
	query := s.db.Preload("User").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&notes).Error; err != nil {
		return nil, errors.New("ошибка при получении списка нот")
	}
	if len(notes) == 0 {
		return []models.Note{}, nil
	}
	return notes, nil
}

// Approve подтверждает ноту: создает кредитную транзакцию на ее сумму,
// при отсутствии строки баланса создает ее с balance=0. Повторное
// подтверждение уже обработанной ноты отклоняется.
func (s *NoteService) Approve(id uint) (*NoteDTO, error) {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Получаем ноту
	var note models.Note
	if err := tx.First(&note, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("нота не найдена")
		}
		return nil, errors.New("ошибка при поиске ноты")
	}

	// Проверяем допустимость перехода
	if !canTransition(note.Status, models.NoteStatusApproved) {
		tx.Rollback()
		return nil, errors.New("нота уже обработана")
	}

	// Проверяем, что пользователь ноты существует
	var user models.User
	if err := tx.First(&user, note.UserID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("пользователь ноты не найден")
		}
		return nil, errors.New("ошибка при поиске пользователя")
	}

	// Создаем кредитную транзакцию на сумму ноты
	if _, err := s.transactions.createInTx(tx, CreateTransactionDTO{
		UserID:     note.UserID,
		CategoryID: note.CategoryID,
		Amount:     note.Amount,
		Type:       models.TransactionTypeCredit,
		Target:     note.Target,
		Source:     models.TransactionSourceNote,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Переводим ноту в терминальный статус
	note.Status = models.NoteStatusApproved
	note.UpdatedAt = time.Now()
	if err := tx.Save(&note).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении ноты")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	s.feed.Publish(ChangeEvent[models.Note]{Kind: ChangeUpdate, Row: note, Key: note.ID})
	utils.GetMetrics().RecordNoteApproved()

	// Отправляем уведомление, ошибка отправки не откатывает решение
	if err := s.email.SendNoteDecisionNotification(user.Email, note.ID, note.Amount, string(note.Status)); err != nil {
		utils.LogError("Ошибка отправки уведомления о ноте %d: %v", note.ID, err)
	}

	return toNoteDTO(&note), nil
}

// Reject отклоняет ноту без изменения леджера
func (s *NoteService) Reject(id uint) (*NoteDTO, error) {
	// Получаем ноту
	var note models.Note
	if err := s.db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("нота не найдена")
		}
		return nil, errors.New("ошибка при поиске ноты")
	}

	// Проверяем допустимость перехода
	if !canTransition(note.Status, models.NoteStatusRejected) {
		return nil, errors.New("нота уже обработана")
	}

	// Переводим ноту в терминальный статус
	note.Status = models.NoteStatusRejected
	note.UpdatedAt = time.Now()
	if err := s.db.Save(&note).Error; err != nil {
		return nil, errors.New("ошибка при обновлении ноты")
	}

	s.feed.Publish(ChangeEvent[models.Note]{Kind: ChangeUpdate, Row: note, Key: note.ID})
	utils.GetMetrics().RecordNoteRejected()

	// Отправляем уведомление владельцу ноты
	var user models.User
	if err := s.db.First(&user, note.UserID).Error; err == nil {
		if err := s.email.SendNoteDecisionNotification(user.Email, note.ID, note.Amount, string(note.Status)); err != nil {
			utils.LogError("Ошибка отправки уведомления о ноте %d: %v", note.ID, err)
		}
	}

	return toNoteDTO(&note), nil
}

// Delete удаляет ноту в статусе PENDING. Обработанные ноты не удаляются.
func (s *NoteService) Delete(id uint) error {
	var note models.Note
	if err := s.db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("нота не найдена")
		}
		return errors.New("ошибка при поиске ноты")
	}

	if note.Status != models.NoteStatusPending {
		return errors.New("обработанную ноту нельзя удалить")
	}

	if err := s.db.Delete(&note).Error; err != nil {
		return errors.New("ошибка при удалении ноты")
	}

	s.feed.Publish(ChangeEvent[models.Note]{Kind: ChangeDelete, Key: note.ID})

	return nil
}
