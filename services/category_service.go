package services

import (
	"errors"
	"strings"
	"time"

	"loyaltyProject/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CreateCategoryDTO представляет данные для создания категории
type CreateCategoryDTO struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CategoryService предоставляет методы для работы с категориями
type CategoryService struct {
	db        *gorm.DB
	validator *validator.Validate
	feed      *ChangeFeed[models.Category]
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{
		db:        db,
		validator: validator.New(),
		feed:      NewChangeFeed[models.Category](),
	}
}

// Feed возвращает ленту изменений категорий
func (s *CategoryService) Feed() *ChangeFeed[models.Category] {
	return s.feed
}

// validateRequest валидирует DTO и возвращает ошибки валидации
func (s *CategoryService) validateRequest(dto interface{}) error {
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "min":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать минимум "+e.Param()+" символов")
			case "max":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать максимум "+e.Param()+" символов")
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}
	return nil
}

// GetAll возвращает все категории
func (s *CategoryService) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, errors.New("ошибка при получении списка категорий")
	}
	if len(categories) == 0 {
		return []models.Category{}, nil
	}
	return categories, nil
}

// GetByID возвращает категорию по ID
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("категория не найдена")
		}
		return nil, errors.New("ошибка при поиске категории")
	}
	return &category, nil
}

// Create создает новую категорию
func (s *CategoryService) Create(dto CreateCategoryDTO) (*models.Category, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	category := &models.Category{Name: dto.Name}
	if err := s.db.Create(category).Error; err != nil {
		return nil, errors.New("не удалось создать категорию")
	}

	s.feed.Publish(ChangeEvent[models.Category]{Kind: ChangeInsert, Row: *category, Key: category.ID})

	return category, nil
}

// Update изменяет имя категории
func (s *CategoryService) Update(id uint, dto CreateCategoryDTO) (*models.Category, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	category.Name = dto.Name
	category.UpdatedAt = time.Now()
	if err := s.db.Save(category).Error; err != nil {
		return nil, errors.New("ошибка при обновлении категории")
	}

	s.feed.Publish(ChangeEvent[models.Category]{Kind: ChangeUpdate, Row: *category, Key: category.ID})

	return category, nil
}

// Delete удаляет категорию. Категория с транзакциями не удаляется.
func (s *CategoryService) Delete(id uint) error {
	category, err := s.GetByID(id)
	if err != nil {
		return err
	}

	// Запрещаем удаление категории, на которую ссылаются транзакции
	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return errors.New("ошибка при проверке транзакций категории")
	}
	if count > 0 {
		return errors.New("категория содержит транзакции и не может быть удалена")
	}

	if err := s.db.Delete(category).Error; err != nil {
		return errors.New("ошибка при удалении категории")
	}

	s.feed.Publish(ChangeEvent[models.Category]{Kind: ChangeDelete, Key: category.ID})

	return nil
}
