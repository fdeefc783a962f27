package services

import (
	"errors"
	"time"

	"loyaltyProject/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

type UserDTO struct {
	ID        uint            `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
}

type CreateUserRequest struct {
	FirstName string          `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string          `json:"lastName" validate:"required,min=2,max=50"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8"`
	Role      models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

type UpdateUserRequest struct {
	FirstName string          `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  string          `json:"lastName" validate:"omitempty,min=2,max=50"`
	Role      models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// toUserDTO конвертирует модель в DTO ответа
func toUserDTO(u *models.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// CreateUserInternal создает нового пользователя
func (h *UserService) CreateUserInternal(req CreateUserRequest) (*models.User, error) {
	// Проверяем, существует ли пользователь с таким email
	var existingUser models.User
	if err := h.db.Where("LOWER(email) = LOWER(?)", req.Email).First(&existingUser).Error; err == nil {
		return nil, errors.New("user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Роль по умолчанию - обычный пользователь
	if req.Role == "" {
		req.Role = models.UserRoleUser
	}

	// Создаем нового пользователя
	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      req.Role,
	}

	if err := h.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// FindById ищет пользователя по ID
func (h *UserService) FindById(id uint) (*models.User, error) {
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail ищет пользователя по email (игнорируя регистр и пробелы)
func (h *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := h.db.Where("LOWER(TRIM(email)) = LOWER(TRIM(?))", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetAll возвращает всех пользователей
func (h *UserService) GetAll() ([]UserDTO, error) {
	var users []models.User
	if err := h.db.Order("id").Find(&users).Error; err != nil {
		return nil, errors.New("ошибка при получении списка пользователей")
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *toUserDTO(&users[i]))
	}
	return dtos, nil
}

// GetAdmins возвращает всех администраторов
func (h *UserService) GetAdmins() ([]models.User, error) {
	var admins []models.User
	if err := h.db.Where("role = ?", models.UserRoleAdmin).Find(&admins).Error; err != nil {
		return nil, errors.New("ошибка при получении списка администраторов")
	}
	return admins, nil
}

// Update изменяет имя и роль пользователя
func (h *UserService) Update(id uint, req UpdateUserRequest) (*UserDTO, error) {
	user, err := h.FindById(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	user.UpdatedAt = time.Now()

	if err := h.db.Save(user).Error; err != nil {
		return nil, errors.New("ошибка при обновлении пользователя")
	}

	return toUserDTO(user), nil
}

// Delete удаляет пользователя вместе с его строками балансов.
// Удаление пользователя - единственный путь удаления строк баланса.
func (h *UserService) Delete(id uint) error {
	user, err := h.FindById(id)
	if err != nil {
		return err
	}

	// Начинаем транзакцию
	tx := h.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	// Удаляем балансы пользователя
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.AccountBalance{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении балансов пользователя")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Baki{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении баки пользователя")
	}

	// Удаляем самого пользователя
	if err := tx.Delete(user).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении пользователя")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}
