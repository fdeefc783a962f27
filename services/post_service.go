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

// CreatePostDTO представляет данные для создания публикации
type CreatePostDTO struct {
	Title     string `json:"title" validate:"required,min=2,max=200"`
	Content   string `json:"content"`
	MediaPath string `json:"media_path" validate:"omitempty,max=400"`
	Published bool   `json:"published"`
	Position  int    `json:"position" validate:"gte=0"`
}

// CreatePostMediaDTO представляет данные для привязки медиафайла к публикации
type CreatePostMediaDTO struct {
	PostID    uint   `json:"post_id" validate:"required"`
	Path      string `json:"path" validate:"required,max=400"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

// CreatePostFolderDTO представляет данные для создания папки медиатеки
type CreatePostFolderDTO struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreatePostFolderMediaDTO представляет данные для добавления медиафайла в папку
type CreatePostFolderMediaDTO struct {
	FolderID uint   `json:"folder_id" validate:"required"`
	Path     string `json:"path" validate:"required,max=400"`
}

// PostService предоставляет методы для работы с публикациями витрины
// и медиатекой редактора
type PostService struct {
	db          *gorm.DB
	validator   *validator.Validate
	mediaKey    string
	mediaPrefix string
	feed        *ChangeFeed[models.Post]
}

// NewPostService создает новый экземпляр PostService
func NewPostService(db *gorm.DB, mediaKey, mediaPrefix string) *PostService {
	return &PostService{
		db:          db,
		validator:   validator.New(),
		mediaKey:    mediaKey,
		mediaPrefix: mediaPrefix,
		feed:        NewChangeFeed[models.Post](),
	}
}

// Feed возвращает ленту изменений публикаций
func (s *PostService) Feed() *ChangeFeed[models.Post] {
	return s.feed
}

// validateRequest валидирует DTO и возвращает ошибки валидации
func (s *PostService) validateRequest(dto interface{}) error {
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
			case "gte":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше или равно "+e.Param())
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}
	return nil
}

// GetAll возвращает все публикации с медиафайлами
func (s *PostService) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Preload("Media").Order("position, id").Find(&posts).Error; err != nil {
		return nil, errors.New("ошибка при получении списка публикаций")
	}
	if len(posts) == 0 {
		return []models.Post{}, nil
	}
	return posts, nil
}

// GetPublished возвращает опубликованные публикации для витрины
func (s *PostService) GetPublished() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Preload("Media").Where("published = ?", true).Order("position, id").Find(&posts).Error; err != nil {
		return nil, errors.New("ошибка при получении списка публикаций")
	}
	if len(posts) == 0 {
		return []models.Post{}, nil
	}
	return posts, nil
}

// GetByID возвращает публикацию по ID
func (s *PostService) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Media").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("публикация не найдена")
		}
		return nil, errors.New("ошибка при поиске публикации")
	}
	return &post, nil
}

// Create создает новую публикацию
func (s *PostService) Create(dto CreatePostDTO) (*models.Post, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     dto.Title,
		Content:   dto.Content,
		Published: dto.Published,
		Position:  dto.Position,
	}

	// Формируем подписанную публичную ссылку на обложку
	if dto.MediaPath != "" {
		post.MediaURL = utils.PublicMediaURL(s.mediaPrefix, dto.MediaPath, s.mediaKey)
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, errors.New("не удалось создать публикацию")
	}

	s.feed.Publish(ChangeEvent[models.Post]{Kind: ChangeInsert, Row: *post, Key: post.ID})

	return post, nil
}

// Update изменяет публикацию
func (s *PostService) Update(id uint, dto CreatePostDTO) (*models.Post, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	post.Title = dto.Title
	post.Content = dto.Content
	post.Published = dto.Published
	post.Position = dto.Position
	if dto.MediaPath != "" {
		post.MediaURL = utils.PublicMediaURL(s.mediaPrefix, dto.MediaPath, s.mediaKey)
	}
	post.UpdatedAt = time.Now()

	if err := s.db.Save(post).Error; err != nil {
		return nil, errors.New("ошибка при обновлении публикации")
	}

	s.feed.Publish(ChangeEvent[models.Post]{Kind: ChangeUpdate, Row: *post, Key: post.ID})

	return post, nil
}

// Delete удаляет публикацию вместе с привязанными медиафайлами
func (s *PostService) Delete(id uint) error {
	post, err := s.GetByID(id)
	if err != nil {
		return err
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	// Удаляем медиафайлы публикации
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostMedia{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении медиафайлов публикации")
	}

	// Удаляем публикацию
	if err := tx.Delete(post).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении публикации")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	s.feed.Publish(ChangeEvent[models.Post]{Kind: ChangeDelete, Key: post.ID})

	return nil
}

// AddMedia привязывает медиафайл к публикации
func (s *PostService) AddMedia(dto CreatePostMediaDTO) (*models.PostMedia, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	// Проверяем, что публикация существует
	if _, err := s.GetByID(dto.PostID); err != nil {
		return nil, err
	}

	media := &models.PostMedia{
		PostID:    dto.PostID,
		Path:      dto.Path,
		SortOrder: dto.SortOrder,
	}
	if err := s.db.Create(media).Error; err != nil {
		return nil, errors.New("не удалось привязать медиафайл")
	}

	return media, nil
}

// DeleteMedia отвязывает медиафайл от публикации
func (s *PostService) DeleteMedia(id uint) error {
	var media models.PostMedia
	if err := s.db.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("медиафайл не найден")
		}
		return errors.New("ошибка при поиске медиафайла")
	}

	if err := s.db.Delete(&media).Error; err != nil {
		return errors.New("ошибка при удалении медиафайла")
	}

	return nil
}

// GetFolders возвращает все папки медиатеки с содержимым
func (s *PostService) GetFolders() ([]models.PostFolder, error) {
	var folders []models.PostFolder
	if err := s.db.Preload("Media").Order("name").Find(&folders).Error; err != nil {
		return nil, errors.New("ошибка при получении списка папок")
	}
	if len(folders) == 0 {
		return []models.PostFolder{}, nil
	}
	return folders, nil
}

// CreateFolder создает папку медиатеки
func (s *PostService) CreateFolder(dto CreatePostFolderDTO) (*models.PostFolder, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	folder := &models.PostFolder{Name: dto.Name}
	if err := s.db.Create(folder).Error; err != nil {
		return nil, errors.New("не удалось создать папку")
	}

	return folder, nil
}

// DeleteFolder удаляет папку вместе с содержимым
func (s *PostService) DeleteFolder(id uint) error {
	var folder models.PostFolder
	if err := s.db.First(&folder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("папка не найдена")
		}
		return errors.New("ошибка при поиске папки")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	if err := tx.Where("folder_id = ?", folder.ID).Delete(&models.PostFolderMedia{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении содержимого папки")
	}

	if err := tx.Delete(&folder).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении папки")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}

// AddFolderMedia добавляет медиафайл в папку
func (s *PostService) AddFolderMedia(dto CreatePostFolderMediaDTO) (*models.PostFolderMedia, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	// Проверяем, что папка существует
	var folder models.PostFolder
	if err := s.db.First(&folder, dto.FolderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("папка не найдена")
		}
		return nil, errors.New("ошибка при поиске папки")
	}

	media := &models.PostFolderMedia{
		FolderID: dto.FolderID,
		Path:     dto.Path,
	}
	if err := s.db.Create(media).Error; err != nil {
		return nil, errors.New("не удалось добавить медиафайл в папку")
	}

	return media, nil
}

// DeleteFolderMedia удаляет медиафайл из папки
func (s *PostService) DeleteFolderMedia(id uint) error {
	var media models.PostFolderMedia
	if err := s.db.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("медиафайл не найден")
		}
		return errors.New("ошибка при поиске медиафайла")
	}

	if err := s.db.Delete(&media).Error; err != nil {
		return errors.New("ошибка при удалении медиафайла")
	}

	return nil
}
