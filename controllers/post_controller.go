package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"loyaltyProject/config"
	"loyaltyProject/database"
	"loyaltyProject/services"

	"github.com/gorilla/mux"
)

// PostController обрабатывает запросы витрины публикаций и медиатеки
type PostController struct {
	postService *services.PostService
}

// NewPostController создает новый экземпляр PostController
func NewPostController(db *database.Database, cfg *config.Config) *PostController {
	return &PostController{
		postService: services.NewPostService(db.DB, cfg.Media.SigningKey, cfg.Media.PublicPrefix),
	}
}

// GetPublishedPosts обрабатывает запрос витрины на опубликованные публикации
func (c *PostController) GetPublishedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := c.postService.GetPublished()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(posts)
}

// GetPosts обрабатывает запрос администратора на все публикации
func (c *PostController) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := c.postService.GetAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(posts)
}

// CreatePost обрабатывает запрос на создание публикации
func (c *PostController) CreatePost(w http.ResponseWriter, r *http.Request) {
	// Создаем DTO для запроса
	var dto services.CreatePostDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем публикацию
	post, err := c.postService.Create(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// UpdatePost обрабатывает запрос на изменение публикации
func (c *PostController) UpdatePost(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	// Создаем DTO для запроса
	var dto services.CreatePostDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Обновляем публикацию
	post, err := c.postService.Update(uint(id), dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(post)
}

// DeletePost обрабатывает запрос на удаление публикации
func (c *PostController) DeletePost(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	// Удаляем публикацию вместе с медиафайлами
	if err := c.postService.Delete(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Публикация удалена",
	})
}

// AddPostMedia обрабатывает запрос на привязку медиафайла к публикации
func (c *PostController) AddPostMedia(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	// Создаем DTO для запроса
	var dto services.CreatePostMediaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	dto.PostID = uint(id)

	// Привязываем медиафайл
	media, err := c.postService.AddMedia(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(media)
}

// DeletePostMedia обрабатывает запрос на отвязку медиафайла от публикации
func (c *PostController) DeletePostMedia(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["mediaId"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	// Удаляем медиафайл
	if err := c.postService.DeleteMedia(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Медиафайл удален",
	})
}

// GetFolders обрабатывает запрос на получение папок медиатеки
func (c *PostController) GetFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := c.postService.GetFolders()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(folders)
}

// CreateFolder обрабатывает запрос на создание папки медиатеки
func (c *PostController) CreateFolder(w http.ResponseWriter, r *http.Request) {
	// Создаем DTO для запроса
	var dto services.CreatePostFolderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем папку
	folder, err := c.postService.CreateFolder(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(folder)
}

// DeleteFolder обрабатывает запрос на удаление папки вместе с содержимым
func (c *PostController) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid folder ID", http.StatusBadRequest)
		return
	}

	// Удаляем папку
	if err := c.postService.DeleteFolder(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Папка удалена",
	})
}

// AddFolderMedia обрабатывает запрос на добавление медиафайла в папку
func (c *PostController) AddFolderMedia(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid folder ID", http.StatusBadRequest)
		return
	}

	// Создаем DTO для запроса
	var dto services.CreatePostFolderMediaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	dto.FolderID = uint(id)

	// Добавляем медиафайл
	media, err := c.postService.AddFolderMedia(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(media)
}

// DeleteFolderMedia обрабатывает запрос на удаление медиафайла из папки
func (c *PostController) DeleteFolderMedia(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["mediaId"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	// Удаляем медиафайл
	if err := c.postService.DeleteFolderMedia(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Медиафайл удален",
	})
}
