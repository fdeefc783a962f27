package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"loyaltyProject/database"
	"loyaltyProject/services"

	"github.com/gorilla/mux"
)

// CategoryController обрабатывает запросы, связанные с категориями
type CategoryController struct {
	categoryService *services.CategoryService
}

// NewCategoryController создает новый экземпляр CategoryController
func NewCategoryController(db *database.Database) *CategoryController {
	return &CategoryController{
		categoryService: services.NewCategoryService(db.DB),
	}
}

// GetCategories обрабатывает запрос на получение списка категорий
func (c *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categoryService.GetAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(categories)
}

// CreateCategory обрабатывает запрос на создание категории
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	// Создаем DTO для запроса
	var dto services.CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем категорию
	category, err := c.categoryService.Create(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
}

// UpdateCategory обрабатывает запрос на изменение имени категории
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	// Создаем DTO для запроса
	var dto services.CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Обновляем категорию
	category, err := c.categoryService.Update(uint(id), dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(category)
}

// DeleteCategory обрабатывает запрос на удаление категории
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	// Удаляем категорию
	if err := c.categoryService.Delete(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Категория удалена",
	})
}
