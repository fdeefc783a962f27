package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"loyaltyProject/database"
	"loyaltyProject/services"

	"github.com/gorilla/mux"
)

// ResultController обрабатывает запросы пакетной загрузки результатов
type ResultController struct {
	resultService *services.ResultService
}

// NewResultController создает новый экземпляр ResultController
func NewResultController(db *database.Database) *ResultController {
	ledger := services.NewLedgerService(db.DB)
	transactions := services.NewTransactionService(db.DB, ledger)

	return &ResultController{
		resultService: services.NewResultService(db.DB, transactions),
	}
}

// GetResults обрабатывает запрос на получение списка результатов.
// Параметр category_id фильтрует по категории.
func (c *ResultController) GetResults(w http.ResponseWriter, r *http.Request) {
	var (
		results interface{}
		err     error
	)

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			http.Error(w, "Invalid category ID", http.StatusBadRequest)
			return
		}
		results, err = c.resultService.GetAllByCategoryID(uint(categoryID))
	} else {
		results, err = c.resultService.GetAll()
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(results)
}

// CreateResult обрабатывает запрос на загрузку блока результатов
func (c *ResultController) CreateResult(w http.ResponseWriter, r *http.Request) {
	// Создаем DTO для запроса
	var dto services.CreateResultDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем результат и загружаем его строки
	result, err := c.resultService.Create(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// UpdateResult обрабатывает запрос на замену текста результата.
// Все транзакции прежней версии отменяются, новый текст загружается заново.
func (c *ResultController) UpdateResult(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid result ID", http.StatusBadRequest)
		return
	}

	// Создаем DTO для запроса
	var dto services.UpdateResultDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Обновляем результат
	result, err := c.resultService.Update(uint(id), dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// DeleteResult обрабатывает запрос на удаление результата вместе с его транзакциями
func (c *ResultController) DeleteResult(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid result ID", http.StatusBadRequest)
		return
	}

	// Удаляем результат
	if err := c.resultService.Delete(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Результат удален",
	})
}
