package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"loyaltyProject/database"
	"loyaltyProject/models"
	"loyaltyProject/services"

	"github.com/gorilla/mux"
)

// TransactionController обрабатывает запросы, связанные с транзакциями леджера
type TransactionController struct {
	transactionService *services.TransactionService
}

// NewTransactionController создает новый экземпляр TransactionController
func NewTransactionController(db *database.Database) *TransactionController {
	ledger := services.NewLedgerService(db.DB)

	return &TransactionController{
		transactionService: services.NewTransactionService(db.DB, ledger),
	}
}

// Feed возвращает ленту изменений транзакций
func (c *TransactionController) Feed() *services.ChangeFeed[models.Transaction] {
	return c.transactionService.Feed()
}

// GetMyTransactions обрабатывает запрос на получение транзакций текущего пользователя
func (c *TransactionController) GetMyTransactions(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста (установлен middleware)
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactions, err := c.transactionService.GetAllByUserID(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
}

// GetUserTransactions обрабатывает запрос администратора на получение
// транзакций произвольного пользователя
func (c *TransactionController) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	transactions, err := c.transactionService.GetAllByUserID(uint(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
}

// GetCategoryTransactions обрабатывает запрос администратора на получение
// транзакций категории
func (c *TransactionController) GetCategoryTransactions(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	transactions, err := c.transactionService.GetAllByCategoryID(uint(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
}

// CreateTransaction обрабатывает запрос на ручную корректировку леджера
func (c *TransactionController) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	// Создаем DTO для запроса
	var dto services.CreateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем транзакцию
	transaction, err := c.transactionService.Create(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
}

// UpdateTransaction обрабатывает запрос на изменение суммы и направления транзакции
func (c *TransactionController) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	// Создаем DTO для запроса
	var dto services.UpdateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Обновляем транзакцию
	transaction, err := c.transactionService.Update(uint(id), dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transaction)
}

// DeleteTransaction обрабатывает запрос на удаление транзакции с отменой ее эффекта
func (c *TransactionController) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	// Удаляем транзакцию
	if err := c.transactionService.Delete(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Транзакция удалена",
	})
}
