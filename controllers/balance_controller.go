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

// BalanceController обрабатывает запросы на чтение балансов и баки
type BalanceController struct {
	ledgerService *services.LedgerService
}

// BalanceDTO представляет строку баланса для ответа
type BalanceDTO struct {
	ID         uint    `json:"id"`
	CategoryID uint    `json:"category_id"`
	Category   string  `json:"category"`
	Balance    float64 `json:"balance"`
}

// UserBalancesResponse представляет оба вида балансов пользователя
type UserBalancesResponse struct {
	AccountBalances []BalanceDTO `json:"account_balances"`
	Bakis           []BalanceDTO `json:"bakis"`
}

// NewBalanceController создает новый экземпляр BalanceController
func NewBalanceController(db *database.Database) *BalanceController {
	return &BalanceController{
		ledgerService: services.NewLedgerService(db.DB),
	}
}

// collectBalances конвертирует строки балансов пользователя в DTO ответа
func (c *BalanceController) collectBalances(userID uint) (*UserBalancesResponse, error) {
	balances, err := c.ledgerService.GetAccountBalancesByUserID(userID)
	if err != nil {
		return nil, err
	}

	bakis, err := c.ledgerService.GetBakisByUserID(userID)
	if err != nil {
		return nil, err
	}

	response := &UserBalancesResponse{
		AccountBalances: make([]BalanceDTO, 0, len(balances)),
		Bakis:           make([]BalanceDTO, 0, len(bakis)),
	}
	for i := range balances {
		response.AccountBalances = append(response.AccountBalances, toBalanceDTO(balances[i].ID, balances[i].CategoryID, balances[i].Category, balances[i].Balance))
	}
	for i := range bakis {
		response.Bakis = append(response.Bakis, toBalanceDTO(bakis[i].ID, bakis[i].CategoryID, bakis[i].Category, bakis[i].Balance))
	}

	return response, nil
}

func toBalanceDTO(id, categoryID uint, category models.Category, balance float64) BalanceDTO {
	return BalanceDTO{
		ID:         id,
		CategoryID: categoryID,
		Category:   category.Name,
		Balance:    balance,
	}
}

// GetMyBalances обрабатывает запрос на получение балансов текущего пользователя
func (c *BalanceController) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста (установлен middleware)
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	response, err := c.collectBalances(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// GetUserBalances обрабатывает запрос администратора на получение
// балансов произвольного пользователя
func (c *BalanceController) GetUserBalances(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	response, err := c.collectBalances(uint(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
