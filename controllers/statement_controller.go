package controllers

import (
	"net/http"
	"strconv"

	"loyaltyProject/database"
	"loyaltyProject/services"

	"github.com/gorilla/mux"
)

// StatementController обрабатывает запросы на XML-выписки
type StatementController struct {
	statementService *services.StatementService
}

// NewStatementController создает новый экземпляр StatementController
func NewStatementController(db *database.Database) *StatementController {
	return &StatementController{
		statementService: services.NewStatementService(db.DB),
	}
}

// GetMyStatement обрабатывает запрос на выписку текущего пользователя
func (c *StatementController) GetMyStatement(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста (установлен middleware)
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c.writeStatement(w, userID)
}

// GetUserStatement обрабатывает запрос администратора на выписку
// произвольного пользователя
func (c *StatementController) GetUserStatement(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	c.writeStatement(w, uint(id))
}

// writeStatement формирует выписку и отправляет ее как XML
func (c *StatementController) writeStatement(w http.ResponseWriter, userID uint) {
	xml, err := c.statementService.BuildUserStatement(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml))
}
