package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"loyaltyProject/config"
	"loyaltyProject/database"
	"loyaltyProject/models"
	"loyaltyProject/services"

	"github.com/gorilla/mux"
)

// NoteController обрабатывает запросы, связанные с нотами
type NoteController struct {
	noteService *services.NoteService
}

// NewNoteController создает новый экземпляр NoteController
func NewNoteController(db *database.Database, email *services.EmailService, cfg *config.Config) *NoteController {
	ledger := services.NewLedgerService(db.DB)
	transactions := services.NewTransactionService(db.DB, ledger)

	return &NoteController{
		noteService: services.NewNoteService(db.DB, transactions, email, cfg.Media.SigningKey, cfg.Media.PublicPrefix),
	}
}

// CreateNote обрабатывает запрос на создание ноты
func (c *NoteController) CreateNote(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста (установлен middleware)
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Создаем DTO для запроса
	var dto services.CreateNoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Устанавливаем ID пользователя
	dto.UserID = userID

	// Создаем ноту
	note, err := c.noteService.Create(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note)
}

// GetMyNotes обрабатывает запрос на получение нот текущего пользователя
func (c *NoteController) GetMyNotes(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста (установлен middleware)
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notes, err := c.noteService.GetAllByUserID(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notes)
}

// GetNotes обрабатывает запрос администратора на получение всех нот.
// Параметр status фильтрует по статусу ноты.
func (c *NoteController) GetNotes(w http.ResponseWriter, r *http.Request) {
	status := models.NoteStatus(r.URL.Query().Get("status"))

	notes, err := c.noteService.GetAll(status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notes)
}

// ApproveNote обрабатывает запрос администратора на подтверждение ноты
func (c *NoteController) ApproveNote(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	// Подтверждаем ноту
	note, err := c.noteService.Approve(uint(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(note)
}

// RejectNote обрабатывает запрос администратора на отклонение ноты
func (c *NoteController) RejectNote(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	// Отклоняем ноту
	note, err := c.noteService.Reject(uint(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(note)
}

// DeleteNote обрабатывает запрос на удаление необработанной ноты
func (c *NoteController) DeleteNote(w http.ResponseWriter, r *http.Request) {
	// Получаем ID из пути
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	// Удаляем ноту
	if err := c.noteService.Delete(uint(id)); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Нота удалена",
	})
}
