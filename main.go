package main

import (
	"fmt"
	"log"
	"loyaltyProject/config"
	"loyaltyProject/controllers"
	"loyaltyProject/database"
	"loyaltyProject/middleware"
	"loyaltyProject/models"
	"loyaltyProject/services"
	"loyaltyProject/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
)

// healthHandler отвечает на проверку живости сервиса
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// initMaintenanceScheduler запускает фоновое обслуживание леджера:
// напоминания о необработанных нотах и периодическую сверку балансов
func initMaintenanceScheduler(db *database.Database, emailService *services.EmailService, cfg *config.Config) {
	// Создаем сервисы леджера
	ledgerService := services.NewLedgerService(db.DB)
	userService := services.NewUserService(db.DB)

	// Создаем планировщик обслуживания
	scheduler := services.NewMaintenanceSchedulerService(db.DB, ledgerService, userService, emailService, cfg)

	// Запускаем планировщик
	scheduler.Start()
	log.Println("Планировщик обслуживания леджера запущен")
}

// runOpsServer запускает служебный сервер с health-чеком и метриками
func runOpsServer(cfg *config.Config) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())
	engine.Use(middleware.RateLimit())
	engine.Use(middleware.CORSMiddleware())

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetMetrics().Snapshot())
	})

	opsPort := fmt.Sprintf(":%d", cfg.Server.OpsPort)
	log.Printf("Служебный сервер запущен на порту %s", opsPort)
	if err := engine.Run(opsPort); err != nil {
		log.Fatalf("Ошибка запуска служебного сервера: %v", err)
	}
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	// Инициализируем сервис email
	emailService := services.NewEmailService(cfg)

	// Запускаем планировщик обслуживания леджера
	initMaintenanceScheduler(db, emailService, cfg)

	// Создаем роутер
	router := mux.NewRouter()

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	categoryController := controllers.NewCategoryController(db)
	balanceController := controllers.NewBalanceController(db)
	transactionController := controllers.NewTransactionController(db)
	noteController := controllers.NewNoteController(db, emailService, cfg)
	resultController := controllers.NewResultController(db)
	postController := controllers.NewPostController(db, cfg)
	statementController := controllers.NewStatementController(db)

	// Подписываемся на ленту изменений транзакций для аудита
	transactionController.Feed().Subscribe(func(e services.ChangeEvent[models.Transaction]) {
		utils.LogInfo("Транзакция %s: #%d", e.Kind, e.Key)
	})

	// Проверка живости
	router.HandleFunc("/health", healthHandler).Methods("GET")

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Публичная витрина публикаций
	router.HandleFunc("/api/posts/published", postController.GetPublishedPosts).Methods("GET")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))
	protected.Use(middleware.LoggingMiddleware)

	// Маршруты текущего пользователя
	protected.HandleFunc("/balances", balanceController.GetMyBalances).Methods("GET")
	protected.HandleFunc("/transactions", transactionController.GetMyTransactions).Methods("GET")
	protected.HandleFunc("/notes", noteController.CreateNote).Methods("POST")
	protected.HandleFunc("/notes", noteController.GetMyNotes).Methods("GET")
	protected.HandleFunc("/statement", statementController.GetMyStatement).Methods("GET")
	protected.HandleFunc("/categories", categoryController.GetCategories).Methods("GET")

	// Маршруты администратора
	protected.HandleFunc("/admin/users", middleware.RequireAdmin(userController.GetUsers)).Methods("GET")
	protected.HandleFunc("/admin/users", middleware.RequireAdmin(userController.CreateUser)).Methods("POST")
	protected.HandleFunc("/admin/users/{id}", middleware.RequireAdmin(userController.GetUser)).Methods("GET")
	protected.HandleFunc("/admin/users/{id}", middleware.RequireAdmin(userController.UpdateUser)).Methods("PUT")
	protected.HandleFunc("/admin/users/{id}", middleware.RequireAdmin(userController.DeleteUser)).Methods("DELETE")
	protected.HandleFunc("/admin/users/{id}/balances", middleware.RequireAdmin(balanceController.GetUserBalances)).Methods("GET")
	protected.HandleFunc("/admin/users/{id}/transactions", middleware.RequireAdmin(transactionController.GetUserTransactions)).Methods("GET")
	protected.HandleFunc("/admin/users/{id}/statement", middleware.RequireAdmin(statementController.GetUserStatement)).Methods("GET")

	protected.HandleFunc("/admin/categories", middleware.RequireAdmin(categoryController.CreateCategory)).Methods("POST")
	protected.HandleFunc("/admin/categories/{id}", middleware.RequireAdmin(categoryController.UpdateCategory)).Methods("PUT")
	protected.HandleFunc("/admin/categories/{id}", middleware.RequireAdmin(categoryController.DeleteCategory)).Methods("DELETE")
	protected.HandleFunc("/admin/categories/{id}/transactions", middleware.RequireAdmin(transactionController.GetCategoryTransactions)).Methods("GET")

	protected.HandleFunc("/admin/notes", middleware.RequireAdmin(noteController.GetNotes)).Methods("GET")
	protected.HandleFunc("/admin/notes/{id}/approve", middleware.RequireAdmin(noteController.ApproveNote)).Methods("POST")
	protected.HandleFunc("/admin/notes/{id}/reject", middleware.RequireAdmin(noteController.RejectNote)).Methods("POST")
	protected.HandleFunc("/admin/notes/{id}", middleware.RequireAdmin(noteController.DeleteNote)).Methods("DELETE")

	protected.HandleFunc("/admin/results", middleware.RequireAdmin(resultController.GetResults)).Methods("GET")
	protected.HandleFunc("/admin/results", middleware.RequireAdmin(resultController.CreateResult)).Methods("POST")
	protected.HandleFunc("/admin/results/{id}", middleware.RequireAdmin(resultController.UpdateResult)).Methods("PUT")
	protected.HandleFunc("/admin/results/{id}", middleware.RequireAdmin(resultController.DeleteResult)).Methods("DELETE")

	protected.HandleFunc("/admin/transactions", middleware.RequireAdmin(transactionController.CreateTransaction)).Methods("POST")
	protected.HandleFunc("/admin/transactions/{id}", middleware.RequireAdmin(transactionController.UpdateTransaction)).Methods("PUT")
	protected.HandleFunc("/admin/transactions/{id}", middleware.RequireAdmin(transactionController.DeleteTransaction)).Methods("DELETE")

	protected.HandleFunc("/admin/posts", middleware.RequireAdmin(postController.GetPosts)).Methods("GET")
	protected.HandleFunc("/admin/posts", middleware.RequireAdmin(postController.CreatePost)).Methods("POST")
	protected.HandleFunc("/admin/posts/{id}", middleware.RequireAdmin(postController.UpdatePost)).Methods("PUT")
	protected.HandleFunc("/admin/posts/{id}", middleware.RequireAdmin(postController.DeletePost)).Methods("DELETE")
	protected.HandleFunc("/admin/posts/{id}/media", middleware.RequireAdmin(postController.AddPostMedia)).Methods("POST")
	protected.HandleFunc("/admin/posts/media/{mediaId}", middleware.RequireAdmin(postController.DeletePostMedia)).Methods("DELETE")
	protected.HandleFunc("/admin/folders", middleware.RequireAdmin(postController.GetFolders)).Methods("GET")
	protected.HandleFunc("/admin/folders", middleware.RequireAdmin(postController.CreateFolder)).Methods("POST")
	protected.HandleFunc("/admin/folders/{id}", middleware.RequireAdmin(postController.DeleteFolder)).Methods("DELETE")
	protected.HandleFunc("/admin/folders/{id}/media", middleware.RequireAdmin(postController.AddFolderMedia)).Methods("POST")
	protected.HandleFunc("/admin/folders/media/{mediaId}", middleware.RequireAdmin(postController.DeleteFolderMedia)).Methods("DELETE")

	// Запускаем служебный сервер
	go runOpsServer(cfg)

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
