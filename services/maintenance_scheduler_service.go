package services

import (
	"errors"
	"log"
	"math"
	"time"

	"loyaltyProject/config"
	"loyaltyProject/models"
	"loyaltyProject/utils"

	"gorm.io/gorm"
)

// driftTolerance задает допустимое расхождение при сверке балансов
const driftTolerance = 1e-9

// MaintenanceSchedulerService предоставляет методы для фонового обслуживания:
// напоминания о нотах в статусе PENDING и сверка балансов с суммой транзакций
type MaintenanceSchedulerService struct {
	db     *gorm.DB
	ledger *LedgerService
	users  *UserService
	email  *EmailService
	cfg    *config.Config
}

// NewMaintenanceSchedulerService создает новый экземпляр MaintenanceSchedulerService
func NewMaintenanceSchedulerService(db *gorm.DB, ledger *LedgerService, users *UserService, email *EmailService, cfg *config.Config) *MaintenanceSchedulerService {
	return &MaintenanceSchedulerService{
		db:     db,
		ledger: ledger,
		users:  users,
		email:  email,
		cfg:    cfg,
	}
}

// Start запускает планировщик обслуживания
func (s *MaintenanceSchedulerService) Start() {
	// Запускаем рассылку напоминаний о нотах
	reminderTicker := time.NewTicker(time.Duration(s.cfg.Ledger.ReminderIntervalHours) * time.Hour)
	go func() {
		for {
			select {
			case <-reminderTicker.C:
				if err := s.processPendingReminders(); err != nil {
					log.Printf("Ошибка при рассылке напоминаний: %v", err)
				}
			}
		}
	}()

	// Запускаем сверку балансов
	verifyTicker := time.NewTicker(time.Duration(s.cfg.Ledger.VerifyIntervalHours) * time.Hour)
	go func() {
		for {
			select {
			case <-verifyTicker.C:
				if err := s.VerifyBalances(); err != nil {
					log.Printf("Ошибка при сверке балансов: %v", err)
				}
			}
		}
	}()
}

// processPendingReminders рассылает администраторам напоминания
// о нотах, ожидающих решения дольше настроенного возраста
func (s *MaintenanceSchedulerService) processPendingReminders() error {
	cutoff := time.Now().Add(-time.Duration(s.cfg.Ledger.ReminderAgeHours) * time.Hour)

	// Получаем устаревшие ноты в статусе PENDING
	var notes []models.Note
	if err := s.db.Where("status = ? AND created_at <= ?", models.NoteStatusPending, cutoff).
		Order("created_at").
		Find(&notes).Error; err != nil {
		return errors.New("ошибка при получении ожидающих нот")
	}

	if len(notes) == 0 {
		return nil
	}

	oldestAge := time.Since(notes[0].CreatedAt)

	// Получаем администраторов
	admins, err := s.users.GetAdmins()
	if err != nil {
		return err
	}

	for _, admin := range admins {
		if err := s.email.SendPendingNotesReminder(admin.Email, len(notes), oldestAge); err != nil {
			utils.LogError("Ошибка отправки напоминания администратору %s: %v", admin.Email, err)
		}
	}

	return nil
}

// VerifyBalances сверяет каждую строку баланса с суммой эффектов ее транзакций.
// Инвариант: balance == сумма знаковых эффектов всех транзакций строки.
// Расхождения логируются и учитываются в метриках; при включенном
// автоисправлении баланс пересчитывается из транзакций.
func (s *MaintenanceSchedulerService) VerifyBalances() error {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	driftCount := 0

	// Сверяем основные балансы
	var balances []models.AccountBalance
	if err := tx.Find(&balances).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при получении балансов")
	}
	for i := range balances {
		drift, err := s.verifyRow(tx, models.BalanceTargetAccount, balances[i].ID, balances[i].Balance, "account_balance_id")
		if err != nil {
			tx.Rollback()
			return err
		}
		if drift {
			driftCount++
		}
	}

	// Сверяем баки
	var bakis []models.Baki
	if err := tx.Find(&bakis).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при получении баки")
	}
	for i := range bakis {
		drift, err := s.verifyRow(tx, models.BalanceTargetBaki, bakis[i].ID, bakis[i].Balance, "baki_id")
		if err != nil {
			tx.Rollback()
			return err
		}
		if drift {
			driftCount++
		}
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	if driftCount == 0 {
		return nil
	}

	utils.GetMetrics().RecordDrift(driftCount, s.cfg.Ledger.AutoRepair)
	utils.LogError("Сверка балансов: расхождение в %d строках (автоисправление: %v)", driftCount, s.cfg.Ledger.AutoRepair)

	// Предупреждаем администраторов
	admins, err := s.users.GetAdmins()
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := s.email.SendBalanceDriftAlert(admin.Email, driftCount, s.cfg.Ledger.AutoRepair); err != nil {
			utils.LogError("Ошибка отправки предупреждения администратору %s: %v", admin.Email, err)
		}
	}

	return nil
}

// verifyRow сверяет одну строку баланса с суммой эффектов ее транзакций
func (s *MaintenanceSchedulerService) verifyRow(tx *gorm.DB, target models.BalanceTarget, balanceID uint, stored float64, refColumn string) (bool, error) {
	// Загружаем транзакции строки
	var transactions []models.Transaction
	if err := tx.Where(refColumn+" = ?", balanceID).Find(&transactions).Error; err != nil {
		return false, errors.New("ошибка при получении транзакций")
	}

	// Пересчитываем баланс с нуля
	expected := 0.0
	for i := range transactions {
		expected = applyEffect(expected, transactions[i].Amount, transactions[i].Type)
	}

	if math.Abs(expected-stored) <= driftTolerance {
		return false, nil
	}

	utils.LogError("Расхождение баланса %s/%d: хранится %.2f, сумма транзакций %.2f", target, balanceID, stored, expected)

	// Исправляем, если разрешено
	if s.cfg.Ledger.AutoRepair {
		if err := s.ledger.shiftBalance(tx, target, balanceID, expected); err != nil {
			return true, err
		}
	}

	return true, nil
}
