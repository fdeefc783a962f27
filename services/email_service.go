package services

import (
	"fmt"
	"time"

	"loyaltyProject/config"

	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	config *config.Config
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
		config: cfg,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendNoteDecisionNotification отправляет уведомление о решении по ноте
func (s *EmailService) SendNoteDecisionNotification(to string, noteID uint, amount float64, status string) error {
	subject := "Уведомление о заявке"
	body := fmt.Sprintf(`
		<h2>Уведомление о заявке</h2>
		<p>Заявка: #%d</p>
		<p>Сумма: %.2f</p>
		<p>Решение: %s</p>
		<p>Дата: %s</p>
	`, noteID, amount, status, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendPendingNotesReminder отправляет администратору напоминание
// о нотах, ожидающих решения
func (s *EmailService) SendPendingNotesReminder(to string, count int, oldestAge time.Duration) error {
	subject := "Напоминание: заявки ожидают решения"
	body := fmt.Sprintf(`
		<h2>Заявки ожидают решения</h2>
		<p>Количество: %d</p>
		<p>Самая старая ожидает: %s</p>
		<p>Дата: %s</p>
	`, count, oldestAge.Round(time.Minute), time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendBalanceDriftAlert отправляет администратору предупреждение
// о расхождении баланса с суммой транзакций
func (s *EmailService) SendBalanceDriftAlert(to string, driftCount int, repaired bool) error {
	// Формируем тему письма
	subject := "Внимание: расхождение балансов"

	action := "Требуется ручная сверка."
	if repaired {
		action = "Балансы пересчитаны автоматически."
	}

	// Формируем тело письма
	body := fmt.Sprintf(`
		<h2>Расхождение балансов</h2>
		<p>Строк с расхождением: %d</p>
		<p>%s</p>
		<p>Дата: %s</p>
	`, driftCount, action, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}
