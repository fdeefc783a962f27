package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port    int
		OpsPort int // Порт служебного сервера (health, metrics)
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Ledger struct {
		ReminderIntervalHours int  // Интервал рассылки напоминаний о нотах в статусе PENDING
		ReminderAgeHours      int  // Минимальный возраст ноты для напоминания
		VerifyIntervalHours   int  // Интервал сверки балансов с суммой транзакций
		AutoRepair            bool // Автоматически исправлять расхождения балансов
	}
	Media struct {
		SigningKey   string // Ключ для HMAC-подписи ссылок на медиа
		PublicPrefix string // Публичный префикс бакета объектного хранилища
	}
}

// NewConfig создает новый экземпляр конфигурации
func NewConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Настройки по умолчанию
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("OPS_PORT", 8081)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "loyalty_db")
	v.SetDefault("JWT_SECRET_KEY", "your-secret-key-here")
	v.SetDefault("JWT_EXPIRES_IN", 24)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "your-email@gmail.com")
	v.SetDefault("SMTP_PASSWORD", "your-app-password")
	v.SetDefault("SMTP_FROM", "your-email@gmail.com")
	v.SetDefault("LEDGER_REMINDER_INTERVAL", 8)
	v.SetDefault("LEDGER_REMINDER_AGE", 24)
	v.SetDefault("LEDGER_VERIFY_INTERVAL", 1)
	v.SetDefault("LEDGER_AUTO_REPAIR", false)
	v.SetDefault("MEDIA_SIGNING_KEY", "your-media-signing-key-here")
	v.SetDefault("MEDIA_PUBLIC_PREFIX", "https://storage.example.com/public/")

	cfg := &Config{}

	// Настройки сервера
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.OpsPort = v.GetInt("OPS_PORT")

	// Настройки базы данных
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetInt("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.DBName = v.GetString("DB_NAME")

	// Настройки JWT
	cfg.JWT.SecretKey = v.GetString("JWT_SECRET_KEY")
	cfg.JWT.ExpiresIn = v.GetInt("JWT_EXPIRES_IN")

	// Настройки SMTP
	cfg.SMTP.Host = v.GetString("SMTP_HOST")
	cfg.SMTP.Port = v.GetInt("SMTP_PORT")
	cfg.SMTP.Username = v.GetString("SMTP_USERNAME")
	cfg.SMTP.Password = v.GetString("SMTP_PASSWORD")
	cfg.SMTP.From = v.GetString("SMTP_FROM")

	// Настройки обслуживания леджера
	cfg.Ledger.ReminderIntervalHours = v.GetInt("LEDGER_REMINDER_INTERVAL")
	cfg.Ledger.ReminderAgeHours = v.GetInt("LEDGER_REMINDER_AGE")
	cfg.Ledger.VerifyIntervalHours = v.GetInt("LEDGER_VERIFY_INTERVAL")
	cfg.Ledger.AutoRepair = v.GetBool("LEDGER_AUTO_REPAIR")

	// Настройки медиа
	cfg.Media.SigningKey = v.GetString("MEDIA_SIGNING_KEY")
	cfg.Media.PublicPrefix = v.GetString("MEDIA_PUBLIC_PREFIX")

	// Минимальные проверки корректности
	if cfg.Server.Port <= 0 {
		return nil, errors.New("неверный формат порта сервера")
	}
	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("не задан секретный ключ JWT")
	}

	return cfg, nil
}
