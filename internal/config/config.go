// Package config содержит логику чтения конфигурации сервиса Wyshkit.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config содержит параметры конфигурации сервиса Wyshkit.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// AuthSecret — общий секрет провайдера аутентификации для проверки и выпуска JWT.
	AuthSecret string `env:"AUTH_SECRET"`

	RazorpayKeyID         string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `env:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET"`

	MessagingAddress string `env:"MESSAGING_ADDRESS"`
	MessagingAPIKey  string `env:"MESSAGING_API_KEY"`

	DistanceAddress string `env:"DISTANCE_ADDRESS"`

	// PlatformFeeBps — комиссия платформы с суммы товаров заказа, в базисных пунктах.
	PlatformFeeBps int `env:"PLATFORM_FEE_BPS" envDefault:"300"`
	// CashbackRateBps — ставка начисления кэшбэка после оплаты, в базисных пунктах.
	CashbackRateBps int `env:"CASHBACK_RATE_BPS" envDefault:"200"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// .env необязателен: в production значения приходят из окружения.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}

// Missing возвращает имена обязательных параметров, которые не заданы.
// Используется пробой GET /health/config; значения никогда не раскрываются.
func (c *Config) Missing() []string {
	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URI", c.DatabaseURI},
		{"AUTH_SECRET", c.AuthSecret},
		{"RAZORPAY_KEY_ID", c.RazorpayKeyID},
		{"RAZORPAY_KEY_SECRET", c.RazorpayKeySecret},
		{"RAZORPAY_WEBHOOK_SECRET", c.RazorpayWebhookSecret},
		{"MESSAGING_ADDRESS", c.MessagingAddress},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// IsProduction сообщает, работает ли сервис в production-окружении.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
