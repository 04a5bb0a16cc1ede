// Package config содержит логику чтения конфигурации сервиса заказов и клиента корзины.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultTelegramAPIURL = "https://api.telegram.org"
	defaultStaticDir      = "public"
	defaultNotifyTimeout  = 5 * time.Second
)

// Config содержит параметры конфигурации сервиса заказов.
type Config struct {
	RunAddress       string        `env:"RUN_ADDRESS"`
	TelegramBotToken string        `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      string        `env:"TELEGRAM_ADMIN_CHAT_ID"`
	TelegramAPIURL   string        `env:"TELEGRAM_API_URL"`
	StaticDir        string        `env:"STATIC_DIR"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.TelegramBotToken, "t", "", "telegram bot token")
	flag.StringVar(&cfg.AdminChatID, "c", "", "telegram admin chat id")
	flag.StringVar(&cfg.TelegramAPIURL, "u", defaultTelegramAPIURL, "telegram bot api url")
	flag.StringVar(&cfg.StaticDir, "s", defaultStaticDir, "directory with mini app static files")
	flag.DurationVar(&cfg.NotifyTimeout, "n", defaultNotifyTimeout, "timeout for a single notification dispatch")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.TelegramBotToken != "" {
		cfg.TelegramBotToken = envCfg.TelegramBotToken
	}
	if envCfg.AdminChatID != "" {
		cfg.AdminChatID = envCfg.AdminChatID
	}
	if envCfg.TelegramAPIURL != "" {
		cfg.TelegramAPIURL = envCfg.TelegramAPIURL
	}
	if envCfg.StaticDir != "" {
		cfg.StaticDir = envCfg.StaticDir
	}
	if envCfg.NotifyTimeout > 0 {
		cfg.NotifyTimeout = envCfg.NotifyTimeout
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.NotifyTimeout <= 0 {
		return nil, fmt.Errorf("notify timeout must be positive, got %s", cfg.NotifyTimeout)
	}

	return cfg, nil
}

// ClientConfig содержит параметры терминального клиента корзины.
type ClientConfig struct {
	ServerURL string `env:"ORDERS_BASE_URL"`
	UserID    string `env:"CART_USER_ID"`
	Username  string `env:"CART_USERNAME"`
}

// ParseClient считывает конфигурацию клиента корзины. Переменные окружения имеют приоритет.
func ParseClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.ServerURL, "server", "http://"+defaultRunAddress, "order service base url")
	flag.StringVar(&cfg.UserID, "user", "", "telegram user id of the customer")
	flag.StringVar(&cfg.Username, "username", "", "telegram username of the customer")

	flag.Parse()

	if envCfg.ServerURL != "" {
		cfg.ServerURL = envCfg.ServerURL
	}
	if envCfg.UserID != "" {
		cfg.UserID = envCfg.UserID
	}
	if envCfg.Username != "" {
		cfg.Username = envCfg.Username
	}

	return cfg, nil
}
