// Package config содержит логику чтения конфигурации сервиса аналитики платежей.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса аналитики платежей.
type Config struct {
	RunAddress           string `env:"RUN_ADDRESS"`
	DatabaseURI          string `env:"DATABASE_URI"`
	PaymentSourceAddress string `env:"PAYMENT_SOURCE_ADDRESS"`
	PaymentsFile         string `env:"PAYMENTS_FILE"`
	APIKey               string `env:"API_KEY"`
	TimeZone             string `env:"TIME_ZONE"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fromEnv := *cfg

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.PaymentSourceAddress, "s", "", "upstream payment source address")
	flag.StringVar(&cfg.PaymentsFile, "f", "", "path to JSON file with payments")
	flag.StringVar(&cfg.APIKey, "k", "", "API key for report endpoints")
	flag.StringVar(&cfg.TimeZone, "z", "UTC", "time zone of the service clock")

	flag.Parse()

	override(&cfg.RunAddress, fromEnv.RunAddress)
	override(&cfg.DatabaseURI, fromEnv.DatabaseURI)
	override(&cfg.PaymentSourceAddress, fromEnv.PaymentSourceAddress)
	override(&cfg.PaymentsFile, fromEnv.PaymentsFile)
	override(&cfg.APIKey, fromEnv.APIKey)
	override(&cfg.TimeZone, fromEnv.TimeZone)

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "UTC"
	}

	return cfg, nil
}

func override(dst *string, envValue string) {
	if envValue != "" {
		*dst = envValue
	}
}
