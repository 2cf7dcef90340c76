package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port                string
	DBConn              string
	LogLevel            string
	JWTSecret           string
	CNPJAPIURL          string
	FiscalAPIURL        string
	FiscalAvgGuia       decimal.Decimal
	ForecastHorizonDays int
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SenderEmail         string
	DigestEmail         string
	DigestCron          string
	CompanyID           int64
	CompanyCNPJ         string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBConn:       getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=meihub sslmode=disable"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		CNPJAPIURL:   getEnv("CNPJ_API_URL", "https://receitaws.com.br/v1/cnpj"),
		FiscalAPIURL: getEnv("FISCAL_API_URL", "http://localhost:9090/diagnostico"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "alertas@meihub.com.br"),
		DigestEmail:  getEnv("DIGEST_EMAIL", ""),
		DigestCron:   getEnv("DIGEST_CRON", "0 8 * * *"),
		CompanyCNPJ:  getEnv("COMPANY_CNPJ", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	avgGuia, err := decimal.NewFromString(getEnv("FISCAL_AVG_GUIA", "75.90"))
	if err != nil {
		return nil, fmt.Errorf("invalid FISCAL_AVG_GUIA: %w", err)
	}
	cfg.FiscalAvgGuia = avgGuia

	horizon, err := strconv.Atoi(getEnv("FORECAST_HORIZON_DAYS", "30"))
	if err != nil || horizon < 1 {
		return nil, fmt.Errorf("invalid FORECAST_HORIZON_DAYS")
	}
	cfg.ForecastHorizonDays = horizon

	companyID, err := strconv.ParseInt(getEnv("COMPANY_ID", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPANY_ID: %w", err)
	}
	cfg.CompanyID = companyID

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
