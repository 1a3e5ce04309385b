package config

import (
	"os"

	"github.com/alphafinance/backend/internal/dto"
)

type Config struct {
	ProjectID        string
	Region           string
	LogLevel         string
	Port             string
	PlaidClientID    string
	PlaidSecret      string // empty means fetch from Secret Manager at bootstrap
	PlaidSecretName  string // Secret Manager resource name for the Plaid secret
	PlaidEnvironment dto.PlaidEnvironment
	KMSKeyName       string
	VertexModel      string
	SyncSchedule     string // cron spec for the nightly pipeline jobs
}

func New() *Config {
	return &Config{
		ProjectID:        os.Getenv("PROJECTID"),
		Region:           os.Getenv("REGION"),
		LogLevel:         os.Getenv("LOGLEVEL"),
		Port:             getEnv("PORT", "8080"),
		PlaidClientID:    os.Getenv("PLAIDCLIENTID"),
		PlaidSecret:      os.Getenv("PLAIDSECRET"),
		PlaidSecretName:  os.Getenv("PLAIDSECRETNAME"),
		PlaidEnvironment: getPlaidEnvironment(os.Getenv("PLAIDENVIRONMENT")),
		KMSKeyName:       os.Getenv("KMSKEYNAME"),
		VertexModel:      os.Getenv("VERTEXMODEL"),
		SyncSchedule:     getEnv("SYNCSCHEDULE", "0 0 * * *"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getPlaidEnvironment(env string) dto.PlaidEnvironment {
	switch env {
	case "sandbox":
		return dto.PlaidSandbox
	case "development":
		return dto.PlaidDevelopment
	default: // "production"
		return dto.PlaidProduction
	}
}
