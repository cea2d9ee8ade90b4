package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	StorageDir             string
	PublicURL              string
	PageSize               int
	RateLimit              int
	RedisAddr              string
	RedisTokenPrefix       string
	TokenTTLSeconds        int
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	MailFrom               string
	Locale                 string
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tasks.db"),
		StorageDir:             getEnv("STORAGE_DIR", "storage/attachments"),
		PublicURL:              getEnv("PUBLIC_URL", fmt.Sprintf("http://%s:%s", appHost, appPort)),
		PageSize:               getEnvAsInt("PAGE_SIZE", 15),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisTokenPrefix:       getEnv("REDIS_TOKEN_PREFIX", "auth_token:"),
		TokenTTLSeconds:        getEnvAsInt("TOKEN_TTL_SECONDS", 86400),
		SMTPHost:               getEnv("SMTP_HOST", "127.0.0.1"),
		SMTPPort:               getEnvAsInt("SMTP_PORT", 1025),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		MailFrom:               getEnv("MAIL_FROM", "no-reply@task-manager.com"),
		Locale:                 getEnv("APP_LOCALE", "en"),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.StorageDir == "" {
		log.Fatal("STORAGE_DIR must not be empty")
	}
	if cfg.PageSize <= 0 {
		log.Fatal("PAGE_SIZE must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.TokenTTLSeconds <= 0 {
		log.Fatal("TOKEN_TTL_SECONDS must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
