package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort int

	// Значения по умолчанию для новых турниров.
	DefaultGroupCount      int
	DefaultAdvancePerGroup int

	// Необязательный архив результатов в Postgres.
	DatabaseURL string

	// Авторизация организатора. Пустой JWTSecretKey отключает проверку токенов.
	JWTSecretKey          string
	OrganizerPasswordHash string

	CORSAllowedOrigins []string

	// Ограничение частоты отправки результатов (запросов в секунду на клиента).
	ResultRateLimit float64
	ResultRateBurst int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// AuthEnabled reports whether mutating routes require an organizer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecretKey != ""
}

// ReportsEnabled reports whether final reports are uploaded to R2.
func (c *Config) ReportsEnabled() bool {
	return c.R2AccountID != "" && c.R2BucketName != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	groups, err := intFromEnv("DEFAULT_GROUP_COUNT", 2)
	if err != nil {
		return nil, err
	}
	if groups < 1 {
		return nil, fmt.Errorf("DEFAULT_GROUP_COUNT must be positive, got %d", groups)
	}

	advance, err := intFromEnv("DEFAULT_ADVANCE_PER_GROUP", 2)
	if err != nil {
		return nil, err
	}
	if advance < 1 {
		return nil, fmt.Errorf("DEFAULT_ADVANCE_PER_GROUP must be positive, got %d", advance)
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	pwHash := os.Getenv("ORGANIZER_PASSWORD_HASH")
	if (jwtKey == "") != (pwHash == "") {
		return nil, fmt.Errorf("JWT_SECRET_KEY and ORGANIZER_PASSWORD_HASH must be set together")
	}

	rateLimit := 5.0
	if v := os.Getenv("RESULT_RATE_LIMIT"); v != "" {
		rateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RESULT_RATE_LIMIT environment variable: %w", err)
		}
	}
	burst, err := intFromEnv("RESULT_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := &Config{
		ServerPort:             port,
		DefaultGroupCount:      groups,
		DefaultAdvancePerGroup: advance,
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecretKey:           jwtKey,
		OrganizerPasswordHash:  pwHash,
		CORSAllowedOrigins:     origins,
		ResultRateLimit:        rateLimit,
		ResultRateBurst:        burst,
		R2AccountID:            os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:          os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:      os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:           os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:        os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}
