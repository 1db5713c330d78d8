package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBURL      string

	AppPort      string
	AppEnv       string
	AppBaseURL   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string

	JWTSecret           string
	JWTExpiry           time.Duration
	FirebaseProjectID   string
	TrustClientIdentity bool
	InternalSecretKey   string

	ImgbbAPIKey string
	ImgbbURL    string

	MailRelayURL string
	MailFrom     string

	KafkaBrokers []string
	KafkaTopic   string

	OTLPEndpoint string
}

// IsProduction reports whether cookies and logs should use production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBURL:      os.Getenv("DB_URL"),

		AppPort:      getEnv("APP_PORT", "5000"),
		AppEnv:       getEnv("APP_ENV", "development"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:5173"),
		ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTExpiry:           getDuration("JWT_EXPIRY", 24*time.Hour),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		TrustClientIdentity: getBool("TRUST_CLIENT_IDENTITY", false),
		InternalSecretKey:   os.Getenv("INTERNAL_SECRET_KEY"),

		ImgbbAPIKey: os.Getenv("IMGBB_API_KEY"),
		ImgbbURL:    getEnv("IMGBB_URL", "https://api.imgbb.com/1/upload"),

		MailRelayURL: os.Getenv("MAIL_RELAY_URL"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@quickcart.bd"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "quickcart.orders"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.DBHost == "" && cfg.DBURL == "" {
		return nil, errors.New("database is not configured: set DB_HOST or DB_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
