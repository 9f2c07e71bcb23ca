package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	JWTAccessSecret []byte
	TokenTTL        time.Duration
	CookieSecure    bool

	LogLevel string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CORSOrigins []string

	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "hugelabz"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:        EnvDurationDefault("TOKEN_TTL", 24*time.Hour),
		CookieSecure:    EnvBoolDefault("COOKIE_SECURE", true),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		KafkaBrokers:     CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicPrefix: os.Getenv("KAFKA_TOPIC_PREFIX"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		CORSOrigins: CSV(os.Getenv("CORS_ORIGINS")),

		SeedAdminEmail:    EnvDefault("SEED_ADMIN_EMAIL", "admin@hugelabz.com"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
