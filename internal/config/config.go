package config

import (
	"errors"
	"log"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/hugelabz/pkg/config"
)

// Load reads envFile into the environment, if it exists, and builds the
// typed config from the environment. Variables already set win over the file.
func Load(envFile string) pkgconfig.Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Notice: %s not loaded: %v. Using system environment variables", envFile, err)
		}
	}
	return pkgconfig.Load()
}

func RequireDatabase(c pkgconfig.Config) error {
	return pkgconfig.RequireNonEmpty(c.DatabaseURL, "DATABASE_URL")
}

func RequireServe(c pkgconfig.Config) error {
	return errors.Join(
		RequireDatabase(c),
		pkgconfig.RequireNonEmptyBytes(c.JWTAccessSecret, "JWT_SECRET"),
	)
}
