package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Token           string
	DatabaseURL     string
	Storage         string
	MigrationsPath  string
	DefaultLocale   string
	Timezone        string
	AdminUsername   string
	AdminPassword   string
	FillIdleTimeout time.Duration
	SweepInterval   time.Duration
	SeedDemo        bool

	Location *time.Location
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Token:          getenv("TOKEN"),
		DatabaseURL:    getenv("DATABASE_URL"),
		Storage:        strings.ToLower(strings.TrimSpace(getenv("STORAGE"))),
		MigrationsPath: getenv("MIGRATIONS_PATH"),
		DefaultLocale:  getenv("DEFAULT_LOCALE"),
		Timezone:       getenv("TIMEZONE"),
		AdminUsername:  getenv("ADMIN_USERNAME"),
		AdminPassword:  getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.FillIdleTimeout, err = durationEnv(getenv, "FILL_IDLE_TIMEOUT", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = durationEnv(getenv, "SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.SeedDemo, err = boolEnv(getenv, "SEED_DEMO"); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN est requis et ne peut pas être vide")
	}

	switch c.Storage {
	case "":
		c.Storage = StoragePostgres
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE doit valoir %q ou %q (reçu %q)", StoragePostgres, StorageMemory, c.Storage)
	}

	if c.Storage == StoragePostgres {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
			c.DatabaseURL = "postgres://localhost:5432/surveybot?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
		}
	}

	c.MigrationsPath = strings.TrimSpace(c.MigrationsPath)
	if strings.TrimSpace(c.DefaultLocale) == "" {
		c.DefaultLocale = "ru"
	}

	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: TIMEZONE invalide (%q): %w", c.Timezone, err)
	}
	c.Location = loc

	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("config: ADMIN_USERNAME et ADMIN_PASSWORD vont ensemble")
	}

	if c.FillIdleTimeout <= 0 {
		return fmt.Errorf("config: FILL_IDLE_TIMEOUT doit être positif")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("config: SWEEP_INTERVAL doit être positif")
	}
	return nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s invalide (%q): %w", key, raw, err)
	}
	return d, nil
}

func boolEnv(getenv func(string) string, key string) (bool, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: %s invalide (%q): %w", key, raw, err)
	}
	return b, nil
}
