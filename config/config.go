package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/pkg/constant"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnv selects the env file before ENV has been decoded.
const DefaultEnv = constant.EnvDevelopment

type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DBURL            string        `env:"DB_URL"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBAcquireTimeout time.Duration `env:"DB_ACQUIRE_TIMEOUT" envDefault:"5s"`
	RunMigrations    bool          `env:"RUN_MIGRATIONS" envDefault:"true"`

	JWTSecret   string        `env:"JWT_SECRET"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" envDefault:"168h"`
	TokenIssuer string        `env:"TOKEN_ISSUER" envDefault:"eventhub-auth"`

	PasswordAlgorithm string `env:"PASSWORD_ALGORITHM" envDefault:"bcrypt"`
	BcryptCost        int    `env:"BCRYPT_COST" envDefault:"10"`
	Argon2Time        uint32 `env:"ARGON2_TIME" envDefault:"1"`
	Argon2MemoryKB    uint32 `env:"ARGON2_MEMORY_KB" envDefault:"65536"`
	Argon2Threads     uint8  `env:"ARGON2_THREADS" envDefault:"4"`

	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

// Load reads config/.env.dev (or config/.env.prod when ENV=production) and
// overlays the process environment on top of it. Missing required keys are fatal.
func Load() *Config {
	vars := env.ToMap(os.Environ())

	fileVars, err := godotenv.Read(envFile(getEnv("ENV", DefaultEnv)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to read env file: %v", err)
	}
	for k, v := range fileVars {
		if cur, ok := vars[k]; !ok || cur == "" {
			vars[k] = v
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	mustHave("DB_URL", cfg.DBURL)
	mustHave("JWT_SECRET", cfg.JWTSecret)

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == constant.EnvProduction
}

func envFile(appEnv string) string {
	name := ".env.dev"
	if appEnv == constant.EnvProduction {
		name = ".env.prod"
	}
	return filepath.Join("config", name)
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustHave(key, value string) {
	if value == "" {
		log.Fatalf("Missing required config: %s", key)
	}
}
