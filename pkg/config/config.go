package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"

	EnvDevelopment = "development"

	// devJWTSecret is only handed out when ENV is development.
	devJWTSecret = "supersecretjwtkey"
)

type Config struct {
	Port                      string
	Env                       string
	LogLevel                  string
	Storage                   string
	PostgresConnStr           string
	AuthProvider              string
	JWTSecret                 string
	FirebaseCredentialsPath   string
	StoreTimeout              time.Duration
	NotificationRetention     time.Duration
	NotificationSweepInterval time.Duration
	ClapRatePerMinute         int
	ClapRateBurst             int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("ENV", EnvDevelopment)
	jwtDefault := ""
	if env == EnvDevelopment {
		jwtDefault = devJWTSecret
	}
	return &Config{
		Port:                      getEnv("PORT", "8080"),
		Env:                       env,
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		Storage:                   getEnv("STORAGE", StoragePostgres),
		PostgresConnStr:           getEnv("POSTGRES_CONN_STR", ""),
		AuthProvider:              getEnv("AUTH_PROVIDER", AuthJWT),
		JWTSecret:                 getEnv("JWT_SECRET", jwtDefault),
		FirebaseCredentialsPath:   getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		StoreTimeout:              getDuration("STORE_TIMEOUT", 5*time.Second),
		NotificationRetention:     getDuration("NOTIFICATION_RETENTION", 30*24*time.Hour),
		NotificationSweepInterval: getDuration("NOTIFICATION_SWEEP_INTERVAL", time.Hour),
		ClapRatePerMinute:         getInt("CLAP_RATE_PER_MINUTE", 120),
		ClapRateBurst:             getInt("CLAP_RATE_BURST", 50),
	}
}

func (c *Config) UsesDevJWTSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.AuthProvider {
	case AuthJWT:
		if c.JWTSecret == "" {
			return errors.Errorf("JWT_SECRET must be set when ENV is %q", c.Env)
		}
	case AuthFirebase:
		if c.FirebaseCredentialsPath == "" {
			return errors.New("FIREBASE_CREDENTIALS_PATH must be set when AUTH_PROVIDER is firebase")
		}
	default:
		return errors.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
