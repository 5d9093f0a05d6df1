package config

import (
	"os"
	"strconv"
	"strings"
)

// AppConfig is the runtime configuration read from the environment.
type AppConfig struct {
	Environment string
	GinMode     string
	Port        string

	DBDriver    string
	DBHost      string
	DBPort      string
	DBDatabase  string
	DBUsername  string
	DBPassword  string
	DBSSLMode   string
	DebugSQL    bool
	AutoMigrate bool

	JWTSecret      string
	AllowedOrigins []string

	LogLevel string
	LogFile  string

	SMTP SMTPConfig
}

// SMTPConfig configures outgoing decision e-mails.
type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Load reads the configuration from environment variables. Call
// godotenv.Load beforehand to pick up a .env file.
func Load() AppConfig {
	return AppConfig{
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "development")),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Port:        getEnv("SERVER_PORT", "8080"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBHost:      getEnv("DB_HOST", "127.0.0.1"),
		DBPort:      os.Getenv("DB_PORT"),
		DBDatabase:  getEnv("DB_DATABASE", "innovation_portal"),
		DBUsername:  os.Getenv("DB_USERNAME"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		DebugSQL:    strings.ToLower(os.Getenv("DEBUG_SQL")) == "true",
		AutoMigrate: strings.ToLower(os.Getenv("AUTO_MIGRATE")) == "true",

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", LogFilePath()),

		SMTP: SMTPConfig{
			Host:          os.Getenv("SMTP_HOST"),
			Port:          getEnvInt("SMTP_PORT", 587),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			From:          os.Getenv("SMTP_FROM"),
			SkipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
		},
	}
}

// IsProduction reports whether ENVIRONMENT=production.
func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
