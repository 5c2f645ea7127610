package config

import (
	"fmt"
	"strings"
	"time"

	"clients_admin/pkg/utils"
)

type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	CORS        CORSConfig
	Admin       AdminConfig
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	DBName          string
	SSLMode         string
	SchemaPath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the lib/pq keyword/value connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.Username, p.Password, p.DBName, p.SSLMode)
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AdminConfig configures the admin UI binary.
type AdminConfig struct {
	Port       string
	APIBaseURL string
	// APITimeout of zero leaves in-flight requests unbounded.
	APITimeout time.Duration
	CloseDelay time.Duration
	// FormTTL bounds how long an open form window keeps its submit gate.
	FormTTL time.Duration
}

func NewConfig() (*Config, error) {
	readTimeout, err := utils.GetenvDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := utils.GetenvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HTTP_WRITE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := utils.GetenvDuration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT: %w", err)
	}
	connMaxLifetime, err := utils.GetenvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	apiTimeout, err := utils.GetenvDuration("ADMIN_API_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_API_TIMEOUT: %w", err)
	}
	closeDelay, err := utils.GetenvDuration("ADMIN_CLOSE_DELAY", 800*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_CLOSE_DELAY: %w", err)
	}
	formTTL, err := utils.GetenvDuration("ADMIN_FORM_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_FORM_TTL: %w", err)
	}

	port := utils.Getenv("PORT", "8080")

	return &Config{
		Environment: utils.Getenv("APP_ENV", "development"),
		LogLevel:    utils.Getenv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Postgres: PostgresConfig{
			Host:            utils.Getenv("DB_HOST", "localhost"),
			Port:            utils.Getenv("DB_PORT", "5432"),
			Username:        utils.Getenv("DB_USER", "clients_user"),
			Password:        utils.Getenv("DB_PASSWORD", "clients_password"),
			DBName:          utils.Getenv("DB_NAME", "clients_db"),
			SSLMode:         utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath:      utils.Getenv("DB_SCHEMA_PATH", ""),
			MaxOpenConns:    utils.GetenvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:8081")),
		},
		Admin: AdminConfig{
			Port:       utils.Getenv("ADMIN_PORT", "8081"),
			APIBaseURL: strings.TrimRight(utils.Getenv("ADMIN_API_BASE_URL", "http://localhost:"+port), "/"),
			APITimeout: apiTimeout,
			CloseDelay: closeDelay,
			FormTTL:    formTTL,
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
