package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/imrishuroy/go-survey-intake/internal/validation"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port       string `validate:"required,tcpport"`
	LambdaMode bool
	LogLevel   string `validate:"oneof=debug info warn error"`
	LogFormat  string `validate:"oneof=json console"`

	StorageBackend string `validate:"oneof=postgres dynamodb"`

	PGHost     string `validate:"required_if=StorageBackend postgres"`
	PGPort     string `validate:"tcpport"`
	PGUser     string `validate:"required_if=StorageBackend postgres"`
	PGPassword string
	PGDatabase string `validate:"required_if=StorageBackend postgres"`
	PGMaxConns int    `validate:"min=1,max=10000"`

	SurveyTable string `validate:"required_if=StorageBackend dynamodb"`

	EventsQueueURL   string `validate:"omitempty,url"`
	MetricsNamespace string
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	maxConns, err := getEnvInt("PG_MAX_CONNS", 10)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:       getEnv("PORT", "5000"),
		LambdaMode: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendPostgres),

		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     os.Getenv("PG_USER"),
		PGPassword: os.Getenv("PG_PASSWORD"),
		PGDatabase: os.Getenv("PG_DATABASE"),
		PGMaxConns: maxConns,

		SurveyTable: getEnv("SURVEY_TABLE", "survey_responses"),

		EventsQueueURL:   os.Getenv("SURVEY_EVENTS_QUEUE_URL"),
		MetricsNamespace: os.Getenv("METRICS_NAMESPACE"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags and reports every failing field.
func (c Config) Validate() error {
	if err := validation.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %v", validation.ErrorsToMap(err))
	}
	return nil
}

// PostgresURL renders a pgx connection string from the PG_* settings.
func (c Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.PGHost, c.PGPort),
		Path:   "/" + c.PGDatabase,
	}
	if c.PGPassword != "" {
		u.User = url.UserPassword(c.PGUser, c.PGPassword)
	} else if c.PGUser != "" {
		u.User = url.User(c.PGUser)
	}
	return u.String()
}

// NeedsAWS reports whether any AWS client has to be built.
func (c Config) NeedsAWS() bool {
	return c.StorageBackend == BackendDynamoDB || c.EventsQueueURL != "" || c.MetricsNamespace != ""
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
