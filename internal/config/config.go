package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	HTTPPort        string
	OperatorWorkers int
	MaxUploadBytes  int64
	LedgerURL       string
}

// ConnectionString is the lib/pq DSN for the configured database.
func (c *Config) ConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		HTTPPort:         "9446",
		OperatorWorkers:  1,
		MaxUploadBytes:   10 << 20,
		LedgerURL:        "http://localhost:9446",
	}

	stringVars := map[string]*string{
		"POSTGRES_ADDRESS":  &env.PostgresAddress,
		"POSTGRES_PORT":     &env.PostgresPort,
		"POSTGRES_DB":       &env.PostgresDB,
		"POSTGRES_USERNAME": &env.PostgresUsername,
		"POSTGRES_PASSWORD": &env.PostgresPassword,
		"HTTP_PORT":         &env.HTTPPort,
		"LEDGER_URL":        &env.LedgerURL,
	}
	for name, target := range stringVars {
		if value := os.Getenv(name); len(value) != 0 {
			*target = value
		}
	}

	if value := os.Getenv("OPERATOR_WORKERS"); len(value) != 0 {
		workers, err := strconv.Atoi(value)
		if err != nil || workers < 1 {
			return nil, fmt.Errorf("OPERATOR_WORKERS must be a positive integer, got %q", value)
		}
		env.OperatorWorkers = workers
	}

	if value := os.Getenv("MAX_UPLOAD_BYTES"); len(value) != 0 {
		limit, err := strconv.ParseInt(value, 10, 64)
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", value)
		}
		env.MaxUploadBytes = limit
	}

	return &env, nil
}
