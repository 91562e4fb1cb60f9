package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	SessionDuration   time.Duration
	QuizQuestionLimit int
}

// Load reads configuration from a .env file (if present) and environment
// variables with sensible defaults
func Load() *Config {
	// Values already in the environment win over the .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		DatabaseType:      getEnv("DB_TYPE", "postgres"),
		DatabaseURL:       databaseURL(),
		DatabasePath:      getEnv("DB_PATH", "./quizdesk.db"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration:   getDurationEnv("SESSION_DURATION", 24*time.Hour),
		QuizQuestionLimit: getIntEnv("QUIZ_QUESTION_LIMIT", 10),
	}
}

// databaseURL returns DB_URL if set, otherwise assembles a postgres URL from
// the individual DB_* variables
func databaseURL() string {
	if u := os.Getenv("DB_URL"); u != "" {
		return u
	}

	name := os.Getenv("DB_NAME")
	user := os.Getenv("DB_USER")
	if name == "" || user == "" {
		return ""
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	password := os.Getenv("DB_PASSWORD")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&application_name=quizdesk",
		url.QueryEscape(user), url.QueryEscape(password), host, port, name)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv reads an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getDurationEnv reads a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
