package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
)

const defaultAPIBaseURL = "http://127.0.0.1:8080"

// Config holds runtime settings for the CLI app.
type Config struct {
	APIBaseURL string
	DBPath     string
	LogPath    string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL: os.Getenv("TODO_API_BASE_URL"),
		DBPath:     os.Getenv("TODO_DB_PATH"),
		LogPath:    os.Getenv("TODO_LOG_PATH"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "todo.db"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "todo.log"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("APIBaseURL is not a valid URL: %s", c.APIBaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("APIBaseURL must use http or https: %s", c.APIBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("APIBaseURL is missing a host: %s", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.LogPath == "" {
		return errors.New("LogPath is required")
	}
	return nil
}
