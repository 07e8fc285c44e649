// Package config defines the server configuration skipper loads once at
// startup and threads through the launch sequence.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/perrydahl/skipper/internal/envfile"
)

// Config holds the settings the chatbot server reads from its environment.
// Values come from the working directory's .env file; real environment
// variables take precedence over file values.
type Config struct {
	// GoogleAPIKey authenticates against the Gemini API.
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`

	// GeminiModel is the model identifier the server queries.
	GeminiModel string `env:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// Load reads <dir>/.env and the process environment into a Config.
// The .env file must exist; bootstrap it first with envfile.WriteTemplate.
func Load(dir string) (*Config, error) {
	path := envfile.Path(dir)
	fileVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := env.Load(&cfg, &env.Options{Source: layeredSource{fileVars}}); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	return &cfg, nil
}

// APIKeyConfigured reports whether the operator has replaced the template
// placeholder with a real credential. It does not validate the credential
// itself; that is the server's job.
func (c *Config) APIKeyConfigured() bool {
	return c.GoogleAPIKey != "" && c.GoogleAPIKey != envfile.PlaceholderAPIKey
}

// Environ returns the configuration as KEY=VALUE pairs for the server's
// child environment.
func (c *Config) Environ() []string {
	return []string{
		"GOOGLE_API_KEY=" + c.GoogleAPIKey,
		"GEMINI_MODEL=" + c.GeminiModel,
	}
}

// layeredSource resolves variables from the process environment first,
// then from the parsed .env file.
type layeredSource struct {
	file map[string]string
}

func (s layeredSource) LookupEnv(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok
}
