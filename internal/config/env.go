package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultOrigin = "http://localhost:3000"

// Env holds process settings read from the environment.
type Env struct {
	DBPath     string `envconfig:"LEVELUP_DB" default:"data/level-up.db"`
	ConfigPath string `envconfig:"LEVELUP_CONFIG" default:"level-up.yaml"`
	RedisAddr  string `envconfig:"REDIS_ADDR"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	SessionSecret       string `envconfig:"SESSION_SECRET"`
	SessionSecureCookie bool   `envconfig:"SESSION_SECURE_COOKIE" default:"false"`

	GitHubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `envconfig:"GITHUB_REDIRECT_URL"`
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`

	FrontendURL        string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// AllowedOrigins splits CORSAllowedOrigins on commas.
func (e *Env) AllowedOrigins() []string {
	if strings.TrimSpace(e.CORSAllowedOrigins) == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(e.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LoadEnv loads envFile when it exists, then reads the environment.
// Variables already set win over the file.
func LoadEnv(envFile string) (*Env, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				logging.Warn("could not load env file", logging.Fields{"path": envFile, "error": err.Error()})
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("could not stat env file", logging.Fields{"path": envFile, "error": err.Error()})
		}
	}

	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}
	if strings.TrimSpace(e.FrontendURL) == "" {
		e.FrontendURL = defaultOrigin
	}
	// A set but blank list would leave CORS without any origin.
	if len(e.AllowedOrigins()) == 0 {
		logging.Warn("CORS_ALLOWED_ORIGINS is empty, allowing the frontend origin only", logging.Fields{"origin": e.FrontendURL})
		e.CORSAllowedOrigins = e.FrontendURL
	}
	return &e, nil
}
