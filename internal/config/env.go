package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override individual configuration fields.
const (
	EnvSourceHost   = "DOCSITE_SOURCE_HOST"
	EnvSourceOwner  = "DOCSITE_SOURCE_OWNER"
	EnvPackagesDir  = "DOCSITE_PACKAGES_DIR"
	EnvOutputDir    = "DOCSITE_OUTPUT_DIR"
	EnvGitBackend   = "DOCSITE_GIT_BACKEND"
	EnvTemplatePath = "DOCSITE_TEMPLATE"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local when present.
// Variables already set in the process environment are never overwritten.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", "file", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvSourceHost); v != "" {
		cfg.Source.Host = v
	}
	if v := os.Getenv(EnvSourceOwner); v != "" {
		cfg.Source.Owner = v
	}
	if v := os.Getenv(EnvPackagesDir); v != "" {
		cfg.Paths.Packages = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Paths.Output = v
	}
	if v := os.Getenv(EnvGitBackend); v != "" {
		cfg.Git.Backend = GitBackend(v)
	}
	if v := os.Getenv(EnvTemplatePath); v != "" {
		cfg.Paths.Template = v
	}
}
