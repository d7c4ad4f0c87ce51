package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// GitConfig holds the settings used by the git helper commands.
type GitConfig struct {
	EnvFile  string
	User     string
	Repo     string
	Branch   string
	RepoPath string
	URL      string
}

// LoadGit reads git settings from envFile (when it exists) and the environment.
// Values from the file win, matching how the helpers were historically driven by .env.
func LoadGit(envFile string) (*GitConfig, error) {
	values := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		if m != nil {
			values = m
		}
	}
	lookup := func(key, def string) string {
		if v := strings.TrimSpace(values[key]); v != "" {
			return v
		}
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}

	return &GitConfig{
		EnvFile:  envFile,
		User:     lookup("GIT_USER", ""),
		Repo:     lookup("GIT_REPO", ""),
		Branch:   lookup("GIT_BRANCH", "main"),
		RepoPath: lookup("REPO_PATH", "."),
		URL:      lookup("GIT_URL", ""),
	}, nil
}

// RequireRepo checks the fields needed to build a GitHub remote.
func (g *GitConfig) RequireRepo() error {
	if g.User == "" || g.Repo == "" {
		return fmt.Errorf("GIT_USER and GIT_REPO must be set in %s or the environment", g.EnvFile)
	}
	return nil
}
