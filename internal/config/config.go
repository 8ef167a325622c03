package config

import (
	"os"
	"strconv"

	"github.com/google/uuid"
)

const (
	// DefaultAppSignalURL is the AppSignal GraphQL endpoint.
	DefaultAppSignalURL = "https://appsignal.com/graphql"
	// DefaultGitHubAPIURL is the GitHub REST API base URL.
	DefaultGitHubAPIURL = "https://api.github.com"
)

// Config holds all configuration for one pipeline run
type Config struct {
	// Monitoring API
	AppSignalURL   string
	AppSignalToken string

	// Issue platform
	GitHubAPIURL string
	GitHubToken  string

	// GitHub App credentials (alternative to GitHubToken)
	GitHubAppID             string
	GitHubAppInstallationID string
	GitHubAppPrivateKey     string // PEM content or a path to a PEM file

	// Where to file the issue; empty means detect from the local git remote
	RepoOverride string

	// Optional Slack notification
	SlackBotToken string
	SlackChannel  string

	// Debug echoes outbound request shapes and raw response bodies to stderr
	Debug bool

	// RunID tags diagnostic output so parallel CI runs can be told apart
	RunID string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		AppSignalURL:   getEnvOrDefault("APPSIGNAL_GRAPHQL_URL", DefaultAppSignalURL),
		AppSignalToken: os.Getenv("APPSIGNAL_API_TOKEN"),

		GitHubAPIURL: getEnvOrDefault("GITHUB_API_URL", DefaultGitHubAPIURL),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),

		GitHubAppID:             os.Getenv("GITHUB_APP_ID"),
		GitHubAppInstallationID: os.Getenv("GITHUB_APP_INSTALLATION_ID"),
		GitHubAppPrivateKey:     os.Getenv("GITHUB_APP_PRIVATE_KEY"),

		RepoOverride: os.Getenv("GITHUB_REPOSITORY"),

		SlackBotToken: os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel:  os.Getenv("SLACK_CHANNEL"),

		Debug: getEnvAsBoolOrDefault("PERF2ISSUE_DEBUG", false),
		RunID: uuid.NewString(),
	}
}

// HasGitHubAppAuth reports whether the GitHub App credential trio is complete.
func (c *Config) HasGitHubAppAuth() bool {
	return c.GitHubAppID != "" && c.GitHubAppInstallationID != "" && c.GitHubAppPrivateKey != ""
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the value of an environment variable as a bool or a default value
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
