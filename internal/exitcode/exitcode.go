// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown tool, invalid arguments).
	UserError = 1

	// AuthError indicates missing or invalid OAuth credentials.
	AuthError = 2

	// ConfigError indicates an unreadable or invalid config.toml.
	ConfigError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)
