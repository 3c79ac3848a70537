// Package errors provides structured error handling for sniff.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Process errors (spawn, working directory)
//   - 3XX: Watch errors (event source)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryProcess indicates command spawning errors.
	CategoryProcess Category = "PROCESS"
	// CategoryWatch indicates filesystem watching errors.
	CategoryWatch Category = "WATCH"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigRead     = "ERR_103_CONFIG_READ"
	ErrCodeConfigType     = "ERR_104_CONFIG_TYPE"
	ErrCodeConfigPattern  = "ERR_105_CONFIG_PATTERN"

	// Process errors (200-299)
	ErrCodeSpawnFailed    = "ERR_201_SPAWN_FAILED"
	ErrCodeWorkdirInvalid = "ERR_202_WORKDIR_INVALID"

	// Watch errors (300-399)
	ErrCodeWatchFailed  = "ERR_301_WATCH_FAILED"
	ErrCodeEventReceive = "ERR_302_EVENT_RECEIVE"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryProcess
	case '3':
		return CategoryWatch
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Every configuration problem is fatal: skipping a broken rule would hide it.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig:
		return SeverityFatal
	case CategoryWatch:
		if code == ErrCodeWatchFailed {
			return SeverityFatal
		}
		return SeverityWarning
	default:
		return SeverityError
	}
}
