package app

import (
	"errors"

	"github.com/unkn0wn-root/altp/internal/config"
	"github.com/unkn0wn-root/altp/internal/selector"
)

var (
	ErrThemeNotFound = errors.New("theme not found")
	ErrStateMissing  = errors.New("state file not found")
	ErrThemeNoColors = errors.New("theme has no colors table")
)

const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// Stream selects where a failure message is printed.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// Failure is the user-facing rendering of an error.
type Failure struct {
	Message string
	Stream  Stream
	Code    int
}

// Describe maps an error returned by Run to the message and exit code the
// CLI reports.
func Describe(err error) Failure {
	switch {
	case err == nil:
		return Failure{Code: ExitOK}
	case errors.Is(err, config.ErrConfigMissing):
		return Failure{
			Message: "Config file not found. Use --create to create a new config file.",
			Stream:  Stdout,
			Code:    ExitFailure,
		}
	case errors.Is(err, ErrStateMissing):
		return Failure{Message: "Config file not found.", Stream: Stdout, Code: ExitFailure}
	case errors.Is(err, ErrThemeNotFound):
		return Failure{Message: "Theme not found", Stream: Stderr, Code: ExitFailure}
	case errors.Is(err, selector.ErrCancelled):
		return Failure{Message: "Selection cancelled", Stream: Stderr, Code: ExitCancelled}
	default:
		return Failure{Message: "altp: " + err.Error(), Stream: Stderr, Code: ExitFailure}
	}
}
