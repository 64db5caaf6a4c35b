package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/qasereport/collector"
	"github.com/pithecene-io/qasereport/config"
)

// Exit codes.
const (
	exitSuccess      = 0
	exitRemote       = 1 // remote, transport or storage failure
	exitConfig       = 2 // configuration could not be resolved or is invalid
	exitInvalidInput = 3 // unreadable input or invalid results
)

// errInvalidInput marks failures reading the results input.
var errInvalidInput = errors.New("invalid input")

var configErrors = []error{
	config.ErrNotFound,
	config.ErrParse,
	config.ErrMissingField,
	config.ErrEmptyField,
	config.ErrUnsupportedOnPlatform,
	config.ErrInvalid,
}

// exitCodeFor maps an error to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range configErrors {
		if errors.Is(err, target) {
			return exitConfig
		}
	}
	if errors.Is(err, errInvalidInput) || errors.Is(err, collector.ErrInvalidResultName) {
		return exitInvalidInput
	}
	return exitRemote
}

// exitErr wraps err in a cli.ExitCoder carrying its exit code.
func exitErr(prefix string, err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(fmt.Sprintf("%s: %v", prefix, err), exitCodeFor(err))
}
