// Package main provides the qasereport CLI entrypoint.
//
// Usage:
//
//	go test -json ./... | qasereport submit [options]
//
// Exit codes:
//   - 0: success
//   - 1: remote, transport or storage failure
//   - 2: configuration error
//   - 3: invalid input
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/qasereport/cli/cmd"
	"github.com/pithecene-io/qasereport/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func newApp() *cli.App {
	return &cli.App{
		Name:           "qasereport",
		Usage:          "Relay Go test results to Qase TestOps",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.SubmitCommand(),
			cmd.ConfigCommand(),
			cmd.InspectCommand(),
			cmd.VersionCommand(commit),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		// ExitErrHandler already exited for cli.ExitCoder errors.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}
	code := reportError(os.Stderr, err)
	os.Exit(code)
}

// reportError prints err to w and returns the exit code it carries.
func reportError(w io.Writer, err error) int {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		// cli.Exit("", N).Error() is "exit status N"; skip those.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			_, _ = fmt.Fprintln(w, msg)
		}
		return code
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
