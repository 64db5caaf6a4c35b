// Package cmd provides CLI commands for the qasereport binary.
package cmd

import "github.com/urfave/cli/v2"

// DefaultEnvPrefix is the environment variable prefix read by default.
const DefaultEnvPrefix = "QASE_"

// Shared flags.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}
)

// OutputFlags returns the shared rendering flags.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
	}
}

// ConfigFlags returns the flags that select configuration layers.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML or JSON config file",
		},
		&cli.StringFlag{
			Name:  "env-prefix",
			Usage: "Environment variable prefix (empty disables the env layer)",
			Value: DefaultEnvPrefix,
		},
	}
}
