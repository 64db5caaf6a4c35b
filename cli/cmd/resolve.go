package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/qasereport/config"
)

// resolveConfig resolves the effective config from --config, --env-prefix
// and the preset built from command flags.
func resolveConfig(c *cli.Context, preset *config.Config) (config.Config, error) {
	return config.Resolve(config.Input{
		File:      c.String("config"),
		EnvPrefix: c.String("env-prefix"),
		Preset:    preset,
	})
}
