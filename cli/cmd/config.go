package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/qasereport/cli/render"
)

// ConfigCommand returns the config command.
// It prints the resolved configuration with the token redacted and never
// contacts the service.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Show the resolved configuration",
		Flags:  append(ConfigFlags(), OutputFlags()...),
		Action: configAction,
	}
}

func configAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	cfg, err := resolveConfig(c, nil)
	if err != nil {
		return exitErr("resolve config", err)
	}
	if err := cfg.Validate(); err != nil {
		return exitErr("validate config", err)
	}

	return r.Render(cfg.Redacted())
}
