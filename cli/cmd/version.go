package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/qasereport/cli/render"
	"github.com/pithecene-io/qasereport/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version       string `json:"version"`
	ReportVersion string `json:"report_format_version"`
	Commit        string `json:"commit"`
}

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  OutputFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}

		return r.Render(VersionResponse{
			Version:       types.Version,
			ReportVersion: types.ReportFormatVersion,
			Commit:        commit,
		})
	}
}
