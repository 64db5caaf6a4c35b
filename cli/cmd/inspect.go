package cmd

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/qasereport/cli/render"
	"github.com/pithecene-io/qasereport/config"
	"github.com/pithecene-io/qasereport/report"
	"github.com/pithecene-io/qasereport/reportstore"
)

// ResultRow is one line of the inspect table.
type ResultRow struct {
	Title  string `json:"title"`
	CaseID int64  `json:"case_id,omitempty"`
	Status string `json:"status"`
}

// ReportListing is the response for inspect --list.
type ReportListing struct {
	Location string   `json:"location" yaml:"location"`
	Reports  []string `json:"reports" yaml:"reports"`
}

// InspectCommand returns the inspect command, which prints a stored report.
// The report is a path printed by submit (a local path or an s3:// URL) or
// a file name in the configured report store.
func InspectCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "list",
			Usage: "List reports in the configured report store",
		},
	}
	flags = append(flags, ConfigFlags()...)
	flags = append(flags, OutputFlags()...)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show a report written in report mode or on fallback",
		ArgsUsage: "<report-path | s3-url | file-name>",
		Flags:     flags,
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}
	if !c.Bool("list") && c.NArg() < 1 {
		return cli.Exit("report path required (or --list)", exitInvalidInput)
	}

	cfg, err := resolveConfig(c, nil)
	if err != nil {
		return exitErr("resolve config", err)
	}

	if c.Bool("list") {
		return listReports(c, r, cfg)
	}

	ref := c.Args().First()
	store, name, err := reportstore.OpenLocation(c.Context, cfg, ref)
	if err != nil {
		return exitErr("open report store", err)
	}
	data, err := store.Get(c.Context, name)
	if err != nil {
		return exitErr("read report", inputError(err))
	}
	doc, err := report.Decode(data, formatFromName(name))
	if err != nil {
		return exitErr("decode report", fmt.Errorf("%w: %w", errInvalidInput, err))
	}

	if r.Format() != render.FormatTable {
		return r.Render(doc)
	}

	rows := make([]ResultRow, 0, len(doc.Results))
	for _, e := range doc.Results {
		rows = append(rows, ResultRow{Title: e.Title, CaseID: e.CaseID, Status: string(e.Status)})
	}
	return r.Render(rows)
}

func listReports(c *cli.Context, r *render.Renderer, cfg config.Config) error {
	store, err := reportstore.Open(c.Context, cfg)
	if err != nil {
		return exitErr("open report store", err)
	}
	names, err := store.List(c.Context)
	if err != nil && !errors.Is(err, reportstore.ErrNotFound) {
		return exitErr("list reports", err)
	}
	if names == nil {
		names = []string{}
	}
	return r.Render(ReportListing{Location: store.Location(), Reports: names})
}

// inputError marks references that do not name a readable report.
func inputError(err error) error {
	if errors.Is(err, reportstore.ErrNotFound) || errors.Is(err, reportstore.ErrInvalidName) {
		return fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	return err
}

func formatFromName(name string) config.Format {
	if strings.EqualFold(path.Ext(name), ".msgpack") {
		return config.FormatMsgpack
	}
	return config.FormatJSON
}
