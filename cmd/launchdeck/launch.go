package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vault-md/launchdeck/internal/detail"
	"github.com/vault-md/launchdeck/internal/grid"
	"github.com/vault-md/launchdeck/internal/spacex"
)

func newLaunchCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "launch <id>",
		Short: "Show one launch with its rocket and payloads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := grid.ParseFormat(format)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			d, err := s.dashboard.Detail(cmd.Context(), args[0])
			if err != nil {
				if spacex.IsNotFound(err) {
					return fmt.Errorf("launch not found: %s", args[0])
				}
				return err
			}
			return renderDetail(cmd.OutOrStdout(), f, d)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", formatUsage)

	return cmd
}

func renderDetail(w io.Writer, format grid.Format, d *detail.Detail) error {
	if !textual(format) {
		return writeStructured(w, format, d)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"ID", d.Launch.ID},
		{"Name", d.Launch.Name},
		{"Flight", d.Launch.FlightNumber},
		{"Date", grid.FormatDate(d.Launch)},
		{"Status", d.Launch.Status()},
		{"Details", grid.TruncateDescription(d.Launch.Details)},
		{"Rocket", d.Rocket.Name},
		{"Rocket type", d.Rocket.Type},
		{"Stages", strconv.Itoa(d.Rocket.Stages)},
		{"Active", strconv.FormatBool(d.Rocket.Active)},
		{"Description", grid.TruncateDescription(d.Rocket.Description)},
		{"Images", strings.Join(d.Rocket.Images, "\n")},
	})
	if format == grid.FormatMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}

	if len(d.Payloads) == 0 {
		fmt.Fprintln(w, "No payloads")
		return nil
	}
	fmt.Fprintln(w)
	return grid.NewPayloadGrid().Render(w, format, d.Payloads)
}
