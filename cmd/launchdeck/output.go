package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vault-md/launchdeck/internal/grid"
	"github.com/vault-md/launchdeck/internal/view"
)

const formatUsage = "Output format: table, markdown, json or yaml"

// textual formats carry the status banner and pagination footer inline;
// json and yaml stay machine readable and send the banner to stderr.
func textual(f grid.Format) bool {
	return f == grid.FormatTable || f == grid.FormatMarkdown
}

func writeBanner(out, errOut io.Writer, format grid.Format, phase view.Phase, msg string) {
	banner := grid.Banner(phase, msg)
	if banner == "" {
		return
	}
	if textual(format) {
		fmt.Fprintln(out, banner)
		return
	}
	fmt.Fprintln(errOut, banner)
}

func writeStructured(w io.Writer, format grid.Format, v any) error {
	switch format {
	case grid.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case grid.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("format %s is not structured", format)
	}
}

func renderLaunches(out, errOut io.Writer, g *grid.Grid[grid.LaunchRow], format grid.Format, snap view.Snapshot) error {
	writeBanner(out, errOut, format, snap.Phase, snap.Error)
	if err := g.Render(out, format, grid.LaunchRows(snap.Displayed, snap.RocketNames)); err != nil {
		return err
	}
	if textual(format) {
		fmt.Fprintln(out, grid.Footer(snap.State.Page, snap.TotalPages, snap.State.Total))
	}
	return nil
}
