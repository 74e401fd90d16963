package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatMarkdown, FormatJSON, FormatYAML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %s (valid values: table, markdown, json, yaml)", s)
	}
}

// Render writes rows in format. Only visible columns are written.
func (g *Grid[T]) Render(w io.Writer, format Format, rows []T) error {
	switch format {
	case FormatTable:
		g.renderTable(w, rows, false)
		return nil
	case FormatMarkdown:
		g.renderTable(w, rows, true)
		return nil
	case FormatJSON:
		return g.renderJSON(w, rows)
	case FormatYAML:
		return g.renderYAML(w, rows)
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, markdown, json, yaml)", format)
	}
}

func (g *Grid[T]) renderTable(w io.Writer, rows []T, markdown bool) {
	cols, cells := g.cells(rows)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c.header
	}
	t.AppendHeader(header)

	if markdown {
		for _, line := range cells {
			t.AppendRow(toRow(line))
		}
		t.RenderMarkdown()
		return
	}

	width := g.width
	if width <= 0 {
		width = getTerminalWidth()
	}
	widths := calculateColumnWidths(width, cols, cells)

	// Cells are wrapped and truncated here rather than through go-pretty's
	// WidthMax, which measures multi-byte text incorrectly.
	for _, line := range cells {
		row := make(table.Row, len(line))
		for i, cell := range line {
			if cols[i].flex {
				row[i] = runewidth.Truncate(cell, widths[i], "...")
			} else {
				row[i] = wrapString(cell, widths[i])
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}

func toRow(line []string) table.Row {
	row := make(table.Row, len(line))
	for i, cell := range line {
		row[i] = cell
	}
	return row
}

func (g *Grid[T]) renderJSON(w io.Writer, rows []T) error {
	cols, cells := g.cells(rows)
	output := make([]map[string]string, 0, len(cells))
	for _, line := range cells {
		item := make(map[string]string, len(cols))
		for i, c := range cols {
			item[c.field] = line[i]
		}
		output = append(output, item)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// renderYAML builds the document by hand so fields keep column order.
func (g *Grid[T]) renderYAML(w io.Writer, rows []T) error {
	cols, cells := g.cells(rows)
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, line := range cells {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, c := range cols {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.field},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: line[i]},
			)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// wrapString wraps s to maxWidth display cells, accounting for multi-byte
// characters.
func wrapString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	s = strings.TrimSpace(s)
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range s {
		charWidth := runewidth.RuneWidth(r)
		if currentWidth+charWidth > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}
		currentLine.WriteRune(r)
		currentWidth += charWidth
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

const (
	minFixedWidth = 4
	maxFixedWidth = 60
	minFlexWidth  = 15
)

// calculateColumnWidths sizes fixed columns to their content (header
// included) and gives flex columns what is left of termWidth.
func calculateColumnWidths[T any](termWidth int, cols []column[T], cells [][]string) []int {
	widths := make([]int, len(cols))

	// borders and padding take roughly 3 cells per column
	available := termWidth - len(cols)*3 - 1

	flexCount := 0
	used := 0
	for i, c := range cols {
		if c.flex {
			flexCount++
			continue
		}
		w := runewidth.StringWidth(c.header)
		for _, line := range cells {
			w = max(w, runewidth.StringWidth(line[i]))
		}
		widths[i] = min(max(w, minFixedWidth), maxFixedWidth)
		used += widths[i]
	}

	if flexCount == 0 {
		return widths
	}
	share := max((available-used)/flexCount, minFlexWidth)
	for i, c := range cols {
		if c.flex {
			widths[i] = share
		}
	}
	return widths
}
