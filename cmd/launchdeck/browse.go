package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vault-md/launchdeck/internal/grid"
	"github.com/vault-md/launchdeck/internal/spacex"
	"github.com/vault-md/launchdeck/internal/usecase"
	"github.com/vault-md/launchdeck/internal/view"
)

const browseHelp = `Commands:
  past | upcoming        switch listing (page 1)
  year <yyyy|->          filter by year, "-" clears
  status <all|success|failure>
  sort <date|name|rocket> same key again flips direction
  page <n> | next | prev
  hide <col> | show <col>
  retry                  repeat the last load
  detail <id>            show one launch
  stats                  request counters
  help | quit`

func newBrowseCmd() *cobra.Command {
	var (
		upcoming bool
		hide     []string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse launches interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := grid.NewLaunchGrid()
			if err := g.HideAll(hide); err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			mode := view.ModePast
			if upcoming {
				mode = view.ModeUpcoming
			}
			b := &browser{
				dashboard: s.dashboard,
				grid:      g,
				registry:  s.registry,
				out:       cmd.OutOrStdout(),
			}
			return b.run(cmd.Context(), cmd.InOrStdin(), mode)
		},
	}

	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Start with upcoming launches")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Columns to hide")

	return cmd
}

// browser is a line-oriented session over one launches controller.
type browser struct {
	dashboard *usecase.Dashboard
	grid      *grid.Grid[grid.LaunchRow]
	registry  prometheus.Gatherer
	out       io.Writer
}

func (b *browser) run(ctx context.Context, in io.Reader, mode view.Mode) error {
	ctrl := b.dashboard.Launches()
	ctrl.ToggleView(ctx, mode)
	if err := b.render(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(b.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		quit, err := b.exec(ctx, fields[0], fields[1:])
		if err != nil {
			fmt.Fprintf(b.out, "error: %v\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command. Errors are shown to the user and the session goes
// on.
func (b *browser) exec(ctx context.Context, name string, args []string) (bool, error) {
	ctrl := b.dashboard.Launches()

	arg := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%s takes one argument", name)
		}
		return args[0], nil
	}

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(b.out, browseHelp)
		return false, nil
	case "past":
		ctrl.ToggleView(ctx, view.ModePast)
	case "upcoming":
		ctrl.ToggleView(ctx, view.ModeUpcoming)
	case "retry":
		ctrl.Retry(ctx)
	case "year":
		y, err := arg()
		if err != nil {
			return false, err
		}
		if y == "-" {
			y = ""
		}
		if err := ctrl.UpdateFilter(&y, nil); err != nil {
			return false, err
		}
	case "status":
		a, err := arg()
		if err != nil {
			return false, err
		}
		st := view.Status(a)
		if err := ctrl.UpdateFilter(nil, &st); err != nil {
			return false, err
		}
	case "sort":
		a, err := arg()
		if err != nil {
			return false, err
		}
		if err := ctrl.ChangeSort(view.SortKey(a)); err != nil {
			return false, err
		}
	case "page":
		a, err := arg()
		if err != nil {
			return false, err
		}
		n, err := strconv.Atoi(a)
		if err != nil {
			return false, fmt.Errorf("invalid page %q", a)
		}
		ctrl.GoToPage(n)
	case "next":
		snap := ctrl.Snapshot()
		if snap.State.Page < snap.TotalPages {
			ctrl.GoToPage(snap.State.Page + 1)
		}
	case "prev":
		ctrl.GoToPage(ctrl.Snapshot().State.Page - 1)
	case "hide", "show":
		a, err := arg()
		if err != nil {
			return false, err
		}
		if name == "hide" {
			err = b.grid.Hide(a)
		} else {
			err = b.grid.Show(a)
		}
		if err != nil {
			return false, err
		}
	case "detail":
		id, err := arg()
		if err != nil {
			return false, err
		}
		d, err := b.dashboard.Detail(ctx, id)
		if err != nil {
			if spacex.IsNotFound(err) {
				return false, fmt.Errorf("launch not found: %s", id)
			}
			return false, err
		}
		return false, renderDetail(b.out, grid.FormatTable, d)
	case "stats":
		return false, b.stats()
	default:
		return false, fmt.Errorf("unknown command %q (try help)", name)
	}

	return false, b.render()
}

func (b *browser) render() error {
	snap := b.dashboard.Launches().Snapshot()
	fmt.Fprintf(b.out, "%s launches, sorted by %s %s\n", snap.State.Mode, snap.State.SortKey, direction(snap.State.SortAsc))
	return renderLaunches(b.out, b.out, b.grid, grid.FormatTable, snap)
}

func direction(asc bool) string {
	if asc {
		return "ascending"
	}
	return "descending"
}

// stats prints the request counters gathered so far.
func (b *browser) stats() error {
	families, err := b.registry.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	if len(lines) == 0 {
		fmt.Fprintln(b.out, "no requests yet")
		return nil
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(b.out, l)
	}
	return nil
}
