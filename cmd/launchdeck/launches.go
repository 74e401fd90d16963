package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vault-md/launchdeck/internal/grid"
	"github.com/vault-md/launchdeck/internal/usecase"
	"github.com/vault-md/launchdeck/internal/view"
)

func newLaunchesCmd() *cobra.Command {
	var (
		upcoming bool
		year     string
		status   string
		sortKey  string
		desc     bool
		page     int
		pageSize int
		hide     []string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "launches",
		Short: "List past or upcoming launches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := grid.ParseFormat(format)
			if err != nil {
				return err
			}
			g := grid.NewLaunchGrid()
			if err := g.HideAll(hide); err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if cmd.Flags().Changed("page-size") {
				if pageSize < 1 {
					return fmt.Errorf("--page-size must be at least 1, got %d", pageSize)
				}
				s.dashboard.Launches().SetPageSize(pageSize)
			}

			snap, err := s.dashboard.ListLaunches(cmd.Context(), usecase.LaunchQuery{
				Upcoming: upcoming,
				Year:     year,
				Status:   status,
				Sort:     sortKey,
				Desc:     desc,
				Page:     page,
			})
			if err != nil {
				return err
			}
			if snap.Phase == view.Error && snap.Error == view.MsgLaunchesFailed {
				return errors.New(snap.Error)
			}

			return renderLaunches(cmd.OutOrStdout(), cmd.ErrOrStderr(), g, f, snap)
		},
	}

	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Show upcoming instead of past launches")
	cmd.Flags().StringVar(&year, "year", "", "Only launches in this UTC year")
	cmd.Flags().StringVar(&status, "status", "all", "Launch outcome: all, success or failure")
	cmd.Flags().StringVar(&sortKey, "sort", "date", "Sort by date, name or rocket")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Launches per page (default from config)")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Columns to hide: flight, name, date, rocket, status, details")
	cmd.Flags().StringVar(&format, "format", "table", formatUsage)

	return cmd
}
