package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vault-md/launchdeck/internal/grid"
	"github.com/vault-md/launchdeck/internal/view"
)

func newRocketsCmd() *cobra.Command {
	var (
		hide   []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "rockets",
		Short: "List every rocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := grid.ParseFormat(format)
			if err != nil {
				return err
			}
			g := grid.NewRocketGrid()
			if err := g.HideAll(hide); err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			snap := s.dashboard.Rockets(cmd.Context())
			if snap.Phase == view.Error {
				writeBanner(cmd.OutOrStdout(), cmd.ErrOrStderr(), f, snap.Phase, snap.Error)
				return errors.New(snap.Error)
			}
			return g.Render(cmd.OutOrStdout(), f, snap.Items)
		},
	}

	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Columns to hide: name, type, stages, active, description")
	cmd.Flags().StringVar(&format, "format", "table", formatUsage)

	return cmd
}

func newPayloadsCmd() *cobra.Command {
	var (
		hide   []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "payloads",
		Short: "List every payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := grid.ParseFormat(format)
			if err != nil {
				return err
			}
			g := grid.NewPayloadGrid()
			if err := g.HideAll(hide); err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			snap := s.dashboard.Payloads(cmd.Context())
			if snap.Phase == view.Error {
				writeBanner(cmd.OutOrStdout(), cmd.ErrOrStderr(), f, snap.Phase, snap.Error)
				return errors.New(snap.Error)
			}
			return g.Render(cmd.OutOrStdout(), f, snap.Items)
		},
	}

	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Columns to hide: name, type, orbit, mass, customers")
	cmd.Flags().StringVar(&format, "format", "table", formatUsage)

	return cmd
}
