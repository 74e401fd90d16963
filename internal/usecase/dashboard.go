// Package usecase wires the gateway, rocket cache, controllers and detail
// assembler into one dashboard session shared by the CLI and the MCP server.
package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vault-md/launchdeck/internal/detail"
	"github.com/vault-md/launchdeck/internal/enrich"
	"github.com/vault-md/launchdeck/internal/logging"
	"github.com/vault-md/launchdeck/internal/spacex"
	"github.com/vault-md/launchdeck/internal/view"
)

// Gateway is everything a dashboard fetches from the API.
type Gateway interface {
	view.LaunchSource
	enrich.RocketFetcher
	detail.Gateway
	Rockets(ctx context.Context) ([]spacex.Rocket, error)
	Payloads(ctx context.Context) ([]spacex.Payload, error)
}

// Options configures a Dashboard.
type Options struct {
	PageSize int
	Locale   string
	Logger   *zap.Logger
}

// Dashboard is one session. Its rocket cache lives as long as it does.
type Dashboard struct {
	cache     *enrich.RocketCache
	launches  *view.Controller
	rockets   *view.Catalog[spacex.Rocket]
	payloads  *view.Catalog[spacex.Payload]
	assembler *detail.Assembler
	logger    *zap.Logger
}

// NewDashboard returns a session over gw.
func NewDashboard(gw Gateway, opts Options) (*Dashboard, error) {
	logger := logging.OrNop(opts.Logger)
	deriver, err := view.NewDeriverForLocale(opts.Locale)
	if err != nil {
		return nil, err
	}

	cache := enrich.NewRocketCache()
	pipeline := enrich.NewPipeline(gw, cache, logger)
	launches := view.NewController(gw, pipeline, view.WithLogger(logger), view.WithDeriver(deriver))
	if opts.PageSize > 0 {
		launches.SetPageSize(opts.PageSize)
	}

	return &Dashboard{
		cache:     cache,
		launches:  launches,
		rockets:   view.NewCatalog(gw.Rockets, view.MsgRocketsFailed, logger),
		payloads:  view.NewCatalog(gw.Payloads, view.MsgPayloadsFailed, logger),
		assembler: detail.NewAssembler(gw, cache, logger),
		logger:    logger,
	}, nil
}

// Launches returns the launches view controller.
func (d *Dashboard) Launches() *view.Controller { return d.launches }

// Cache returns the session's rocket cache.
func (d *Dashboard) Cache() *enrich.RocketCache { return d.cache }

// LaunchQuery selects one page of launches.
type LaunchQuery struct {
	Upcoming bool
	Year     string
	Status   string
	Sort     string
	Desc     bool
	Page     int
}

// ListLaunches loads the launches for q and returns the resulting view. Load
// failures are reported through the snapshot's Phase and Error; the returned
// error is for invalid queries only.
func (d *Dashboard) ListLaunches(ctx context.Context, q LaunchQuery) (view.Snapshot, error) {
	status, err := view.ParseStatus(q.Status)
	if err != nil {
		return view.Snapshot{}, err
	}
	key := view.SortByDate
	if strings.TrimSpace(q.Sort) != "" {
		if key, err = view.ParseSortKey(q.Sort); err != nil {
			return view.Snapshot{}, err
		}
	}

	mode := view.ModePast
	if q.Upcoming {
		mode = view.ModeUpcoming
	}

	d.launches.ToggleView(ctx, mode)
	year := q.Year
	if err := d.launches.UpdateFilter(&year, &status); err != nil {
		return view.Snapshot{}, err
	}
	if err := d.launches.SetSort(key, !q.Desc); err != nil {
		return view.Snapshot{}, err
	}
	d.launches.GoToPage(q.Page)

	return d.launches.Snapshot(), nil
}

// Rockets loads every rocket.
func (d *Dashboard) Rockets(ctx context.Context) view.CatalogSnapshot[spacex.Rocket] {
	d.rockets.Load(ctx)
	return d.rockets.Snapshot()
}

// Payloads loads every payload.
func (d *Dashboard) Payloads(ctx context.Context) view.CatalogSnapshot[spacex.Payload] {
	d.payloads.Load(ctx)
	return d.payloads.Snapshot()
}

// Detail assembles the detail view of launch id.
func (d *Dashboard) Detail(ctx context.Context, id string) (*detail.Detail, error) {
	return d.assembler.Assemble(ctx, id)
}
