// Package detail builds the single-launch view: the launch, its rocket and
// its payloads.
package detail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vault-md/launchdeck/internal/enrich"
	"github.com/vault-md/launchdeck/internal/logging"
	"github.com/vault-md/launchdeck/internal/spacex"
)

// UnknownRocket names a rocket the API did not describe.
const UnknownRocket = "Unknown Rocket"

// Gateway is the subset of the API client the assembler needs.
type Gateway interface {
	Launch(ctx context.Context, id string) (*spacex.Launch, error)
	Rocket(ctx context.Context, id string) (*spacex.Rocket, error)
	PayloadsByIDs(ctx context.Context, ids []string) ([]spacex.Payload, error)
}

// RocketView is a rocket with every absent field replaced by a default.
type RocketView struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Active      bool     `json:"active" yaml:"active"`
	Stages      int      `json:"stages" yaml:"stages"`
	Description string   `json:"description" yaml:"description"`
	Images      []string `json:"flickr_images" yaml:"flickr_images"`
}

// NewRocketView normalises r. A nil rocket yields the placeholder view.
func NewRocketView(r *spacex.Rocket) RocketView {
	v := RocketView{Name: UnknownRocket, Images: []string{}}
	if r == nil {
		return v
	}
	v.ID = r.ID
	if r.Name != "" {
		v.Name = r.Name
	}
	v.Type = r.Type
	v.Active = r.Active
	v.Stages = max(r.Stages, 0)
	v.Description = r.Description
	if len(r.FlickrImages) > 0 {
		v.Images = append([]string(nil), r.FlickrImages...)
	}
	return v
}

// Detail is the consolidated single-launch view.
type Detail struct {
	Launch   spacex.Launch    `json:"launch" yaml:"launch"`
	Rocket   RocketView       `json:"rocket" yaml:"rocket"`
	Payloads []spacex.Payload `json:"payloads" yaml:"payloads"`
}

// Assembler fetches and joins the parts of a Detail.
type Assembler struct {
	gateway Gateway
	cache   *enrich.RocketCache
	logger  *zap.Logger
}

// NewAssembler returns an assembler. When cache is non-nil rockets are read
// through it and fetched rockets are added to it.
func NewAssembler(gw Gateway, cache *enrich.RocketCache, logger *zap.Logger) *Assembler {
	return &Assembler{
		gateway: gw,
		cache:   cache,
		logger:  logging.OrNop(logger).Named("detail"),
	}
}

// Assemble fetches launch id, then its rocket and payloads concurrently. The
// first failure fails the whole assembly.
func (a *Assembler) Assemble(ctx context.Context, id string) (*Detail, error) {
	launch, err := a.gateway.Launch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("assemble launch %s: %w", id, err)
	}

	var (
		rocket   *spacex.Rocket
		payloads []spacex.Payload
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := a.rocket(gctx, launch.Rocket)
		rocket = r
		return err
	})
	g.Go(func() error {
		if len(launch.Payloads) == 0 {
			payloads = []spacex.Payload{}
			return nil
		}
		p, err := a.gateway.PayloadsByIDs(gctx, launch.Payloads)
		payloads = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble launch %s: %w", id, err)
	}

	a.logger.Debug("assembled launch",
		zap.String("id", id),
		zap.String("rocket", launch.Rocket),
		zap.Int("payloads", len(payloads)),
	)

	return &Detail{
		Launch:   *launch,
		Rocket:   NewRocketView(rocket),
		Payloads: payloads,
	}, nil
}

func (a *Assembler) rocket(ctx context.Context, id string) (*spacex.Rocket, error) {
	if id == "" {
		return nil, nil
	}
	if a.cache != nil {
		if r, ok := a.cache.Get(id); ok {
			return &r, nil
		}
	}
	r, err := a.gateway.Rocket(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.cache != nil && r != nil && r.ID == id {
		a.cache.Put(*r)
	}
	return r, nil
}
