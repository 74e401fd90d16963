// Package enrich resolves the rocket references carried by launch records into
// a session-scoped rocket lookup.
package enrich

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/vault-md/launchdeck/internal/logging"
	"github.com/vault-md/launchdeck/internal/spacex"
)

// RocketFetcher fetches a batch of rockets, failing as a whole when any one
// request fails.
type RocketFetcher interface {
	RocketsByIDs(ctx context.Context, ids []string) ([]spacex.Rocket, error)
}

// Pipeline fills a RocketCache with the rockets referenced by launches.
type Pipeline struct {
	fetcher RocketFetcher
	cache   *RocketCache
	logger  *zap.Logger
}

// Result describes one enrichment pass.
type Result struct {
	// Requested lists the identifiers fetched, sorted. Empty when every
	// reference was already cached.
	Requested []string
	// Merged counts the records added to the cache.
	Merged int
}

// NewPipeline returns a pipeline that fetches through f into cache. A nil
// cache starts a fresh one.
func NewPipeline(f RocketFetcher, cache *RocketCache, logger *zap.Logger) *Pipeline {
	if cache == nil {
		cache = NewRocketCache()
	}
	return &Pipeline{
		fetcher: f,
		cache:   cache,
		logger:  logging.OrNop(logger).Named("enrich"),
	}
}

// Cache returns the lookup the pipeline writes to.
func (p *Pipeline) Cache() *RocketCache {
	return p.cache
}

// Missing returns the distinct rocket identifiers referenced by launches that
// are not cached yet, sorted. Launches without a rocket reference are skipped.
func (p *Pipeline) Missing(launches []spacex.Launch) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, l := range launches {
		if l.Rocket == "" {
			continue
		}
		if _, ok := seen[l.Rocket]; ok {
			continue
		}
		seen[l.Rocket] = struct{}{}
		if p.cache.Has(l.Rocket) {
			continue
		}
		ids = append(ids, l.Rocket)
	}
	sort.Strings(ids)
	return ids
}

// Enrich fetches every missing rocket in one fan-out and merges the results.
// When nothing is missing it returns immediately without a request. On
// failure the cache is left untouched and the fetch error is returned.
func (p *Pipeline) Enrich(ctx context.Context, launches []spacex.Launch) (Result, error) {
	ids := p.Missing(launches)
	if len(ids) == 0 {
		return Result{}, nil
	}

	p.logger.Debug("fetching rockets", zap.Strings("ids", ids))

	rockets, err := p.fetcher.RocketsByIDs(ctx, ids)
	if err != nil {
		return Result{Requested: ids}, err
	}

	requested := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}

	keep := make([]spacex.Rocket, 0, len(rockets))
	for _, r := range rockets {
		if _, ok := requested[r.ID]; !ok {
			p.logger.Debug("ignoring rocket not requested", zap.String("id", r.ID))
			continue
		}
		keep = append(keep, r)
	}
	p.cache.merge(keep)

	return Result{Requested: ids, Merged: len(keep)}, nil
}
