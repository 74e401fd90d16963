package spacex

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RocketsByIDs fetches each rocket concurrently, one request per distinct
// identifier. It fails as a whole with the first error observed. Results
// follow the first-seen order of ids.
func (c *Client) RocketsByIDs(ctx context.Context, ids []string) ([]Rocket, error) {
	return fanOut(ctx, distinct(ids), c.Rocket)
}

// PayloadsByIDs fetches each listed payload concurrently with the same
// fail-fast semantics as RocketsByIDs. Repeated identifiers are fetched
// and returned once per occurrence.
func (c *Client) PayloadsByIDs(ctx context.Context, ids []string) ([]Payload, error) {
	return fanOut(ctx, ids, c.Payload)
}

func fanOut[T any](ctx context.Context, ids []string, fetch func(context.Context, string) (*T, error)) ([]T, error) {
	out := make([]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := fetch(gctx, id)
			if err != nil {
				return err
			}
			out[i] = *rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
