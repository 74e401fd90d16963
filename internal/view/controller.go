package view

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vault-md/launchdeck/internal/enrich"
	"github.com/vault-md/launchdeck/internal/logging"
	"github.com/vault-md/launchdeck/internal/spacex"
)

// LaunchSource fetches the full launch listing for a mode.
type LaunchSource interface {
	PastLaunches(ctx context.Context) ([]spacex.Launch, error)
	UpcomingLaunches(ctx context.Context) ([]spacex.Launch, error)
}

// Snapshot is a copy of the controller's state at one point in time.
type Snapshot struct {
	State       State
	Phase       Phase
	Error       string
	Displayed   []spacex.Launch
	RocketNames map[string]string
	TotalPages  int
}

// Controller owns the launches view. Actions may be called from any
// goroutine; the lock is never held while fetching.
type Controller struct {
	source   LaunchSource
	pipeline *enrich.Pipeline
	deriver  Deriver
	logger   *zap.Logger

	mu        sync.Mutex
	state     State
	phase     Phase
	errMsg    string
	records   []spacex.Launch
	displayed []spacex.Launch
	gen       uint64
	cancel    context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = logging.OrNop(l).Named("view") }
}

// WithDeriver sets the collation used for sorting.
func WithDeriver(d Deriver) Option {
	return func(c *Controller) { c.deriver = d }
}

// NewController returns an idle controller showing nothing.
func NewController(source LaunchSource, pipeline *enrich.Pipeline, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		pipeline:  pipeline,
		logger:    zap.NewNop(),
		state:     DefaultState(),
		displayed: []spacex.Launch{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToggleView switches to mode, fetches its launches and resolves their
// rockets. It returns once the load finished or was superseded.
func (c *Controller) ToggleView(ctx context.Context, mode Mode) {
	c.load(ctx, mode)
}

// Retry repeats the last ToggleView.
func (c *Controller) Retry(ctx context.Context) {
	c.mu.Lock()
	mode := c.state.Mode
	c.mu.Unlock()
	c.load(ctx, mode)
}

func (c *Controller) load(parent context.Context, mode Mode) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.state.Mode = mode
	c.state.Page = 1
	c.phase = Loading
	c.errMsg = ""
	c.records = nil
	c.recompute()
	c.mu.Unlock()

	logger := c.logger.With(zap.String("mode", string(mode)), zap.Uint64("generation", gen))
	logger.Debug("loading launches")

	var (
		launches []spacex.Launch
		err      error
	)
	if mode == ModeUpcoming {
		launches, err = c.source.UpcomingLaunches(ctx)
	} else {
		launches, err = c.source.PastLaunches(ctx)
	}
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.current(gen) {
			logger.Debug("discarding superseded launch failure", zap.Error(err))
			return
		}
		logger.Warn(MsgLaunchesFailed, zap.Error(err))
		c.records = nil
		c.finish(Error, MsgLaunchesFailed)
		return
	}

	if !c.isCurrent(gen) {
		logger.Debug("discarding superseded launches")
		return
	}

	_, enrichErr := c.pipeline.Enrich(ctx, launches)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		logger.Debug("discarding superseded launches")
		return
	}
	c.records = launches
	if enrichErr != nil {
		logger.Warn(MsgRocketsFailed, zap.Error(enrichErr))
		c.finish(Error, MsgRocketsFailed)
		return
	}
	logger.Debug("launches loaded", zap.Int("count", len(launches)))
	c.finish(Ready, "")
}

func (c *Controller) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(gen)
}

// current reports whether gen is the latest load. c.mu must be held.
func (c *Controller) current(gen uint64) bool {
	return gen == c.gen
}

// finish ends the current load. c.mu must be held.
func (c *Controller) finish(phase Phase, msg string) {
	c.phase = phase
	c.errMsg = msg
	c.cancel = nil
	c.recompute()
}

// recompute refreshes the displayed set. c.mu must be held.
func (c *Controller) recompute() {
	c.displayed, c.state.Total = c.deriver.Derive(c.state, c.records, c.pipeline.Cache().Names())
}

// UpdateFilter changes the year and status filters without fetching. A nil
// argument leaves that filter as is. The view returns to the first page.
func (c *Controller) UpdateFilter(year *string, status *Status) error {
	var st Status
	if status != nil {
		var err error
		if st, err = ParseStatus(string(*status)); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if year != nil {
		c.state.Year = strings.TrimSpace(*year)
	}
	if status != nil {
		c.state.Status = st
	}
	c.state.Page = 1
	c.recompute()
	return nil
}

// ChangeSort sorts by key. Choosing the current key again flips the
// direction; a new key sorts ascending.
func (c *Controller) ChangeSort(key SortKey) error {
	key, err := ParseSortKey(string(key))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if key == c.state.SortKey {
		c.state.SortAsc = !c.state.SortAsc
	} else {
		c.state.SortKey = key
		c.state.SortAsc = true
	}
	c.recompute()
	return nil
}

// SetSort sorts by key in the given direction.
func (c *Controller) SetSort(key SortKey, asc bool) error {
	key, err := ParseSortKey(string(key))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SortKey = key
	c.state.SortAsc = asc
	c.recompute()
	return nil
}

// GoToPage shows page n. Pages below 1 are ignored.
func (c *Controller) GoToPage(n int) {
	if n < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = n
	c.recompute()
}

// SetPageSize changes the page size and returns to the first page. Sizes
// below 1 are ignored.
func (c *Controller) SetPageSize(n int) {
	if n < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PageSize = n
	c.state.Page = 1
	c.recompute()
}

// Snapshot returns a copy of the current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:       c.state,
		Phase:       c.phase,
		Error:       c.errMsg,
		Displayed:   slices.Clone(c.displayed),
		RocketNames: c.pipeline.Cache().Names(),
		TotalPages:  c.state.TotalPages(),
	}
}
