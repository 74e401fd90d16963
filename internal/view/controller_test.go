package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vault-md/launchdeck/internal/enrich"
	"github.com/vault-md/launchdeck/internal/spacex"
)

type fakeSource struct {
	mu       sync.Mutex
	past     []spacex.Launch
	upcoming []spacex.Launch
	pastErr  error
	upErr    error
	calls    map[Mode]int

	// when set, PastLaunches signals started and blocks until gate closes
	gate    chan struct{}
	started chan struct{}
	ctxErr  error
}

func (f *fakeSource) count(m Mode) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[m]
}

func (f *fakeSource) record(m Mode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[Mode]int)
	}
	f.calls[m]++
}

func (f *fakeSource) PastLaunches(ctx context.Context) ([]spacex.Launch, error) {
	f.record(ModePast)
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
		f.mu.Lock()
		f.ctxErr = ctx.Err()
		f.mu.Unlock()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.past, f.pastErr
}

func (f *fakeSource) UpcomingLaunches(context.Context) ([]spacex.Launch, error) {
	f.record(ModeUpcoming)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upcoming, f.upErr
}

type fakeRockets struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (f *fakeRockets) RocketsByIDs(_ context.Context, ids []string) ([]spacex.Rocket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("get rocket: HTTP 503")
	}
	out := make([]spacex.Rocket, 0, len(ids))
	for _, id := range ids {
		out = append(out, spacex.Rocket{ID: id, Name: "Rocket " + id})
	}
	return out, nil
}

func newTestController(src *fakeSource, rockets *fakeRockets) *Controller {
	return NewController(src, enrich.NewPipeline(rockets, nil, nil))
}

func pastFixture() []spacex.Launch {
	return []spacex.Launch{
		launch("p1", "FalconSat", "2006-03-24T22:30:00Z", boolPtr(false), "r1"),
		launch("p2", "DemoSat", "2007-03-21T01:10:00Z", boolPtr(false), "r1"),
		launch("p3", "RatSat", "2008-09-28T23:15:00Z", boolPtr(true), "r1"),
		launch("p4", "CRS-1", "2012-10-08T00:35:00Z", boolPtr(true), "r2"),
	}
}

func TestToggleViewLoadsAndEnriches(t *testing.T) {
	src := &fakeSource{past: pastFixture()}
	rockets := &fakeRockets{}
	c := newTestController(src, rockets)

	if got := c.Snapshot().Phase; got != Idle {
		t.Fatalf("expected idle before first load, got %s", got)
	}

	c.ToggleView(context.Background(), ModePast)

	snap := c.Snapshot()
	if snap.Phase != Ready || snap.Error != "" {
		t.Fatalf("expected ready, got %s %q", snap.Phase, snap.Error)
	}
	if snap.State.Total != 4 || len(snap.Displayed) != 4 {
		t.Fatalf("expected 4 launches, got total %d displayed %d", snap.State.Total, len(snap.Displayed))
	}
	if diff := cmp.Diff(map[string]string{"r1": "Rocket r1", "r2": "Rocket r2"}, snap.RocketNames); diff != "" {
		t.Fatalf("rocket names mismatch (-want +got):\n%s", diff)
	}
	if rockets.calls != 1 {
		t.Fatalf("expected one rocket fan-out, got %d", rockets.calls)
	}

	// a second load of the same mode finds every rocket cached
	c.ToggleView(context.Background(), ModePast)
	if rockets.calls != 1 {
		t.Fatalf("expected cached rockets to be reused, got %d fan-outs", rockets.calls)
	}
}

func TestToggleViewResetsPage(t *testing.T) {
	src := &fakeSource{past: pastFixture()}
	c := newTestController(src, &fakeRockets{})
	c.SetPageSize(2)
	c.ToggleView(context.Background(), ModePast)
	c.GoToPage(2)

	c.ToggleView(context.Background(), ModePast)
	if got := c.Snapshot().State.Page; got != 1 {
		t.Fatalf("expected page 1 after toggle, got %d", got)
	}
}

func TestToggleViewLaunchFailure(t *testing.T) {
	src := &fakeSource{upErr: errors.New("list upcoming launches: do request: connection refused")}
	c := newTestController(src, &fakeRockets{})

	c.ToggleView(context.Background(), ModeUpcoming)

	snap := c.Snapshot()
	if snap.Phase != Error || snap.Error != MsgLaunchesFailed {
		t.Fatalf("expected %q, got %s %q", MsgLaunchesFailed, snap.Phase, snap.Error)
	}
	if len(snap.Displayed) != 0 {
		t.Fatalf("expected nothing displayed, got %d", len(snap.Displayed))
	}
}

func TestToggleViewRocketFailureKeepsLaunches(t *testing.T) {
	src := &fakeSource{past: pastFixture()}
	c := newTestController(src, &fakeRockets{fail: true})

	c.ToggleView(context.Background(), ModePast)

	snap := c.Snapshot()
	if snap.Phase != Error || snap.Error != MsgRocketsFailed {
		t.Fatalf("expected %q, got %s %q", MsgRocketsFailed, snap.Phase, snap.Error)
	}
	if len(snap.Displayed) != 4 {
		t.Fatalf("expected launches to stay visible, got %d", len(snap.Displayed))
	}
	if len(snap.RocketNames) != 0 {
		t.Fatalf("expected no rocket names, got %v", snap.RocketNames)
	}
}

func TestRetryRepeatsLastMode(t *testing.T) {
	src := &fakeSource{upErr: errors.New("boom")}
	c := newTestController(src, &fakeRockets{})

	c.ToggleView(context.Background(), ModeUpcoming)
	if c.Snapshot().Phase != Error {
		t.Fatal("expected error after failing load")
	}

	src.mu.Lock()
	src.upErr = nil
	src.upcoming = []spacex.Launch{launch("u1", "Starlink", "2030-01-01T00:00:00Z", nil, "r1")}
	src.mu.Unlock()

	c.Retry(context.Background())

	snap := c.Snapshot()
	if snap.Phase != Ready || snap.State.Mode != ModeUpcoming {
		t.Fatalf("expected ready upcoming view, got %s %s", snap.Phase, snap.State.Mode)
	}
	if src.count(ModeUpcoming) != 2 || src.count(ModePast) != 0 {
		t.Fatalf("unexpected fetches: %v", src.calls)
	}
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	src := &fakeSource{
		past:     pastFixture(),
		upcoming: []spacex.Launch{launch("u1", "Starlink", "2030-01-01T00:00:00Z", nil, "r3")},
		gate:     make(chan struct{}),
		started:  make(chan struct{}, 1),
	}
	c := newTestController(src, &fakeRockets{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.ToggleView(context.Background(), ModePast)
	}()
	<-src.started

	c.ToggleView(context.Background(), ModeUpcoming)
	close(src.gate)
	<-done

	snap := c.Snapshot()
	if snap.State.Mode != ModeUpcoming || snap.Phase != Ready {
		t.Fatalf("expected ready upcoming view, got %s %s", snap.Phase, snap.State.Mode)
	}
	if diff := cmp.Diff([]string{"u1"}, ids(snap.Displayed)); diff != "" {
		t.Fatalf("stale launches leaked into the view (-want +got):\n%s", diff)
	}
	if _, ok := snap.RocketNames["r1"]; ok {
		t.Fatal("stale load must not enrich rockets")
	}
	src.mu.Lock()
	defer src.mu.Unlock()
	if !errors.Is(src.ctxErr, context.Canceled) {
		t.Fatalf("expected superseded load to be cancelled, got %v", src.ctxErr)
	}
}

func TestLoadingClearsPreviousRecords(t *testing.T) {
	src := &fakeSource{past: pastFixture()}
	c := newTestController(src, &fakeRockets{})
	c.SetPageSize(2)
	c.ToggleView(context.Background(), ModePast)
	c.GoToPage(2)
	if got := len(c.Snapshot().Displayed); got != 2 {
		t.Fatalf("expected a full second page, got %d", got)
	}

	src.gate = make(chan struct{})
	src.started = make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Retry(context.Background())
	}()
	<-src.started

	snap := c.Snapshot()
	if snap.Phase != Loading || snap.State.Page != 1 {
		t.Fatalf("expected loading on page 1, got %s page %d", snap.Phase, snap.State.Page)
	}
	if len(snap.Displayed) != 0 || snap.State.Total != 0 {
		t.Fatalf("expected no rows while loading, got %v (total %d)", ids(snap.Displayed), snap.State.Total)
	}

	// filters applied mid-load derive over nothing
	year := "2006"
	if err := c.UpdateFilter(&year, nil); err != nil {
		t.Fatalf("UpdateFilter: %v", err)
	}
	if got := c.Snapshot().Displayed; len(got) != 0 {
		t.Fatalf("expected no rows while loading, got %v", ids(got))
	}

	close(src.gate)
	<-done
	if got := c.Snapshot(); got.Phase != Ready || got.State.Total == 0 {
		t.Fatalf("expected reloaded launches, got %s total %d", got.Phase, got.State.Total)
	}
}

func TestGoToPageIgnoresInvalidPages(t *testing.T) {
	src := &fakeSource{past: pastFixture()}
	c := newTestController(src, &fakeRockets{})
	c.SetPageSize(2)
	c.ToggleView(context.Background(), ModePast)
	c.GoToPage(2)
	before := c.Snapshot()

	for _, n := range []int{0, -1} {
		c.GoToPage(n)
		if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
			t.Fatalf("GoToPage(%d) changed state (-before +after):\n%s", n, diff)
		}
	}

	if got := ids(before.Displayed); !cmp.Equal(got, []string{"p3", "p4"}) {
		t.Fatalf("expected second page [p3 p4], got %v", got)
	}
}

func TestUpdateFilterDoesNotFetch(t *testing.T) {
	src := &fakeSource{past: pastFixture()}
	c := newTestController(src, &fakeRockets{})
	c.ToggleView(context.Background(), ModePast)

	year := "2008"
	success := StatusSuccess
	if err := c.UpdateFilter(&year, &success); err != nil {
		t.Fatalf("UpdateFilter: %v", err)
	}

	snap := c.Snapshot()
	if src.count(ModePast) != 1 {
		t.Fatalf("expected no refetch, got %d fetches", src.count(ModePast))
	}
	if snap.Phase != Ready {
		t.Fatalf("expected ready, got %s", snap.Phase)
	}
	if diff := cmp.Diff([]string{"p3"}, ids(snap.Displayed)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}

	// nil leaves the year in place
	all := StatusAll
	if err := c.UpdateFilter(nil, &all); err != nil {
		t.Fatalf("UpdateFilter: %v", err)
	}
	if got := c.Snapshot().State.Year; got != "2008" {
		t.Fatalf("expected year to stay 2008, got %q", got)
	}
}

func TestUpdateFilterRejectsUnknownStatus(t *testing.T) {
	c := newTestController(&fakeSource{past: pastFixture()}, &fakeRockets{})
	c.ToggleView(context.Background(), ModePast)
	before := c.Snapshot()

	year := "2006"
	bogus := Status("partial")
	if err := c.UpdateFilter(&year, &bogus); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
		t.Fatalf("rejected filter changed state (-before +after):\n%s", diff)
	}
}

func TestChangeSortFlipsDirection(t *testing.T) {
	src := &fakeSource{past: []spacex.Launch{
		launch("z", "Zeta", "2020-01-01T00:00:00Z", boolPtr(true), ""),
		launch("a", "Alpha", "2020-01-02T00:00:00Z", boolPtr(true), ""),
	}}
	c := newTestController(src, &fakeRockets{})
	c.ToggleView(context.Background(), ModePast)

	if err := c.ChangeSort(SortByName); err != nil {
		t.Fatalf("ChangeSort: %v", err)
	}
	if got := names(c.Snapshot().Displayed); !cmp.Equal(got, []string{"Alpha", "Zeta"}) {
		t.Fatalf("expected ascending names, got %v", got)
	}

	if err := c.ChangeSort(SortByName); err != nil {
		t.Fatalf("ChangeSort: %v", err)
	}
	snap := c.Snapshot()
	if snap.State.SortAsc {
		t.Fatal("expected descending after choosing the same key again")
	}
	if got := names(snap.Displayed); !cmp.Equal(got, []string{"Zeta", "Alpha"}) {
		t.Fatalf("expected descending names, got %v", got)
	}

	if err := c.ChangeSort(SortByDate); err != nil {
		t.Fatalf("ChangeSort: %v", err)
	}
	if !c.Snapshot().State.SortAsc {
		t.Fatal("expected a new key to sort ascending")
	}
	if err := c.ChangeSort("payload"); err == nil {
		t.Fatal("expected error for unknown sort key")
	}
}

func TestCatalogLoad(t *testing.T) {
	fail := true
	cat := NewCatalog(func(context.Context) ([]spacex.Rocket, error) {
		if fail {
			return nil, errors.New("list rockets: HTTP 500")
		}
		return []spacex.Rocket{{ID: "r1", Name: "Falcon 1"}}, nil
	}, MsgRocketsFailed, nil)

	if got := cat.Snapshot().Phase; got != Idle {
		t.Fatalf("expected idle, got %s", got)
	}

	cat.Load(context.Background())
	snap := cat.Snapshot()
	if snap.Phase != Error || snap.Error != MsgRocketsFailed || len(snap.Items) != 0 {
		t.Fatalf("unexpected snapshot after failure: %+v", snap)
	}

	fail = false
	cat.Retry(context.Background())
	snap = cat.Snapshot()
	if snap.Phase != Ready || snap.Error != "" || len(snap.Items) != 1 {
		t.Fatalf("unexpected snapshot after retry: %+v", snap)
	}
}

func TestLoadFailureIsLoggedWithCause(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := &fakeSource{pastErr: errors.New("get past launches: do request: connection refused")}
	c := NewController(src, enrich.NewPipeline(&fakeRockets{}, nil, nil), WithLogger(zap.New(core)))

	c.ToggleView(context.Background(), ModePast)

	entries := logs.FilterMessage(MsgLaunchesFailed).All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["error"] != "get past launches: do request: connection refused" {
		t.Fatalf("expected underlying cause in log, got %v", fields)
	}
	if fields["mode"] != "past" {
		t.Fatalf("expected mode field, got %v", fields)
	}
}
