package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"jarrib-bot/internal/api/jarrib"
)

type fakeSearcher struct {
	mu    sync.Mutex
	calls []jarrib.ListingSearchParams
	err   error
}

func (f *fakeSearcher) SearchListings(ctx context.Context, p jarrib.ListingSearchParams) (*jarrib.ListingsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, f.err
	}
	return &jarrib.ListingsResponse{
		Listings:   []jarrib.Listing{{ID: fmt.Sprintf("call-%d", len(f.calls))}},
		Pagination: jarrib.Pagination{Page: p.Page, Limit: p.Limit, Total: 1, Pages: 1},
	}, nil
}

// gatedSearcher holds every response until the test releases it
type gatedSearcher struct {
	mu      sync.Mutex
	calls   []jarrib.ListingSearchParams
	gates   []chan struct{}
	started chan int
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{started: make(chan int, 8)}
}

func (g *gatedSearcher) SearchListings(ctx context.Context, p jarrib.ListingSearchParams) (*jarrib.ListingsResponse, error) {
	g.mu.Lock()
	idx := len(g.calls)
	g.calls = append(g.calls, p)
	gate := make(chan struct{})
	g.gates = append(g.gates, gate)
	g.mu.Unlock()

	g.started <- idx
	// the server answers even after the client gave up
	<-gate

	return &jarrib.ListingsResponse{
		Listings: []jarrib.Listing{{ID: fmt.Sprintf("resp-%d", idx)}},
	}, nil
}

func (g *gatedSearcher) release(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[idx])
}

func waitStarted(t *testing.T, g *gatedSearcher, want int) {
	t.Helper()
	select {
	case got := <-g.started:
		if got != want {
			t.Fatalf("started request %d, want %d", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("request %d never started", want)
	}
}

func TestFetchUsesFixedPageSize(t *testing.T) {
	searcher := &fakeSearcher{}
	f := NewFetcher(searcher, nil)

	res, err := f.Fetch(context.Background(), Parse("q=art&page=2"), nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if searcher.calls[0].Limit != BrowsePageSize || searcher.calls[0].Page != 2 {
		t.Fatalf("params = %+v", searcher.calls[0])
	}
	if len(res.Summaries) != 1 || res.Summaries[0].ID != "call-1" {
		t.Fatalf("summaries = %+v", res.Summaries)
	}
	if latest, ok := f.Latest(); !ok || latest != res {
		t.Fatal("Latest() is not the settled result")
	}
	if f.Loading() {
		t.Fatal("still loading after settle")
	}
}

func TestFetchFailureKeepsPreviousResult(t *testing.T) {
	searcher := &fakeSearcher{}
	var reported []error
	f := NewFetcher(searcher, func(err error, q QueryState) { reported = append(reported, err) })

	first, err := f.Fetch(context.Background(), DefaultState(), nil)
	if err != nil {
		t.Fatalf("first Fetch: %v", err)
	}

	searcher.err = errors.New("502")
	delivered := false
	if _, err := f.Fetch(context.Background(), Parse("q=x"), func(*Result) error {
		delivered = true
		return nil
	}); err == nil {
		t.Fatal("expected error")
	}

	if delivered {
		t.Fatal("failed fetch was delivered")
	}
	if len(reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(reported))
	}
	if latest, _ := f.Latest(); latest != first {
		t.Fatal("failed fetch replaced the previous result")
	}
	if len(searcher.calls) != 2 {
		t.Fatalf("calls = %d, failures must not retry", len(searcher.calls))
	}
}

// Clearing minPrice from q=pottery&minPrice=10&maxPrice=50&page=2 keeps
// the rest, drops the page and costs exactly one request.
func TestClearMinPriceScenario(t *testing.T) {
	searcher := &fakeSearcher{}
	fetcher := NewFetcher(searcher, nil)
	store := NewStore("q=pottery&minPrice=10&maxPrice=50&page=2", nil)

	store.Subscribe(func(q QueryState) {
		fetcher.Fetch(context.Background(), q, nil)
	})

	filters := SetValue(store.Read().Filters, FilterMinPrice, "")
	store.Write(Update{Filters: filters, ReplaceFilters: true})

	if got, want := store.Raw(), "q=pottery&maxPrice=50"; got != want {
		t.Fatalf("location = %q, want %q", got, want)
	}
	if len(searcher.calls) != 1 {
		t.Fatalf("fetches = %d, want 1", len(searcher.calls))
	}

	p := searcher.calls[0]
	if p.Query != "pottery" || p.MaxPrice != "50" || p.MinPrice != "" || p.Page != 1 {
		t.Fatalf("params = %+v", p)
	}
}

// Two rapid changes: the late response of the first request must never
// reach the grid.
func TestStaleResponseIsDropped(t *testing.T) {
	searcher := newGatedSearcher()
	fetcher := NewFetcher(searcher, nil)
	store := NewStore("", nil)

	var (
		renderMu sync.Mutex
		rendered []string
	)
	done := make(chan error, 2)

	store.Subscribe(func(q QueryState) {
		go func() {
			_, err := fetcher.Fetch(context.Background(), q, func(r *Result) error {
				renderMu.Lock()
				defer renderMu.Unlock()
				rendered = append(rendered, r.Listings[0].ID)
				return nil
			})
			done <- err
		}()
	})

	store.Write(Update{Filters: FilterState{FilterCategory: "music"}})
	waitStarted(t, searcher, 0)

	store.Write(Update{Filters: FilterState{FilterArea: "salmiya"}})
	waitStarted(t, searcher, 1)

	searcher.release(1)
	if err := <-done; err != nil {
		t.Fatalf("newest fetch: %v", err)
	}

	searcher.release(0)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("stale fetch err = %v, want ErrSuperseded", err)
	}

	renderMu.Lock()
	defer renderMu.Unlock()
	if len(rendered) != 1 || rendered[0] != "resp-1" {
		t.Fatalf("rendered = %v, want [resp-1]", rendered)
	}

	latest, _ := fetcher.Latest()
	if latest.Listings[0].ID != "resp-1" {
		t.Fatalf("latest = %s", latest.Listings[0].ID)
	}

	final := searcher.calls[1]
	if final.Category != "music" || final.Area != "salmiya" {
		t.Fatalf("final request = %+v, want combined state", final)
	}
}

type memLocations struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memLocations) GetLocation(ctx context.Context, userID int64, view string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[fmt.Sprintf("%d/%s", userID, view)], nil
}

func (m *memLocations) SaveLocation(ctx context.Context, userID int64, view, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[fmt.Sprintf("%d/%s", userID, view)] = raw
	return nil
}

func TestRegistryRestoresAndPersists(t *testing.T) {
	locs := &memLocations{data: map[string]string{"7/browse": "q=oud&page=2"}}
	var changes int
	reg := NewRegistry("browse", locs, &fakeSearcher{}, nil, func(v *View, q QueryState) { changes++ })

	v, err := reg.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Store.Read().Page != 2 {
		t.Fatalf("restored state = %+v", v.Store.Read())
	}

	again, _ := reg.Get(context.Background(), 7)
	if again != v {
		t.Fatal("registry built a second view for the same chat")
	}

	v.Store.Write(Update{Sort: StringPtr(SortPriceLow)})
	if changes != 1 {
		t.Fatalf("changes = %d", changes)
	}
	if got := locs.data["7/browse"]; got != "q=oud&sort=price-low" {
		t.Fatalf("persisted = %q", got)
	}
}

func TestViewCategoriesLoadedOnce(t *testing.T) {
	reg := NewRegistry("browse", &memLocations{data: map[string]string{}}, &fakeSearcher{}, nil, nil)
	v, _ := reg.Get(context.Background(), 1)

	loads := 0
	load := func(ctx context.Context) ([]jarrib.Category, error) {
		loads++
		return []jarrib.Category{{Slug: "music"}}, nil
	}

	for i := 0; i < 3; i++ {
		cats, err := v.Categories(context.Background(), load)
		if err != nil || len(cats) != 1 {
			t.Fatalf("Categories: %v %v", cats, err)
		}
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1", loads)
	}

	if !v.IsExpanded(SectionCategory) || v.IsExpanded(SectionDays) {
		t.Fatal("unexpected default sections")
	}
	if !v.ToggleSection(SectionDays) {
		t.Fatal("ToggleSection did not expand")
	}
}
