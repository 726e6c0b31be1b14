package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/models"
)

// BrowsePageSize is fixed for the discovery view
const BrowsePageSize = 12

// ErrSuperseded is returned when a newer query was issued while the
// request was in flight. Its response is dropped.
var ErrSuperseded = errors.New("browse: superseded by a newer query")

type Searcher interface {
	SearchListings(ctx context.Context, params jarrib.ListingSearchParams) (*jarrib.ListingsResponse, error)
}

// ErrorReporter receives failed fetches, nothing is shown to the user
type ErrorReporter func(err error, q QueryState)

type Result struct {
	Query      QueryState
	Listings   []jarrib.Listing
	Summaries  []models.ListingSummary
	Pagination jarrib.Pagination
}

// Fetcher issues one search per query state and keeps the latest result.
// There is no retry, caching or dedup.
type Fetcher struct {
	searcher Searcher
	report   ErrorReporter

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	latest  *Result

	// serializes delivery so an older response can never be rendered
	// after a newer one
	renderMu sync.Mutex
}

func NewFetcher(searcher Searcher, report ErrorReporter) *Fetcher {
	return &Fetcher{
		searcher: searcher,
		report:   report,
	}
}

func SearchParams(q QueryState) jarrib.ListingSearchParams {
	return jarrib.ListingSearchParams{
		Query:          q.Query,
		Category:       q.Filters.Get(FilterCategory),
		Area:           q.Filters.Get(FilterArea),
		MinPrice:       q.Filters.Get(FilterMinPrice),
		MaxPrice:       q.Filters.Get(FilterMaxPrice),
		Days:           q.Filters.Get(FilterDays),
		SkillLevel:     q.Filters.Get(FilterSkillLevel),
		CommitmentType: q.Filters.Get(FilterCommitmentType),
		Sort:           q.Sort,
		Page:           q.Page,
		Limit:          BrowsePageSize,
	}
}

// Fetch searches for q and cancels any request still in flight. When
// deliver is set it is called with the result, unless a newer Fetch has
// started by then. On failure the previous result is kept.
func (f *Fetcher) Fetch(ctx context.Context, q QueryState, deliver func(*Result) error) (*Result, error) {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	seq := f.seq
	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.loading = true
	f.mu.Unlock()
	defer cancel()

	resp, err := f.searcher.SearchListings(reqCtx, SearchParams(q))

	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		return nil, ErrSuperseded
	}
	f.loading = false
	f.cancel = nil

	if err != nil {
		f.mu.Unlock()
		if f.report != nil {
			f.report(err, q)
		}
		return nil, fmt.Errorf("fetch listings: %w", err)
	}

	result := &Result{
		Query:      q.Clone(),
		Listings:   resp.Listings,
		Summaries:  models.SummarizeAll(resp.Listings),
		Pagination: resp.Pagination,
	}
	f.latest = result
	f.mu.Unlock()

	if deliver == nil {
		return result, nil
	}

	f.renderMu.Lock()
	defer f.renderMu.Unlock()

	if !f.isCurrent(seq) {
		return nil, ErrSuperseded
	}

	return result, deliver(result)
}

func (f *Fetcher) isCurrent(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seq == f.seq
}

// Latest returns the newest settled result
func (f *Fetcher) Latest() (*Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.latest != nil
}

func (f *Fetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}
