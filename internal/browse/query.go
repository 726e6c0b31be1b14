// Package browse keeps the listing discovery state of a chat.
//
// The browse location (a raw query string) is the only source of truth.
// QueryState is derived from it with Parse and written back with Encode,
// so a location copied into another chat reproduces the same view.
package browse

import (
	"net/url"
	"strconv"
	"strings"
)

type FilterKey string

const (
	FilterCategory       FilterKey = "category"
	FilterArea           FilterKey = "area"
	FilterMinPrice       FilterKey = "minPrice"
	FilterMaxPrice       FilterKey = "maxPrice"
	FilterDays           FilterKey = "days"
	FilterSkillLevel     FilterKey = "skillLevel"
	FilterCommitmentType FilterKey = "commitmentType"
)

// FilterKeys in canonical encoding order
var FilterKeys = []FilterKey{
	FilterCategory,
	FilterArea,
	FilterMinPrice,
	FilterMaxPrice,
	FilterDays,
	FilterSkillLevel,
	FilterCommitmentType,
}

// Multi reports whether the key holds a comma joined list
func (k FilterKey) Multi() bool {
	switch k {
	case FilterArea, FilterDays, FilterSkillLevel, FilterCommitmentType:
		return true
	}
	return false
}

func (k FilterKey) Valid() bool {
	for _, known := range FilterKeys {
		if k == known {
			return true
		}
	}
	return false
}

const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

func validSort(s string) bool {
	return s == SortNewest || s == SortPriceLow || s == SortPriceHigh
}

const (
	paramQuery = "q"
	paramSort  = "sort"
	paramPage  = "page"
)

// FilterState maps a filter key to its value. A missing key means no
// constraint, empty values are never stored.
type FilterState map[FilterKey]string

func (f FilterState) Get(key FilterKey) string {
	return f[key]
}

// Values splits a multi select value into its members
func (f FilterState) Values(key FilterKey) []string {
	v := f[key]
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func (f FilterState) Has(key FilterKey, value string) bool {
	for _, v := range f.Values(key) {
		if v == value {
			return true
		}
	}
	return false
}

func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func (f FilterState) Equal(other FilterState) bool {
	a, b := f.Clone(), other.Clone()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Active counts the filters that constrain results
func (f FilterState) Active() int {
	n := 0
	for _, v := range f {
		if v != "" {
			n++
		}
	}
	return n
}

// QueryState is the full description of what the browse view shows
type QueryState struct {
	Filters FilterState
	Query   string
	Sort    string
	Page    int
}

func DefaultState() QueryState {
	return QueryState{
		Filters: FilterState{},
		Sort:    SortNewest,
		Page:    1,
	}
}

// Parse never fails, malformed parts fall back to defaults
func Parse(raw string) QueryState {
	state := DefaultState()

	// ParseQuery keeps every pair it could decode even when it errors
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))

	state.Query = strings.TrimSpace(values.Get(paramQuery))

	if sort := values.Get(paramSort); validSort(sort) {
		state.Sort = sort
	}

	if page, err := strconv.Atoi(values.Get(paramPage)); err == nil && page >= 1 {
		state.Page = page
	}

	for _, key := range FilterKeys {
		if v := strings.TrimSpace(values.Get(string(key))); v != "" {
			state.Filters[key] = v
		}
	}

	return state
}

// Encode writes the canonical query string: fixed key order, empty
// values dropped, sort=newest and page=1 omitted.
func (s QueryState) Encode() string {
	var parts []string

	add := func(key, value string) {
		if value == "" {
			return
		}
		escaped := strings.ReplaceAll(url.QueryEscape(value), "%2C", ",")
		parts = append(parts, key+"="+escaped)
	}

	add(paramQuery, s.Query)
	for _, key := range FilterKeys {
		add(string(key), s.Filters[key])
	}
	if s.Sort != "" && s.Sort != SortNewest {
		add(paramSort, s.Sort)
	}
	if s.Page > 1 {
		add(paramPage, strconv.Itoa(s.Page))
	}

	return strings.Join(parts, "&")
}

func (s QueryState) Equal(other QueryState) bool {
	return s.Encode() == other.Encode()
}

func (s QueryState) Clone() QueryState {
	s.Filters = s.Filters.Clone()
	return s
}

// Update describes one write to the browse location. Nil fields are left
// untouched, empty strings remove the parameter.
type Update struct {
	Query *string
	Sort  *string
	Page  *int

	// Filters lists the keys to write. With ReplaceFilters the whole
	// filter set is replaced instead.
	Filters        FilterState
	ReplaceFilters bool
}

func StringPtr(s string) *string { return &s }

func IntPtr(n int) *int { return &n }

// Apply merges u into s. Any write to the query, the sort or a filter
// resets the page to 1 unless u sets the page itself.
func Apply(s QueryState, u Update) QueryState {
	next := s.Clone()
	resetPage := false

	if u.Query != nil {
		next.Query = strings.TrimSpace(*u.Query)
		resetPage = true
	}

	if u.Sort != nil {
		next.Sort = *u.Sort
		if !validSort(next.Sort) {
			next.Sort = SortNewest
		}
		resetPage = true
	}

	if u.ReplaceFilters {
		next.Filters = FilterState{}
		resetPage = true
	}
	for key, value := range u.Filters {
		if !key.Valid() {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			delete(next.Filters, key)
		} else {
			next.Filters[key] = value
		}
		resetPage = true
	}

	if resetPage {
		next.Page = 1
	}

	if u.Page != nil {
		next.Page = *u.Page
		if next.Page < 1 {
			next.Page = 1
		}
	}

	return next
}
