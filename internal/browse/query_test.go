package browse

import "testing"

func TestParseDefaults(t *testing.T) {
	tests := []struct {
		raw  string
		want QueryState
	}{
		{"", DefaultState()},
		{"page=abc", DefaultState()},
		{"page=0", DefaultState()},
		{"page=-3", DefaultState()},
		{"sort=cheapest", DefaultState()},
		{"category=&area=", DefaultState()},
		{"?q=%zz&page=2", QueryState{Filters: FilterState{}, Sort: SortNewest, Page: 2}},
	}

	for _, tt := range tests {
		got := Parse(tt.raw)
		if !got.Equal(tt.want) || got.Page != tt.want.Page || got.Sort != tt.want.Sort {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestParseFull(t *testing.T) {
	got := Parse("q=pottery+wheel&category=arts&area=salmiya,hawalli&minPrice=10&maxPrice=50&days=friday&skillLevel=beginner&commitmentType=workshop&sort=price-low&page=3")

	if got.Query != "pottery wheel" {
		t.Errorf("Query = %q", got.Query)
	}
	if got.Sort != SortPriceLow || got.Page != 3 {
		t.Errorf("Sort/Page = %q/%d", got.Sort, got.Page)
	}
	if vals := got.Filters.Values(FilterArea); len(vals) != 2 || vals[0] != "salmiya" || vals[1] != "hawalli" {
		t.Errorf("area = %v", vals)
	}
	if got.Filters.Active() != 7 {
		t.Errorf("Active() = %d", got.Filters.Active())
	}
}

func TestEncodeCanonical(t *testing.T) {
	s := QueryState{
		Filters: FilterState{
			FilterCommitmentType: "course",
			FilterArea:           "salmiya,online",
			FilterCategory:       "music",
		},
		Query: "oud",
		Sort:  SortNewest,
		Page:  1,
	}

	want := "q=oud&category=music&area=salmiya,online&commitmentType=course"
	if got := s.Encode(); got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}

	s.Sort = SortPriceHigh
	s.Page = 4
	want += "&sort=price-high&page=4"
	if got := s.Encode(); got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	states := []QueryState{
		DefaultState(),
		{Filters: FilterState{FilterMinPrice: "5"}, Query: "arabic calligraphy", Sort: SortPriceLow, Page: 2},
		{Filters: FilterState{FilterDays: "saturday,monday", FilterSkillLevel: "all"}, Sort: SortNewest, Page: 9},
		{Filters: FilterState{FilterCategory: "a&b=c"}, Query: "100% fun?", Sort: SortNewest, Page: 1},
	}

	for _, s := range states {
		raw := s.Encode()
		back := Parse(raw)
		if back.Encode() != raw || back.Query != s.Query || back.Page != s.Page || back.Sort != s.Sort || !back.Filters.Equal(s.Filters) {
			t.Errorf("round trip of %+v via %q gave %+v", s, raw, back)
		}
	}
}

func TestApplyResetsPage(t *testing.T) {
	base := Parse("q=yoga&page=4")

	tests := []struct {
		name string
		u    Update
		page int
	}{
		{"filter write", Update{Filters: FilterState{FilterArea: "salmiya"}}, 1},
		{"filter delete", Update{Filters: FilterState{FilterCategory: ""}}, 1},
		{"search", Update{Query: StringPtr("pilates")}, 1},
		{"sort", Update{Sort: StringPtr(SortPriceHigh)}, 1},
		{"replace filters", Update{ReplaceFilters: true}, 1},
		{"page only", Update{Page: IntPtr(5)}, 5},
		{"filter with explicit page", Update{Filters: FilterState{FilterArea: "online"}, Page: IntPtr(3)}, 3},
		{"empty update", Update{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(base, tt.u)
			if got.Page != tt.page {
				t.Errorf("page = %d, want %d", got.Page, tt.page)
			}
		})
	}

	if base.Page != 4 {
		t.Fatal("Apply mutated its input")
	}
}

func TestApplyReplaceFilters(t *testing.T) {
	base := Parse("category=music&area=salmiya&minPrice=3")
	got := Apply(base, Update{
		Filters:        FilterState{FilterDays: "friday"},
		ReplaceFilters: true,
	})

	if want := "days=friday"; got.Encode() != want {
		t.Fatalf("Encode() = %q, want %q", got.Encode(), want)
	}
	if base.Filters.Get(FilterCategory) != "music" {
		t.Fatal("Apply mutated input filters")
	}
}

func TestApplyIgnoresUnknownKeys(t *testing.T) {
	got := Apply(DefaultState(), Update{Filters: FilterState{"timeOfDay": "morning"}})
	if got.Encode() != "" {
		t.Fatalf("Encode() = %q", got.Encode())
	}
}

func TestToggleMulti(t *testing.T) {
	f := FilterState{FilterArea: "salmiya"}

	once := ToggleMulti(f, FilterArea, "hawalli")
	if once.Get(FilterArea) != "salmiya,hawalli" {
		t.Fatalf("after add: %q", once.Get(FilterArea))
	}

	twice := ToggleMulti(once, FilterArea, "hawalli")
	if !twice.Equal(f) {
		t.Fatalf("toggling twice = %v, want %v", twice, f)
	}

	empty := ToggleMulti(f, FilterArea, "salmiya")
	if _, ok := empty[FilterArea]; ok {
		t.Fatalf("emptied list must delete the key: %v", empty)
	}

	if f.Get(FilterArea) != "salmiya" {
		t.Fatal("ToggleMulti mutated its input")
	}
}

func TestToggleSingle(t *testing.T) {
	f := ToggleSingle(FilterState{}, FilterCategory, "music")
	if f.Get(FilterCategory) != "music" {
		t.Fatalf("select: %v", f)
	}
	f = ToggleSingle(f, FilterCategory, "art")
	if f.Get(FilterCategory) != "art" {
		t.Fatalf("switch: %v", f)
	}
	f = ToggleSingle(f, FilterCategory, "art")
	if f.Active() != 0 {
		t.Fatalf("reselect must clear: %v", f)
	}
}

func TestSetValue(t *testing.T) {
	f := SetValue(FilterState{}, FilterMinPrice, " 10 ")
	if f.Get(FilterMinPrice) != "10" {
		t.Fatalf("SetValue = %v", f)
	}
	f = SetValue(f, FilterMinPrice, "")
	if f.Active() != 0 {
		t.Fatalf("SetValue empty = %v", f)
	}
}
