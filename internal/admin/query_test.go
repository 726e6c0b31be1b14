package admin

import "testing"

func TestParseListingsDefaults(t *testing.T) {
	cases := []struct {
		raw  string
		want ListingsQuery
	}{
		{"", ListingsQuery{Status: StatusAll, Page: 1}},
		{"status=pending&page=3", ListingsQuery{Status: StatusPending, Page: 3}},
		{"status=bogus&page=-2", ListingsQuery{Status: StatusAll, Page: 1}},
		{"?search=+yoga+&page=x", ListingsQuery{Status: StatusAll, Search: "yoga", Page: 1}},
	}

	for _, tc := range cases {
		if got := ParseListings(tc.raw); got != tc.want {
			t.Errorf("ParseListings(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestListingsEncodeRoundTrip(t *testing.T) {
	cases := map[ListingsQuery]string{
		{Status: StatusAll, Page: 1}:                        "",
		{Status: StatusRejected, Page: 1}:                   "status=rejected",
		{Status: StatusAll, Search: "art & craft", Page: 2}: "search=art+%26+craft&page=2",
		{Status: StatusApproved, Search: "oud", Page: 4}:    "status=approved&search=oud&page=4",
	}

	for q, want := range cases {
		got := q.Encode()
		if got != want {
			t.Errorf("Encode(%+v) = %q, want %q", q, got, want)
		}
		if back := ParseListings(got); back != q {
			t.Errorf("round trip %+v -> %q -> %+v", q, got, back)
		}
	}
}

func TestListingsResetPage(t *testing.T) {
	q := ParseListings("status=pending&page=5")

	if got := q.WithStatus(StatusPending); got.Page != 5 {
		t.Errorf("same status reset page: %d", got.Page)
	}
	if got := q.WithStatus(StatusApproved); got.Page != 1 || got.Status != StatusApproved {
		t.Errorf("status change = %+v", got)
	}
	if got := q.WithSearch("pottery"); got.Page != 1 {
		t.Errorf("search change kept page %d", got.Page)
	}
	if got := q.WithPage(0); got.Page != 1 {
		t.Errorf("page 0 = %d", got.Page)
	}
}

func TestListingsParams(t *testing.T) {
	p := ParseListings("page=2").Params()
	if p.Status != "" || p.Page != 2 || p.Limit != PageSize {
		t.Fatalf("params = %+v", p)
	}
	if p := ParseListings("status=pending").Params(); p.Status != StatusPending {
		t.Fatalf("status = %q", p.Status)
	}
}

func TestUsersQuery(t *testing.T) {
	q := ParseUsers("role=admin&search=noura&page=3")
	if q.Role != "admin" || q.Search != "noura" || q.Page != 3 {
		t.Fatalf("parsed = %+v", q)
	}
	if got := q.Encode(); got != "role=admin&search=noura&page=3" {
		t.Fatalf("encoded = %q", got)
	}

	next := q.WithRole(RoleAll)
	if next.Page != 1 || next.Encode() != "search=noura" {
		t.Fatalf("role change = %+v %q", next, next.Encode())
	}
	if p := next.Params(); p.Role != "" || p.Limit != PageSize {
		t.Fatalf("params = %+v", p)
	}
	if ParseUsers("role=owner").Role != RoleAll {
		t.Fatal("unknown role accepted")
	}
}

func TestToggleRole(t *testing.T) {
	if ToggleRole("admin") != "user" || ToggleRole("user") != "admin" || ToggleRole("") != "admin" {
		t.Fatal("unexpected toggle")
	}
}
