package jarrib

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zap.NewNop())
}

func TestSearchListingsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("category"); got != "pottery" {
			t.Errorf("category = %q", got)
		}
		if got := q.Get("area"); got != "salmiya,hawalli" {
			t.Errorf("area = %q", got)
		}
		if got := q.Get("limit"); got != "12" {
			t.Errorf("limit = %q", got)
		}
		if q.Has("minPrice") {
			t.Errorf("empty minPrice must not be sent")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("anonymous client sent authorization")
		}
		json.NewEncoder(w).Encode(ListingsResponse{
			Listings:   []Listing{{ID: "a1", TitleAr: "فخار"}},
			Pagination: Pagination{Page: 1, Limit: 12, Total: 1, Pages: 1},
		})
	})

	resp, err := client.SearchListings(context.Background(), ListingSearchParams{
		Category: "pottery",
		Area:     "salmiya,hawalli",
		Page:     1,
	})
	if err != nil {
		t.Fatalf("SearchListings: %v", err)
	}
	if len(resp.Listings) != 1 || resp.Listings[0].ID != "a1" {
		t.Fatalf("unexpected listings: %+v", resp.Listings)
	}
	if resp.Pagination.Total != 1 {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}
}

func TestWithTokenSendsBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(User{ID: "u1", Role: RoleAdmin})
	})

	user, err := client.WithToken("tok").Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if !user.IsAdmin() {
		t.Fatalf("expected admin user")
	}
	if client.token != "" {
		t.Fatalf("WithToken mutated the original client")
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		})

		_, err := client.GetListing(context.Background(), "x")
		if !errors.Is(err, tt.target) {
			t.Fatalf("status %d: err = %v, want %v", tt.status, err, tt.target)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "nope" {
			t.Fatalf("status %d: expected APIError with message, got %v", tt.status, err)
		}
	}
}

func TestNoRetryOnServerError(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.GetCategories(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("server called %d times, want 1", n)
	}
}

func TestRejectListingBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/admin/listings/l1/reject" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["reason"] != "blurry photos" {
			t.Errorf("reason = %q", body["reason"])
		}
		json.NewEncoder(w).Encode(Listing{ID: "l1", Status: "rejected"})
	})

	listing, err := client.RejectListing(context.Background(), "l1", "blurry photos")
	if err != nil {
		t.Fatalf("RejectListing: %v", err)
	}
	if listing.Status != "rejected" {
		t.Fatalf("status = %q", listing.Status)
	}
}

func TestSaveListingEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/saved/l9" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ids, err := client.SaveListing(context.Background(), "l9")
	if err != nil {
		t.Fatalf("SaveListing: %v", err)
	}
	if ids != nil {
		t.Fatalf("ids = %v", ids)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Arts & Crafts": "arts-&-crafts",
		" Music ":       "music",
		"Cooking Class": "cooking-class",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
