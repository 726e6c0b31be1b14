package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"jarrib-bot/internal/api/jarrib"

	"go.uber.org/zap"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]string{}}
}

func (m *memStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStorage) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStorage) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// fakeAPI answers /auth/me for "good" tokens and records saved syncs
type fakeAPI struct {
	mu       sync.Mutex
	me       jarrib.User
	syncs    []string
	failSync bool
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/me":
			if r.Header.Get("Authorization") != "Bearer good" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(f.me)
		case r.URL.Path == "/auth/login":
			json.NewEncoder(w).Encode(jarrib.AuthResponse{Token: "good", User: f.me})
		case strings.HasPrefix(r.URL.Path, "/users/saved/"):
			f.mu.Lock()
			f.syncs = append(f.syncs, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/users/saved/"))
			fail := f.failSync
			f.mu.Unlock()
			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"savedListings":[]}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestSession(t *testing.T, api *fakeAPI, storage *memStorage) *Session {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	client := jarrib.New(srv.URL, 5*time.Second, zap.NewNop())
	return newSession(42, storage, client, zap.NewNop())
}

func TestBootstrapInvalidTokenLogsOutSilently(t *testing.T) {
	storage := newMemStorage()
	storage.Set(context.Background(), KeyToken, "expired")
	storage.Set(context.Background(), KeySavedListings, `["a","b"]`)

	s := newTestSession(t, &fakeAPI{}, storage)
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if s.IsAuthenticated() {
		t.Fatal("expected anonymous session")
	}
	if _, ok := storage.get(KeyToken); ok {
		t.Fatal("invalid token was not cleared")
	}
	if got := s.Saved.IDs(); len(got) != 2 {
		t.Fatalf("local saved list lost: %v", got)
	}
}

func TestBootstrapServerListWins(t *testing.T) {
	storage := newMemStorage()
	storage.Set(context.Background(), KeyToken, "good")
	storage.Set(context.Background(), KeySavedListings, `["local-only"]`)

	api := &fakeAPI{me: jarrib.User{ID: "u1", Role: jarrib.RoleAdmin, SavedListings: []string{"s1", "s2"}}}
	s := newTestSession(t, api, storage)
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if !s.IsAdmin() {
		t.Fatal("expected admin")
	}
	if got := s.Saved.IDs(); len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Fatalf("saved = %v, want server list", got)
	}
	if raw, _ := storage.get(KeySavedListings); raw != `["s1","s2"]` {
		t.Fatalf("persisted = %s", raw)
	}
}

func TestBootstrapWithoutServerListKeepsLocal(t *testing.T) {
	storage := newMemStorage()
	storage.Set(context.Background(), KeyToken, "good")
	storage.Set(context.Background(), KeySavedListings, `["x"]`)

	s := newTestSession(t, &fakeAPI{me: jarrib.User{ID: "u1", Role: jarrib.RoleUser}}, storage)
	s.Bootstrap(context.Background())

	if got := s.Saved.IDs(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("saved = %v", got)
	}
	if s.IsAdmin() {
		t.Fatal("plain user reported as admin")
	}
}

func TestSavedSetIdempotent(t *testing.T) {
	storage := newMemStorage()
	s := newTestSession(t, &fakeAPI{}, storage)
	s.Bootstrap(context.Background())
	ctx := context.Background()

	s.Saved.Add(ctx, "a")
	s.Saved.Add(ctx, "b")
	s.Saved.Add(ctx, "a")
	if got := s.Saved.IDs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("after adds: %v", got)
	}

	s.Saved.Remove(ctx, "a")
	s.Saved.Remove(ctx, "a")
	s.Saved.Remove(ctx, "zzz")
	if got := s.Saved.IDs(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("after removes: %v", got)
	}
	if raw, _ := storage.get(KeySavedListings); raw != `["b"]` {
		t.Fatalf("persisted = %s", raw)
	}

	saved, _ := s.Saved.Toggle(ctx, "b")
	if saved || s.Saved.Len() != 0 {
		t.Fatalf("toggle off: saved=%v len=%d", saved, s.Saved.Len())
	}
	if raw, _ := storage.get(KeySavedListings); raw != `[]` {
		t.Fatalf("persisted = %s", raw)
	}
}

func TestSavedSetSyncIsFireAndForget(t *testing.T) {
	storage := newMemStorage()
	api := &fakeAPI{me: jarrib.User{ID: "u1"}, failSync: true}
	s := newTestSession(t, api, storage)

	if _, err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := s.Saved.Add(context.Background(), "l1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Saved.Wait()

	if !s.Saved.IsSaved("l1") {
		t.Fatal("failed sync rolled back the local change")
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.syncs) != 1 || api.syncs[0] != "POST l1" {
		t.Fatalf("syncs = %v", api.syncs)
	}
}

func TestAnonymousSavedSetDoesNotSync(t *testing.T) {
	api := &fakeAPI{}
	s := newTestSession(t, api, newMemStorage())
	s.Bootstrap(context.Background())

	s.Saved.Add(context.Background(), "l1")
	s.Saved.Wait()

	if len(api.syncs) != 0 {
		t.Fatalf("anonymous session synced: %v", api.syncs)
	}
}

func TestLogout(t *testing.T) {
	storage := newMemStorage()
	s := newTestSession(t, &fakeAPI{me: jarrib.User{ID: "u1"}}, storage)
	s.Login(context.Background(), "a@b.c", "pw")

	if tok, _ := storage.get(KeyToken); tok != "good" {
		t.Fatalf("token = %q", tok)
	}

	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.IsAuthenticated() || s.Token() != "" {
		t.Fatal("still authenticated")
	}
	if _, ok := storage.get(KeyToken); ok {
		t.Fatal("token not removed")
	}
}

func TestMalformedSavedListTreatedAsEmpty(t *testing.T) {
	storage := newMemStorage()
	storage.Set(context.Background(), KeySavedListings, `{not json`)

	s := newTestSession(t, &fakeAPI{}, storage)
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if s.Saved.Len() != 0 {
		t.Fatalf("saved = %v", s.Saved.IDs())
	}
}

type failingStorage struct{ memStorage }

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("db down")
}

func TestManagerCachesSessions(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler(t))
	defer srv.Close()
	client := jarrib.New(srv.URL, 5*time.Second, zap.NewNop())

	storages := map[int64]Storage{1: newMemStorage(), 2: &failingStorage{}}
	m := NewManager(func(chatID int64) Storage { return storages[chatID] }, client, zap.NewNop())

	a, err := m.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := m.Get(context.Background(), 1)
	if a != b {
		t.Fatal("manager created two sessions for one chat")
	}

	if _, err := m.Get(context.Background(), 2); err == nil {
		t.Fatal("expected bootstrap error")
	}

	m.Forget(1)
	c, _ := m.Get(context.Background(), 1)
	if c == a {
		t.Fatal("Forget kept the session")
	}
}
