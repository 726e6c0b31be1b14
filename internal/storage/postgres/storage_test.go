package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

// newTestStore connects to JARRIB_TEST_POSTGRES_DSN, the test is skipped without it
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("JARRIB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("JARRIB_TEST_POSTGRES_DSN not set")
	}

	store, err := New(dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return store
}

func TestChatStorageRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chatID := time.Now().UnixNano()
	storage := store.ChatStorage(chatID)
	t.Cleanup(func() {
		store.RemoveValues(context.Background(), chatID, "token", "savedListings")
	})

	if _, ok, err := storage.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("fresh chat Get = %v, %v", ok, err)
	}

	if err := storage.Set(ctx, "token", "jwt-1"); err != nil {
		t.Fatalf("Set token: %v", err)
	}
	if err := storage.Set(ctx, "token", "jwt-2"); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}
	if err := storage.Set(ctx, "savedListings", `["a","b"]`); err != nil {
		t.Fatalf("Set savedListings: %v", err)
	}

	token, ok, err := storage.Get(ctx, "token")
	if err != nil || !ok || token != "jwt-2" {
		t.Fatalf("Get token = %q, %v, %v", token, ok, err)
	}
	saved, ok, err := storage.Get(ctx, "savedListings")
	if err != nil || !ok || saved != `["a","b"]` {
		t.Fatalf("Get savedListings = %q, %v, %v", saved, ok, err)
	}

	// other chats never see these keys
	if _, ok, _ := store.ChatStorage(chatID+1).Get(ctx, "token"); ok {
		t.Error("token leaked to another chat")
	}

	if err := storage.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := storage.Get(ctx, "token"); ok {
		t.Error("token still present after Remove")
	}
	if _, ok, _ := storage.Get(ctx, "savedListings"); !ok {
		t.Error("Remove dropped an unrelated key")
	}
}

func TestEventLoggerPassesErrorsThrough(t *testing.T) {
	e := &eventLogger{logger: zap.NewNop()}
	err := context.DeadlineExceeded
	if got := e.EventErrKv("dbr.select.load.query", err, map[string]string{"sql": "SELECT 1"}); got != err {
		t.Errorf("EventErrKv = %v", got)
	}
	e.TimingKv("dbr.select", int64(time.Second), nil)
}
