package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// SyncFunc pushes one saved/unsaved change to the server
type SyncFunc func(ctx context.Context, listingID string, saved bool) error

// SavedSet is the ordered set of saved listing ids of a chat. Local state
// changes first and is persisted on every mutation; the server is told
// afterwards without waiting and without rollback on failure.
type SavedSet struct {
	storage Storage
	report  func(error)

	mu   sync.Mutex
	ids  []string
	sync SyncFunc
	wg   sync.WaitGroup
}

func newSavedSet(storage Storage, report func(error)) *SavedSet {
	return &SavedSet{storage: storage, report: report}
}

// load restores the persisted list, a malformed value counts as empty
func (s *SavedSet) load(ctx context.Context) error {
	raw, ok, err := s.storage.Get(ctx, KeySavedListings)
	if err != nil {
		return fmt.Errorf("load saved listings: %w", err)
	}

	var ids []string
	if ok {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			ids = nil
		}
	}

	s.mu.Lock()
	s.ids = dedupe(ids)
	s.mu.Unlock()
	return nil
}

func (s *SavedSet) setSync(fn SyncFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync = fn
}

func (s *SavedSet) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

func (s *SavedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *SavedSet) IsSaved(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.ids, id) >= 0
}

// Add appends id, adding a saved id is a no-op
func (s *SavedSet) Add(ctx context.Context, id string) error {
	s.mu.Lock()
	if indexOf(s.ids, id) >= 0 {
		s.mu.Unlock()
		return nil
	}
	s.ids = append(s.ids, id)
	err := s.persistLocked(ctx)
	syncFn := s.sync
	s.mu.Unlock()

	s.push(syncFn, id, true)
	return err
}

// Remove drops id, removing an absent id is a no-op
func (s *SavedSet) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i := indexOf(s.ids, id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
	err := s.persistLocked(ctx)
	syncFn := s.sync
	s.mu.Unlock()

	s.push(syncFn, id, false)
	return err
}

// Toggle flips id and reports whether it is saved now
func (s *SavedSet) Toggle(ctx context.Context, id string) (bool, error) {
	if s.IsSaved(id) {
		return false, s.Remove(ctx, id)
	}
	return true, s.Add(ctx, id)
}

// Replace overwrites the whole list, used when the server list wins
func (s *SavedSet) Replace(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = dedupe(ids)
	return s.persistLocked(ctx)
}

// Wait blocks until pending server syncs finished
func (s *SavedSet) Wait() {
	s.wg.Wait()
}

func (s *SavedSet) persistLocked(ctx context.Context) error {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal saved listings: %w", err)
	}
	if err := s.storage.Set(ctx, KeySavedListings, string(data)); err != nil {
		return fmt.Errorf("persist saved listings: %w", err)
	}
	return nil
}

func (s *SavedSet) push(fn SyncFunc, id string, saved bool) {
	if fn == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := fn(ctx, id, saved); err != nil && s.report != nil {
			s.report(fmt.Errorf("sync saved listing %s: %w", id, err))
		}
	}()
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && indexOf(out, id) < 0 {
			out = append(out, id)
		}
	}
	return out
}
