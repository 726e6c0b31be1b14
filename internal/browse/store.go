package browse

import "sync"

// PersistFunc saves the canonical location after a write
type PersistFunc func(raw string) error

// Store owns the browse location of a single chat. It is the only writer
// of that location. Writes apply synchronously and a subscriber is called
// at most once per write, only when the canonical encoding changed.
type Store struct {
	mu      sync.Mutex
	state   QueryState
	raw     string
	persist PersistFunc

	subs    map[int]func(QueryState)
	nextSub int
}

func NewStore(raw string, persist PersistFunc) *Store {
	state := Parse(raw)
	return &Store{
		state:   state,
		raw:     state.Encode(),
		persist: persist,
		subs:    make(map[int]func(QueryState)),
	}
}

func (s *Store) Read() QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Raw returns the canonical location
func (s *Store) Raw() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Write applies u. It reports whether the location changed; the error is
// from the persist hook and does not undo the write.
func (s *Store) Write(u Update) (QueryState, bool, error) {
	s.mu.Lock()
	next := Apply(s.state, u)
	return s.commit(next)
}

// Navigate replaces the whole location, like following a link
func (s *Store) Navigate(raw string) (QueryState, bool, error) {
	s.mu.Lock()
	return s.commit(Parse(raw))
}

func (s *Store) Reset() (QueryState, bool, error) {
	return s.Navigate("")
}

// commit must be called with s.mu held, it releases the lock
func (s *Store) commit(next QueryState) (QueryState, bool, error) {
	raw := next.Encode()
	if raw == s.raw {
		s.mu.Unlock()
		return next, false, nil
	}

	s.state = next
	s.raw = raw

	var err error
	if s.persist != nil {
		err = s.persist(raw)
	}

	subs := make([]func(QueryState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.Clone())
	}

	return next, true, err
}

// Subscribe registers fn for location changes and returns its cancel func
func (s *Store) Subscribe(fn func(QueryState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
