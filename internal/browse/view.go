package browse

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"jarrib-bot/internal/api/jarrib"
)

// MessageRef points at the chat message that shows the results.
// It satisfies telebot's Editable.
type MessageRef struct {
	MessageID string `json:"message_id"`
	ChatID    int64  `json:"chat_id"`
}

func (m MessageRef) MessageSig() (string, int64) {
	return m.MessageID, m.ChatID
}

func NewMessageRef(messageID int, chatID int64) MessageRef {
	return MessageRef{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

// CategoryLoader fetches the category list for the filter panel
type CategoryLoader func(ctx context.Context) ([]jarrib.Category, error)

// View is the discovery view of one chat: its Store and Fetcher plus the
// UI only state of the filter panel.
type View struct {
	ChatID  int64
	Store   *Store
	Fetcher *Fetcher

	mu         sync.Mutex
	expanded   map[string]bool
	categories []jarrib.Category
	results    *MessageRef
	panel      *MessageRef
}

func (v *View) IsExpanded(section string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.expanded[section]
}

func (v *View) ToggleSection(section string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.expanded[section] = !v.expanded[section]
	return v.expanded[section]
}

// Categories loads the list once per view and reuses it afterwards
func (v *View) Categories(ctx context.Context, load CategoryLoader) ([]jarrib.Category, error) {
	v.mu.Lock()
	cached := v.categories
	v.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	categories, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []jarrib.Category{}
	}

	v.mu.Lock()
	v.categories = categories
	v.mu.Unlock()

	return categories, nil
}

func (v *View) SetResultsMessage(ref MessageRef) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = &ref
}

func (v *View) ResultsMessage() (MessageRef, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.results == nil {
		return MessageRef{}, false
	}
	return *v.results, true
}

func (v *View) SetPanelMessage(ref MessageRef) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panel = &ref
}

func (v *View) PanelMessage() (MessageRef, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.panel == nil {
		return MessageRef{}, false
	}
	return *v.panel, true
}

// LocationStore persists browse locations per chat
type LocationStore interface {
	GetLocation(ctx context.Context, userID int64, view string) (string, error)
	SaveLocation(ctx context.Context, userID int64, view, rawQuery string) error
}

// ChangeFunc is called once for every location change of a view
type ChangeFunc func(v *View, q QueryState)

// Registry holds one View per chat
type Registry struct {
	locations LocationStore
	searcher  Searcher
	report    ErrorReporter
	onChange  ChangeFunc
	viewName  string

	mu    sync.Mutex
	views map[int64]*View
}

func NewRegistry(viewName string, locations LocationStore, searcher Searcher, report ErrorReporter, onChange ChangeFunc) *Registry {
	return &Registry{
		locations: locations,
		searcher:  searcher,
		report:    report,
		onChange:  onChange,
		viewName:  viewName,
		views:     make(map[int64]*View),
	}
}

// Get returns the chat's view, restoring its location on first use
func (r *Registry) Get(ctx context.Context, chatID int64) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views[chatID]; ok {
		return v, nil
	}

	raw, err := r.locations.GetLocation(ctx, chatID, r.viewName)
	if err != nil {
		return nil, fmt.Errorf("restore browse location: %w", err)
	}

	persist := func(raw string) error {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return r.locations.SaveLocation(saveCtx, chatID, r.viewName, raw)
	}

	v := &View{
		ChatID:   chatID,
		Store:    NewStore(raw, persist),
		Fetcher:  NewFetcher(r.searcher, r.report),
		expanded: defaultExpanded(),
	}

	if r.onChange != nil {
		v.Store.Subscribe(func(q QueryState) {
			r.onChange(v, q)
		})
	}

	r.views[chatID] = v
	return v, nil
}
