package browse

import (
	"errors"
	"testing"
)

func TestStoreNotifiesOncePerChange(t *testing.T) {
	var persisted []string
	store := NewStore("q=yoga", func(raw string) error {
		persisted = append(persisted, raw)
		return nil
	})

	var notified []QueryState
	store.Subscribe(func(q QueryState) { notified = append(notified, q) })

	// multi field write is one notification
	_, changed, err := store.Write(Update{
		Query:   StringPtr("pilates"),
		Sort:    StringPtr(SortPriceLow),
		Filters: FilterState{FilterArea: "salmiya"},
	})
	if err != nil || !changed {
		t.Fatalf("Write: changed=%v err=%v", changed, err)
	}
	if len(notified) != 1 {
		t.Fatalf("notified %d times, want 1", len(notified))
	}

	// identical write is a no-op
	_, changed, _ = store.Write(Update{Query: StringPtr("pilates")})
	if changed {
		t.Fatal("identical write reported a change")
	}
	if len(notified) != 1 || len(persisted) != 1 {
		t.Fatalf("no-op write notified=%d persisted=%d", len(notified), len(persisted))
	}

	want := "q=pilates&area=salmiya&sort=price-low"
	if store.Raw() != want || persisted[0] != want {
		t.Fatalf("Raw() = %q persisted %v, want %q", store.Raw(), persisted, want)
	}
}

func TestStoreWriteIsImmediatelyReadable(t *testing.T) {
	store := NewStore("", nil)
	store.Write(Update{Filters: FilterState{FilterCategory: "music"}})

	if got := store.Read().Filters.Get(FilterCategory); got != "music" {
		t.Fatalf("Read() category = %q", got)
	}
}

func TestStoreNormalizesInitialLocation(t *testing.T) {
	store := NewStore("page=1&sort=newest&area=&q=x", nil)
	if store.Raw() != "q=x" {
		t.Fatalf("Raw() = %q", store.Raw())
	}
}

func TestStorePersistErrorKeepsWrite(t *testing.T) {
	boom := errors.New("db down")
	store := NewStore("", func(string) error { return boom })

	_, changed, err := store.Write(Update{Query: StringPtr("oud")})
	if !errors.Is(err, boom) || !changed {
		t.Fatalf("Write: changed=%v err=%v", changed, err)
	}
	if store.Read().Query != "oud" {
		t.Fatal("write was lost after persist failure")
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	store := NewStore("", nil)
	calls := 0
	cancel := store.Subscribe(func(QueryState) { calls++ })

	store.Write(Update{Query: StringPtr("a")})
	cancel()
	store.Write(Update{Query: StringPtr("b")})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestStoreNavigateAndReset(t *testing.T) {
	store := NewStore("q=a&page=3", nil)

	q, changed, _ := store.Navigate("category=cooking")
	if !changed || q.Filters.Get(FilterCategory) != "cooking" || q.Query != "" {
		t.Fatalf("Navigate = %+v changed=%v", q, changed)
	}

	if _, changed, _ := store.Reset(); !changed || store.Raw() != "" {
		t.Fatalf("Reset: changed=%v raw=%q", changed, store.Raw())
	}
}
