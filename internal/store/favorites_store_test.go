package store

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// fakeFavoritesBackend records mutations and can fail on demand.
type fakeFavoritesBackend struct {
	favorites map[string][]string
	getCalls  int
	failNext  error
}

func newFakeFavoritesBackend() *fakeFavoritesBackend {
	return &fakeFavoritesBackend{favorites: make(map[string][]string)}
}

func (f *fakeFavoritesBackend) GetFavorites(_ context.Context, userID string) ([]string, error) {
	f.getCalls++
	return slices.Clone(f.favorites[userID]), nil
}

func (f *fakeFavoritesBackend) AddFavorite(_ context.Context, userID, photoID string) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.favorites[userID] = append(f.favorites[userID], photoID)
	return nil
}

func (f *fakeFavoritesBackend) RemoveFavorite(_ context.Context, userID, photoID string) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.favorites[userID] = slices.DeleteFunc(f.favorites[userID], func(id string) bool { return id == photoID })
	return nil
}

func TestLoad_CacheHitTrustedEvenWhenEmpty(t *testing.T) {
	cache := newFakeCache()
	backend := newFakeFavoritesBackend()
	backend.favorites["user-1"] = []string{"p1"}

	// A cached empty set is a legitimate state and must not trigger a
	// remote fetch, unlike the gallery's empty-cache fallthrough.
	if err := cache.SetJSON(context.Background(), favoritesCacheKey("user-1"), []string{}); err != nil {
		t.Fatalf("Unexpected error seeding cache: %v", err)
	}

	favorites := NewFavoritesStore(backend, cache)
	if err := favorites.Load(context.Background(), "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if backend.getCalls != 0 {
		t.Errorf("Expected 0 remote calls on cache hit, got %d", backend.getCalls)
	}
	if got := favorites.Favorites("user-1"); len(got) != 0 {
		t.Errorf("Expected empty set from cache, got %v", got)
	}
}

func TestLoad_CacheMissFetchesRemote(t *testing.T) {
	backend := newFakeFavoritesBackend()
	backend.favorites["user-1"] = []string{"p1", "p2"}
	favorites := NewFavoritesStore(backend, newFakeCache())

	if err := favorites.Load(context.Background(), "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !favorites.IsFavorite("user-1", "p1") || !favorites.IsFavorite("user-1", "p2") {
		t.Error("Expected both remote favorites to be loaded")
	}

	// Second load is a no-op once the member is loaded
	if err := favorites.Load(context.Background(), "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if backend.getCalls != 1 {
		t.Errorf("Expected 1 remote call, got %d", backend.getCalls)
	}
}

func TestToggle_AddAndRemove(t *testing.T) {
	backend := newFakeFavoritesBackend()
	favorites := NewFavoritesStore(backend, newFakeCache())

	if err := favorites.Toggle(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !favorites.IsFavorite("user-1", "p1") {
		t.Error("Expected p1 to be a favorite after first toggle")
	}
	if !slices.Contains(backend.favorites["user-1"], "p1") {
		t.Error("Expected the add to reach the backend")
	}

	if err := favorites.Toggle(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if favorites.IsFavorite("user-1", "p1") {
		t.Error("Expected p1 to be removed after second toggle")
	}
	if slices.Contains(backend.favorites["user-1"], "p1") {
		t.Error("Expected the removal to reach the backend")
	}
}

func TestToggle_RemoteFailureRollsBack(t *testing.T) {
	backend := newFakeFavoritesBackend()
	cache := newFakeCache()
	favorites := NewFavoritesStore(backend, cache)

	if err := favorites.Toggle(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	backend.failNext = errors.New("write rejected")
	if err := favorites.Toggle(context.Background(), "user-1", "p2"); err == nil {
		t.Fatal("Expected the failed toggle to return an error")
	}

	// Memory reverted to the pre-toggle snapshot
	if favorites.IsFavorite("user-1", "p2") {
		t.Error("Expected p2 rollback in memory")
	}
	if !favorites.IsFavorite("user-1", "p1") {
		t.Error("Expected p1 to survive the rollback")
	}

	// Cache reverted too
	var cached []string
	if _, err := cache.GetJSON(context.Background(), favoritesCacheKey("user-1"), &cached); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if slices.Contains(cached, "p2") {
		t.Error("Expected p2 rollback in cache")
	}
}

func TestReset_ForcesReload(t *testing.T) {
	backend := newFakeFavoritesBackend()
	backend.favorites["user-1"] = []string{"p1"}
	favorites := NewFavoritesStore(backend, newFakeCache())

	if err := favorites.Load(context.Background(), "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	favorites.Reset("user-1")

	if favorites.IsFavorite("user-1", "p1") {
		t.Error("Expected in-memory set to be dropped after reset")
	}
}
