package store

import (
	"context"
	"log"
	"slices"
	"sync"
)

// FavoritesBackend is the slice of the document store the favorites set
// lives on: a field of the family member record, mutated with atomic
// set-union/set-remove updates.
type FavoritesBackend interface {
	GetFavorites(ctx context.Context, userID string) ([]string, error)
	AddFavorite(ctx context.Context, userID, photoID string) error
	RemoveFavorite(ctx context.Context, userID, photoID string) error
}

// FavoritesStore keeps per-member favorite photo sets with optimistic,
// reversible toggling. Rapid repeated toggles on one id race to a
// last-writer-wins outcome on the remote side; toggles are deliberately not
// serialized.
type FavoritesStore struct {
	mu     sync.Mutex
	sets   map[string][]string
	loaded map[string]bool

	backend FavoritesBackend
	cache   Cache
}

// NewFavoritesStore creates a favorites store
func NewFavoritesStore(backend FavoritesBackend, cache Cache) *FavoritesStore {
	return &FavoritesStore{
		sets:    make(map[string][]string),
		loaded:  make(map[string]bool),
		backend: backend,
		cache:   cache,
	}
}

func favoritesCacheKey(userID string) string {
	return "photobomb:favorites:" + userID
}

// Load populates the member's favorite set. A cache hit is trusted fully
// and skips the remote fetch, the same short-circuit policy the gallery
// uses. A member with no favorites field resolves to an empty set.
func (s *FavoritesStore) Load(ctx context.Context, userID string) error {
	s.mu.Lock()
	if s.loaded[userID] {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	var cached []string
	hit, err := s.cache.GetJSON(ctx, favoritesCacheKey(userID), &cached)
	if err != nil {
		log.Printf("Error reading favorites cache: %v", err)
	}
	if hit {
		s.mu.Lock()
		s.sets[userID] = cached
		s.loaded[userID] = true
		s.mu.Unlock()
		return nil
	}

	favorites, err := s.backend.GetFavorites(ctx, userID)
	if err != nil {
		log.Printf("Error loading favorites for %s: %v", userID, err)
		return err
	}

	s.mu.Lock()
	s.sets[userID] = favorites
	s.loaded[userID] = true
	s.mu.Unlock()

	if err := s.cache.SetJSON(ctx, favoritesCacheKey(userID), favorites); err != nil {
		log.Printf("Error caching favorites: %v", err)
	}
	return nil
}

// Toggle flips membership for photoID. The new set is computed from the
// latest in-memory state under the lock, applied locally and to the cache
// first, then written remotely. A remote failure reverts both memory and
// cache to the pre-toggle snapshot; the caller sees a flicker-back, never a
// silent desync.
func (s *FavoritesStore) Toggle(ctx context.Context, userID, photoID string) error {
	s.mu.Lock()
	prev := slices.Clone(s.sets[userID])
	wasFavorite := slices.Contains(prev, photoID)

	var next []string
	if wasFavorite {
		next = slices.DeleteFunc(slices.Clone(prev), func(id string) bool { return id == photoID })
	} else {
		next = append(slices.Clone(prev), photoID)
	}
	s.sets[userID] = next
	s.mu.Unlock()

	if err := s.cache.SetJSON(ctx, favoritesCacheKey(userID), next); err != nil {
		log.Printf("Error caching favorites: %v", err)
	}

	var err error
	if wasFavorite {
		err = s.backend.RemoveFavorite(ctx, userID, photoID)
	} else {
		err = s.backend.AddFavorite(ctx, userID, photoID)
	}
	if err != nil {
		s.mu.Lock()
		s.sets[userID] = prev
		s.mu.Unlock()
		if cacheErr := s.cache.SetJSON(ctx, favoritesCacheKey(userID), prev); cacheErr != nil {
			log.Printf("Error reverting favorites cache: %v", cacheErr)
		}
		log.Printf("Error toggling favorite %s for %s: %v", photoID, userID, err)
		return err
	}
	return nil
}

// IsFavorite is a synchronous membership test against in-memory state
func (s *FavoritesStore) IsFavorite(userID, photoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.sets[userID], photoID)
}

// Favorites returns a snapshot of the member's favorite photo ids
func (s *FavoritesStore) Favorites(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sets[userID])
}

// Reset drops the member's in-memory set, forcing the next Load to hit the
// cache or the remote store again. Used when the session identity changes.
func (s *FavoritesStore) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, userID)
	delete(s.loaded, userID)
}
