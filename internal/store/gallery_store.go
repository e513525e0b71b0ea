package store

import (
	"context"
	"log"
	"sync"

	"github.com/lewybagz/photoBomb/internal/models"
)

const (
	photosPerPage   = 30
	galleryCacheKey = "photobomb:photos"
)

// PhotoPager is the slice of the document store the gallery needs.
type PhotoPager interface {
	ListPage(ctx context.Context, limit int, after *models.PageCursor) ([]*models.Photo, error)
	GetByID(ctx context.Context, id string) (*models.Photo, error)
}

// Cache is the local persistent cache contract shared by the stores.
// Implementations survive restarts and never expire entries on their own.
type Cache interface {
	GetJSON(ctx context.Context, key string, model any) (bool, error)
	SetJSON(ctx context.Context, key string, model any) error
	Delete(ctx context.Context, key string) error
}

// GalleryStore maintains the globally-ordered photo feed with forward-only
// cursor pagination and a write-through cache. A cache hit on the initial
// load short-circuits the remote fetch entirely: instant paint wins over
// freshness until an explicit refresh.
type GalleryStore struct {
	mu         sync.Mutex
	photos     []*models.Photo
	cursor     *models.PageCursor
	hasMore    bool
	loading    bool
	generation uint64

	repo  PhotoPager
	cache Cache
}

// NewGalleryStore creates a gallery store
func NewGalleryStore(repo PhotoPager, cache Cache) *GalleryStore {
	return &GalleryStore{
		repo:    repo,
		cache:   cache,
		hasMore: true,
	}
}

// LoadInitial populates the feed. Without forceRefresh, a non-empty cache
// snapshot wins and no remote query is issued; the pagination cursor stays
// unset until a refresh. Concurrent invocations while a load is in flight
// are no-ops.
func (s *GalleryStore) LoadInitial(ctx context.Context, forceRefresh bool) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	gen := s.generation
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if !forceRefresh {
		var cached []*models.Photo
		hit, err := s.cache.GetJSON(ctx, galleryCacheKey, &cached)
		if err != nil {
			log.Printf("Error reading photo cache: %v", err)
		}
		if hit && len(cached) > 0 {
			s.mu.Lock()
			s.photos = cached
			s.mu.Unlock()
			return nil
		}
	}

	page, err := s.repo.ListPage(ctx, photosPerPage, nil)
	if err != nil {
		log.Printf("Error loading photos: %v", err)
		return err
	}

	s.mu.Lock()
	if gen != s.generation {
		// A refresh superseded this load; drop the stale page.
		s.mu.Unlock()
		return nil
	}
	s.photos = page
	if len(page) > 0 {
		s.cursor = models.CursorFromPhoto(page[len(page)-1])
	} else {
		s.cursor = nil
	}
	s.hasMore = len(page) == photosPerPage
	s.mu.Unlock()

	if err := s.cache.SetJSON(ctx, galleryCacheKey, page); err != nil {
		log.Printf("Error caching photos: %v", err)
	}
	return nil
}

// LoadMore fetches the page strictly after the current cursor and appends
// it; existing items keep their position. A no-op when a load is in flight,
// there is no cursor, or the feed is exhausted.
func (s *GalleryStore) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || !s.hasMore || s.cursor == nil {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	gen := s.generation
	after := s.cursor
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	page, err := s.repo.ListPage(ctx, photosPerPage, after)
	if err != nil {
		log.Printf("Error loading more photos: %v", err)
		return err
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	s.photos = append(s.photos, page...)
	if len(page) > 0 {
		s.cursor = models.CursorFromPhoto(page[len(page)-1])
	}
	s.hasMore = len(page) == photosPerPage
	snapshot := make([]*models.Photo, len(s.photos))
	copy(snapshot, s.photos)
	s.mu.Unlock()

	if err := s.cache.SetJSON(ctx, galleryCacheKey, snapshot); err != nil {
		log.Printf("Error caching photos: %v", err)
	}
	return nil
}

// GetByID resolves a photo locally first, falling back to a single-document
// remote fetch on a miss. A photo missing on both sides is (nil, nil).
func (s *GalleryStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	s.mu.Lock()
	for _, p := range s.photos {
		if p.ID.Hex() == id {
			s.mu.Unlock()
			return p, nil
		}
	}
	s.mu.Unlock()

	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Error fetching photo %s: %v", id, err)
		return nil, err
	}
	return photo, nil
}

// AddLocal prepends a freshly uploaded photo to the feed and cache so it
// appears without a full reload.
func (s *GalleryStore) AddLocal(ctx context.Context, photo *models.Photo) {
	s.mu.Lock()
	s.photos = append([]*models.Photo{photo}, s.photos...)
	s.mu.Unlock()

	var cached []*models.Photo
	if _, err := s.cache.GetJSON(ctx, galleryCacheKey, &cached); err != nil {
		log.Printf("Error reading photo cache: %v", err)
	}
	if err := s.cache.SetJSON(ctx, galleryCacheKey, append([]*models.Photo{photo}, cached...)); err != nil {
		log.Printf("Error caching photos: %v", err)
	}
}

// RemoveLocal filters a photo out of the feed and cache regardless of
// whether any remote delete succeeded, so the view never shows a photo
// known to be gone.
func (s *GalleryStore) RemoveLocal(ctx context.Context, id string) {
	s.mu.Lock()
	updated := s.photos[:0:0]
	for _, p := range s.photos {
		if p.ID.Hex() != id {
			updated = append(updated, p)
		}
	}
	s.photos = updated
	snapshot := make([]*models.Photo, len(updated))
	copy(snapshot, updated)
	s.mu.Unlock()

	if err := s.cache.SetJSON(ctx, galleryCacheKey, snapshot); err != nil {
		log.Printf("Error caching photos: %v", err)
	}
}

// Refresh invalidates the cursor and any in-flight page loads, then reloads
// the first page bypassing the cache.
func (s *GalleryStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.cursor = nil
	s.hasMore = true
	s.mu.Unlock()

	return s.LoadInitial(ctx, true)
}

// Photos returns a snapshot of the in-memory feed
func (s *GalleryStore) Photos() []*models.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]*models.Photo, len(s.photos))
	copy(snapshot, s.photos)
	return snapshot
}

// HasMore reports whether the feed has more remote pages
func (s *GalleryStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Loading reports whether a page load is in flight
func (s *GalleryStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
