package store

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/lewybagz/photoBomb/internal/events"
	"github.com/lewybagz/photoBomb/internal/models"
)

// AlbumBackend is the slice of the document store holding album records.
type AlbumBackend interface {
	List(ctx context.Context) ([]*models.Album, error)
	Insert(ctx context.Context, album *models.Album) (string, error)
	Delete(ctx context.Context, id string) error
	ClaimCover(ctx context.Context, albumID, photoID, thumbURL string) (bool, error)
	IncPhotoCount(ctx context.Context, albumID string, delta int) error
	SetMembership(ctx context.Context, albumID string, photoCount int, clearCover bool) error
}

// AlbumPhotoBackend is the photo-side membership surface: albums and photos
// are linked only through shared identifiers.
type AlbumPhotoBackend interface {
	AddAlbumRef(ctx context.Context, photoID, albumID string) error
	RemoveAlbumRef(ctx context.Context, photoID, albumID string) error
	ListByAlbum(ctx context.Context, albumID string) ([]*models.Photo, error)
}

// AlbumsStore manages named photo collections with denormalized counters
// and cover selection. Unlike the gallery and favorites stores it always
// revalidates against the remote store after painting from cache: album
// membership changes are infrequent but must never show stale deletions.
type AlbumsStore struct {
	mu      sync.Mutex
	albums  []*models.Album
	loading bool

	backend   AlbumBackend
	photos    AlbumPhotoBackend
	cache     Cache
	publisher events.Publisher
}

// NewAlbumsStore creates an albums store. publisher may be nil.
func NewAlbumsStore(backend AlbumBackend, photos AlbumPhotoBackend, cache Cache, publisher events.Publisher) *AlbumsStore {
	return &AlbumsStore{
		backend:   backend,
		photos:    photos,
		cache:     cache,
		publisher: publisher,
	}
}

func albumsCacheKey(userID string) string {
	return "photobomb:albums:" + userID
}

// LoadAlbums paints from cache when possible, then always revalidates
// against the remote store, replacing state and cache with the live list.
func (s *AlbumsStore) LoadAlbums(ctx context.Context, userID string) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var cached []*models.Album
	hit, err := s.cache.GetJSON(ctx, albumsCacheKey(userID), &cached)
	if err != nil {
		log.Printf("Error reading albums cache: %v", err)
	}
	if hit && len(cached) > 0 {
		s.mu.Lock()
		s.albums = cached
		s.mu.Unlock()
	}

	albums, err := s.backend.List(ctx)
	if err != nil {
		log.Printf("Error loading albums: %v", err)
		return err
	}

	s.mu.Lock()
	s.albums = albums
	s.mu.Unlock()

	if err := s.cache.SetJSON(ctx, albumsCacheKey(userID), albums); err != nil {
		log.Printf("Error caching albums: %v", err)
	}
	return nil
}

// CreateAlbum creates an empty album and prepends it to the in-memory
// list. Blank names are rejected before any remote call.
func (s *AlbumsStore) CreateAlbum(ctx context.Context, userID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyAlbumName
	}

	album := &models.Album{
		Name:          name,
		CoverPhotoID:  nil,
		CoverPhotoURL: nil,
		CreatedAt:     time.Now(),
		PhotoCount:    0,
		OwnerID:       userID,
	}

	id, err := s.backend.Insert(ctx, album)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.albums = append([]*models.Album{album}, s.albums...)
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishAlbumCreated(ctx, id, userID, name); err != nil {
			log.Printf("Error publishing album created event: %v", err)
		}
	}

	return id, nil
}

// DeleteAlbum removes the album record and the in-memory entry. Member
// photos keep their albumIds reference; it goes stale until their next
// load, so membership display treats albumIds as a hint.
func (s *AlbumsStore) DeleteAlbum(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	updated := s.albums[:0:0]
	for _, a := range s.albums {
		if a.ID.Hex() != id {
			updated = append(updated, a)
		}
	}
	s.albums = updated
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishAlbumDeleted(ctx, id); err != nil {
			log.Printf("Error publishing album deleted event: %v", err)
		}
	}

	return nil
}

// AddPhotoToAlbum appends the album to the photo's membership set, then
// settles the album's cover and count. The cover claim is an atomic
// conditional update keyed on the album having no cover yet, so two
// near-simultaneous adds cannot both claim it; the loser just bumps the
// count.
func (s *AlbumsStore) AddPhotoToAlbum(ctx context.Context, photoID, albumID, thumbURL string) error {
	if err := s.photos.AddAlbumRef(ctx, photoID, albumID); err != nil {
		return err
	}

	claimed, err := s.backend.ClaimCover(ctx, albumID, photoID, thumbURL)
	if err != nil {
		return err
	}
	if !claimed {
		if err := s.backend.IncPhotoCount(ctx, albumID, 1); err != nil {
			return err
		}
	}

	s.mu.Lock()
	for _, a := range s.albums {
		if a.ID.Hex() == albumID {
			if claimed {
				coverID, coverURL := photoID, thumbURL
				a.CoverPhotoID = &coverID
				a.CoverPhotoURL = &coverURL
			}
			a.PhotoCount++
			break
		}
	}
	s.mu.Unlock()

	return nil
}

// RemovePhotoFromAlbum removes the album from the photo's membership set,
// decrements the count floored at zero, and clears the cover pair when the
// removed photo was the cover.
func (s *AlbumsStore) RemovePhotoFromAlbum(ctx context.Context, photoID, albumID string) error {
	if err := s.photos.RemoveAlbumRef(ctx, photoID, albumID); err != nil {
		return err
	}

	s.mu.Lock()
	var album *models.Album
	for _, a := range s.albums {
		if a.ID.Hex() == albumID {
			album = a
			break
		}
	}
	if album == nil {
		s.mu.Unlock()
		return nil
	}

	newCount := album.PhotoCount - 1
	if newCount < 0 {
		newCount = 0
	}
	clearCover := album.CoverPhotoID != nil && *album.CoverPhotoID == photoID
	s.mu.Unlock()

	if err := s.backend.SetMembership(ctx, albumID, newCount, clearCover); err != nil {
		return err
	}

	s.mu.Lock()
	album.PhotoCount = newCount
	if clearCover {
		album.CoverPhotoID = nil
		album.CoverPhotoURL = nil
	}
	s.mu.Unlock()

	return nil
}

// GetAlbumPhotos is always a live query so album detail views reflect
// deletions promptly.
func (s *AlbumsStore) GetAlbumPhotos(ctx context.Context, albumID string) ([]*models.Photo, error) {
	return s.photos.ListByAlbum(ctx, albumID)
}

// Albums returns a snapshot of the in-memory album list
func (s *AlbumsStore) Albums() []*models.Album {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]*models.Album, len(s.albums))
	copy(snapshot, s.albums)
	return snapshot
}
