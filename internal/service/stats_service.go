package service

import (
	"context"
	"log"
)

// Counter is any document collection that can report its size.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ObjectCounter reports how many binaries the blob store holds.
type ObjectCounter interface {
	CountObjects(ctx context.Context) (int, error)
}

// LibraryStats is a point-in-time snapshot of library size.
type LibraryStats struct {
	Photos   int64 `json:"photos"`
	Albums   int64 `json:"albums"`
	Comments int64 `json:"comments"`
	Members  int64 `json:"members"`
	Objects  int   `json:"storedObjects"`
}

// StatsService aggregates count-only queries across the collections and
// the blob store. Counts are cheap server-side aggregations; no documents
// are fetched.
type StatsService struct {
	photos   Counter
	albums   Counter
	comments Counter
	users    Counter
	blobs    ObjectCounter
}

// NewStatsService creates a stats service
func NewStatsService(photos, albums, comments, users Counter, blobs ObjectCounter) *StatsService {
	return &StatsService{
		photos:   photos,
		albums:   albums,
		comments: comments,
		users:    users,
		blobs:    blobs,
	}
}

// Collect gathers the current library stats. A failing blob count logs and
// reports zero rather than failing the whole snapshot.
func (s *StatsService) Collect(ctx context.Context) (*LibraryStats, error) {
	stats := &LibraryStats{}

	var err error
	if stats.Photos, err = s.photos.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Albums, err = s.albums.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Comments, err = s.comments.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Members, err = s.users.Count(ctx); err != nil {
		return nil, err
	}

	objects, err := s.blobs.CountObjects(ctx)
	if err != nil {
		log.Printf("Error counting stored objects: %v", err)
	} else {
		stats.Objects = objects
	}

	return stats, nil
}
