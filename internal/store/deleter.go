package store

import (
	"context"
	"log"
	"strings"

	"github.com/lewybagz/photoBomb/internal/events"
	"github.com/lewybagz/photoBomb/internal/models"
)

// PhotoDeleteBackend is the document-store slice the cascade needs.
type PhotoDeleteBackend interface {
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// CommentSweeper bulk-removes a photo's comment thread.
type CommentSweeper interface {
	DeleteByPhoto(ctx context.Context, photoID string) (int64, error)
}

// FavoriteSweeper finds and clears dangling favorite references.
type FavoriteSweeper interface {
	ListFavoritedBy(ctx context.Context, photoID string) ([]*models.FamilyMember, error)
	RemoveFavorite(ctx context.Context, userID, photoID string) error
}

// BlobRemover deletes stored variants addressed by their public URL.
type BlobRemover interface {
	Remove(ctx context.Context, objectName string) error
	ObjectPathFromURL(rawURL string) (string, error)
}

// StepResult records one cascade step's outcome.
type StepResult struct {
	Name string `json:"name"`
	Err  string `json:"error,omitempty"`
}

// DeletionReport summarizes a full cascade run. Steps holds every step that
// ran; a step with a non-empty Err failed but did not stop the cascade.
type DeletionReport struct {
	PhotoID string       `json:"photoId"`
	Found   bool         `json:"found"`
	Steps   []StepResult `json:"steps"`
}

// Failed reports whether any cascade step recorded an error
func (r *DeletionReport) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != "" {
			return true
		}
	}
	return false
}

func (r *DeletionReport) record(name string, err error) {
	step := StepResult{Name: name}
	if err != nil {
		step.Err = err.Error()
		log.Printf("Deletion step %s failed for photo %s: %v", name, r.PhotoID, err)
	}
	r.Steps = append(r.Steps, step)
}

// Deleter runs the best-effort photo deletion cascade. Every step is
// attempted regardless of earlier failures; errors are collected into the
// report instead of propagated, because a half-deleted photo must still be
// scrubbed from everything that can be scrubbed.
type Deleter struct {
	photos    PhotoDeleteBackend
	comments  CommentSweeper
	favorites FavoriteSweeper
	blobs     BlobRemover
	albums    *AlbumsStore
	gallery   *GalleryStore
	publisher events.Publisher
}

// NewDeleter creates a deletion cascade runner. publisher may be nil.
func NewDeleter(photos PhotoDeleteBackend, comments CommentSweeper, favorites FavoriteSweeper, blobs BlobRemover, albums *AlbumsStore, gallery *GalleryStore, publisher events.Publisher) *Deleter {
	return &Deleter{
		photos:    photos,
		comments:  comments,
		favorites: favorites,
		blobs:     blobs,
		albums:    albums,
		gallery:   gallery,
		publisher: publisher,
	}
}

// Delete removes a photo and all of its references. When the document no
// longer exists the record-level steps are skipped but blob removal and the
// local scrub still run, so retrying a failed deletion converges. The final
// two steps always run: the feed drops the photo locally and then reloads
// from the remote store.
func (d *Deleter) Delete(ctx context.Context, photo *models.Photo) *DeletionReport {
	photoID := photo.ID.Hex()
	report := &DeletionReport{PhotoID: photoID}

	exists, err := d.photos.Exists(ctx, photoID)
	report.record("check document", err)
	report.Found = exists

	if exists {
		_, err = d.comments.DeleteByPhoto(ctx, photoID)
		report.record("delete comments", err)

		for _, albumID := range photo.AlbumIDs {
			err = d.albums.RemovePhotoFromAlbum(ctx, photoID, albumID)
			report.record("remove from album "+albumID, err)
		}

		err = d.photos.Delete(ctx, photoID)
		report.record("delete document", err)

		members, err := d.favorites.ListFavoritedBy(ctx, photoID)
		report.record("find favorite references", err)
		for _, member := range members {
			err = d.favorites.RemoveFavorite(ctx, member.ID.Hex(), photoID)
			report.record("clear favorite for "+member.ID.Hex(), err)
		}
	}

	report.record("delete full variant", d.removeVariant(ctx, photo.FullURL))
	report.record("delete thumb variant", d.removeVariant(ctx, thumbURLFromFull(photo.FullURL)))

	d.gallery.RemoveLocal(ctx, photoID)
	report.record("refresh feed", d.gallery.Refresh(ctx))

	if d.publisher != nil {
		if err := d.publisher.PublishPhotoDeleted(ctx, photoID, photo.OwnerID); err != nil {
			log.Printf("Error publishing photo deleted event: %v", err)
		}
	}

	return report
}

func (d *Deleter) removeVariant(ctx context.Context, rawURL string) error {
	objectPath, err := d.blobs.ObjectPathFromURL(rawURL)
	if err != nil {
		return err
	}
	return d.blobs.Remove(ctx, objectPath)
}

// thumbURLFromFull derives the thumb variant URL from the full variant URL
// by path substitution. The two variants always live at mirrored paths.
func thumbURLFromFull(fullURL string) string {
	return strings.Replace(fullURL, "/original/", "/thumb/", 1)
}
