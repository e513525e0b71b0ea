package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lewybagz/photoBomb/internal/events"
	"github.com/lewybagz/photoBomb/internal/imaging"
	"github.com/lewybagz/photoBomb/internal/models"
)

// Upload progress checkpoints per file
const (
	progressStarted    = 10
	progressCompressed = 30
	progressFullStored = 60
	progressThumbStore = 80
	progressDone       = 100
)

// BlobUploader stores variant bytes and hands back a public URL.
type BlobUploader interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}

// PhotoInserter persists the photo record after its blobs exist.
type PhotoInserter interface {
	Insert(ctx context.Context, photo *models.Photo) (*models.Photo, error)
}

// CompressFunc produces the two display variants from original bytes.
type CompressFunc func(data []byte) (*imaging.Compressed, error)

// UploadPipeline processes upload batches strictly one file at a time so a
// large batch cannot saturate the uplink. Each file runs the same sequence:
// compress, store full variant, store thumb variant, insert the record,
// surface in the gallery. One file failing marks that file and moves on.
type UploadPipeline struct {
	blobs     BlobUploader
	photos    PhotoInserter
	gallery   *GalleryStore
	compress  CompressFunc
	publisher events.Publisher
}

// NewUploadPipeline creates an upload pipeline. publisher may be nil.
func NewUploadPipeline(blobs BlobUploader, photos PhotoInserter, gallery *GalleryStore, publisher events.Publisher) *UploadPipeline {
	return &UploadPipeline{
		blobs:     blobs,
		photos:    photos,
		gallery:   gallery,
		compress:  imaging.Compress,
		publisher: publisher,
	}
}

// Process runs the batch sequentially. Files not in the pending state are
// skipped, which makes retrying a partially failed batch safe: finished
// files keep their done state and only failed or fresh entries run again.
func (p *UploadPipeline) Process(ctx context.Context, ownerID, ownerName string, batch []*models.UploadFile) {
	for _, file := range batch {
		if file.Status != models.UploadStatusPending {
			continue
		}
		if err := p.processOne(ctx, ownerID, ownerName, file); err != nil {
			file.Status = models.UploadStatusError
			file.Error = err.Error()
			log.Printf("Error uploading %s: %v", file.Name, err)
		}
	}
}

func (p *UploadPipeline) processOne(ctx context.Context, ownerID, ownerName string, file *models.UploadFile) error {
	file.Status = models.UploadStatusUploading
	file.Progress = progressStarted

	compressed, err := p.compress(file.Data)
	if err != nil {
		return fmt.Errorf("failed to compress %s: %w", file.Name, err)
	}
	file.Progress = progressCompressed

	photoID := uuid.NewString()

	fullPath := fmt.Sprintf("photos/%s/original/%s.jpg", ownerID, photoID)
	fullURL, err := p.blobs.Upload(ctx, fullPath, compressed.Full, "image/jpeg")
	if err != nil {
		return fmt.Errorf("failed to store full variant: %w", err)
	}
	file.Progress = progressFullStored

	thumbPath := fmt.Sprintf("photos/%s/thumb/%s.jpg", ownerID, photoID)
	thumbURL, err := p.blobs.Upload(ctx, thumbPath, compressed.Thumb, "image/jpeg")
	if err != nil {
		return fmt.Errorf("failed to store thumb variant: %w", err)
	}
	file.Progress = progressThumbStore

	photo := &models.Photo{
		OwnerID:      ownerID,
		OwnerName:    ownerName,
		CreatedAt:    time.Now(),
		FullURL:      fullURL,
		ThumbURL:     thumbURL,
		AlbumIDs:     []string{},
		CommentCount: 0,
		Width:        compressed.Width,
		Height:       compressed.Height,
		Title:        file.Title,
	}
	inserted, err := p.photos.Insert(ctx, photo)
	if err != nil {
		return fmt.Errorf("failed to save photo record: %w", err)
	}

	p.gallery.AddLocal(ctx, inserted)

	file.Status = models.UploadStatusDone
	file.Progress = progressDone
	file.PhotoID = inserted.ID.Hex()

	if p.publisher != nil {
		if err := p.publisher.PublishPhotoUploaded(ctx, file.PhotoID, ownerID, file.Title); err != nil {
			log.Printf("Error publishing photo uploaded event: %v", err)
		}
	}

	return nil
}
