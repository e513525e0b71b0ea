package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lewybagz/photoBomb/internal/imaging"
	"github.com/lewybagz/photoBomb/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeBlobUploader struct {
	uploads map[string][]byte
	failOn  string
}

func newFakeBlobUploader() *fakeBlobUploader {
	return &fakeBlobUploader{uploads: make(map[string][]byte)}
}

func (f *fakeBlobUploader) Upload(_ context.Context, objectPath string, data []byte, _ string) (string, error) {
	if f.failOn != "" && strings.Contains(objectPath, f.failOn) {
		return "", errors.New("storage unavailable")
	}
	f.uploads[objectPath] = data
	return "http://blobs/" + objectPath, nil
}

type fakePhotoInserter struct {
	inserted []*models.Photo
	err      error
}

func (f *fakePhotoInserter) Insert(_ context.Context, photo *models.Photo) (*models.Photo, error) {
	if f.err != nil {
		return nil, f.err
	}
	photo.ID = bson.NewObjectID()
	f.inserted = append(f.inserted, photo)
	return photo, nil
}

func stubCompress(data []byte) (*imaging.Compressed, error) {
	if len(data) == 0 {
		return nil, errors.New("not an image")
	}
	return &imaging.Compressed{
		Full:   append([]byte("full:"), data...),
		Thumb:  append([]byte("thumb:"), data...),
		Width:  1200,
		Height: 800,
	}, nil
}

func newTestPipeline() (*UploadPipeline, *fakeBlobUploader, *fakePhotoInserter, *GalleryStore) {
	blobs := newFakeBlobUploader()
	photos := &fakePhotoInserter{}
	gallery := NewGalleryStore(&fakePhotoPager{}, newFakeCache())
	pipeline := NewUploadPipeline(blobs, photos, gallery, nil)
	pipeline.compress = stubCompress
	return pipeline, blobs, photos, gallery
}

func TestProcess_UploadsBothVariants(t *testing.T) {
	pipeline, blobs, photos, gallery := newTestPipeline()

	batch := []*models.UploadFile{
		{ID: "f1", Name: "a.jpg", Data: []byte("aaa"), Title: "Beach", Status: models.UploadStatusPending},
	}
	pipeline.Process(context.Background(), "owner-1", "Alice", batch)

	file := batch[0]
	if file.Status != models.UploadStatusDone {
		t.Fatalf("Expected status done, got %s (%s)", file.Status, file.Error)
	}
	if file.Progress != 100 {
		t.Errorf("Expected progress 100, got %d", file.Progress)
	}
	if file.PhotoID == "" {
		t.Error("Expected the stored photo id on the file")
	}

	// Both variants stored under mirrored original/thumb paths, each
	// derived from the original bytes
	var fullPath, thumbPath string
	for path, data := range blobs.uploads {
		switch {
		case strings.Contains(path, "/original/"):
			fullPath = path
			if !strings.HasPrefix(string(data), "full:") {
				t.Error("Expected the full variant from the original bytes")
			}
		case strings.Contains(path, "/thumb/"):
			thumbPath = path
			if !strings.HasPrefix(string(data), "thumb:") {
				t.Error("Expected the thumb variant from the original bytes")
			}
		}
	}
	if fullPath == "" || thumbPath == "" {
		t.Fatalf("Expected both variant uploads, got %v", blobs.uploads)
	}
	if strings.Replace(fullPath, "/original/", "/thumb/", 1) != thumbPath {
		t.Errorf("Expected mirrored paths, got %s and %s", fullPath, thumbPath)
	}

	if len(photos.inserted) != 1 {
		t.Fatalf("Expected 1 photo record, got %d", len(photos.inserted))
	}
	record := photos.inserted[0]
	if record.Title != "Beach" || record.OwnerID != "owner-1" || record.OwnerName != "Alice" {
		t.Error("Expected metadata carried onto the record")
	}
	if record.Width != 1200 || record.Height != 800 {
		t.Errorf("Expected original dimensions on the record, got %dx%d", record.Width, record.Height)
	}
	if record.AlbumIDs == nil || len(record.AlbumIDs) != 0 {
		t.Error("Expected an empty album membership set")
	}

	// Fresh upload surfaces in the feed without a reload
	if len(gallery.Photos()) != 1 {
		t.Error("Expected the upload in the feed")
	}
}

func TestProcess_FailureIsolatedPerFile(t *testing.T) {
	pipeline, _, photos, gallery := newTestPipeline()

	// Middle file fails compression; its neighbors must still finish
	batch := []*models.UploadFile{
		{ID: "f1", Name: "a.jpg", Data: []byte("aaa"), Status: models.UploadStatusPending},
		{ID: "f2", Name: "bad.jpg", Data: nil, Status: models.UploadStatusPending},
		{ID: "f3", Name: "c.jpg", Data: []byte("ccc"), Status: models.UploadStatusPending},
	}
	pipeline.Process(context.Background(), "owner-1", "Alice", batch)

	if batch[0].Status != models.UploadStatusDone {
		t.Errorf("Expected file 1 done, got %s", batch[0].Status)
	}
	if batch[1].Status != models.UploadStatusError {
		t.Errorf("Expected file 2 error, got %s", batch[1].Status)
	}
	if batch[1].Error == "" {
		t.Error("Expected an error message on the failed file")
	}
	if batch[2].Status != models.UploadStatusDone {
		t.Errorf("Expected file 3 done, got %s", batch[2].Status)
	}
	if len(photos.inserted) != 2 {
		t.Errorf("Expected 2 records, got %d", len(photos.inserted))
	}
	if len(gallery.Photos()) != 2 {
		t.Errorf("Expected 2 feed entries, got %d", len(gallery.Photos()))
	}
}

func TestProcess_SkipsNonPendingFiles(t *testing.T) {
	pipeline, blobs, _, _ := newTestPipeline()

	batch := []*models.UploadFile{
		{ID: "f1", Name: "done.jpg", Data: []byte("x"), Status: models.UploadStatusDone, Progress: 100},
		{ID: "f2", Name: "failed.jpg", Data: []byte("y"), Status: models.UploadStatusError},
	}
	pipeline.Process(context.Background(), "owner-1", "Alice", batch)

	if len(blobs.uploads) != 0 {
		t.Errorf("Expected no uploads for a settled batch, got %d", len(blobs.uploads))
	}
	if batch[0].Status != models.UploadStatusDone || batch[1].Status != models.UploadStatusError {
		t.Error("Expected settled files to keep their state")
	}
}

func TestProcess_BlobFailureLeavesNoRecord(t *testing.T) {
	pipeline, blobs, photos, gallery := newTestPipeline()
	blobs.failOn = "/thumb/"

	batch := []*models.UploadFile{
		{ID: "f1", Name: "a.jpg", Data: []byte("aaa"), Status: models.UploadStatusPending},
	}
	pipeline.Process(context.Background(), "owner-1", "Alice", batch)

	if batch[0].Status != models.UploadStatusError {
		t.Fatalf("Expected status error, got %s", batch[0].Status)
	}
	if len(photos.inserted) != 0 {
		t.Error("Expected no record when a variant failed to store")
	}
	if len(gallery.Photos()) != 0 {
		t.Error("Expected nothing in the feed")
	}
}
