package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lewybagz/photoBomb/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeCommentBackend serves newest-first threads keyed by photo id.
type fakeCommentBackend struct {
	threads map[string][]*models.Comment
}

func newFakeCommentBackend() *fakeCommentBackend {
	return &fakeCommentBackend{threads: make(map[string][]*models.Comment)}
}

func (f *fakeCommentBackend) Insert(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.ID = bson.NewObjectID()
	f.threads[comment.PhotoID] = append([]*models.Comment{comment}, f.threads[comment.PhotoID]...)
	return comment, nil
}

func (f *fakeCommentBackend) ListPage(_ context.Context, photoID string, limit int, after *models.PageCursor) ([]*models.Comment, error) {
	thread := f.threads[photoID]
	start := 0
	if after != nil {
		for i, c := range thread {
			if c.ID == after.ID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(thread) {
		end = len(thread)
	}
	page := make([]*models.Comment, end-start)
	copy(page, thread[start:end])
	return page, nil
}

type fakeCommentCounter struct {
	counts map[string]int
	err    error
}

func (f *fakeCommentCounter) IncCommentCount(_ context.Context, photoID string, delta int) error {
	if f.err != nil {
		return f.err
	}
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[photoID] += delta
	return nil
}

func seedThread(backend *fakeCommentBackend, photoID string, n int) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		backend.threads[photoID] = append(backend.threads[photoID], &models.Comment{
			ID:        bson.NewObjectID(),
			PhotoID:   photoID,
			Text:      "hello",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
}

func TestCommentsLoadInitial_PagesPerThread(t *testing.T) {
	backend := newFakeCommentBackend()
	seedThread(backend, "photo-1", commentsPerPage+5)
	seedThread(backend, "photo-2", 3)

	comments := NewCommentsStore(backend, &fakeCommentCounter{}, nil)

	if err := comments.LoadInitial(context.Background(), "photo-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := comments.LoadInitial(context.Background(), "photo-2"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := len(comments.Comments("photo-1")); got != commentsPerPage {
		t.Errorf("Expected %d comments on the first page, got %d", commentsPerPage, got)
	}
	if !comments.HasMore("photo-1") {
		t.Error("Expected more pages for the long thread")
	}
	if got := len(comments.Comments("photo-2")); got != 3 {
		t.Errorf("Expected 3 comments, got %d", got)
	}
	if comments.HasMore("photo-2") {
		t.Error("Expected the short thread to be exhausted")
	}
}

func TestCommentsLoadMore_AppendsRemainder(t *testing.T) {
	backend := newFakeCommentBackend()
	seedThread(backend, "photo-1", commentsPerPage+5)

	comments := NewCommentsStore(backend, &fakeCommentCounter{}, nil)
	if err := comments.LoadInitial(context.Background(), "photo-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := comments.LoadMore(context.Background(), "photo-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	loaded := comments.Comments("photo-1")
	if len(loaded) != commentsPerPage+5 {
		t.Fatalf("Expected the full thread, got %d", len(loaded))
	}
	for i, c := range loaded {
		if c.ID != backend.threads["photo-1"][i].ID {
			t.Errorf("Comment %d out of order", i)
		}
	}
	if comments.HasMore("photo-1") {
		t.Error("Expected the thread to be exhausted")
	}
}

func TestAddComment_TrimsAndRejectsBlank(t *testing.T) {
	backend := newFakeCommentBackend()
	counter := &fakeCommentCounter{}
	comments := NewCommentsStore(backend, counter, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := comments.Add(context.Background(), "photo-1", "user-1", "Alice", text); !errors.Is(err, ErrEmptyComment) {
			t.Errorf("Expected ErrEmptyComment for %q, got %v", text, err)
		}
	}
	if len(backend.threads["photo-1"]) != 0 {
		t.Error("Expected no comment records for blank text")
	}

	added, err := comments.Add(context.Background(), "photo-1", "user-1", "Alice", "  nice shot  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if added.Text != "nice shot" {
		t.Errorf("Expected trimmed text, got %q", added.Text)
	}
	if counter.counts["photo-1"] != 1 {
		t.Errorf("Expected comment count 1, got %d", counter.counts["photo-1"])
	}

	// The new comment is prepended to the loaded thread
	loaded := comments.Comments("photo-1")
	if len(loaded) != 1 || loaded[0].ID != added.ID {
		t.Error("Expected the new comment at the head of the thread")
	}
}

func TestAddComment_CounterFailureDoesNotLoseComment(t *testing.T) {
	backend := newFakeCommentBackend()
	counter := &fakeCommentCounter{err: errors.New("photo store down")}
	comments := NewCommentsStore(backend, counter, nil)

	added, err := comments.Add(context.Background(), "photo-1", "user-1", "Alice", "still here")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if added == nil {
		t.Fatal("Expected the comment despite the counter failure")
	}
	if len(backend.threads["photo-1"]) != 1 {
		t.Error("Expected the comment record to exist")
	}
}

func TestDrop_DiscardsThreadState(t *testing.T) {
	backend := newFakeCommentBackend()
	seedThread(backend, "photo-1", 2)

	comments := NewCommentsStore(backend, &fakeCommentCounter{}, nil)
	if err := comments.LoadInitial(context.Background(), "photo-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	comments.Drop("photo-1")
	if got := comments.Comments("photo-1"); got != nil {
		t.Errorf("Expected no thread state after drop, got %d comments", len(got))
	}
}
