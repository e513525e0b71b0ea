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

const commentsPerPage = 20

// CommentBackend is the document-store slice holding comment threads.
type CommentBackend interface {
	Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListPage(ctx context.Context, photoID string, limit int, after *models.PageCursor) ([]*models.Comment, error)
}

// CommentCounter keeps the parent photo's denormalized comment count.
type CommentCounter interface {
	IncCommentCount(ctx context.Context, photoID string, delta int) error
}

// thread is one photo's independently paginated comment state.
type thread struct {
	comments []*models.Comment
	cursor   *models.PageCursor
	hasMore  bool
	loading  bool
}

// CommentsStore keeps per-photo comment threads, each with its own cursor
// and pagination state. Threads are never cached locally; comments are
// small and conversations should always read fresh.
type CommentsStore struct {
	mu      sync.Mutex
	threads map[string]*thread

	backend   CommentBackend
	counter   CommentCounter
	publisher events.Publisher
}

// NewCommentsStore creates a comments store. publisher may be nil.
func NewCommentsStore(backend CommentBackend, counter CommentCounter, publisher events.Publisher) *CommentsStore {
	return &CommentsStore{
		threads:   make(map[string]*thread),
		backend:   backend,
		counter:   counter,
		publisher: publisher,
	}
}

func (s *CommentsStore) getThread(photoID string) *thread {
	t, ok := s.threads[photoID]
	if !ok {
		t = &thread{hasMore: true}
		s.threads[photoID] = t
	}
	return t
}

// LoadInitial fetches the first page of a photo's thread, replacing any
// previously loaded state for that photo. Concurrent loads on the same
// thread are no-ops.
func (s *CommentsStore) LoadInitial(ctx context.Context, photoID string) error {
	s.mu.Lock()
	t := s.getThread(photoID)
	if t.loading {
		s.mu.Unlock()
		return nil
	}
	t.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		t.loading = false
		s.mu.Unlock()
	}()

	page, err := s.backend.ListPage(ctx, photoID, commentsPerPage, nil)
	if err != nil {
		log.Printf("Error loading comments for %s: %v", photoID, err)
		return err
	}

	s.mu.Lock()
	t.comments = page
	if len(page) > 0 {
		t.cursor = models.CursorFromComment(page[len(page)-1])
	} else {
		t.cursor = nil
	}
	t.hasMore = len(page) == commentsPerPage
	s.mu.Unlock()

	return nil
}

// LoadMore appends the page strictly after the thread's cursor. A no-op
// when a load is in flight, there is no cursor, or the thread is exhausted.
func (s *CommentsStore) LoadMore(ctx context.Context, photoID string) error {
	s.mu.Lock()
	t := s.getThread(photoID)
	if t.loading || !t.hasMore || t.cursor == nil {
		s.mu.Unlock()
		return nil
	}
	t.loading = true
	after := t.cursor
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		t.loading = false
		s.mu.Unlock()
	}()

	page, err := s.backend.ListPage(ctx, photoID, commentsPerPage, after)
	if err != nil {
		log.Printf("Error loading more comments for %s: %v", photoID, err)
		return err
	}

	s.mu.Lock()
	t.comments = append(t.comments, page...)
	if len(page) > 0 {
		t.cursor = models.CursorFromComment(page[len(page)-1])
	}
	t.hasMore = len(page) == commentsPerPage
	s.mu.Unlock()

	return nil
}

// Add posts a comment, bumps the parent photo's comment count, and
// prepends the new comment to the in-memory thread. Blank text is rejected
// before any remote call.
func (s *CommentsStore) Add(ctx context.Context, photoID, authorID, authorName, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	comment := &models.Comment{
		PhotoID:    photoID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now(),
	}

	inserted, err := s.backend.Insert(ctx, comment)
	if err != nil {
		return nil, err
	}

	if err := s.counter.IncCommentCount(ctx, photoID, 1); err != nil {
		log.Printf("Error bumping comment count for %s: %v", photoID, err)
	}

	s.mu.Lock()
	t := s.getThread(photoID)
	t.comments = append([]*models.Comment{inserted}, t.comments...)
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishCommentCreated(ctx, inserted.ID.Hex(), photoID, authorID); err != nil {
			log.Printf("Error publishing comment created event: %v", err)
		}
	}

	return inserted, nil
}

// Comments returns a snapshot of the photo's loaded thread
func (s *CommentsStore) Comments(photoID string) []*models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[photoID]
	if !ok {
		return nil
	}
	snapshot := make([]*models.Comment, len(t.comments))
	copy(snapshot, t.comments)
	return snapshot
}

// HasMore reports whether the photo's thread has more remote pages
func (s *CommentsStore) HasMore(photoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[photoID]
	if !ok {
		return true
	}
	return t.hasMore
}

// Drop discards a photo's loaded thread, used after the photo is deleted
func (s *CommentsStore) Drop(photoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, photoID)
}
