package events

import (
	"math/rand"
	"time"
)

type EventType string

const (
	// Photo events
	EventTypePhotoUploaded EventType = "photo.uploaded"
	EventTypePhotoDeleted  EventType = "photo.deleted"

	// Album events
	EventTypeAlbumCreated EventType = "album.created"
	EventTypeAlbumDeleted EventType = "album.deleted"

	// Comment events
	EventTypeCommentCreated EventType = "comment.created"

	EventTypeUserRegistered EventType = "user.registered"
)

// BaseEvent represents the common fields for all events
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

// PhotoEvent represents an event related to a photo operation
type PhotoEvent struct {
	BaseEvent
	PhotoID string `json:"photoId"`
	OwnerID string `json:"ownerId"`
	Title   string `json:"title,omitempty"`
}

// AlbumEvent represents an event related to an album operation
type AlbumEvent struct {
	BaseEvent
	AlbumID string `json:"albumId"`
	OwnerID string `json:"ownerId,omitempty"`
	Name    string `json:"name,omitempty"`
}

// CommentEvent represents an event related to a comment operation
type CommentEvent struct {
	BaseEvent
	CommentID string `json:"commentId"`
	PhotoID   string `json:"photoId"`
	AuthorID  string `json:"authorId"`
}

// UserRegisteredEvent represents a new family member registration
type UserRegisteredEvent struct {
	BaseEvent
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Relation    string `json:"relation,omitempty"`
}

// NewPhotoUploadedEvent creates a new photo uploaded event
func NewPhotoUploadedEvent(photoID, ownerID, title string) *PhotoEvent {
	return &PhotoEvent{
		BaseEvent: newBaseEvent(EventTypePhotoUploaded),
		PhotoID:   photoID,
		OwnerID:   ownerID,
		Title:     title,
	}
}

// NewPhotoDeletedEvent creates a new photo deleted event
func NewPhotoDeletedEvent(photoID, ownerID string) *PhotoEvent {
	return &PhotoEvent{
		BaseEvent: newBaseEvent(EventTypePhotoDeleted),
		PhotoID:   photoID,
		OwnerID:   ownerID,
	}
}

// NewAlbumCreatedEvent creates a new album created event
func NewAlbumCreatedEvent(albumID, ownerID, name string) *AlbumEvent {
	return &AlbumEvent{
		BaseEvent: newBaseEvent(EventTypeAlbumCreated),
		AlbumID:   albumID,
		OwnerID:   ownerID,
		Name:      name,
	}
}

// NewAlbumDeletedEvent creates a new album deleted event
func NewAlbumDeletedEvent(albumID string) *AlbumEvent {
	return &AlbumEvent{
		BaseEvent: newBaseEvent(EventTypeAlbumDeleted),
		AlbumID:   albumID,
	}
}

// NewCommentCreatedEvent creates a new comment created event
func NewCommentCreatedEvent(commentID, photoID, authorID string) *CommentEvent {
	return &CommentEvent{
		BaseEvent: newBaseEvent(EventTypeCommentCreated),
		CommentID: commentID,
		PhotoID:   photoID,
		AuthorID:  authorID,
	}
}

// NewUserRegisteredEvent creates a new member registration event
func NewUserRegisteredEvent(userID, email, displayName, relation string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent:   newBaseEvent(EventTypeUserRegistered),
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Relation:    relation,
	}
}

func newBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Version:   "1.0",
	}
}

// Helper function to generate a unique event ID
func generateEventID() string {
	return time.Now().UTC().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
