package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comment is scoped under its parent photo. Comments are only ever deleted
// in bulk when the parent photo is deleted.
type Comment struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	PhotoID    string        `bson:"photoId" json:"photoId"`
	AuthorID   string        `bson:"authorId" json:"authorId"`
	AuthorName string        `bson:"authorName" json:"authorName"`
	Text       string        `bson:"text" json:"text"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
}

// CursorFromComment derives the pagination cursor from the last comment of a page.
func CursorFromComment(c *Comment) *PageCursor {
	if c == nil {
		return nil
	}
	return &PageCursor{CreatedAt: c.CreatedAt, ID: c.ID}
}
