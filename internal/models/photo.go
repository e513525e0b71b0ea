package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Photo is the metadata record for one uploaded photo. The binary content
// lives in the blob store under the original/thumb object paths encoded in
// the two URLs. AlbumIDs is maintained best-effort: a photo may carry a
// stale album reference after a partial failure or an album deletion, so
// readers must treat it as a hint rather than a guarantee.
type Photo struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      string        `bson:"ownerId" json:"ownerId"`
	OwnerName    string        `bson:"ownerName" json:"ownerName"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	FullURL      string        `bson:"fullUrl" json:"fullUrl"`
	ThumbURL     string        `bson:"thumbUrl" json:"thumbUrl"`
	AlbumIDs     []string      `bson:"albumIds" json:"albumIds"`
	CommentCount int           `bson:"commentCount" json:"commentCount"`
	Width        int           `bson:"width,omitempty" json:"width,omitempty"`
	Height       int           `bson:"height,omitempty" json:"height,omitempty"`
	Title        string        `bson:"title,omitempty" json:"title,omitempty"`
}

// PageCursor marks the last item of a fetched page for "start after"
// pagination over a (createdAt desc, _id desc) ordered query.
type PageCursor struct {
	CreatedAt time.Time     `json:"createdAt"`
	ID        bson.ObjectID `json:"id"`
}

// CursorFromPhoto derives the pagination cursor from the last photo of a page.
func CursorFromPhoto(p *Photo) *PageCursor {
	if p == nil {
		return nil
	}
	return &PageCursor{CreatedAt: p.CreatedAt, ID: p.ID}
}
