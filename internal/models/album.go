package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Album is a named photo collection with a denormalized photo count and
// cover selection. CoverPhotoID and CoverPhotoURL are both nil or both set;
// an album with photoCount zero has no cover.
type Album struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string        `bson:"name" json:"name"`
	CoverPhotoID  *string       `bson:"coverPhotoId" json:"coverPhotoId"`
	CoverPhotoURL *string       `bson:"coverPhotoUrl" json:"coverPhotoUrl"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	PhotoCount    int           `bson:"photoCount" json:"photoCount"`
	OwnerID       string        `bson:"ownerId" json:"ownerId"`
}
