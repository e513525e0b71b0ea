package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FamilyMember is the denormalized user record. Favorites holds photo ids
// and may reference photos that no longer exist; renderers filter those
// silently.
type FamilyMember struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName  string        `bson:"displayName" json:"displayName"`
	Email        string        `bson:"email" json:"email"`
	PhotoURL     string        `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	JoinedAt     time.Time     `bson:"joinedAt" json:"joinedAt"`
	Relation     string        `bson:"relation" json:"relation"`
	Favorites    []string      `bson:"favorites" json:"favorites"`
	PasswordHash string        `bson:"passwordHash" json:"-"`
}
