package repository

import (
	"context"
	"log"
	"time"

	"github.com/lewybagz/photoBomb/internal/database/mongo"
	"github.com/lewybagz/photoBomb/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodb "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AlbumRepository struct {
	albumCollection *mongodb.Collection
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository() *AlbumRepository {
	return &AlbumRepository{
		albumCollection: mongo.Albums(),
	}
}

// Insert saves a new album and returns its id
func (r *AlbumRepository) Insert(ctx context.Context, album *models.Album) (string, error) {
	if album.CreatedAt.IsZero() {
		album.CreatedAt = time.Now()
	}

	result, err := r.albumCollection.InsertOne(ctx, album)
	if err != nil {
		log.Printf("Error creating album: %v", err)
		return "", err
	}

	album.ID = result.InsertedID.(bson.ObjectID)
	return album.ID.Hex(), nil
}

// GetByID retrieves an album by ID. A missing album is (nil, nil).
func (r *AlbumRepository) GetByID(ctx context.Context, id string) (*models.Album, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var album models.Album
	err = r.albumCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&album)
	if err != nil {
		if err == mongodb.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &album, nil
}

// List retrieves all albums, newest first
func (r *AlbumRepository) List(ctx context.Context) ([]*models.Album, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.albumCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var albums []*models.Album
	if err = cursor.All(ctx, &albums); err != nil {
		return nil, err
	}

	return albums, nil
}

// Delete deletes an album by ID. Member photos keep their albumIds entry;
// the stale reference is dropped lazily on the photo side.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.albumCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

// ClaimCover atomically sets the cover pair and bumps the photo count, but
// only when the album has no cover yet. The coverPhotoId filter is the
// compare-and-swap that keeps two concurrent adds from both claiming the
// cover. Returns whether this call won the claim.
func (r *AlbumRepository) ClaimCover(ctx context.Context, albumID, photoID, thumbURL string) (bool, error) {
	objectID, err := bson.ObjectIDFromHex(albumID)
	if err != nil {
		return false, err
	}

	result, err := r.albumCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "coverPhotoId": nil},
		bson.M{
			"$set": bson.M{
				"coverPhotoId":  photoID,
				"coverPhotoUrl": thumbURL,
			},
			"$inc": bson.M{"photoCount": 1},
		},
	)
	if err != nil {
		return false, err
	}

	return result.ModifiedCount > 0, nil
}

// IncPhotoCount atomically adjusts the album's denormalized photo count
func (r *AlbumRepository) IncPhotoCount(ctx context.Context, albumID string, delta int) error {
	objectID, err := bson.ObjectIDFromHex(albumID)
	if err != nil {
		return err
	}

	_, err = r.albumCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"photoCount": delta}},
	)
	return err
}

// SetMembership writes the recomputed photo count and optionally clears the
// cover pair, used when a photo leaves an album.
func (r *AlbumRepository) SetMembership(ctx context.Context, albumID string, photoCount int, clearCover bool) error {
	objectID, err := bson.ObjectIDFromHex(albumID)
	if err != nil {
		return err
	}

	updates := bson.M{"photoCount": photoCount}
	if clearCover {
		updates["coverPhotoId"] = nil
		updates["coverPhotoUrl"] = nil
	}

	_, err = r.albumCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updates},
	)
	return err
}

// Count returns the total number of album documents
func (r *AlbumRepository) Count(ctx context.Context) (int64, error) {
	return r.albumCollection.CountDocuments(ctx, bson.M{})
}
