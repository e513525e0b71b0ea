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

type PhotoRepository struct {
	photoCollection *mongodb.Collection
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository() *PhotoRepository {
	return &PhotoRepository{
		photoCollection: mongo.Photos(),
	}
}

// Insert saves a new photo metadata record
func (r *PhotoRepository) Insert(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now()
	}
	if photo.AlbumIDs == nil {
		photo.AlbumIDs = []string{}
	}

	result, err := r.photoCollection.InsertOne(ctx, photo)
	if err != nil {
		log.Printf("Error creating photo: %v", err)
		return nil, err
	}

	photo.ID = result.InsertedID.(bson.ObjectID)
	return photo, nil
}

// GetByID retrieves a photo by ID. A missing photo is (nil, nil).
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var photo models.Photo
	err = r.photoCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&photo)
	if err != nil {
		if err == mongodb.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &photo, nil
}

// Exists reports whether the photo document is still present
func (r *PhotoRepository) Exists(ctx context.Context, id string) (bool, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, err
	}

	count, err := r.photoCollection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete deletes a photo by ID
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.photoCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

// ListPage retrieves one page of the global feed ordered by creation time
// descending, starting strictly after the given cursor when one is set.
func (r *PhotoRepository) ListPage(ctx context.Context, limit int, after *models.PageCursor) ([]*models.Photo, error) {
	filter := bson.M{}
	if after != nil {
		filter["$or"] = []bson.M{
			{"createdAt": bson.M{"$lt": after.CreatedAt}},
			{"createdAt": after.CreatedAt, "_id": bson.M{"$lt": after.ID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.photoCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var photos []*models.Photo
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}

	return photos, nil
}

// ListByAlbum retrieves all photos claiming membership in an album,
// newest first. Always a live query so album views reflect deletions.
func (r *PhotoRepository) ListByAlbum(ctx context.Context, albumID string) ([]*models.Photo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.photoCollection.Find(ctx, bson.M{"albumIds": albumID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var photos []*models.Photo
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}

	return photos, nil
}

// AddAlbumRef appends an album id to the photo's membership set
func (r *PhotoRepository) AddAlbumRef(ctx context.Context, photoID, albumID string) error {
	objectID, err := bson.ObjectIDFromHex(photoID)
	if err != nil {
		return err
	}

	_, err = r.photoCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$addToSet": bson.M{"albumIds": albumID}},
	)
	return err
}

// RemoveAlbumRef removes an album id from the photo's membership set
func (r *PhotoRepository) RemoveAlbumRef(ctx context.Context, photoID, albumID string) error {
	objectID, err := bson.ObjectIDFromHex(photoID)
	if err != nil {
		return err
	}

	_, err = r.photoCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$pull": bson.M{"albumIds": albumID}},
	)
	return err
}

// IncCommentCount atomically adjusts the photo's denormalized comment count
func (r *PhotoRepository) IncCommentCount(ctx context.Context, photoID string, delta int) error {
	objectID, err := bson.ObjectIDFromHex(photoID)
	if err != nil {
		return err
	}

	_, err = r.photoCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"commentCount": delta}},
	)
	return err
}

// Count returns the total number of photo documents
func (r *PhotoRepository) Count(ctx context.Context) (int64, error) {
	return r.photoCollection.CountDocuments(ctx, bson.M{})
}
