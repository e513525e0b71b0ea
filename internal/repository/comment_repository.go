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

type CommentRepository struct {
	commentCollection *mongodb.Collection
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		commentCollection: mongo.Comments(),
	}
}

// Insert saves a new comment
func (r *CommentRepository) Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	result, err := r.commentCollection.InsertOne(ctx, comment)
	if err != nil {
		log.Printf("Error creating comment: %v", err)
		return nil, err
	}

	comment.ID = result.InsertedID.(bson.ObjectID)
	return comment, nil
}

// ListPage retrieves one page of a photo's comment thread, newest first,
// starting strictly after the given cursor when one is set.
func (r *CommentRepository) ListPage(ctx context.Context, photoID string, limit int, after *models.PageCursor) ([]*models.Comment, error) {
	filter := bson.M{"photoId": photoID}
	if after != nil {
		filter["$or"] = []bson.M{
			{"createdAt": bson.M{"$lt": after.CreatedAt}},
			{"createdAt": after.CreatedAt, "_id": bson.M{"$lt": after.ID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.commentCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

// DeleteByPhoto removes every comment under a photo and returns how many
// were removed. Used by the photo deletion cascade.
func (r *CommentRepository) DeleteByPhoto(ctx context.Context, photoID string) (int64, error) {
	result, err := r.commentCollection.DeleteMany(ctx, bson.M{"photoId": photoID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Count returns the total number of comment documents
func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	return r.commentCollection.CountDocuments(ctx, bson.M{})
}
