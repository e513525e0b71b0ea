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
	"golang.org/x/crypto/bcrypt"
)

type UserRepository struct {
	userCollection *mongodb.Collection
}

// NewUserRepository creates a new family member repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		userCollection: mongo.Users(),
	}
}

// Insert saves a new family member record
func (r *UserRepository) Insert(ctx context.Context, member *models.FamilyMember) (*models.FamilyMember, error) {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	if member.Favorites == nil {
		member.Favorites = []string{}
	}

	result, err := r.userCollection.InsertOne(ctx, member)
	if err != nil {
		log.Printf("Error creating family member: %v", err)
		return nil, err
	}

	member.ID = result.InsertedID.(bson.ObjectID)
	return member, nil
}

// GetByID retrieves a family member by ID. A missing member is (nil, nil).
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.FamilyMember, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var member models.FamilyMember
	err = r.userCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&member)
	if err != nil {
		if err == mongodb.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &member, nil
}

// GetByEmail retrieves a family member by email. A missing member is (nil, nil).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.FamilyMember, error) {
	var member models.FamilyMember
	err := r.userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if err != nil {
		if err == mongodb.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &member, nil
}

// List retrieves every family member, oldest first
func (r *UserRepository) List(ctx context.Context) ([]*models.FamilyMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinedAt", Value: 1}})
	cursor, err := r.userCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []*models.FamilyMember
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}

	return members, nil
}

// GetFavorites returns the member's favorite photo ids, empty when the
// member is missing or has no favorites field yet.
func (r *UserRepository) GetFavorites(ctx context.Context, userID string) ([]string, error) {
	member, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Favorites == nil {
		return []string{}, nil
	}
	return member.Favorites, nil
}

// AddFavorite appends a photo id to the member's favorite set
func (r *UserRepository) AddFavorite(ctx context.Context, userID, photoID string) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = r.userCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$addToSet": bson.M{"favorites": photoID}},
	)
	return err
}

// RemoveFavorite removes a photo id from the member's favorite set
func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, photoID string) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = r.userCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$pull": bson.M{"favorites": photoID}},
	)
	return err
}

// ListFavoritedBy retrieves every member whose favorites contain the photo
func (r *UserRepository) ListFavoritedBy(ctx context.Context, photoID string) ([]*models.FamilyMember, error) {
	cursor, err := r.userCollection.Find(ctx, bson.M{"favorites": photoID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []*models.FamilyMember
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}

	return members, nil
}

// UpdateDisplayName updates a member's display name
func (r *UserRepository) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = r.userCollection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"displayName": displayName}},
	)
	return err
}

// VerifyPassword checks a candidate password against the stored hash
func (r *UserRepository) VerifyPassword(member *models.FamilyMember, password string) bool {
	if member == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a password for storage
func (r *UserRepository) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Count returns the total number of family member documents
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.userCollection.CountDocuments(ctx, bson.M{})
}
