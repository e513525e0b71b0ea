package mongo

import (
	"context"
	"log"
	"time"

	"github.com/lewybagz/photoBomb/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names. Every repository resolves its collection through these
// so the layout of the database is visible in one place.
const (
	PhotosCollection   = "photos"
	AlbumsCollection   = "albums"
	UsersCollection    = "users"
	CommentsCollection = "comments"
)

var (
	Client   *mongo.Client
	Database *mongo.Database
)

// InitMongoDB connects the shared client and selects the photo database.
// The connection is verified with a primary ping before any repository is
// allowed to use it.
func InitMongoDB(cfg *config.MongoDBConfig) error {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.PoolSize)

	var err error
	Client, err = mongo.Connect(clientOptions)
	if err != nil {
		log.Printf("Error connecting to MongoDB: %v", err)
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := Client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Printf("Error pinging MongoDB: %v", err)
		return err
	}

	Database = Client.Database(cfg.Database)
	log.Printf("Successfully connected to MongoDB database: %s", cfg.Database)

	return nil
}

// CloseDB disconnects the shared client
func CloseDB() {
	if Client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
}

// GetCollection returns a handle on a named collection
func GetCollection(name string) *mongo.Collection {
	return Database.Collection(name)
}

// Photos returns the photo metadata collection
func Photos() *mongo.Collection {
	return GetCollection(PhotosCollection)
}

// Albums returns the album collection
func Albums() *mongo.Collection {
	return GetCollection(AlbumsCollection)
}

// Users returns the family member collection
func Users() *mongo.Collection {
	return GetCollection(UsersCollection)
}

// Comments returns the comment collection
func Comments() *mongo.Collection {
	return GetCollection(CommentsCollection)
}
