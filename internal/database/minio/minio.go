package minio

import (
	"context"
	"io"
	"log"

	"github.com/lewybagz/photoBomb/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var MinioClient *minio.Client

func InitMinioClient(cfg *config.MinIOConfig) error {
	var err error

	// Initialize MinIO client
	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		log.Printf("Error initializing MinIO client: %v", err)
		return err
	}

	// Check if the photo bucket exists and create it if it doesn't
	exists, err := MinioClient.BucketExists(context.Background(), cfg.PhotoBucket)
	if err != nil {
		log.Printf("Error checking if bucket %s exists: %v", cfg.PhotoBucket, err)
		return err
	}

	if !exists {
		err = MinioClient.MakeBucket(context.Background(), cfg.PhotoBucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			log.Printf("Error creating bucket %s: %v", cfg.PhotoBucket, err)
			return err
		}
		log.Printf("Created bucket: %s", cfg.PhotoBucket)
	}

	log.Println("Successfully initialized MinIO client")
	return nil
}

// UploadObject uploads an object to MinIO
func UploadObject(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
	uploadInfo, err := MinioClient.PutObject(ctx, bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("Error uploading object to MinIO: %v", err)
		return minio.UploadInfo{}, err
	}

	return uploadInfo, nil
}

// GetObject downloads an object from MinIO
func GetObject(ctx context.Context, bucketName, objectName string) (*minio.Object, error) {
	object, err := MinioClient.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		log.Printf("Error getting object from MinIO: %v", err)
		return nil, err
	}

	return object, nil
}

// DeleteObject deletes an object from MinIO
func DeleteObject(ctx context.Context, bucketName, objectName string) error {
	err := MinioClient.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		log.Printf("Error deleting object from MinIO: %v", err)
		return err
	}

	return nil
}

// CountObjectsInBucket counts the objects under a bucket
func CountObjectsInBucket(bucketName string) (int, error) {
	objectCount := 0
	objectCh := MinioClient.ListObjects(context.Background(), bucketName, minio.ListObjectsOptions{
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			log.Printf("Error listing objects in bucket: %v", object.Err)
			return 0, object.Err
		}
		objectCount++
	}
	return objectCount, nil
}
