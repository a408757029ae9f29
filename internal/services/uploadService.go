package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/tleroy/geocaching-api/internal/db"
	"github.com/tleroy/geocaching-api/internal/httperr"
	"github.com/tleroy/geocaching-api/internal/models"
	"github.com/tleroy/geocaching-api/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// objectName keeps the original naming scheme: field-<unix ms><ext>.
func objectName(field, originalName string) string {
	return fmt.Sprintf("%s-%d%s", field, time.Now().UnixMilli(), filepath.Ext(originalName))
}

// readUpload pulls the multipart file for field out of the request.
func readUpload(c *fiber.Ctx, field string) ([]byte, string, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", "", httperr.ErrValidation
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read file: %w", err)
	}

	return fileBytes, objectName(field, fileHeader.Filename), fileHeader.Header.Get("Content-Type"), nil
}

func putObject(fileBytes []byte, name, contentType string) error {
	_, err := storage.MinioClient.PutObject(
		context.Background(),
		storage.MediaBucket,
		name,
		bytes.NewReader(fileBytes),
		int64(len(fileBytes)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

// UpdateAvatar stores the uploaded avatar and points the user's avatar
// field at its URL.
func UpdateAvatar(c *fiber.Ctx, userID string) (string, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", httperr.ErrInvalidToken
	}

	fileBytes, name, contentType, err := readUpload(c, "avatar")
	if err != nil {
		return "", err
	}

	if err := putObject(fileBytes, name, contentType); err != nil {
		return "", fmt.Errorf("failed to upload avatar to storage: %w", err)
	}

	avatarURL := storage.MediaURL(name)
	_, err = db.GetCollection("users").UpdateOne(context.TODO(),
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{"avatar": avatarURL}})
	if err != nil {
		return "", err
	}
	return avatarURL, nil
}

// AddGeocachePhoto stores the uploaded photo and appends its URL to the
// cache's photo list. Object write and document update run in parallel;
// the object is removed again if the document write fails.
func AddGeocachePhoto(c *fiber.Ctx, cacheID string) ([]string, error) {
	cache, err := getGeocache(cacheID)
	if err != nil {
		return nil, err
	}

	fileBytes, name, contentType, err := readUpload(c, "photo")
	if err != nil {
		return nil, err
	}

	photoURL := storage.MediaURL(name)

	minioResultChan := make(chan error, 1)
	mongoResultChan := make(chan struct {
		updated models.Geocache
		err     error
	}, 1)

	go func() {
		minioResultChan <- putObject(fileBytes, name, contentType)
	}()

	go func() {
		var updated models.Geocache
		err := db.GetCollection("geocaches").FindOneAndUpdate(
			context.TODO(),
			bson.M{"_id": cache.ID},
			bson.M{"$push": bson.M{"photos": photoURL}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		mongoResultChan <- struct {
			updated models.Geocache
			err     error
		}{updated, err}
	}()

	minioErr := <-minioResultChan
	mongoResult := <-mongoResultChan

	if minioErr != nil {
		return nil, fmt.Errorf("failed to upload photo to storage: %w", minioErr)
	}
	if mongoResult.err != nil {
		// Try to clean up the uploaded object if the document update fails
		go func() {
			storage.MinioClient.RemoveObject(context.Background(), storage.MediaBucket, name, minio.RemoveObjectOptions{})
		}()
		return nil, fmt.Errorf("failed to save photo reference: %w", mongoResult.err)
	}

	return mongoResult.updated.Photos, nil
}
