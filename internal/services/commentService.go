package services

import (
	"context"
	"strings"
	"time"

	"github.com/tleroy/geocaching-api/internal/db"
	"github.com/tleroy/geocaching-api/internal/httperr"
	"github.com/tleroy/geocaching-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findComment scans the embedded comment list; comments have no
// identity outside their parent document.
func findComment(cache models.Geocache, commentID string) (models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return models.Comment{}, httperr.ErrNotFound
	}
	for _, comment := range cache.Comments {
		if comment.ID == objID {
			return comment, nil
		}
	}
	return models.Comment{}, httperr.ErrNotFound
}

// AddComment appends a comment to the cache and returns the updated
// document, as the original API did.
func AddComment(cacheID, userID, text string) (models.Geocache, error) {
	if strings.TrimSpace(text) == "" {
		return models.Geocache{}, httperr.ErrValidation
	}

	cache, err := getGeocache(cacheID)
	if err != nil {
		return models.Geocache{}, err
	}

	author, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Geocache{}, httperr.ErrInvalidToken
	}

	comment := models.Comment{
		ID:   primitive.NewObjectID(),
		User: author,
		Text: text,
		Date: time.Now(),
	}

	var updated models.Geocache
	err = db.GetCollection("geocaches").FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": cache.ID},
		bson.M{"$push": bson.M{"comments": comment}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Geocache{}, err
	}
	return updated, nil
}

// UpdateComment edits a comment's text; only its author or an admin
// may. Cache existence, then comment existence, then authorization.
func UpdateComment(cacheID, commentID, userID string, isAdmin bool, text string) error {
	if strings.TrimSpace(text) == "" {
		return httperr.ErrValidation
	}

	cache, err := getGeocache(cacheID)
	if err != nil {
		return err
	}
	comment, err := findComment(cache, commentID)
	if err != nil {
		return err
	}

	actor, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return httperr.ErrInvalidToken
	}
	if !CanMutate(actor, comment.User, isAdmin) {
		return httperr.ErrUnauthorized
	}

	_, err = db.GetCollection("geocaches").UpdateOne(
		context.TODO(),
		bson.M{"_id": cache.ID, "comments._id": comment.ID},
		bson.M{"$set": bson.M{"comments.$.text": text}},
	)
	return err
}

// DeleteComment removes a comment; only its author or an admin may.
func DeleteComment(cacheID, commentID, userID string, isAdmin bool) error {
	cache, err := getGeocache(cacheID)
	if err != nil {
		return err
	}
	comment, err := findComment(cache, commentID)
	if err != nil {
		return err
	}

	actor, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return httperr.ErrInvalidToken
	}
	if !CanMutate(actor, comment.User, isAdmin) {
		return httperr.ErrUnauthorized
	}

	_, err = db.GetCollection("geocaches").UpdateOne(
		context.TODO(),
		bson.M{"_id": cache.ID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": comment.ID}}},
	)
	return err
}

// ToggleCommentLike flips the caller's membership in a comment's like
// set and returns the resulting count.
func ToggleCommentLike(cacheID, commentID, userID string) (int, error) {
	cache, err := getGeocache(cacheID)
	if err != nil {
		return 0, err
	}
	comment, err := findComment(cache, commentID)
	if err != nil {
		return 0, err
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, httperr.ErrInvalidToken
	}

	collection := db.GetCollection("geocaches")
	filter := bson.M{"_id": cache.ID, "comments._id": comment.ID}

	if containsID(comment.Likes, uid) {
		_, err = collection.UpdateOne(context.TODO(), filter,
			bson.M{"$pull": bson.M{"comments.$.likes": uid}})
		if err != nil {
			return 0, err
		}
		return len(comment.Likes) - 1, nil
	}

	_, err = collection.UpdateOne(context.TODO(), filter,
		bson.M{"$addToSet": bson.M{"comments.$.likes": uid}})
	if err != nil {
		return 0, err
	}
	return len(comment.Likes) + 1, nil
}
