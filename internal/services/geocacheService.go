package services

import (
	"context"
	"errors"

	"github.com/tleroy/geocaching-api/internal/db"
	"github.com/tleroy/geocaching-api/internal/geo"
	"github.com/tleroy/geocaching-api/internal/httperr"
	"github.com/tleroy/geocaching-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// getGeocache resolves an id string to its document. Malformed and
// unknown ids both come back as not-found; the existence check always
// runs before any authorization decision.
func getGeocache(id string) (models.Geocache, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Geocache{}, httperr.ErrNotFound
	}

	var cache models.Geocache
	err = db.GetCollection("geocaches").FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&cache)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Geocache{}, httperr.ErrNotFound
	}
	if err != nil {
		return models.Geocache{}, err
	}
	return cache, nil
}

// CreateGeocache stores a new cache owned by the calling user.
func CreateGeocache(userID string, coords models.GPSCoordinates, difficulty int, description, password string) (models.Geocache, error) {
	creator, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Geocache{}, httperr.ErrInvalidToken
	}

	cache := models.Geocache{
		ID:             primitive.NewObjectID(),
		GPSCoordinates: coords,
		Creator:        creator,
		Difficulty:     difficulty,
		Description:    description,
		Password:       password,
		Comments:       []models.Comment{},
	}

	_, err = db.GetCollection("geocaches").InsertOne(context.TODO(), cache)
	if err != nil {
		return models.Geocache{}, err
	}
	return cache, nil
}

// ListGeocaches returns every cache with its creator populated as
// {_id, email}. When lat, lng and radius are all present the set is
// narrowed to caches within radius km; the whole collection is fetched
// first and filtered in memory.
func ListGeocaches(lat, lng, radius *float64) ([]models.GeocacheWithCreator, error) {
	collection := db.GetCollection("geocaches")

	cursor, err := collection.Find(context.TODO(), bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var caches []models.Geocache
	if err = cursor.All(context.TODO(), &caches); err != nil {
		return nil, err
	}

	if lat != nil && lng != nil && radius != nil {
		caches = geo.Filter(caches, *lat, *lng, *radius)
	}

	return populateCreators(caches)
}

// populateCreators is the manual equivalent of a Mongoose
// populate('creator', 'email'): one $in query, joined in memory.
func populateCreators(caches []models.Geocache) ([]models.GeocacheWithCreator, error) {
	creatorIDs := make([]primitive.ObjectID, 0, len(caches))
	seen := make(map[primitive.ObjectID]bool)
	for _, cache := range caches {
		if !seen[cache.Creator] {
			seen[cache.Creator] = true
			creatorIDs = append(creatorIDs, cache.Creator)
		}
	}

	emails := make(map[primitive.ObjectID]string)
	if len(creatorIDs) > 0 {
		cursor, err := db.GetCollection("users").Find(
			context.TODO(),
			bson.M{"_id": bson.M{"$in": creatorIDs}},
			options.Find().SetProjection(bson.M{"password": 0}),
		)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(context.TODO())

		var users []models.User
		if err = cursor.All(context.TODO(), &users); err != nil {
			return nil, err
		}
		for _, user := range users {
			emails[user.ID] = user.Email
		}
	}

	views := make([]models.GeocacheWithCreator, 0, len(caches))
	for _, cache := range caches {
		views = append(views, models.GeocacheWithCreator{
			Geocache: cache,
			// Deleted creators leave a dangling reference; the id is
			// still reported, the email stays empty.
			Creator: models.CreatorInfo{ID: cache.Creator, Email: emails[cache.Creator]},
		})
	}
	return views, nil
}

// UpdateGeocache applies the provided fields after the ownership check.
func UpdateGeocache(id, userID string, isAdmin bool, fields bson.M) (models.Geocache, error) {
	cache, err := getGeocache(id)
	if err != nil {
		return models.Geocache{}, err
	}

	actor, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Geocache{}, httperr.ErrInvalidToken
	}
	if !CanMutate(actor, cache.Creator, isAdmin) {
		return models.Geocache{}, httperr.ErrUnauthorized
	}

	// An empty $set is a Mongo error, not a no-op.
	if len(fields) == 0 {
		return cache, nil
	}

	var updated models.Geocache
	err = db.GetCollection("geocaches").FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": cache.ID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Geocache{}, err
	}
	return updated, nil
}

// DeleteGeocache removes a cache after the ownership check.
func DeleteGeocache(id, userID string, isAdmin bool) error {
	cache, err := getGeocache(id)
	if err != nil {
		return err
	}

	actor, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return httperr.ErrInvalidToken
	}
	if !CanMutate(actor, cache.Creator, isAdmin) {
		return httperr.ErrUnauthorized
	}

	_, err = db.GetCollection("geocaches").DeleteOne(context.TODO(), bson.M{"_id": cache.ID})
	return err
}

// ToggleLike flips the caller's membership in the like set and returns
// the resulting count. Any authenticated user may like any cache.
func ToggleLike(id, userID string) (int, error) {
	cache, err := getGeocache(id)
	if err != nil {
		return 0, err
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, httperr.ErrInvalidToken
	}

	collection := db.GetCollection("geocaches")
	if containsID(cache.Likes, uid) {
		_, err = collection.UpdateOne(context.TODO(), bson.M{"_id": cache.ID},
			bson.M{"$pull": bson.M{"likes": uid}})
		if err != nil {
			return 0, err
		}
		return len(cache.Likes) - 1, nil
	}

	_, err = collection.UpdateOne(context.TODO(), bson.M{"_id": cache.ID},
		bson.M{"$addToSet": bson.M{"likes": uid}})
	if err != nil {
		return 0, err
	}
	return len(cache.Likes) + 1, nil
}

// MarkFound records that the caller discovered the cache. A cache with
// a non-empty password requires an exact match before anything is
// written. Re-marking an already-found cache is a no-op.
func MarkFound(id, userID, password string) error {
	cache, err := getGeocache(id)
	if err != nil {
		return err
	}

	if cache.Password != "" && cache.Password != password {
		return httperr.ErrInvalidPassword
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return httperr.ErrInvalidToken
	}
	if containsID(cache.FoundBy, uid) {
		return nil
	}

	_, err = db.GetCollection("geocaches").UpdateOne(context.TODO(), bson.M{"_id": cache.ID},
		bson.M{"$addToSet": bson.M{"foundBy": uid}})
	return err
}
