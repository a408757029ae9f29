package services

import (
	"context"

	"github.com/tleroy/geocaching-api/internal/db"
	"github.com/tleroy/geocaching-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FinderCount is one row of the raw find aggregation.
type FinderCount struct {
	ID    primitive.ObjectID `bson:"_id"`
	Finds int                `bson:"finds"`
}

// RankedUser is the profile joined onto a finder row.
type RankedUser struct {
	ID     primitive.ObjectID `json:"_id"`
	Email  string             `json:"email"`
	Avatar string             `json:"avatar"`
}

// FinderRanking is one entry of the best-customers leaderboard.
type FinderRanking struct {
	User  RankedUser `json:"user"`
	Finds int        `json:"finds"`
}

// BestCustomers returns the ten users with the most recorded finds,
// joined with their profile for display.
func BestCustomers() ([]FinderRanking, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$foundBy"}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$foundBy", "finds": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"finds": -1}}},
		bson.D{{Key: "$limit", Value: 10}},
	}

	cursor, err := db.GetCollection("geocaches").Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var results []FinderCount
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.ID)
	}

	var users []models.User
	if len(ids) > 0 {
		userCursor, err := db.GetCollection("users").Find(
			context.TODO(),
			bson.M{"_id": bson.M{"$in": ids}},
			options.Find().SetProjection(bson.M{"password": 0}),
		)
		if err != nil {
			return nil, err
		}
		defer userCursor.Close(context.TODO())
		if err = userCursor.All(context.TODO(), &users); err != nil {
			return nil, err
		}
	}

	return JoinFinderProfiles(results, users), nil
}

// JoinFinderProfiles attaches user profiles to the raw find counts.
// Finders whose account no longer resolves are dropped from the output
// while still occupying one of the ten aggregate slots, matching the
// observed behavior of the original rankings.
func JoinFinderProfiles(results []FinderCount, users []models.User) []FinderRanking {
	profiles := make(map[primitive.ObjectID]models.User, len(users))
	for _, user := range users {
		profiles[user.ID] = user
	}

	rankings := make([]FinderRanking, 0, len(results))
	for _, result := range results {
		user, ok := profiles[result.ID]
		if !ok {
			continue
		}
		rankings = append(rankings, FinderRanking{
			User:  RankedUser{ID: user.ID, Email: user.Email, Avatar: user.Avatar},
			Finds: result.Finds,
		})
	}
	return rankings
}

// sizeCountPipeline builds the shared $addFields pipeline: a missing
// or non-array field counts as zero instead of failing $size.
func sizeCountPipeline(field, countName string, order int) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.M{
			countName: bson.M{
				"$size": bson.M{
					"$cond": bson.M{
						"if":   bson.M{"$isArray": "$" + field},
						"then": "$" + field,
						"else": bson.A{},
					},
				},
			},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{countName: order}}},
		bson.D{{Key: "$limit", Value: 10}},
	}
}

func aggregateCaches(pipeline mongo.Pipeline) ([]bson.M, error) {
	cursor, err := db.GetCollection("geocaches").Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	caches := []bson.M{}
	if err = cursor.All(context.TODO(), &caches); err != nil {
		return nil, err
	}
	return caches, nil
}

// PopularCaches returns the ten most liked caches, like count first.
func PopularCaches() ([]bson.M, error) {
	return aggregateCaches(sizeCountPipeline("likes", "likesCount", -1))
}

// RarelyFoundCaches returns the ten least found caches, ascending, with
// ties left in natural store order.
func RarelyFoundCaches() ([]bson.M, error) {
	return aggregateCaches(sizeCountPipeline("foundBy", "foundCount", 1))
}
