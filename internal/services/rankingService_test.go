package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tleroy/geocaching-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJoinFinderProfilesKeepsAggregateOrder(t *testing.T) {
	first := models.User{ID: primitive.NewObjectID(), Email: "first@example.com", Avatar: "/a.png"}
	second := models.User{ID: primitive.NewObjectID(), Email: "second@example.com"}

	results := []FinderCount{
		{ID: first.ID, Finds: 7},
		{ID: second.ID, Finds: 3},
	}

	rankings := JoinFinderProfiles(results, []models.User{second, first})

	assert.Len(t, rankings, 2)
	assert.Equal(t, "first@example.com", rankings[0].User.Email)
	assert.Equal(t, 7, rankings[0].Finds)
	assert.Equal(t, "/a.png", rankings[0].User.Avatar)
	assert.Equal(t, "second@example.com", rankings[1].User.Email)
	assert.Equal(t, 3, rankings[1].Finds)
}

func TestJoinFinderProfilesDropsUnresolvedFinders(t *testing.T) {
	known := models.User{ID: primitive.NewObjectID(), Email: "known@example.com"}
	deleted := primitive.NewObjectID()

	results := []FinderCount{
		{ID: deleted, Finds: 9},
		{ID: known.ID, Finds: 2},
	}

	// The deleted finder held a top-10 slot in the aggregate but is
	// absent from the joined output.
	rankings := JoinFinderProfiles(results, []models.User{known})

	assert.Len(t, rankings, 1)
	assert.Equal(t, known.ID, rankings[0].User.ID)
	assert.Equal(t, 2, rankings[0].Finds)
}

func TestJoinFinderProfilesEmptyAggregate(t *testing.T) {
	assert.Empty(t, JoinFinderProfiles(nil, nil))
}
