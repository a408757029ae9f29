package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanMutate(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	tests := []struct {
		name    string
		actor   primitive.ObjectID
		isAdmin bool
		want    bool
	}{
		{"creator may mutate", owner, false, true},
		{"stranger may not", stranger, false, false},
		{"admin may regardless of ownership", stranger, true, true},
		{"admin creator may", owner, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.actor, owner, tt.isAdmin))
		})
	}
}
