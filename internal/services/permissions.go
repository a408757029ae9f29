package services

import "go.mongodb.org/mongo-driver/bson/primitive"

// CanMutate reports whether actor may edit or delete a resource owned
// by owner: the creator and admins may, nobody else. Like and found
// toggles never go through this check.
func CanMutate(actor, owner primitive.ObjectID, actorIsAdmin bool) bool {
	return actorIsAdmin || actor == owner
}
