package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Password string             `bson:"password,omitempty" json:"-"`
	IsAdmin  bool               `bson:"isAdmin" json:"isAdmin"`
	Avatar   string             `bson:"avatar" json:"avatar"`
}
