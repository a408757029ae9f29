package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GPSCoordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Comment lives inside its geocache document; it is not independently
// addressable outside the (geocache id, comment id) pair.
type Comment struct {
	ID    primitive.ObjectID   `bson:"_id" json:"_id"`
	User  primitive.ObjectID   `bson:"user" json:"user"`
	Text  string               `bson:"text" json:"text"`
	Date  time.Time            `bson:"date" json:"date"`
	Likes []primitive.ObjectID `bson:"likes,omitempty" json:"likes"`
}

type Geocache struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	GPSCoordinates GPSCoordinates       `bson:"gpsCoordinates" json:"gpsCoordinates"`
	Creator        primitive.ObjectID   `bson:"creator" json:"creator"`
	Difficulty     int                  `bson:"difficulty" json:"difficulty"`
	Description    string               `bson:"description,omitempty" json:"description,omitempty"`
	Password       string               `bson:"password,omitempty" json:"password,omitempty"`
	Photos         []string             `bson:"photos,omitempty" json:"photos"`
	Likes          []primitive.ObjectID `bson:"likes,omitempty" json:"likes"`
	FoundBy        []primitive.ObjectID `bson:"foundBy,omitempty" json:"foundBy"`
	Comments       []Comment            `bson:"comments" json:"comments"`
}

// CreatorInfo is the populated creator sub-document returned by list
// endpoints, mirroring populate('creator', 'email').
type CreatorInfo struct {
	ID    primitive.ObjectID `json:"_id"`
	Email string             `json:"email,omitempty"`
}

type GeocacheWithCreator struct {
	Geocache
	Creator CreatorInfo `json:"creator"`
}
