// Seeds the development database with two users and two caches.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tleroy/geocaching-api/internal/db"
	"github.com/tleroy/geocaching-api/internal/models"
	"github.com/tleroy/geocaching-api/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017/geocaching"
	}
	db.ConnectMongoDB(mongoURI, "geocaching")

	users := db.GetCollection("users")
	geocaches := db.GetCollection("geocaches")

	// Drop previous seed data
	if _, err := users.DeleteMany(context.TODO(), bson.M{}); err != nil {
		log.Fatalf("Failed to clear users: %v", err)
	}
	if _, err := geocaches.DeleteMany(context.TODO(), bson.M{}); err != nil {
		log.Fatalf("Failed to clear geocaches: %v", err)
	}

	alice := seedUser("alice@example.com", "password1")
	bob := seedUser("bob@example.com", "password2")

	caches := []interface{}{
		models.Geocache{
			ID:             primitive.NewObjectID(),
			GPSCoordinates: models.GPSCoordinates{Lat: 48.8566, Lng: 2.3522},
			Difficulty:     3,
			Description:    "Cache in central Paris",
			Creator:        alice,
			Comments:       []models.Comment{},
		},
		models.Geocache{
			ID:             primitive.NewObjectID(),
			GPSCoordinates: models.GPSCoordinates{Lat: 43.6047, Lng: 1.4442},
			Difficulty:     2,
			Description:    "Cache in Toulouse",
			Creator:        bob,
			Comments:       []models.Comment{},
		},
	}
	if _, err := geocaches.InsertMany(context.TODO(), caches); err != nil {
		log.Fatalf("Failed to insert geocaches: %v", err)
	}

	log.Println("Seed data inserted successfully")
}

func seedUser(email, password string) primitive.ObjectID {
	hash, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		ID:       primitive.NewObjectID(),
		Email:    email,
		Password: hash,
	}
	if _, err := db.GetCollection("users").InsertOne(context.TODO(), user); err != nil {
		log.Fatalf("Failed to insert user %s: %v", email, err)
	}
	return user.ID
}
