package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/tleroy/geocaching-api/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var userCollection *mongo.Collection

// Initialize MongoDB collections
func InitAdminHandler(db *mongo.Database) {
	userCollection = db.Collection("users")
}

// List all users, password hashes excluded
func ListUsers(c *fiber.Ctx) error {
	var users []bson.M
	cursor, err := userCollection.Find(context.TODO(), bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"msg": "Failed to fetch users"})
	}
	defer cursor.Close(context.TODO())
	cursor.All(context.TODO(), &users)
	return c.JSON(users)
}

// Reset a user's password
func ResetPasswordHandler(c *fiber.Ctx) error {
	var request struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&request); err != nil || request.NewPassword == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "New password required"})
	}

	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
	}

	hashedPassword, err := services.HashPassword(request.NewPassword)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"msg": "Failed to hash password"})
	}

	result, err := userCollection.UpdateOne(context.TODO(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"password": hashedPassword}})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"msg": "Failed to update password"})
	}
	if result.MatchedCount == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
	}
	return c.JSON(fiber.Map{"msg": "Password updated successfully"})
}

// Toggle a user's admin flag
func SetAdminHandler(c *fiber.Ctx) error {
	var request struct {
		IsAdmin bool `json:"isAdmin"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
	}

	result, err := userCollection.UpdateOne(context.TODO(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"isAdmin": request.IsAdmin}})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"msg": "Failed to update admin status"})
	}
	if result.MatchedCount == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
	}
	return c.JSON(fiber.Map{"msg": "Admin status updated"})
}

// Delete a user
func DeleteUserHandler(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
	}

	result, err := userCollection.DeleteOne(context.TODO(), bson.M{"_id": objID})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"msg": "Failed to delete user"})
	}
	if result.DeletedCount == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "User not found"})
	}
	return c.JSON(fiber.Map{"msg": "User deleted successfully"})
}
