package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tleroy/geocaching-api/internal/db"
	"github.com/tleroy/geocaching-api/internal/httperr"
	"github.com/tleroy/geocaching-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// tokenTTL is 24h unless overridden via JWT_TTL (Go duration syntax).
func tokenTTL() time.Duration {
	if v := os.Getenv("JWT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return 24 * time.Hour
}

// AuthResult is what both register and login hand back to the client.
type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Avatar string `json:"avatar"`
}

// NormalizeEmail lowercases and trims an email before any lookup or
// insert, so duplicate detection is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a JWT token with user ID and admin flag
func GenerateJWT(userID string, isAdmin bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(tokenTTL()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// RegisterUser creates a user with a hashed password and mints a token
func RegisterUser(email, password string) (AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, httperr.ErrValidation
	}

	collection := db.GetCollection("users")

	// Check if user already exists
	var existingUser models.User
	err := collection.FindOne(context.TODO(), bson.M{"email": email}).Decode(&existingUser)
	if err == nil {
		return AuthResult{}, httperr.ErrConflict
	}

	// Hash password
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Email:    email,
		Password: hashedPassword,
		IsAdmin:  false,
	}
	_, err = collection.InsertOne(context.TODO(), user)
	if mongo.IsDuplicateKeyError(err) {
		// Unique index catches the race the FindOne above can miss.
		return AuthResult{}, httperr.ErrConflict
	}
	if err != nil {
		return AuthResult{}, err
	}

	token, err := GenerateJWT(user.ID.Hex(), false)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, UserID: user.ID.Hex(), Avatar: user.Avatar}, nil
}

// LoginUser authenticates a user and returns a token carrying the
// admin flag. Unknown email and wrong password yield the same error.
func LoginUser(email, password string) (AuthResult, error) {
	collection := db.GetCollection("users")

	var user models.User
	err := collection.FindOne(context.TODO(), bson.M{"email": NormalizeEmail(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return AuthResult{}, httperr.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}

	// Verify password
	if !VerifyPassword(password, user.Password) {
		return AuthResult{}, httperr.ErrInvalidCredentials
	}

	token, err := GenerateJWT(user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, UserID: user.ID.Hex(), Avatar: user.Avatar}, nil
}
