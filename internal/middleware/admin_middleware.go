package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// jwtSecret is read per request so godotenv has a chance to populate
// the environment before the first token is parsed.
func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// AdminMiddleware ensures that only admin users can access admin routes
func AdminMiddleware(c *fiber.Ctx) error {
	// Get JWT token from request header
	tokenString := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")

	// If token is missing, return unauthorized
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Missing token"})
	}

	// Parse token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})

	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Invalid token"})
	}

	// Extract claims
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Invalid claims"})
	}

	// Check the admin flag
	isAdmin, exists := claims["is_admin"].(bool)
	if !exists || !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"msg": "Access denied: admins only"})
	}

	userID, exists := claims["user_id"].(string)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Invalid token payload"})
	}

	c.Locals("user_id", userID)
	c.Locals("is_admin", true)

	return c.Next()
}
