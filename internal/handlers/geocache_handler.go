package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tleroy/geocaching-api/internal/models"
	"github.com/tleroy/geocaching-api/internal/services"
	"go.mongodb.org/mongo-driver/bson"
)

// ListGeocachesHandler returns all caches, narrowed by proximity when
// lat, lng and radius are all supplied.
func ListGeocachesHandler(c *fiber.Ctx) error {
	latStr, lngStr, radiusStr := c.Query("lat"), c.Query("lng"), c.Query("radius")

	var lat, lng, radius *float64
	if latStr != "" && lngStr != "" && radiusStr != "" {
		latVal, errLat := strconv.ParseFloat(latStr, 64)
		lngVal, errLng := strconv.ParseFloat(lngStr, 64)
		radiusVal, errRadius := strconv.ParseFloat(radiusStr, 64)
		if errLat != nil || errLng != nil || errRadius != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "lat, lng and radius must be numbers"})
		}
		lat, lng, radius = &latVal, &lngVal, &radiusVal
	}

	caches, err := services.ListGeocaches(lat, lng, radius)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(caches)
}

func CreateGeocacheHandler(c *fiber.Ctx) error {
	userID, _ := identity(c)

	var request struct {
		GPSCoordinates *models.GPSCoordinates `json:"gpsCoordinates"`
		Difficulty     *int                   `json:"difficulty"`
		Description    string                 `json:"description"`
		Password       string                 `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}
	if request.GPSCoordinates == nil || request.Difficulty == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "gpsCoordinates and difficulty are required"})
	}

	cache, err := services.CreateGeocache(userID, *request.GPSCoordinates, *request.Difficulty, request.Description, request.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cache)
}

func UpdateGeocacheHandler(c *fiber.Ctx) error {
	userID, isAdmin := identity(c)

	var request struct {
		GPSCoordinates *models.GPSCoordinates `json:"gpsCoordinates"`
		Difficulty     *int                   `json:"difficulty"`
		Description    *string                `json:"description"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	// Only fields present in the payload are written.
	fields := bson.M{}
	if request.GPSCoordinates != nil {
		fields["gpsCoordinates"] = *request.GPSCoordinates
	}
	if request.Difficulty != nil {
		fields["difficulty"] = *request.Difficulty
	}
	if request.Description != nil {
		fields["description"] = *request.Description
	}

	cache, err := services.UpdateGeocache(c.Params("id"), userID, isAdmin, fields)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cache)
}

func DeleteGeocacheHandler(c *fiber.Ctx) error {
	userID, isAdmin := identity(c)

	if err := services.DeleteGeocache(c.Params("id"), userID, isAdmin); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Geocache deleted"})
}

// MarkFoundHandler records a find; the body is optional and only
// carries the cache password when one is set.
func MarkFoundHandler(c *fiber.Ctx) error {
	userID, _ := identity(c)

	var request struct {
		Password string `json:"password"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
		}
	}

	if err := services.MarkFound(c.Params("id"), userID, request.Password); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Geocache marked as found", "found": true})
}

func ToggleLikeHandler(c *fiber.Ctx) error {
	userID, _ := identity(c)

	count, err := services.ToggleLike(c.Params("id"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"likesCount": count})
}

func AddCommentHandler(c *fiber.Ctx) error {
	userID, _ := identity(c)

	var request struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	cache, err := services.AddComment(c.Params("id"), userID, request.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cache)
}

func UpdateCommentHandler(c *fiber.Ctx) error {
	userID, isAdmin := identity(c)

	var request struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	if err := services.UpdateComment(c.Params("id"), c.Params("commentId"), userID, isAdmin, request.Text); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Comment updated"})
}

func DeleteCommentHandler(c *fiber.Ctx) error {
	userID, isAdmin := identity(c)

	if err := services.DeleteComment(c.Params("id"), c.Params("commentId"), userID, isAdmin); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Comment deleted"})
}

func ToggleCommentLikeHandler(c *fiber.Ctx) error {
	userID, _ := identity(c)

	count, err := services.ToggleCommentLike(c.Params("id"), c.Params("commentId"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"likesCount": count})
}
