package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tleroy/geocaching-api/internal/services"
)

// UploadAvatarHandler replaces the caller's avatar with the uploaded
// file and returns the stored URL.
func UploadAvatarHandler(c *fiber.Ctx) error {
	userID, _ := identity(c)

	avatarURL, err := services.UpdateAvatar(c, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Avatar updated", "avatar": avatarURL})
}

// UploadPhotoHandler appends an uploaded photo to a geocache.
func UploadPhotoHandler(c *fiber.Ctx) error {
	photos, err := services.AddGeocachePhoto(c, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Photo added", "photos": photos})
}
