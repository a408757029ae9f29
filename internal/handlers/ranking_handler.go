package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tleroy/geocaching-api/internal/services"
)

// Leaderboards are recomputed on every request; there is no cache in
// front of the aggregations.

func BestCustomersHandler(c *fiber.Ctx) error {
	rankings, err := services.BestCustomers()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rankings)
}

func PopularCachesHandler(c *fiber.Ctx) error {
	caches, err := services.PopularCaches()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(caches)
}

func RarelyFoundCachesHandler(c *fiber.Ctx) error {
	caches, err := services.RarelyFoundCaches()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(caches)
}
