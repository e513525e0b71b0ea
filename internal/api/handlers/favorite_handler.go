package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lewybagz/photoBomb/internal/store"
)

type FavoriteHandler struct {
	favorites *store.FavoritesStore
}

func NewFavoriteHandler(favorites *store.FavoritesStore) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) RegisterRoutes(app *fiber.App) {
	protectedGroup := app.Group("/protected/favorites")
	protectedGroup.Get("/", h.ListFavorites)
	protectedGroup.Post("/:photoId/toggle", h.ToggleFavorite)
}

func (h *FavoriteHandler) ListFavorites(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.favorites.Load(ctx, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load favorites",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"favorites": h.favorites.Favorites(userID)},
	})
}

// ToggleFavorite flips membership and reports the settled state. A failed
// remote write has already been rolled back by the store; the error comes
// back so the caller can surface the flicker.
func (h *FavoriteHandler) ToggleFavorite(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	photoID := c.Params("photoId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.favorites.Load(ctx, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load favorites",
		})
	}

	if err := h.favorites.Toggle(ctx, userID, photoID); err != nil {
		log.Printf("Failed to toggle favorite %s for %s: %v", photoID, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Failed to toggle favorite",
			"isFavorite": h.favorites.IsFavorite(userID, photoID),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"isFavorite": h.favorites.IsFavorite(userID, photoID)},
	})
}
