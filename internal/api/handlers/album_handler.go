package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lewybagz/photoBomb/internal/store"
)

type AlbumHandler struct {
	albums  *store.AlbumsStore
	gallery *store.GalleryStore
}

func NewAlbumHandler(albums *store.AlbumsStore, gallery *store.GalleryStore) *AlbumHandler {
	return &AlbumHandler{albums: albums, gallery: gallery}
}

func (h *AlbumHandler) RegisterRoutes(app *fiber.App) {
	protectedGroup := app.Group("/protected/albums")
	protectedGroup.Get("/", h.ListAlbums)
	protectedGroup.Post("/", h.CreateAlbum)
	protectedGroup.Delete("/:id", h.DeleteAlbum)
	protectedGroup.Get("/:id/photos", h.GetAlbumPhotos)
	protectedGroup.Post("/:id/photos/:photoId", h.AddPhoto)
	protectedGroup.Delete("/:id/photos/:photoId", h.RemovePhoto)
}

func (h *AlbumHandler) ListAlbums(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.albums.LoadAlbums(ctx, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load albums",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"albums": h.albums.Albums()},
	})
}

type createAlbumRequest struct {
	Name string `json:"name"`
}

func (h *AlbumHandler) CreateAlbum(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")

	var req createAlbumRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := h.albums.CreateAlbum(ctx, userID, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrEmptyAlbumName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Failed to create album: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create album",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"albumId": id},
	})
}

func (h *AlbumHandler) DeleteAlbum(c fiber.Ctx) error {
	albumID := c.Params("id")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.albums.DeleteAlbum(ctx, albumID); err != nil {
		log.Printf("Failed to delete album %s: %v", albumID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete album",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"deleted": true},
	})
}

func (h *AlbumHandler) GetAlbumPhotos(c fiber.Ctx) error {
	albumID := c.Params("id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	photos, err := h.albums.GetAlbumPhotos(ctx, albumID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load album photos",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"photos": photos},
	})
}

func (h *AlbumHandler) AddPhoto(c fiber.Ctx) error {
	albumID := c.Params("id")
	photoID := c.Params("photoId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	photo, err := h.gallery.GetByID(ctx, photoID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve photo",
		})
	}
	if photo == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Photo not found",
		})
	}

	if err := h.albums.AddPhotoToAlbum(ctx, photoID, albumID, photo.ThumbURL); err != nil {
		log.Printf("Failed to add photo %s to album %s: %v", photoID, albumID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add photo to album",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"added": true},
	})
}

func (h *AlbumHandler) RemovePhoto(c fiber.Ctx) error {
	albumID := c.Params("id")
	photoID := c.Params("photoId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.albums.RemovePhotoFromAlbum(ctx, photoID, albumID); err != nil {
		log.Printf("Failed to remove photo %s from album %s: %v", photoID, albumID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove photo from album",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"removed": true},
	})
}
