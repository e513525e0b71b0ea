package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lewybagz/photoBomb/internal/repository"
	"github.com/lewybagz/photoBomb/internal/store"
)

type GalleryHandler struct {
	gallery *store.GalleryStore
	deleter *store.Deleter
	blobs   *repository.BlobRepository
}

func NewGalleryHandler(gallery *store.GalleryStore, deleter *store.Deleter, blobs *repository.BlobRepository) *GalleryHandler {
	return &GalleryHandler{
		gallery: gallery,
		deleter: deleter,
		blobs:   blobs,
	}
}

func (h *GalleryHandler) RegisterRoutes(app *fiber.App) {
	protectedGroup := app.Group("/protected/photos")
	protectedGroup.Get("/", h.ListPhotos)
	protectedGroup.Get("/:id", h.GetPhoto)
	protectedGroup.Get("/:id/download", h.DownloadPhoto)
	protectedGroup.Delete("/:id", h.DeletePhoto)
}

// ListPhotos serves the feed. ?more=true pages forward from the current
// cursor; ?refresh=true reloads the first page past the cache.
func (h *GalleryHandler) ListPhotos(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	switch {
	case c.Query("more") == "true":
		err = h.gallery.LoadMore(ctx)
	case c.Query("refresh") == "true":
		err = h.gallery.Refresh(ctx)
	default:
		err = h.gallery.LoadInitial(ctx, false)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load photos",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"photos":  h.gallery.Photos(),
			"hasMore": h.gallery.HasMore(),
		},
	})
}

func (h *GalleryHandler) GetPhoto(c fiber.Ctx) error {
	photoID := c.Params("id")
	if photoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Photo ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
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

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"photo": photo},
	})
}

// DownloadPhoto streams the full-size variant back to the member
func (h *GalleryHandler) DownloadPhoto(c fiber.Ctx) error {
	photoID := c.Params("id")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	objectPath, err := h.blobs.ObjectPathFromURL(photo.FullURL)
	if err != nil {
		log.Printf("Bad storage URL for photo %s: %v", photoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Photo binary is unavailable",
		})
	}

	obj, size, err := h.blobs.Open(ctx, objectPath)
	if err != nil {
		log.Printf("Failed to open photo binary %s: %v", objectPath, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Photo binary is unavailable",
		})
	}

	c.Set("Content-Type", "image/jpeg")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", photoID+".jpg"))
	return c.SendStream(obj, int(size))
}

// DeletePhoto runs the full deletion cascade and returns its report. The
// response is 200 even when individual steps failed; the report carries the
// per-step outcomes.
func (h *GalleryHandler) DeletePhoto(c fiber.Ctx) error {
	photoID := c.Params("id")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	report := h.deleter.Delete(ctx, photo)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"report": report},
	})
}
