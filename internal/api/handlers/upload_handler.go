package handlers

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/lewybagz/photoBomb/internal/models"
	"github.com/lewybagz/photoBomb/internal/store"
)

type UploadHandler struct {
	pipeline *store.UploadPipeline
}

func NewUploadHandler(pipeline *store.UploadPipeline) *UploadHandler {
	return &UploadHandler{pipeline: pipeline}
}

func (h *UploadHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/protected/photos", h.UploadPhotos)
}

// UploadPhotos accepts a multipart batch under the "photos" field with an
// optional parallel "titles" field, runs the sequential pipeline, and
// returns the per-file outcomes.
func (h *UploadHandler) UploadPhotos(c fiber.Ctx) error {
	ownerID := c.Get("X-User-ID")
	ownerName := c.Get("X-User-Name")
	if ownerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	files := form.File["photos"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one photo is required",
		})
	}
	titles := form.Value["titles"]

	batch := make([]*models.UploadFile, 0, len(files))
	for i, header := range files {
		f, err := header.Open()
		if err != nil {
			log.Printf("Failed to open uploaded file %s: %v", header.Filename, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read uploaded file",
			})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read uploaded file",
			})
		}

		upload := &models.UploadFile{
			ID:     uuid.NewString(),
			Name:   header.Filename,
			Data:   data,
			Status: models.UploadStatusPending,
		}
		if i < len(titles) {
			upload.Title = titles[i]
		}
		batch = append(batch, upload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	h.pipeline.Process(ctx, ownerID, ownerName, batch)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"uploads": batch},
	})
}
