package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lewybagz/photoBomb/internal/store"
)

type CommentHandler struct {
	comments *store.CommentsStore
}

func NewCommentHandler(comments *store.CommentsStore) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) RegisterRoutes(app *fiber.App) {
	protectedGroup := app.Group("/protected/photos/:id/comments")
	protectedGroup.Get("/", h.ListComments)
	protectedGroup.Post("/", h.AddComment)
}

// ListComments serves a photo's thread. ?more=true pages forward from the
// thread's cursor instead of reloading the first page.
func (h *CommentHandler) ListComments(c fiber.Ctx) error {
	photoID := c.Params("id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if c.Query("more") == "true" {
		err = h.comments.LoadMore(ctx, photoID)
	} else {
		err = h.comments.LoadInitial(ctx, photoID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load comments",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"comments": h.comments.Comments(photoID),
			"hasMore":  h.comments.HasMore(photoID),
		},
	})
}

type addCommentRequest struct {
	Text string `json:"text"`
}

func (h *CommentHandler) AddComment(c fiber.Ctx) error {
	photoID := c.Params("id")
	authorID := c.Get("X-User-ID")
	authorName := c.Get("X-User-Name")

	var req addCommentRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	comment, err := h.comments.Add(ctx, photoID, authorID, authorName, req.Text)
	if err != nil {
		if errors.Is(err, store.ErrEmptyComment) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Failed to add comment to %s: %v", photoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add comment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"comment": comment},
	})
}
