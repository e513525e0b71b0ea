package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lewybagz/photoBomb/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photobomb_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photobomb_registrations_total",
		Help: "Successful family member registrations",
	})
)

type AuthHandler struct {
	sessions *store.SessionStore
}

func NewAuthHandler(sessions *store.SessionStore) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	publicGroup := app.Group("/public/auth")
	publicGroup.Post("/register", h.Register)
	publicGroup.Post("/login", h.Login)
	publicGroup.Get("/members", h.ListMembers)

	protectedGroup := app.Group("/protected")
	protectedGroup.Post("/auth/logout", h.Logout)
	protectedGroup.Put("/profile/name", h.UpdateDisplayName)
}

type loginRequest struct {
	Passcode string `json:"passcode"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Passcode    string `json:"passcode"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Relation    string `json:"relation"`
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := h.sessions.Login(ctx, req.Passcode, req.Email, req.Password)
	if err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		return authError(c, err)
	}

	loginAttempts.WithLabelValues("success").Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"session": session},
	})
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := h.sessions.Register(ctx, req.Passcode, req.Email, req.Password, req.DisplayName, req.Relation)
	if err != nil {
		return authError(c, err)
	}

	registrations.Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"session": session},
	})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.sessions.Logout(ctx, userID); err != nil {
		log.Printf("Failed to log out %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to log out",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"loggedOut": true},
	})
}

func (h *AuthHandler) ListMembers(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	members, err := h.sessions.FetchFamilyMembers(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load family members",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"members": members},
	})
}

type updateNameRequest struct {
	DisplayName string `json:"displayName"`
}

func (h *AuthHandler) UpdateDisplayName(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")

	var req updateNameRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.sessions.UpdateDisplayName(ctx, userID, req.DisplayName); err != nil {
		if errors.Is(err, store.ErrEmptyDisplayName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Failed to update display name for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update display name",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"displayName": req.DisplayName},
	})
}

// authError maps the session store's error taxonomy onto HTTP statuses
func authError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrPasscodeNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrWrongPasscode),
		errors.Is(err, store.ErrInvalidCredentials),
		errors.Is(err, store.ErrMemberNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrEmailInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrEmptyDisplayName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("Auth failure: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Authentication failed"})
	}
}
