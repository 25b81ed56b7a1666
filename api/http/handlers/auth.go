package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/msulikowski96-cmd/newcvtoai/api/http/presenter"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/account"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/session"
)

type AuthHandler struct {
	accounts *account.Service
	sessions *session.Manager
}

func NewAuthHandler(accounts *account.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register handles user registration and establishes a session.
// @Summary Register account
// @Tags    auth
// @Accept  json
// @Produce json
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	a, err := h.accounts.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch err {
		case account.ErrInvalidInput:
			return presenter.Error(c, http.StatusBadRequest, "email and password are required")
		case account.ErrEmailTaken:
			return presenter.Error(c, http.StatusBadRequest, "email already registered")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to register")
		}
	}
	if err := h.startSession(c, a.ID); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to start session")
	}
	return presenter.JSON(c, http.StatusOK, a)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing account and establishes a session.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	a, err := h.accounts.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err := h.startSession(c, a.ID); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to start session")
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// Me returns the account behind the current session.
// @Summary Current account
// @Tags    auth
// @Produce json
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a, err := h.accounts.GetByID(c.Context(), session.AccountID(c))
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "not authenticated")
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// Logout revokes the session behind the cookie. Idempotent: an absent or
// already-revoked session still reports success.
// @Summary Logout
// @Tags    auth
// @Produce json
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := session.TokenFromRequest(c); token != "" {
		if err := h.sessions.Revoke(c.Context(), token); err != nil {
			return presenter.Error(c, http.StatusInternalServerError, "failed to logout")
		}
	}
	clearSessionCookie(c)
	return presenter.Success(c)
}

func (h *AuthHandler) startSession(c *fiber.Ctx, accountID int64) error {
	token, expires, err := h.sessions.Issue(c.Context(), accountID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
