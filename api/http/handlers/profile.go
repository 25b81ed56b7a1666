package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/msulikowski96-cmd/newcvtoai/api/http/presenter"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/account"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/avatar"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/session"
)

const maxAvatarBytes = 5 << 20 // 5MB

type ProfileHandler struct {
	accounts *account.Service
	avatars  *avatar.Store
}

func NewProfileHandler(accounts *account.Service, avatars *avatar.Store) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, avatars: avatars}
}

type updateProfileRequest struct {
	Name            *string              `json:"name"`
	Bio             *string              `json:"bio"`
	Theme           *string              `json:"theme"`
	TargetRole      *string              `json:"target_role"`
	ExperienceLevel *string              `json:"experience_level"`
	LinkedInURL     *string              `json:"linkedin_url"`
	GitHubURL       *string              `json:"github_url"`
	Preferences     *account.Preferences `json:"preferences"`
}

// Update applies a partial profile update; omitted fields keep their stored
// values.
// @Summary Update profile
// @Tags    profile
// @Accept  json
// @Produce json
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	err := h.accounts.UpdateProfile(c.Context(), session.AccountID(c), account.ProfileUpdate{
		Name:            req.Name,
		Bio:             req.Bio,
		Theme:           req.Theme,
		TargetRole:      req.TargetRole,
		ExperienceLevel: req.ExperienceLevel,
		LinkedInURL:     req.LinkedInURL,
		GitHubURL:       req.GitHubURL,
		Preferences:     req.Preferences,
	})
	if err != nil {
		if err == account.ErrInvalidInput {
			return presenter.Error(c, http.StatusBadRequest, "invalid profile fields")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to update profile")
	}
	return presenter.Success(c)
}

// Avatar accepts a multipart image upload, stores it and associates the
// reference with the account.
// @Summary Upload avatar
// @Tags    profile
// @Accept  multipart/form-data
// @Produce json
func (h *ProfileHandler) Avatar(c *fiber.Ctx) error {
	fh, err := c.FormFile("avatar")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "avatar file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, maxAvatarBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	ref, err := h.avatars.Save(data, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if err == avatar.ErrNotImage {
			return presenter.Error(c, http.StatusBadRequest, "avatar must be an image")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to store avatar")
	}
	if err := h.accounts.SetAvatar(c.Context(), session.AccountID(c), ref); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save avatar")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"avatar": ref})
}

func readAtMost(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return data, nil
}
