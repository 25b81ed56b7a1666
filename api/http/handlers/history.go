package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/msulikowski96-cmd/newcvtoai/api/http/presenter"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/history"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/session"
)

type HistoryHandler struct {
	svc *history.Service
}

func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

type saveHistoryRequest struct {
	CVText         string          `json:"cvText"`
	JobDescription string          `json:"jobDescription"`
	Analysis       json.RawMessage `json:"analysis"`
}

// Save appends one completed analysis run to the account's history.
// @Summary Save analysis to history
// @Tags    history
// @Accept  json
// @Produce json
func (h *HistoryHandler) Save(c *fiber.Ctx) error {
	var req saveHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	_, err := h.svc.Append(c.Context(), session.AccountID(c), req.CVText, req.JobDescription, req.Analysis)
	if err != nil {
		switch err {
		case history.ErrInvalidInput:
			return presenter.Error(c, http.StatusBadRequest, "cvText, jobDescription and analysis are required")
		case history.ErrUnavailable:
			return presenter.Error(c, http.StatusServiceUnavailable, "history temporarily unavailable")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to save history")
		}
	}
	return presenter.Success(c)
}

// List returns the account's saved analyses, newest first, with the stored
// analysis JSON parsed back into the response body.
// @Summary List history
// @Tags    history
// @Produce json
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	records, err := h.svc.List(c.Context(), session.AccountID(c))
	if err != nil {
		return presenter.Error(c, http.StatusServiceUnavailable, "history temporarily unavailable")
	}
	return presenter.JSON(c, http.StatusOK, records)
}

// Delete removes one record by id. Unknown and foreign-owned ids report
// success just like owned ones, so callers cannot probe for record
// existence.
// @Summary Delete history record
// @Tags    history
// @Produce json
func (h *HistoryHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Remove(c.Context(), session.AccountID(c), id); err != nil {
		return presenter.Error(c, http.StatusServiceUnavailable, "history temporarily unavailable")
	}
	return presenter.Success(c)
}
