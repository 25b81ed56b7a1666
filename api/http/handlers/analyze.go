package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/msulikowski96-cmd/newcvtoai/api/http/presenter"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/ai"
)

type AnalyzeHandler struct {
	analyzer ai.Analyzer
}

func NewAnalyzeHandler(analyzer ai.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

type analyzeRequest struct {
	CVText         string `json:"cvText"`
	JobDescription string `json:"jobDescription"`
}

// Analyze runs the CV/job-description comparison through the AI collaborator
// and returns the structured result. The call is bounded by the configured
// deadline and cancelled when the client disconnects.
// @Summary Analyze CV against a job description
// @Tags    analyze
// @Accept  json
// @Produce json
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.CVText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return presenter.Error(c, http.StatusBadRequest, "cvText and jobDescription are required")
	}

	result, err := h.analyzer.Analyze(c.Context(), req.CVText, req.JobDescription)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			return presenter.Error(c, http.StatusServiceUnavailable, "analysis temporarily unavailable")
		}
		return presenter.Error(c, http.StatusInternalServerError, "analysis failed")
	}
	return presenter.JSON(c, http.StatusOK, result)
}
