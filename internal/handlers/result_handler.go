package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/repositories"
)

type ResultHandler struct {
	repo   repositories.AnalysisRepository
	logger *zap.Logger
}

func NewResultHandler(repo repositories.AnalysisRepository, logger *zap.Logger) *ResultHandler {
	return &ResultHandler{
		repo:   repo,
		logger: logger,
	}
}

// HandleGetResult answers with a stored analysis, shaped like the
// POST /analyze-resumes response.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid analysis ID format")
	}

	run, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrRunNotFound) {
			return detail(c, fiber.StatusNotFound, "Analysis not found")
		}
		h.logger.Error("❌ Failed to load analysis", zap.Stringer("id", id), zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "Failed to load analysis")
	}

	return c.JSON(run.ToResult())
}
