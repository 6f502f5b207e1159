package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	filesField       = "files"
	descriptionField = "description"
)

type AnalyzeHandler struct {
	analyzer       services.AnalyzerService
	storageService services.StorageService
	validate       *validator.Validate
	maxFileSize    int64
	logger         *zap.Logger
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	storageService services.StorageService,
	maxFileSize int64,
	logger *zap.Logger,
) *AnalyzeHandler {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &AnalyzeHandler{
		analyzer:       analyzer,
		storageService: storageService,
		validate:       v,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{Detail: message})
}

// HandleAnalyze accepts one or more PDF resumes and a job description and
// answers with the evaluation of every candidate.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Failed to parse multipart form")
	}

	input := models.AnalyzeForm{Files: form.File[filesField]}
	if values := form.Value[descriptionField]; len(values) > 0 {
		input.Description = values[0]
	}

	if err := h.validate.Struct(input); err != nil {
		return detail(c, fiber.StatusBadRequest, validationMessage(err))
	}

	for _, file := range input.Files {
		if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
			return detail(c, fiber.StatusBadRequest, fmt.Sprintf("Only PDF files are allowed: %s", file.Filename))
		}
		if file.Size > h.maxFileSize {
			return detail(c, fiber.StatusBadRequest, fmt.Sprintf("%s is too large. Max size: %d bytes", file.Filename, h.maxFileSize))
		}
	}

	h.logger.Info("📥 Received resumes", zap.Int("files", len(input.Files)))

	stored := make([]*services.StoredResume, 0, len(input.Files))
	for _, file := range input.Files {
		resume, err := h.storageService.SaveResume(file)
		if err != nil {
			for _, s := range stored {
				_ = h.storageService.Delete(s)
			}
			h.logger.Error("❌ Failed to store resume", zap.String("filename", file.Filename), zap.Error(err))
			return detail(c, fiber.StatusInternalServerError, fmt.Sprintf("Failed to save %s", file.Filename))
		}
		stored = append(stored, resume)
	}

	result, err := h.analyzer.AnalyzeResumes(c.UserContext(), input.Description, stored)
	if err != nil {
		return h.analysisError(c, err)
	}

	return c.JSON(result)
}

func (h *AnalyzeHandler) analysisError(c *fiber.Ctx, err error) error {
	h.logger.Error("❌ Analysis failed", zap.Error(err))

	var resumeErr *services.ResumeError
	switch {
	case errors.As(err, &resumeErr):
		return detail(c, fiber.StatusBadRequest, resumeErr.Error())
	case errors.Is(err, services.ErrModelFailure):
		return detail(c, fiber.StatusBadGateway, "AI analysis failed: "+err.Error())
	default:
		return detail(c, fiber.StatusInternalServerError, "Unexpected error: "+err.Error())
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	switch verrs[0].Field() {
	case "Files":
		return "At least one resume file is required"
	case "Description":
		return "Job description is required"
	default:
		return fmt.Sprintf("Invalid field %s", verrs[0].Field())
	}
}
