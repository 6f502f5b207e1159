// Package client submits resumes to the analysis service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	filesField       = "files"
	descriptionField = "description"
)

type Client struct {
	endpoint string
	logger   *zap.Logger
}

func New(endpoint string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		logger:   logger,
	}
}

type response struct {
	code int
	body []byte
	errs []error
}

// Analyze sends one multipart POST with a part per file, in order, plus the
// description field. There is no client-side timeout and no retry. If ctx is
// done first the response is discarded when it arrives.
func (c *Client) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	formFiles := make([]*fiber.FormFile, 0, len(req.Files))
	for _, f := range req.Files {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("failed to read %s: %w", f.Name, err)}
		}
		formFiles = append(formFiles, &fiber.FormFile{
			Fieldname: filesField,
			Name:      f.Name,
			Content:   content,
		})
	}

	args := fiber.AcquireArgs()
	args.Set(descriptionField, req.Description)

	agent := fiber.Post(c.endpoint)
	agent.FileData(formFiles...).MultipartForm(args)
	fiber.ReleaseArgs(args)

	if err := agent.Parse(); err != nil {
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug("Posting analysis request",
		zap.String("endpoint", c.endpoint),
		zap.Int("files", len(formFiles)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan response, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- response{code: code, body: body, errs: errs}
	}()

	var resp response
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp = <-done:
	}

	if len(resp.errs) > 0 {
		return nil, &TransportError{Err: errors.Join(resp.errs...)}
	}

	c.logger.Debug("Analysis response received", zap.Int("status", resp.code))

	if resp.code < fiber.StatusOK || resp.code >= fiber.StatusMultipleChoices {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(resp.body, &errResp); err != nil {
			errResp.Detail = ""
		}
		return nil, &ServerError{StatusCode: resp.code, Detail: errResp.Detail}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}

	return &result, nil
}
