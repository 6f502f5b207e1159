// Package submission owns the upload view's state: the selected resumes, the
// job description and the lifecycle of the single analysis request.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

const (
	msgNoFiles        = "Please select at least one resume"
	msgNoDescription  = "Please enter a job description"
	msgAnalysisFailed = "Analysis failed"
)

var (
	// ErrSubmissionInFlight is returned by Begin while a request is outstanding.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrAnalysisFailed reports a 2xx response whose payload has success=false.
	ErrAnalysisFailed = errors.New(msgAnalysisFailed)
)

// ValidationError is a local input error that never reaches the network.
type ValidationError struct {
	Message string
	Files   []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PendingUpload is the state of the upload view.
type PendingUpload struct {
	Files          []models.ResumeFile
	JobDescription string
	Status         Status
	ErrorMessage   string
}

// Analyzer performs the analysis round trip.
type Analyzer interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error)
}

// Controller is created when the upload view is mounted and discarded when it
// is left. It is safe for use from the UI loop and the request goroutine.
type Controller struct {
	mu           sync.Mutex
	pending      PendingUpload
	acceptedType string
	typeLabel    string
	analyzer     Analyzer
	logger       *zap.Logger
	unmounted    bool
}

func NewController(analyzer Analyzer, acceptedType string, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		pending:      PendingUpload{Status: StatusIdle},
		acceptedType: acceptedType,
		typeLabel:    typeLabel(acceptedType),
		analyzer:     analyzer,
		logger:       logger,
	}
}

// AddFiles appends a batch of files. If any file in the batch is not of the
// accepted type the whole batch is rejected and every offending name reported.
func (c *Controller) AddFiles(files ...models.ResumeFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearError()

	var invalid []string
	for _, f := range files {
		if f.MediaType != c.acceptedType {
			invalid = append(invalid, f.Name)
		}
	}

	if len(invalid) > 0 {
		err := &ValidationError{
			Message: c.invalidTypeMessage(invalid...),
			Files:   invalid,
		}
		c.fail(err.Message)
		c.logger.Warn("⚠️ Rejected file batch", zap.Strings("files", invalid))
		return err
	}

	for _, f := range files {
		if f.ContentType != "" && f.ContentType != c.acceptedType {
			c.logger.Warn("⚠️ File content does not match its extension",
				zap.String("file", f.Name),
				zap.String("content_type", f.ContentType))
		}
	}

	c.pending.Files = append(c.pending.Files, files...)
	return nil
}

func (c *Controller) invalidTypeMessage(names ...string) string {
	return fmt.Sprintf("Invalid file type: %s. Only %s files are allowed.", strings.Join(names, ", "), c.typeLabel)
}

// RemoveFile drops the file at index. Out-of-range indexes are ignored.
func (c *Controller) RemoveFile(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.pending.Files) {
		return
	}

	files := make([]models.ResumeFile, 0, len(c.pending.Files)-1)
	files = append(files, c.pending.Files[:index]...)
	files = append(files, c.pending.Files[index+1:]...)
	c.pending.Files = files
}

// SetDescription replaces the job description verbatim.
func (c *Controller) SetDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending.JobDescription = text
}

// Pending returns a snapshot of the current state.
func (c *Controller) Pending() PendingUpload {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := c.pending
	snapshot.Files = append([]models.ResumeFile(nil), c.pending.Files...)
	return snapshot
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pending.Status
}

// CanSubmit reports whether the submit trigger is enabled.
func (c *Controller) CanSubmit() bool {
	return c.Status() != StatusSubmitting
}

// Unmount detaches the controller from its view. A response arriving after
// this point is returned to the caller but no longer changes the state.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unmounted = true
}

// Flight is a dispatched submission awaiting its response.
type Flight struct {
	controller *Controller
	request    *models.AnalysisRequest
}

// Request returns the snapshot that is sent to the analyzer.
func (f *Flight) Request() *models.AnalysisRequest {
	return f.request
}

// Begin validates the pending upload and moves it to submitting. Validation
// failures are recorded as the view's error and returned without any network
// activity.
func (c *Controller) Begin() (*Flight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending.Status == StatusSubmitting {
		return nil, ErrSubmissionInFlight
	}

	if len(c.pending.Files) == 0 {
		return nil, c.reject(&ValidationError{Message: msgNoFiles})
	}

	if strings.TrimSpace(c.pending.JobDescription) == "" {
		return nil, c.reject(&ValidationError{Message: msgNoDescription})
	}

	for _, f := range c.pending.Files {
		if f.MediaType != c.acceptedType {
			return nil, c.reject(&ValidationError{
				Message: fmt.Sprintf("Invalid file type: %s. Only PDF files are allowed.", f.Name),
				Files:   []string{f.Name},
			})
		}
	}

	c.pending.Status = StatusSubmitting
	c.pending.ErrorMessage = ""

	req := &models.AnalysisRequest{
		Files:       append([]models.ResumeFile(nil), c.pending.Files...),
		Description: c.pending.JobDescription,
	}

	c.logger.Info("📤 Submitting resumes for analysis", zap.Int("files", len(req.Files)))

	return &Flight{controller: c, request: req}, nil
}

// Await performs the request and applies exactly one terminal transition.
func (f *Flight) Await(ctx context.Context) (*models.AnalysisResult, error) {
	c := f.controller
	result, err := c.analyzer.Analyze(ctx, f.request)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil && (result == nil || !result.Success) {
		err = ErrAnalysisFailed
	}

	if c.unmounted {
		c.logger.Debug("Discarding response for unmounted upload view")
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	if err != nil {
		c.pending.Status = StatusFailed
		c.pending.ErrorMessage = err.Error()
		c.logger.Error("❌ Analysis request failed", zap.Error(err))
		return nil, err
	}

	c.pending.Status = StatusSucceeded
	c.logger.Info("✅ Analysis completed",
		zap.String("request_id", result.RequestID),
		zap.Int("candidates", len(result.Candidates)))

	return result, nil
}

// Submit is Begin followed by Await.
func (c *Controller) Submit(ctx context.Context) (*models.AnalysisResult, error) {
	flight, err := c.Begin()
	if err != nil {
		return nil, err
	}
	return flight.Await(ctx)
}

func (c *Controller) reject(err *ValidationError) error {
	c.fail(err.Message)
	return err
}

// fail records a local error. The state of an outstanding request is kept.
func (c *Controller) fail(message string) {
	if c.pending.Status == StatusSubmitting {
		return
	}
	c.pending.Status = StatusFailed
	c.pending.ErrorMessage = message
}

func (c *Controller) clearError() {
	if c.pending.Status == StatusFailed {
		c.pending.Status = StatusIdle
		c.pending.ErrorMessage = ""
	}
}
