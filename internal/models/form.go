package models

import "mime/multipart"

// AnalyzeForm is the parsed multipart body of POST /analyze-resumes.
type AnalyzeForm struct {
	Description string                  `validate:"required,notblank"`
	Files       []*multipart.FileHeader `validate:"required,min=1"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
