package models

// ResumeFile is a locally selected document. MediaType is the declared type
// used for validation; ContentType is what the bytes look like.
type ResumeFile struct {
	Name        string
	MediaType   string
	ContentType string
	Path        string
}

// AnalysisRequest is the multipart submission sent to the analysis service.
type AnalysisRequest struct {
	Files       []ResumeFile
	Description string
}
