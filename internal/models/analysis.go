package models

// AnalysisResult is the payload returned by POST /analyze-resumes.
type AnalysisResult struct {
	Success       bool                `json:"success"`
	RequestID     string              `json:"request_id"`
	Timestamp     string              `json:"timestamp"`
	JobSummary    string              `json:"job_summary,omitempty"`
	TopCandidates []string            `json:"top_candidates"`
	Candidates    []CandidateAnalysis `json:"candidates"`
}

// CandidateAnalysis is the evaluation of one submitted resume. Strengths and
// Weaknesses are ", " delimited phrase lists.
type CandidateAnalysis struct {
	Filename       string  `json:"filename"`
	Strengths      string  `json:"strengths"`
	Weaknesses     string  `json:"weaknesses"`
	OverallScore   float64 `json:"overall_score"`
	Recommendation string  `json:"recommendation"`
	Comments       *string `json:"comments,omitempty"`
}

// ErrorResponse is the body of a non-success response.
type ErrorResponse struct {
	Detail string `json:"detail,omitempty"`
}
