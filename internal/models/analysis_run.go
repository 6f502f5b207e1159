package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun is a stored /analyze-resumes response.
type AnalysisRun struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription string            `gorm:"type:text" json:"job_description"`
	JobSummary     string            `gorm:"type:text" json:"job_summary"`
	TopCandidates  []string          `gorm:"serializer:json;type:jsonb" json:"top_candidates"`
	Candidates     []CandidateRecord `gorm:"foreignKey:AnalysisRunID;constraint:OnDelete:CASCADE" json:"candidates"`
	CreatedAt      time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// CandidateRecord is one candidate of an AnalysisRun, kept in submission order.
type CandidateRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AnalysisRunID  uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_run_id"`
	Position       int       `gorm:"not null" json:"position"`
	Filename       string    `gorm:"type:text" json:"filename"`
	Strengths      string    `gorm:"type:text" json:"strengths"`
	Weaknesses     string    `gorm:"type:text" json:"weaknesses"`
	OverallScore   float64   `gorm:"type:decimal(4,2)" json:"overall_score"`
	Recommendation string    `gorm:"type:text" json:"recommendation"`
	Comments       *string   `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CandidateRecord) TableName() string {
	return "candidate_records"
}

// ToResult rebuilds the wire payload of a stored run.
func (r *AnalysisRun) ToResult() *AnalysisResult {
	candidates := make([]CandidateAnalysis, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		candidates = append(candidates, CandidateAnalysis{
			Filename:       c.Filename,
			Strengths:      c.Strengths,
			Weaknesses:     c.Weaknesses,
			OverallScore:   c.OverallScore,
			Recommendation: c.Recommendation,
			Comments:       c.Comments,
		})
	}

	topCandidates := r.TopCandidates
	if topCandidates == nil {
		topCandidates = []string{}
	}

	return &AnalysisResult{
		Success:       true,
		RequestID:     r.ID.String(),
		Timestamp:     r.CreatedAt.UTC().Format(time.RFC3339),
		JobSummary:    r.JobSummary,
		TopCandidates: topCandidates,
		Candidates:    candidates,
	}
}
