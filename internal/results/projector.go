// Package results turns an analysis payload into the ordered, tiered candidate
// cards shown by the results view.
package results

import (
	"strings"
	"time"

	"alfredoptarigan/resume-screener/internal/models"
)

// PhraseSeparator delimits the strengths and weaknesses strings.
const PhraseSeparator = ", "

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Thresholds are the display cut points: High when score >= High, Medium when
// score >= Medium, Low otherwise.
type Thresholds struct {
	High   float64
	Medium float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{High: 8, Medium: 5}
}

func (t Thresholds) Tier(score float64) Tier {
	switch {
	case score >= t.High:
		return TierHigh
	case score >= t.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

// Card is the view model of one candidate.
type Card struct {
	Position       int
	Filename       string
	Score          float64
	Tier           Tier
	Recommendation string
	Strengths      []string
	Weaknesses     []string
	Comments       string
	HasComments    bool
	TopCandidate   bool
}

// Page is the projected results view. Missing is set when no result was
// handed to the view.
type Page struct {
	Missing       bool
	RequestID     string
	Timestamp     string
	JobSummary    string
	TopCandidates []string
	Cards         []Card
}

type Projector struct {
	thresholds Thresholds
}

func NewProjector(thresholds Thresholds) *Projector {
	return &Projector{thresholds: thresholds}
}

// Present projects result into a page. Candidates keep the order received;
// top candidates only flag cards and never reorder them.
func (p *Projector) Present(result *models.AnalysisResult) Page {
	if result == nil {
		return Page{Missing: true}
	}

	top := make(map[string]bool, len(result.TopCandidates))
	for _, name := range result.TopCandidates {
		top[name] = true
	}

	cards := make([]Card, 0, len(result.Candidates))
	for i, c := range result.Candidates {
		card := Card{
			Position:       i + 1,
			Filename:       c.Filename,
			Score:          c.OverallScore,
			Tier:           p.thresholds.Tier(c.OverallScore),
			Recommendation: c.Recommendation,
			Strengths:      SplitPhrases(c.Strengths),
			Weaknesses:     SplitPhrases(c.Weaknesses),
			TopCandidate:   top[c.Filename],
		}
		if c.Comments != nil && *c.Comments != "" {
			card.Comments = *c.Comments
			card.HasComments = true
		}
		cards = append(cards, card)
	}

	return Page{
		RequestID:     result.RequestID,
		Timestamp:     formatTimestamp(result.Timestamp),
		JobSummary:    result.JobSummary,
		TopCandidates: append([]string(nil), result.TopCandidates...),
		Cards:         cards,
	}
}

// SplitPhrases splits a delimited string. An empty string yields a single
// empty phrase.
func SplitPhrases(s string) []string {
	return strings.Split(s, PhraseSeparator)
}

func formatTimestamp(ts string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Local().Format("2006-01-02 15:04:05")
		}
	}
	return ts
}
