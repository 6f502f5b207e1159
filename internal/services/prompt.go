package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCandidatePrompt asks for a JSON evaluation of one resume against the
// job description.
func (pb *PromptBuilder) BuildCandidatePrompt(jobDescription, resumeText, filename, rubric string) string {
	return fmt.Sprintf(`You are an expert technical recruiter screening resumes for an open position.

JOB DESCRIPTION:
%s

SCREENING GUIDELINES:
%s

RESUME (%s):
%s

Evaluate how well this candidate fits the job description. Be objective and
reference concrete evidence from the resume.

Return ONLY a JSON object in the following format:
{
  "strengths": ["<short phrase>", ...],
  "weaknesses": ["<short phrase>", ...],
  "overall_score": <number from 0 to 10>,
  "recommendation": "<one of: Strong Hire, Hire, Maybe, No Hire>",
  "comments": "<optional 1-3 sentences of additional context>"
}

Keep every strength and weakness under ten words and do not use commas inside
a phrase.`,
		jobDescription, rubric, filename, resumeText)
}

// BuildJobSummaryPrompt asks for a short markdown summary of the role.
func (pb *PromptBuilder) BuildJobSummaryPrompt(jobDescription string) string {
	return fmt.Sprintf(`You are an expert technical hiring manager.

Summarize the following job description in at most five markdown bullet points
covering the role, seniority, must-have skills and nice-to-have skills.

JOB DESCRIPTION:
%s

Return ONLY the markdown bullets.`, jobDescription)
}

// FormatRAGContext renders retrieved rubric chunks for inclusion in a prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No additional guidelines."
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("--- Guideline %d (%s, score %.2f) ---\n%s",
			i+1, r.Source, r.Score, strings.TrimSpace(r.Text)))
	}
	return strings.Join(parts, "\n\n")
}
