package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorHigh   = lipgloss.Color("#8BC34A")
	colorMedium = lipgloss.Color("#FFC107")
	colorLow    = lipgloss.Color("#e53935")
	colorMuted  = lipgloss.Color("#8a94a6")
	colorTitle  = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles used to draw a page.
type Styles struct {
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Section     lipgloss.Style
	Card        lipgloss.Style
	Alert       lipgloss.Style
	StrengthTag lipgloss.Style
	WeakTag     lipgloss.Style
	Tiers       map[Tier]lipgloss.Style
}

func DefaultStyles() Styles {
	chip := lipgloss.NewStyle().Padding(0, 1).MarginRight(1)
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
		Subtle:      lipgloss.NewStyle().Foreground(colorMuted),
		Section:     lipgloss.NewStyle().Bold(true).Underline(true),
		Card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginBottom(1),
		Alert:       lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(colorLow).Padding(0, 1),
		StrengthTag: chip.Foreground(colorHigh),
		WeakTag:     chip.Foreground(colorLow),
		Tiers: map[Tier]lipgloss.Style{
			TierHigh:   lipgloss.NewStyle().Bold(true).Foreground(colorHigh),
			TierMedium: lipgloss.NewStyle().Bold(true).Foreground(colorMedium),
			TierLow:    lipgloss.NewStyle().Bold(true).Foreground(colorLow),
		},
	}
}

// RenderMissing draws the recovery notice shown when no result was handed over.
func RenderMissing(s Styles) string {
	return s.Alert.Render(s.Title.Render("No Analysis Data Found") + "\n" +
		"Please upload resumes and analyze them first.")
}

// Render draws the page header and one card per candidate. The job summary is
// drawn by the caller when it needs richer formatting; summary, if non-empty,
// replaces the raw JobSummary text.
func Render(page Page, s Styles, width int, summary string) string {
	if page.Missing {
		return RenderMissing(s)
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render("Analysis Results"))
	sb.WriteString("\n")
	sb.WriteString(s.Subtle.Render(fmt.Sprintf("Request %s · %s · %d candidates",
		page.RequestID, page.Timestamp, len(page.Cards))))
	sb.WriteString("\n\n")

	if page.JobSummary != "" {
		if summary == "" {
			summary = page.JobSummary
		}
		sb.WriteString(s.Section.Render("Job Summary"))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(summary, "\n"))
		sb.WriteString("\n\n")
	}

	if len(page.TopCandidates) > 0 {
		sb.WriteString(s.Subtle.Render("Top candidates: " + strings.Join(page.TopCandidates, ", ")))
		sb.WriteString("\n\n")
	}

	for _, card := range page.Cards {
		sb.WriteString(RenderCard(card, s, width))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderCard draws a single candidate card.
func RenderCard(card Card, s Styles, width int) string {
	var sb strings.Builder

	title := fmt.Sprintf("#%d - %s", card.Position, card.Filename)
	if card.TopCandidate {
		title += " ★"
	}
	sb.WriteString(s.Title.Render(title))
	sb.WriteString("  ")
	sb.WriteString(s.Tiers[card.Tier].Render(fmt.Sprintf("Score: %g (%s)", card.Score, card.Tier)))
	sb.WriteString("\n")
	sb.WriteString("Recommendation: " + lipgloss.NewStyle().Bold(true).Render(card.Recommendation))
	sb.WriteString("\n\n")

	sb.WriteString(s.Section.Render("Strengths:"))
	sb.WriteString("\n")
	sb.WriteString(chips(card.Strengths, s.StrengthTag))
	sb.WriteString("\n")

	sb.WriteString(s.Section.Render("Weaknesses:"))
	sb.WriteString("\n")
	sb.WriteString(chips(card.Weaknesses, s.WeakTag))

	if card.HasComments {
		sb.WriteString("\n")
		sb.WriteString(s.Section.Render("Comments:"))
		sb.WriteString("\n")
		sb.WriteString(card.Comments)
	}

	style := s.Card.BorderForeground(s.Tiers[card.Tier].GetForeground())
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(sb.String())
}

func chips(phrases []string, style lipgloss.Style) string {
	rendered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		rendered = append(rendered, style.Render("["+p+"]"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
