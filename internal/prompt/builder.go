// Package prompt builds the language-model prompts used for remote scenario
// extraction and narrative analysis.
package prompt

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/scenario-sim/internal/metrics"
)

const defaultContext = "The user is evaluating an AI model for a clinical use case."

// Request is a system/user prompt pair.
type Request struct {
	System string
	User   string
}

// BuildExtractionPrompt constructs the prompt asking a model to pull
// simulation parameters out of free text as strict JSON.
func BuildExtractionPrompt(scenarioText string) Request {
	user := strings.ReplaceAll(ExtractUserTemplate, "{{SCENARIO}}", strings.TrimSpace(scenarioText))
	return Request{
		System: strings.TrimSpace(ExtractSystemTemplate),
		User:   user,
	}
}

// BuildClinicalImpactPrompt constructs the committee memo prompt for s.
// userContext is the clinician's own description of the concern and may be
// empty.
func BuildClinicalImpactPrompt(s metrics.Simulation, userContext string) Request {
	if strings.TrimSpace(userContext) == "" {
		userContext = defaultContext
	}

	user := ClinicalImpactTemplate
	user = strings.ReplaceAll(user, "{{CONTEXT}}", strings.TrimSpace(userContext))
	user = strings.ReplaceAll(user, "{{NUMBERS}}", numbersBlock(s))
	user = strings.ReplaceAll(user, "{{OPERATIONS}}", operationsBlock(s))

	return Request{
		System: strings.TrimSpace(AnalysisSystemTemplate),
		User:   user,
	}
}

// BuildMoreStatsPrompt constructs the extended statistics prompt for s.
func BuildMoreStatsPrompt(s metrics.Simulation) Request {
	d := metrics.Derive(s)
	data := fmt.Sprintf("N: %d\nP: %d\nTP: %d\nFP: %d\nFN: %d\nTN: %d",
		s.TotalPatients, s.PositiveCases, s.TruePositives, s.FalsePositives,
		d.FalseNegatives, d.TrueNegatives)

	return Request{
		System: strings.TrimSpace(AnalysisSystemTemplate),
		User:   strings.ReplaceAll(MoreStatsTemplate, "{{DATA}}", data),
	}
}

func numbersBlock(s metrics.Simulation) string {
	d := metrics.Derive(s)
	lines := []string{
		fmt.Sprintf("- Total scans considered: %d", s.TotalPatients),
		fmt.Sprintf("- Actual positive cases: %d (%.2f%% prevalence)", s.PositiveCases, d.Prevalence*100),
		fmt.Sprintf("- True positives: %d", s.TruePositives),
		fmt.Sprintf("- False positives: %d", s.FalsePositives),
		fmt.Sprintf("- True negatives: %d", d.TrueNegatives),
		fmt.Sprintf("- False negatives: %d", d.FalseNegatives),
		fmt.Sprintf("- Precision (PPV): %.1f%%", d.Precision*100),
		fmt.Sprintf("- Recall (sensitivity): %.1f%%", d.Recall*100),
	}
	return strings.Join(lines, "\n")
}

func operationsBlock(s metrics.Simulation) string {
	c := metrics.PlanCapacity(s)
	op := metrics.RecommendOperatingPoint(s)
	lines := []string{
		fmt.Sprintf("   - Inputs: cohort %d, daily capacity %d, SLA %d days", c.Cohort, s.DailyCapacity, s.SLADays),
		fmt.Sprintf("   - Current: flagged %d, clear in %d days, backlog at SLA %d, TP/day %d, FP/day %d",
			c.FlaggedCohort, c.DaysToClear, c.BacklogAtSLA, c.TPPerDay, c.FPPerDay),
		fmt.Sprintf("   - Recommended: %.1f%% PPV @ %.1f%% recall, flagged %d, clear in %d days, backlog at SLA %d, TP/day %d, FP/day %d",
			op.Precision*100, op.Recall*100, op.FlaggedCohort, op.DaysToClear, op.BacklogAtSLA, op.TPPerDay, op.FPPerDay),
	}
	return strings.Join(lines, "\n")
}
