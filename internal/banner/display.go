// Package banner renders boxed terminal summaries for the scenario-sim CLI.
//
// Every function writes to the supplied writer so callers decide whether a
// banner belongs on stdout (report body) or stderr (status).
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/scenario-sim/internal/metrics"
	"github.com/CodexForgeBR/scenario-sim/internal/router"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

func separator() string { return headerColor(rule) }

// PrintStartupBanner displays the selected provider before a run.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  scenario-sim - Clinical Scenario Simulator
//	═══════════════════════════════════════════════════
//	  Provider:   gemini
//	  Model:      gemini-2.5-flash
//	  Mode:       local first, remote fallback
//	═══════════════════════════════════════════════════
func PrintStartupBanner(w io.Writer, provider, model string, localOnly bool) {
	mode := "local first, remote fallback"
	if localOnly {
		mode = "local only"
	}
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  scenario-sim - Clinical Scenario Simulator"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Provider:   %s\n", provider)
	fmt.Fprintf(w, "  Model:      %s\n", model)
	fmt.Fprintf(w, "  Mode:       %s\n", mode)
	fmt.Fprintln(w, sep)
}

// paramRows lists the parameter fields in display order.
var paramRows = []struct {
	label string
	get   func(*scenario.Params) *int
}{
	{"Total patients", func(p *scenario.Params) *int { return p.TotalPatients }},
	{"Positive cases", func(p *scenario.Params) *int { return p.PositiveCases }},
	{"True positives", func(p *scenario.Params) *int { return p.TruePositives }},
	{"False positives", func(p *scenario.Params) *int { return p.FalsePositives }},
	{"Daily capacity", func(p *scenario.Params) *int { return p.DailyCapacity }},
	{"Workdays/week", func(p *scenario.Params) *int { return p.WorkdaysPerWeek }},
	{"SLA days", func(p *scenario.Params) *int { return p.SLADays }},
	{"Cohort size", func(p *scenario.Params) *int { return p.CohortSize }},
	{"Horizon days", func(p *scenario.Params) *int { return p.HorizonDays }},
}

// PrintResultBanner displays where the parameters came from and every field
// that was extracted. Absent fields are shown as "-".
func PrintResultBanner(w io.Writer, res *router.Result) {
	sep := separator()
	fmt.Fprintln(w, sep)
	switch res.Source {
	case router.SourceLocalPartial:
		fmt.Fprintln(w, warnColor("  ⚠ Partial scenario (local parser only)"))
	default:
		fmt.Fprintln(w, successColor("  ✓ Scenario extracted"))
	}
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Source:     %s\n", res.Source)
	if res.Provider != "" {
		fmt.Fprintf(w, "  Provider:   %s (%s)\n", res.Provider, res.Model)
	}
	if res.RemoteErr != nil {
		fmt.Fprintf(w, "  Remote:     %s\n", errorColor(res.RemoteErr.Error()))
	}
	if res.Params != nil {
		for _, row := range paramRows {
			fmt.Fprintf(w, "  %-16s %s\n", row.label+":", formatOptional(row.get(res.Params)))
		}
	}
	fmt.Fprintln(w, sep)
}

func formatOptional(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// PrintMetricsBanner displays the simulation, its derived rates and the
// capacity plan.
func PrintMetricsBanner(w io.Writer, s metrics.Simulation, d metrics.Derived, c metrics.Capacity) {
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  Classifier performance"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Matrix:      TP %d  FP %d  FN %d  TN %d\n",
		s.TruePositives, s.FalsePositives, d.FalseNegatives, d.TrueNegatives)
	fmt.Fprintf(w, "  Prevalence:  %s\n", percent(d.Prevalence))
	fmt.Fprintf(w, "  Precision:   %s\n", percent(d.Precision))
	fmt.Fprintf(w, "  Recall:      %s\n", percent(d.Recall))
	fmt.Fprintf(w, "  Specificity: %s\n", percent(d.Specificity))
	fmt.Fprintf(w, "  F1:          %.3f\n", d.F1)
	fmt.Fprintf(w, "  FP per 1000: %d\n", d.FPPerThousand)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  Review capacity"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Cohort:      %d (flagged %d: %d TP, %d FP)\n", c.Cohort, c.FlaggedCohort, c.TPCohort, c.FPCohort)
	fmt.Fprintf(w, "  Capacity:    %d/day, %d days/week, SLA %d days\n", s.DailyCapacity, s.WorkdaysPerWeek, s.SLADays)
	if c.Clearable {
		fmt.Fprintf(w, "  Clear in:    %d days\n", c.DaysToClear)
	} else {
		fmt.Fprintln(w, "  Clear in:    "+errorColor("never (no review capacity)"))
	}
	if c.WithinSLA {
		fmt.Fprintln(w, "  SLA:         "+successColor("met"))
	} else {
		fmt.Fprintf(w, "  SLA:         %s\n", errorColor(fmt.Sprintf("missed, backlog %d", c.BacklogAtSLA)))
	}
	fmt.Fprintf(w, "  Per day:     %d TP, %d FP\n", c.TPPerDay, c.FPPerDay)
	fmt.Fprintf(w, "  False alarm: %d%% of capacity (%s)\n", c.FPPctOfCap, loadColor(c.FalseAlarmLoad))
	fmt.Fprintln(w, sep)
}

// PrintOperatingPointBanner displays the recommended operating point. It
// prints nothing when the recommendation equals the current point.
func PrintOperatingPointBanner(w io.Writer, current metrics.Derived, op metrics.OperatingPoint) {
	if op.Precision == current.Precision && op.Recall == current.Recall {
		return
	}
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, warnColor("  ⚠ Suggested operating point"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Precision:   %s (now %s)\n", percent(op.Precision), percent(current.Precision))
	fmt.Fprintf(w, "  Recall:      %s (now %s)\n", percent(op.Recall), percent(current.Recall))
	fmt.Fprintf(w, "  Flagged:     %d, clear in %d days\n", op.FlaggedCohort, op.DaysToClear)
	fmt.Fprintf(w, "  Per day:     %d TP, %d FP\n", op.TPPerDay, op.FPPerDay)
	fmt.Fprintln(w, sep)
}

// PrintNarrativeBanner displays a model-written section under title.
func PrintNarrativeBanner(w io.Writer, title, text string) {
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  "+title))
	fmt.Fprintln(w, sep)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w, sep)
}

// PrintVendorBanner displays what a vendor claim yields on the local
// population.
func PrintVendorBanner(w io.Writer, r metrics.VendorReality) {
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  Vendor claim reality check"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Claim:       %s sensitivity, %s specificity\n",
		percent(r.Claim.Sensitivity), percent(r.Claim.Specificity))
	fmt.Fprintf(w, "  Population:  %d patients at %s prevalence\n", r.Claim.TotalPatients, percent(r.Claim.Prevalence))
	fmt.Fprintf(w, "  Precision:   %s\n", claimColor(r.Level, percent(r.Precision)+" ("+string(r.Level)+")"))
	fmt.Fprintf(w, "  Outcomes:    TP %d  FP %d  FN %d  TN %d\n", r.TruePositives, r.FalsePositives, r.FalseNegatives, r.TrueNegatives)
	fmt.Fprintf(w, "  Per 1000:    %d positive, %d caught, %d false alarms, %d missed\n",
		r.PerThousand.Positives, r.PerThousand.TruePositives, r.PerThousand.FalsePositives, r.PerThousand.FalseNegatives)
	fmt.Fprintf(w, "  FP per TP:   %.1f\n", r.FPPerTP)
	if len(r.Curve) > 0 {
		fmt.Fprintln(w, "  Precision by prevalence:")
		for _, pt := range r.Curve {
			fmt.Fprintf(w, "    %6s  %s\n", percent(pt.Prevalence), percent(pt.Precision))
		}
	}
	fmt.Fprintln(w, sep)
}

// PrintPresetsBanner lists the built-in examples.
func PrintPresetsBanner(w io.Writer, presets []metrics.Preset) {
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  Scenario presets"))
	fmt.Fprintln(w, sep)
	for _, p := range presets {
		fmt.Fprintf(w, "  %-21s %s\n", p.ID, p.Name)
		fmt.Fprintf(w, "  %-21s %d patients, %d positive, TP %d, FP %d\n", "", p.TotalPatients, p.PositiveCases, p.TruePositives, p.FalsePositives)
	}
	fmt.Fprintln(w, sep)
}

// PrintFailureBanner displays a terminal failure with its reason.
func PrintFailureBanner(w io.Writer, title string, err error) {
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, errorColor("  ✗ "+title))
	fmt.Fprintln(w, sep)
	if err != nil {
		fmt.Fprintln(w, "  Reason:")
		fmt.Fprintf(w, "  %s\n", err)
	}
	fmt.Fprintln(w, sep)
}

// PrintInterruptedBanner displays the interrupt notice.
func PrintInterruptedBanner(w io.Writer) {
	sep := separator()
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, warnColor("  ⚠ Interrupted"))
	fmt.Fprintln(w, "  Pending remote requests were cancelled")
	fmt.Fprintln(w, sep)
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func loadColor(l metrics.FalseAlarmLoad) string {
	switch l {
	case metrics.LoadHigh:
		return errorColor(string(l))
	case metrics.LoadModerate:
		return warnColor(string(l))
	default:
		return successColor(string(l))
	}
}

func claimColor(l metrics.ClaimLevel, text string) string {
	switch l {
	case metrics.ClaimCritical:
		return errorColor(text)
	case metrics.ClaimWarning:
		return warnColor(text)
	default:
		return successColor(text)
	}
}
