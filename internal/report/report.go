// Package report renders parse and analyze results as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/scenario-sim/internal/banner"
	"github.com/CodexForgeBR/scenario-sim/internal/config"
	"github.com/CodexForgeBR/scenario-sim/internal/metrics"
	"github.com/CodexForgeBR/scenario-sim/internal/router"
)

// Report is everything a command produced. Nil sections are omitted.
type Report struct {
	Extraction *router.Result `json:"extraction,omitempty" yaml:"extraction,omitempty"`
	// Warning carries a remote failure that did not stop the run.
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`

	Simulation     *metrics.Simulation     `json:"simulation,omitempty" yaml:"simulation,omitempty"`
	Derived        *metrics.Derived        `json:"derived,omitempty" yaml:"derived,omitempty"`
	Capacity       *metrics.Capacity       `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	OperatingPoint *metrics.OperatingPoint `json:"operatingPoint,omitempty" yaml:"operatingPoint,omitempty"`

	// Preset names the built-in example the simulation started from.
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	Narrative string `json:"narrative,omitempty" yaml:"narrative,omitempty"`
	MoreStats string `json:"moreStats,omitempty" yaml:"moreStats,omitempty"`

	Vendor  *metrics.VendorReality `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Presets []metrics.Preset       `json:"presets,omitempty" yaml:"presets,omitempty"`
}

// ForExtraction builds a report for a parse run.
func ForExtraction(res *router.Result) *Report {
	r := &Report{Extraction: res}
	if res != nil && res.RemoteErr != nil {
		r.Warning = res.RemoteErr.Error()
	}
	return r
}

// ForSimulation builds an analyze report: the extraction plus every figure
// computed from s.
func ForSimulation(res *router.Result, s metrics.Simulation) *Report {
	r := ForExtraction(res)
	d := metrics.Derive(s)
	c := metrics.PlanCapacity(s)
	op := metrics.RecommendOperatingPoint(s)
	r.Simulation = &s
	r.Derived = &d
	r.Capacity = &c
	r.OperatingPoint = &op
	return r
}

// ForClaim builds a vendor claim report.
func ForClaim(c metrics.VendorClaim) *Report {
	v := metrics.EvaluateClaim(c)
	return &Report{Vendor: &v}
}

// Write renders r to w in format.
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	case config.FormatText, "":
		writeText(w, r)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, r *Report) {
	if len(r.Presets) > 0 {
		banner.PrintPresetsBanner(w, r.Presets)
	}
	if r.Vendor != nil {
		banner.PrintVendorBanner(w, *r.Vendor)
	}
	if r.Preset != "" {
		if p, ok := metrics.FindPreset(r.Preset); ok {
			fmt.Fprintf(w, "Preset: %s (%s)\n", p.Name, p.Description)
		}
	}
	if r.Extraction != nil {
		banner.PrintResultBanner(w, r.Extraction)
	}
	if r.Simulation != nil && r.Derived != nil && r.Capacity != nil {
		banner.PrintMetricsBanner(w, *r.Simulation, *r.Derived, *r.Capacity)
	}
	if r.OperatingPoint != nil && r.Derived != nil {
		banner.PrintOperatingPointBanner(w, *r.Derived, *r.OperatingPoint)
	}
	if r.Narrative != "" {
		banner.PrintNarrativeBanner(w, "Clinical impact", r.Narrative)
	}
	if r.MoreStats != "" {
		banner.PrintNarrativeBanner(w, "Further statistics", r.MoreStats)
	}
}
