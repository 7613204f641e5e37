// Package metrics computes derived classifier metrics and operational
// capacity figures for a fully populated simulation.
package metrics

import "github.com/CodexForgeBR/scenario-sim/internal/scenario"

// Simulation is the complete parameter set a clinician works with. Unlike
// scenario.Params every field has a value.
type Simulation struct {
	TotalPatients  int `json:"totalPatients" yaml:"totalPatients"`
	PositiveCases  int `json:"positiveCases" yaml:"positiveCases"`
	TruePositives  int `json:"truePositives" yaml:"truePositives"`
	FalsePositives int `json:"falsePositives" yaml:"falsePositives"`

	CohortSize      int `json:"cohortSize" yaml:"cohortSize"`
	DailyCapacity   int `json:"dailyCapacity" yaml:"dailyCapacity"`
	WorkdaysPerWeek int `json:"workdaysPerWeek" yaml:"workdaysPerWeek"`
	SLADays         int `json:"slaDays" yaml:"slaDays"`
	HorizonDays     int `json:"horizonDays" yaml:"horizonDays"`
}

// DefaultSimulation returns the starting scenario: 1000 scans at 1%
// prevalence, 8 of 10 positives caught with 50 false alarms.
func DefaultSimulation() Simulation {
	return Simulation{
		TotalPatients:   1000,
		PositiveCases:   10,
		TruePositives:   8,
		FalsePositives:  50,
		CohortSize:      1000,
		DailyCapacity:   40,
		WorkdaysPerWeek: 5,
		SLADays:         10,
		HorizonDays:     365,
	}
}

// Apply merges the fields present in p over s. Absent fields keep their
// current values.
func (s Simulation) Apply(p *scenario.Params) Simulation {
	if p == nil {
		return s
	}
	apply(&s.TotalPatients, p.TotalPatients)
	apply(&s.PositiveCases, p.PositiveCases)
	apply(&s.TruePositives, p.TruePositives)
	apply(&s.FalsePositives, p.FalsePositives)
	apply(&s.CohortSize, p.CohortSize)
	apply(&s.DailyCapacity, p.DailyCapacity)
	apply(&s.WorkdaysPerWeek, p.WorkdaysPerWeek)
	apply(&s.SLADays, p.SLADays)
	apply(&s.HorizonDays, p.HorizonDays)
	return s
}

func apply(dst *int, src *int) {
	if src != nil && *src >= 0 {
		*dst = *src
	}
}
