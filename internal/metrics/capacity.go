package metrics

import "math"

// FalseAlarmLoad grades how much of the daily review capacity is consumed by
// false positives.
type FalseAlarmLoad string

const (
	LoadLow      FalseAlarmLoad = "low"
	LoadModerate FalseAlarmLoad = "moderate"
	LoadHigh     FalseAlarmLoad = "high"
)

// Capacity describes the review workload produced by deploying the
// classifier on the cohort.
type Capacity struct {
	// Cohort is the population the sample rates are scaled to.
	Cohort int `json:"cohort" yaml:"cohort"`

	FlaggedCohort int `json:"flaggedCohort" yaml:"flaggedCohort"`
	TPCohort      int `json:"tpCohort" yaml:"tpCohort"`
	FPCohort      int `json:"fpCohort" yaml:"fpCohort"`

	// DaysToClear is meaningful only when Clearable is true.
	DaysToClear  int  `json:"daysToClear" yaml:"daysToClear"`
	Clearable    bool `json:"clearable" yaml:"clearable"`
	BacklogAtSLA int  `json:"backlogAtSla" yaml:"backlogAtSla"`
	WithinSLA    bool `json:"withinSla" yaml:"withinSla"`

	TPPerDay       int            `json:"tpPerDay" yaml:"tpPerDay"`
	FPPerDay       int            `json:"fpPerDay" yaml:"fpPerDay"`
	FPPctOfCap     int            `json:"fpPctOfCapacity" yaml:"fpPctOfCapacity"`
	FalseAlarmLoad FalseAlarmLoad `json:"falseAlarmLoad" yaml:"falseAlarmLoad"`

	WeeklyThroughput int     `json:"weeklyThroughput" yaml:"weeklyThroughput"`
	EffectiveDays    int     `json:"effectiveDays" yaml:"effectiveDays"`
	FlaggedPerDay    float64 `json:"flaggedPerDay" yaml:"flaggedPerDay"`
	DeltaPerDay      float64 `json:"deltaPerDay" yaml:"deltaPerDay"`
}

// PlanCapacity scales the sample's flag rates to the cohort and compares the
// resulting review queue with staff capacity.
func PlanCapacity(s Simulation) Capacity {
	c := Capacity{Cohort: s.CohortSize}
	if c.Cohort <= 0 {
		c.Cohort = s.TotalPatients
	}

	if s.TotalPatients > 0 {
		n := float64(c.Cohort)
		total := float64(s.TotalPatients)
		c.FlaggedCohort = roundInt(float64(s.TruePositives+s.FalsePositives) / total * n)
		c.TPCohort = roundInt(float64(s.TruePositives) / total * n)
		c.FPCohort = roundInt(float64(s.FalsePositives) / total * n)
	}

	capPerDay := max(0, s.DailyCapacity)
	if capPerDay > 0 {
		c.Clearable = true
		c.DaysToClear = int(math.Ceil(float64(c.FlaggedCohort) / float64(capPerDay)))
	}
	c.BacklogAtSLA = max(0, c.FlaggedCohort-capPerDay*max(0, s.SLADays))
	c.WithinSLA = c.Clearable && c.DaysToClear <= max(0, s.SLADays)

	ppv := 0.0
	if c.FlaggedCohort > 0 {
		ppv = float64(c.TPCohort) / float64(c.FlaggedCohort)
	}
	reviewed := float64(min(capPerDay, c.FlaggedCohort))
	c.TPPerDay = roundInt(reviewed * ppv)
	c.FPPerDay = roundInt(reviewed * (1 - ppv))
	if capPerDay > 0 {
		c.FPPctOfCap = roundInt(float64(c.FPPerDay) / float64(capPerDay) * 100)
	}
	c.FalseAlarmLoad = gradeLoad(c.FPPctOfCap)

	workdays := s.WorkdaysPerWeek
	if workdays <= 0 {
		workdays = 5
	}
	horizon := s.HorizonDays
	if horizon <= 0 {
		horizon = 365
	}
	c.WeeklyThroughput = capPerDay * workdays
	c.EffectiveDays = max(1, int(math.Ceil(float64(horizon)*float64(workdays)/7)))
	c.FlaggedPerDay = float64(c.FlaggedCohort) / float64(c.EffectiveDays)
	c.DeltaPerDay = float64(capPerDay) - c.FlaggedPerDay

	return c
}

func gradeLoad(pct int) FalseAlarmLoad {
	switch {
	case pct >= 60:
		return LoadHigh
	case pct >= 30:
		return LoadModerate
	default:
		return LoadLow
	}
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
