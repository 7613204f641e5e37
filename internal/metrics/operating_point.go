package metrics

import "math"

// OperatingPoint is a precision/recall pair with the review workload it
// produces on the cohort.
type OperatingPoint struct {
	Precision     float64 `json:"precision" yaml:"precision"`
	Recall        float64 `json:"recall" yaml:"recall"`
	FlaggedCohort int     `json:"flaggedCohort" yaml:"flaggedCohort"`
	DaysToClear   int     `json:"daysToClear" yaml:"daysToClear"`
	BacklogAtSLA  int     `json:"backlogAtSla" yaml:"backlogAtSla"`
	TPPerDay      int     `json:"tpPerDay" yaml:"tpPerDay"`
	FPPerDay      int     `json:"fpPerDay" yaml:"fpPerDay"`
}

// RecommendOperatingPoint finds a point on the precision/recall plane whose
// flag volume fits within daily capacity times the SLA window. The current
// point is returned unchanged when it already fits or when capacity, SLA or
// prevalence are unknown.
func RecommendOperatingPoint(s Simulation) OperatingPoint {
	d := Derive(s)
	cohort := s.CohortSize
	if cohort <= 0 {
		cohort = s.TotalPatients
	}
	capPerDay := max(0, s.DailyCapacity)
	sla := max(0, s.SLADays)

	allowed := 0.0
	if cohort > 0 && capPerDay > 0 && sla > 0 {
		allowed = float64(capPerDay*sla) / float64(cohort)
	}

	prev, precision, recall := d.Prevalence, d.Precision, d.Recall
	if allowed > 0 && prev > 0 {
		recallCap := math.Min(1, allowed/prev)
		required := recall * prev / allowed
		if precision+1e-9 < required {
			if recall > recallCap {
				recall = recallCap
				precision = math.Min(1, recall*prev/allowed)
			} else {
				precision = math.Min(1, required)
			}
		}
	}

	op := OperatingPoint{Precision: precision, Recall: recall}
	if allowed > 0 && prev > 0 {
		rate := math.Min(allowed, recall*prev/math.Max(precision, 1e-9))
		op.FlaggedCohort = roundInt(rate * float64(cohort))
	}
	if capPerDay > 0 {
		op.DaysToClear = int(math.Ceil(float64(op.FlaggedCohort) / float64(capPerDay)))
	}
	op.BacklogAtSLA = max(0, op.FlaggedCohort-capPerDay*sla)
	reviewed := float64(min(capPerDay, op.FlaggedCohort))
	op.TPPerDay = roundInt(reviewed * precision)
	op.FPPerDay = roundInt(reviewed * (1 - precision))
	return op
}
