package metrics

import (
	"fmt"
	"math"
)

// ClaimLevel grades the precision a vendor claim yields at local prevalence.
type ClaimLevel string

const (
	ClaimCritical   ClaimLevel = "critical"
	ClaimWarning    ClaimLevel = "warning"
	ClaimAcceptable ClaimLevel = "acceptable"
)

// VendorClaim is a sensitivity/specificity pair quoted by a vendor, applied
// to a local population.
type VendorClaim struct {
	Sensitivity   float64 `json:"sensitivity" yaml:"sensitivity"`
	Specificity   float64 `json:"specificity" yaml:"specificity"`
	Prevalence    float64 `json:"prevalence" yaml:"prevalence"`
	TotalPatients int     `json:"totalPatients" yaml:"totalPatients"`
}

// Validate checks that the rates are proportions and the population is
// positive.
func (c VendorClaim) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"sensitivity", c.Sensitivity},
		{"specificity", c.Specificity},
		{"prevalence", c.Prevalence},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %g", f.name, f.v)
		}
	}
	if c.TotalPatients <= 0 {
		return fmt.Errorf("total patients must be > 0, got %d", c.TotalPatients)
	}
	return nil
}

// PerThousand holds counts scaled to 1000 patients.
type PerThousand struct {
	Positives      int `json:"positives" yaml:"positives"`
	TruePositives  int `json:"truePositives" yaml:"truePositives"`
	FalsePositives int `json:"falsePositives" yaml:"falsePositives"`
	FalseNegatives int `json:"falseNegatives" yaml:"falseNegatives"`
}

// VendorReality is what a claim means on the local population.
type VendorReality struct {
	Claim VendorClaim `json:"claim" yaml:"claim"`

	PositiveCases  int `json:"positiveCases" yaml:"positiveCases"`
	TruePositives  int `json:"truePositives" yaml:"truePositives"`
	FalsePositives int `json:"falsePositives" yaml:"falsePositives"`
	FalseNegatives int `json:"falseNegatives" yaml:"falseNegatives"`
	TrueNegatives  int `json:"trueNegatives" yaml:"trueNegatives"`

	Precision   float64     `json:"precision" yaml:"precision"`
	FPPerTP     float64     `json:"fpPerTp" yaml:"fpPerTp"`
	PerThousand PerThousand `json:"perThousand" yaml:"perThousand"`
	Level       ClaimLevel  `json:"level" yaml:"level"`

	// Curve shows how precision moves with prevalence at the claimed rates.
	Curve []CurvePoint `json:"curve" yaml:"curve"`
}

const curveSteps = 10

// EvaluateClaim rounds the claim into whole patients on the local
// population. The claim is assumed valid.
func EvaluateClaim(c VendorClaim) VendorReality {
	r := VendorReality{Claim: c}
	r.PositiveCases = roundInt(float64(c.TotalPatients) * c.Prevalence)
	negatives := c.TotalPatients - r.PositiveCases
	r.TruePositives = roundInt(float64(r.PositiveCases) * c.Sensitivity)
	r.FalseNegatives = r.PositiveCases - r.TruePositives
	r.TrueNegatives = roundInt(float64(negatives) * c.Specificity)
	r.FalsePositives = negatives - r.TrueNegatives

	r.Precision = ratio(r.TruePositives, r.TruePositives+r.FalsePositives)
	if r.TruePositives > 0 {
		r.FPPerTP = float64(r.FalsePositives) / float64(r.TruePositives)
	}

	scale := 1000 / float64(c.TotalPatients)
	r.PerThousand = PerThousand{
		Positives:      roundInt(float64(r.PositiveCases) * scale),
		TruePositives:  roundInt(float64(r.TruePositives) * scale),
		FalsePositives: roundInt(float64(r.FalsePositives) * scale),
		FalseNegatives: roundInt(float64(r.FalseNegatives) * scale),
	}

	switch {
	case r.Precision < 0.1:
		r.Level = ClaimCritical
	case r.Precision < 0.3:
		r.Level = ClaimWarning
	default:
		r.Level = ClaimAcceptable
	}

	// Range spans three times the local prevalence, clamped to 20-50%.
	maxPrev := math.Max(0.2, math.Min(0.5, c.Prevalence*3))
	r.Curve = PrevalenceCurve(c.Sensitivity, c.Specificity, maxPrev, curveSteps)
	return r
}

// PrecisionAtPrevalence is the expected precision of a classifier with the
// given sensitivity and specificity at prevalence.
func PrecisionAtPrevalence(sensitivity, specificity, prevalence float64) float64 {
	tp := sensitivity * prevalence
	fp := (1 - specificity) * (1 - prevalence)
	if tp+fp <= 0 {
		return 0
	}
	return tp / (tp + fp)
}

// CurvePoint is one sample of precision against prevalence.
type CurvePoint struct {
	Prevalence float64 `json:"prevalence" yaml:"prevalence"`
	Precision  float64 `json:"precision" yaml:"precision"`
}

// PrevalenceCurve samples PrecisionAtPrevalence at steps+1 evenly spaced
// prevalences from 0 to maxPrevalence inclusive.
func PrevalenceCurve(sensitivity, specificity, maxPrevalence float64, steps int) []CurvePoint {
	if steps <= 0 || maxPrevalence <= 0 {
		return nil
	}
	points := make([]CurvePoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		prev := float64(i) / float64(steps) * maxPrevalence
		points = append(points, CurvePoint{
			Prevalence: prev,
			Precision:  PrecisionAtPrevalence(sensitivity, specificity, prev),
		})
	}
	return points
}
