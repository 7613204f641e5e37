package metrics

import "math"

// Derived holds the confusion-matrix cells and rates implied by a Simulation.
type Derived struct {
	NegativeCases  int `json:"negativeCases" yaml:"negativeCases"`
	FalseNegatives int `json:"falseNegatives" yaml:"falseNegatives"`
	TrueNegatives  int `json:"trueNegatives" yaml:"trueNegatives"`

	Precision   float64 `json:"precision" yaml:"precision"`
	Recall      float64 `json:"recall" yaml:"recall"`
	Specificity float64 `json:"specificity" yaml:"specificity"`
	Prevalence  float64 `json:"prevalence" yaml:"prevalence"`
	F1          float64 `json:"f1" yaml:"f1"`

	// FPPerThousand is false alarms per 1000 patients screened.
	FPPerThousand int `json:"fpPerThousand" yaml:"fpPerThousand"`
}

// Derive computes the remaining matrix cells and headline rates. Ratios
// with a zero denominator are reported as 0. Counts that would go negative
// because the inputs are inconsistent are clamped to 0.
func Derive(s Simulation) Derived {
	d := Derived{
		NegativeCases:  max(0, s.TotalPatients-s.PositiveCases),
		FalseNegatives: max(0, s.PositiveCases-s.TruePositives),
	}
	d.TrueNegatives = max(0, d.NegativeCases-s.FalsePositives)

	d.Precision = ratio(s.TruePositives, s.TruePositives+s.FalsePositives)
	d.Recall = ratio(s.TruePositives, s.PositiveCases)
	d.Specificity = ratio(d.TrueNegatives, d.NegativeCases)
	d.Prevalence = ratio(s.PositiveCases, s.TotalPatients)
	if d.Precision+d.Recall > 0 {
		d.F1 = 2 * d.Precision * d.Recall / (d.Precision + d.Recall)
	}
	if s.TotalPatients > 0 {
		d.FPPerThousand = int(math.Round(float64(s.FalsePositives) / float64(s.TotalPatients) * 1000))
	}
	return d
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
