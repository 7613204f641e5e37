package metrics

import "strings"

// Preset is a worked clinical example with a known confusion matrix.
type Preset struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	TotalPatients  int `json:"totalPatients" yaml:"totalPatients"`
	PositiveCases  int `json:"positiveCases" yaml:"positiveCases"`
	TruePositives  int `json:"truePositives" yaml:"truePositives"`
	FalsePositives int `json:"falsePositives" yaml:"falsePositives"`

	// Context is the clinical framing handed to the narrative prompt.
	Context string `json:"context" yaml:"context"`
}

var presets = []Preset{
	{
		ID:             "ich",
		Name:           "Intracranial Hemorrhage",
		Description:    "AI detection of ICH in head CT scans",
		TotalPatients:  1000,
		PositiveCases:  4,
		TruePositives:  3,
		FalsePositives: 12,
		Context: "We are evaluating a vendor app that reads head CTs for intracranial hemorrhage. " +
			"The vendor reports AUROC, but ICH prevalence in our screening population is low.",
	},
	{
		ID:             "lung-cancer",
		Name:           "Lung Cancer Screening",
		Description:    "AI detection of lung cancer in low-dose CT scans",
		TotalPatients:  2000,
		PositiveCases:  40,
		TruePositives:  35,
		FalsePositives: 150,
		Context: "Our radiology department is evaluating an AI tool for lung cancer screening " +
			"with low-dose CT at about 2% prevalence.",
	},
	{
		ID:             "diabetic-retinopathy",
		Name:           "Diabetic Retinopathy",
		Description:    "AI detection of diabetic retinopathy in eye exams",
		TotalPatients:  1500,
		PositiveCases:  150,
		TruePositives:  120,
		FalsePositives: 90,
		Context: "We are assessing retinal photograph screening for diabetic retinopathy in primary care " +
			"at about 10% prevalence.",
	},
	{
		ID:             "sepsis-prediction",
		Name:           "Sepsis Prediction",
		Description:    "AI early warning system for sepsis in hospital patients",
		TotalPatients:  3000,
		PositiveCases:  90,
		TruePositives:  75,
		FalsePositives: 200,
		Context: "Our hospital is implementing an early warning system for sepsis among monitored " +
			"inpatients at about 3% prevalence.",
	},
}

// Presets returns the built-in examples in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// FindPreset looks a preset up by ID, ignoring case.
func FindPreset(id string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.ID, strings.TrimSpace(id)) {
			return p, true
		}
	}
	return Preset{}, false
}

// ApplyPreset replaces the confusion matrix of s with p's. Operational
// settings are kept, and the cohort follows the preset sample size.
func (s Simulation) ApplyPreset(p Preset) Simulation {
	s.TotalPatients = p.TotalPatients
	s.PositiveCases = p.PositiveCases
	s.TruePositives = p.TruePositives
	s.FalsePositives = p.FalsePositives
	s.CohortSize = p.TotalPatients
	return s
}
