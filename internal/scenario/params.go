// Package scenario converts free-text clinical scenario descriptions into
// simulation parameters.
//
// Parse is a deterministic, rule-based fast path: it recognises confusion
// matrix statements ("predicted positive, actual negative: 50") and
// operational capacity phrases ("42 per day", "SLA 10 days", "for the year").
// It never fails on input; a nil result means nothing usable was found and
// the caller should escalate to a remote extractor.
package scenario

// Params is a sparse set of simulation parameters. A nil field was not
// derived and must not be treated as zero; it is omitted when encoded so the
// result can be merged over existing state without clobbering it.
type Params struct {
	TotalPatients  *int `json:"totalPatients,omitempty" yaml:"totalPatients,omitempty"`
	PositiveCases  *int `json:"positiveCases,omitempty" yaml:"positiveCases,omitempty"`
	TruePositives  *int `json:"truePositives,omitempty" yaml:"truePositives,omitempty"`
	FalsePositives *int `json:"falsePositives,omitempty" yaml:"falsePositives,omitempty"`

	DailyCapacity   *int `json:"dailyCapacity,omitempty" yaml:"dailyCapacity,omitempty"`
	WorkdaysPerWeek *int `json:"workdaysPerWeek,omitempty" yaml:"workdaysPerWeek,omitempty"`
	SLADays         *int `json:"slaDays,omitempty" yaml:"slaDays,omitempty"`
	CohortSize      *int `json:"cohortSize,omitempty" yaml:"cohortSize,omitempty"`
	HorizonDays     *int `json:"horizonDays,omitempty" yaml:"horizonDays,omitempty"`
}

// Usable reports whether p carries enough confusion-matrix signal to be used
// in place of a remote extraction: a total patient count, or both true and
// false positive counts.
func (p *Params) Usable() bool {
	if p == nil {
		return false
	}
	return p.TotalPatients != nil || (p.TruePositives != nil && p.FalsePositives != nil)
}

// HasMatrix reports whether any confusion-matrix field is set.
func (p *Params) HasMatrix() bool {
	if p == nil {
		return false
	}
	return p.TotalPatients != nil || p.PositiveCases != nil ||
		p.TruePositives != nil || p.FalsePositives != nil
}

// HasOperational reports whether any operational field is set.
func (p *Params) HasOperational() bool {
	if p == nil {
		return false
	}
	return p.DailyCapacity != nil || p.WorkdaysPerWeek != nil ||
		p.SLADays != nil || p.CohortSize != nil || p.HorizonDays != nil
}

// IsEmpty reports whether no field at all is set.
func (p *Params) IsEmpty() bool {
	return !p.HasMatrix() && !p.HasOperational()
}

// Overlay copies every field set in src onto p, leaving fields absent in src
// untouched.
func (p *Params) Overlay(src *Params) {
	if p == nil || src == nil {
		return
	}
	overlayInt(&p.TotalPatients, src.TotalPatients)
	overlayInt(&p.PositiveCases, src.PositiveCases)
	overlayInt(&p.TruePositives, src.TruePositives)
	overlayInt(&p.FalsePositives, src.FalsePositives)
	overlayInt(&p.DailyCapacity, src.DailyCapacity)
	overlayInt(&p.WorkdaysPerWeek, src.WorkdaysPerWeek)
	overlayInt(&p.SLADays, src.SLADays)
	overlayInt(&p.CohortSize, src.CohortSize)
	overlayInt(&p.HorizonDays, src.HorizonDays)
}

// FillOperational copies operational fields from src into p only where p has
// none of its own.
func (p *Params) FillOperational(src *Params) {
	if p == nil || src == nil {
		return
	}
	fillInt(&p.DailyCapacity, src.DailyCapacity)
	fillInt(&p.WorkdaysPerWeek, src.WorkdaysPerWeek)
	fillInt(&p.SLADays, src.SLADays)
	fillInt(&p.CohortSize, src.CohortSize)
	fillInt(&p.HorizonDays, src.HorizonDays)
}

// Int returns a pointer to a copy of v.
func Int(v int) *int {
	return &v
}

func overlayInt(dst **int, src *int) {
	if src != nil {
		*dst = Int(*src)
	}
}

func fillInt(dst **int, src *int) {
	if *dst == nil && src != nil {
		*dst = Int(*src)
	}
}
