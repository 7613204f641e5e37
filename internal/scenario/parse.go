package scenario

import "strings"

// Parse extracts simulation parameters from scenario text. It returns nil
// when the text holds no digits, or when neither a confusion-matrix cell nor
// an operational field could be resolved. Parse holds no state and is safe
// for concurrent use.
func Parse(text string) *Params {
	if !strings.ContainsAny(text, "0123456789") {
		return nil
	}
	lower := strings.ToLower(text)
	cells := ResolveCells(lower)

	p := &Params{}

	if total := cells.Sum(TruePositive, FalsePositive, FalseNegative, TrueNegative); total > 0 {
		p.TotalPatients = Int(total)
	}
	if positives := cells.Sum(TruePositive, FalseNegative); positives > 0 {
		p.PositiveCases = Int(positives)
	}
	if tp, ok := cells.Get(TruePositive); ok {
		p.TruePositives = Int(tp)
	}
	if fp, ok := cells.Get(FalsePositive); ok {
		p.FalsePositives = Int(fp)
	}

	p.DailyCapacity = optional(DailyCapacity(lower))
	p.WorkdaysPerWeek = optional(WorkdaysPerWeek(lower))
	p.SLADays = optional(SLADays(lower))
	p.CohortSize = optional(CohortSize(lower))
	p.HorizonDays = optional(HorizonDays(lower))

	if len(cells) == 0 && !p.HasOperational() {
		return nil
	}
	return p
}

func optional(v int, ok bool) *int {
	if !ok {
		return nil
	}
	return Int(v)
}
