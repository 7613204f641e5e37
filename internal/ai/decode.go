package ai

import (
	"encoding/json"
	"math"

	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

// paramFields maps reply keys onto Params fields.
var paramFields = []struct {
	key   string
	field func(p *scenario.Params) **int
}{
	{"totalPatients", func(p *scenario.Params) **int { return &p.TotalPatients }},
	{"positiveCases", func(p *scenario.Params) **int { return &p.PositiveCases }},
	{"truePositives", func(p *scenario.Params) **int { return &p.TruePositives }},
	{"falsePositives", func(p *scenario.Params) **int { return &p.FalsePositives }},
	{"dailyCapacity", func(p *scenario.Params) **int { return &p.DailyCapacity }},
	{"workdaysPerWeek", func(p *scenario.Params) **int { return &p.WorkdaysPerWeek }},
	{"slaDays", func(p *scenario.Params) **int { return &p.SLADays }},
	{"cohortSize", func(p *scenario.Params) **int { return &p.CohortSize }},
	{"horizonDays", func(p *scenario.Params) **int { return &p.HorizonDays }},
}

// decodeParams converts a decoded reply object into Params. Unknown keys,
// nulls and values that are not non-negative finite numbers are dropped.
// Strings such as "1,000 scans" go through the same number reader as the
// local parser.
func decodeParams(obj map[string]interface{}) *scenario.Params {
	p := &scenario.Params{}
	for _, f := range paramFields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		if v, ok := toCount(raw); ok {
			*f.field(p) = scenario.Int(v)
		}
	}
	return p
}

func toCount(raw interface{}) (int, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		return scenario.ExtractNumber(v)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	f = math.Round(f)
	if f > scenario.MaxCount {
		return 0, false
	}
	return int(f), true
}
