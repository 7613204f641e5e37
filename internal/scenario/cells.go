package scenario

import (
	"regexp"
	"strings"
)

// Label is a confusion-matrix cell.
type Label int

const (
	TruePositive Label = iota
	FalsePositive
	FalseNegative
	TrueNegative
)

// String returns the conventional abbreviation for the cell.
func (l Label) String() string {
	switch l {
	case TruePositive:
		return "TP"
	case FalsePositive:
		return "FP"
	case FalseNegative:
		return "FN"
	case TrueNegative:
		return "TN"
	default:
		return "unknown"
	}
}

// LabelFor maps a (prediction, actual) polarity pair to its cell. ok is false
// when either polarity is indeterminate.
func LabelFor(pred, actual Polarity) (Label, bool) {
	switch {
	case pred == Positive && actual == Positive:
		return TruePositive, true
	case pred == Positive && actual == Negative:
		return FalsePositive, true
	case pred == Negative && actual == Positive:
		return FalseNegative, true
	case pred == Negative && actual == Negative:
		return TrueNegative, true
	default:
		return 0, false
	}
}

// Cells holds the counts resolved for each confusion-matrix label. A missing
// key means the cell was never stated, which is distinct from a stated zero.
type Cells map[Label]int

// Get returns the count for l and whether it was resolved.
func (c Cells) Get(l Label) (int, bool) {
	v, ok := c[l]
	return v, ok
}

// Sum adds the resolved counts for labels; absent cells contribute zero.
func (c Cells) Sum(labels ...Label) int {
	total := 0
	for _, l := range labels {
		total += c[l]
	}
	return total
}

var (
	predictionMarker = regexp.MustCompile(`\b(?:test|pred(?:icted)?)\b`)
	actualMarker     = regexp.MustCompile(`\b(?:actual|truth|label|ground\s*truth)\b`)

	predictionSpan = regexp.MustCompile(`\b(?:test|pred(?:icted)?)\b.*?\b(true|false|positive|negative)\b`)
	actualSpan     = regexp.MustCompile(`\b(?:actual|truth|label|ground\s*truth)\b.*?\b(true|false|positive|negative)\b`)
)

// cellForm resolves the (prediction, actual) polarity pair of a single
// lower-cased line. Forms are tried in order and the first success wins.
type cellForm struct {
	name    string
	resolve func(line string) (pred, actual Polarity, ok bool)
}

var cellForms = []cellForm{
	{name: "structured", resolve: resolveStructured},
	{name: "heuristic", resolve: resolveHeuristic},
}

// resolveStructured handles "test positive ... actual negative": a prediction
// marker followed by a polarity word and an actual marker followed by one.
func resolveStructured(line string) (Polarity, Polarity, bool) {
	pm := predictionSpan.FindStringSubmatch(line)
	if pm == nil {
		return Indeterminate, Indeterminate, false
	}
	am := actualSpan.FindStringSubmatch(line)
	if am == nil {
		return Indeterminate, Indeterminate, false
	}
	pred, actual := ClassifyPolarity(pm[1]), ClassifyPolarity(am[1])
	if pred == Indeterminate || actual == Indeterminate {
		return Indeterminate, Indeterminate, false
	}
	return pred, actual, true
}

// resolveHeuristic handles lines that mention both markers in looser form
// ("test=pos and actual=neg"). The prediction polarity comes from the whole
// line and the actual polarity from the text after the first actual marker.
// A line that names the actual marker before the prediction marker can
// resolve to the wrong cell; phrasing in practice puts "test" first.
func resolveHeuristic(line string) (Polarity, Polarity, bool) {
	if !predictionMarker.MatchString(line) {
		return Indeterminate, Indeterminate, false
	}
	loc := actualMarker.FindStringIndex(line)
	if loc == nil {
		return Indeterminate, Indeterminate, false
	}
	pred := ClassifyPolarity(line)
	actual := ClassifyPolarity(line[loc[1]:])
	if pred == Indeterminate || actual == Indeterminate {
		return Indeterminate, Indeterminate, false
	}
	return pred, actual, true
}

// ResolveCells assigns the counts stated in text to confusion-matrix cells.
// Each line contributes at most one cell; when several lines resolve to the
// same cell the last one wins.
func ResolveCells(text string) Cells {
	cells := make(Cells)
	for _, line := range splitLines(strings.ToLower(text)) {
		label, n, ok := resolveLine(line)
		if ok {
			cells[label] = n
		}
	}
	return cells
}

func resolveLine(line string) (Label, int, bool) {
	n, ok := ExtractNumber(line)
	if !ok {
		return 0, 0, false
	}
	for _, form := range cellForms {
		pred, actual, ok := form.resolve(line)
		if !ok {
			continue
		}
		if label, ok := LabelFor(pred, actual); ok {
			return label, n, true
		}
	}
	return 0, 0, false
}

// splitLines splits on \n or \r\n, trims each line and drops empty ones.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
