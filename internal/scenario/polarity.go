package scenario

import "regexp"

// Polarity is the positive/negative sense of a predicted or actual label.
type Polarity int

const (
	Indeterminate Polarity = iota
	Positive
	Negative
)

// String returns the short name used in diagnostics.
func (p Polarity) String() string {
	switch p {
	case Positive:
		return "pos"
	case Negative:
		return "neg"
	default:
		return "indeterminate"
	}
}

var (
	positiveWord = regexp.MustCompile(`(?i)\b(?:true|positive|pos)\b`)
	negativeWord = regexp.MustCompile(`(?i)\b(?:false|negative|neg)\b`)
)

// ClassifyPolarity classifies span by whole-word match. The positive check
// runs first, so a span holding both senses is Positive regardless of where
// each word appears.
func ClassifyPolarity(span string) Polarity {
	if positiveWord.MatchString(span) {
		return Positive
	}
	if negativeWord.MatchString(span) {
		return Negative
	}
	return Indeterminate
}
