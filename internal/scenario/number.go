package scenario

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MaxCount is the largest count a scenario field can hold. Larger literals
// are treated as absent so sums of cells cannot overflow.
const MaxCount = math.MaxInt32

// numberRun matches a run of digits that may contain grouping commas or a
// decimal point, e.g. "1,593" or "12.5".
var numberRun = regexp.MustCompile(`\d[\d,.]*`)

// ExtractNumber returns the last numeric literal in line, rounded to the
// nearest integer. Labels usually precede their count ("actual positive: 8"),
// so the trailing run wins when a line holds several numbers.
func ExtractNumber(line string) (int, bool) {
	runs := numberRun.FindAllString(line, -1)
	if len(runs) == 0 {
		return 0, false
	}

	last := strings.ReplaceAll(runs[len(runs)-1], ",", "")
	f, err := strconv.ParseFloat(last, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	f = math.Round(f)
	if f > MaxCount {
		return 0, false
	}
	return int(f), true
}
