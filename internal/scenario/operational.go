package scenario

import (
	"regexp"
	"strconv"
	"strings"
)

// rule extracts one value from lower-cased scenario text. Rule lists are
// evaluated in order and stop at the first rule that matches.
type rule struct {
	name    string
	extract func(text string) (int, bool)
}

func firstMatch(rules []rule, text string) (int, bool) {
	for _, r := range rules {
		if v, ok := r.extract(text); ok {
			return v, true
		}
	}
	return 0, false
}

// captureRule returns the integer in capture group 1 of re, scaled by mult.
func captureRule(name string, re *regexp.Regexp, mult int) rule {
	return rule{name: name, extract: func(text string) (int, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return v * mult, true
	}}
}

// fixedRule returns value whenever re matches.
func fixedRule(name string, re *regexp.Regexp, value int) rule {
	return rule{name: name, extract: func(text string) (int, bool) {
		if re.MatchString(text) {
			return value, true
		}
		return 0, false
	}}
}

var (
	perDayPattern        = regexp.MustCompile(`\b(\d{1,7})\s*(?:patients|cases)?\s*(?:per\s*day|/\s*day)\b`)
	capacityLabelPattern = regexp.MustCompile(`\bcapacity\s*[:=]?\s*(\d{1,7})\b`)

	weekdaysOnlyPattern   = regexp.MustCompile(`\b(?:weekdays?\s*only|business\s*days?)\b`)
	daysPerWeekPattern    = regexp.MustCompile(`\b(\d)\s*(?:work\s*days?|workdays?|days?)\s*per\s*week\b`)
	sevenDaysAWeekPattern = regexp.MustCompile(`\b7\s*days?\s*(?:a|per)\s*week\b`)

	slaKeywordPattern = regexp.MustCompile(`\bsla\b[^\d]*(\d{1,4})\s*days?`)
	withinDaysPattern = regexp.MustCompile(`\bwithin\s*(\d{1,4})\s*days?`)

	cohortPattern = regexp.MustCompile(`\b(?:cohort|population|outreach)\s*(?:size)?\s*[:=]?\s*(\d{1,12})\b`)

	oneYearPattern = regexp.MustCompile(`\b(?:1|one)\s*year\b|\bfor\s*(?:the\s*)?year\b`)
	yearsPattern   = regexp.MustCompile(`\b(\d{1,2})\s*years?\b`)
	monthsPattern  = regexp.MustCompile(`\b(\d{1,2})\s*months?\b`)
	weeksPattern   = regexp.MustCompile(`\b(\d{1,2})\s*weeks?\b`)
)

var dailyCapacityRules = []rule{
	captureRule("per-day", perDayPattern, 1),
	captureRule("capacity-label", capacityLabelPattern, 1),
}

var workdaysRules = []rule{
	fixedRule("weekdays-only", weekdaysOnlyPattern, 5),
	{name: "days-per-week", extract: func(text string) (int, bool) {
		m := daysPerWeekPattern.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		v, err := strconv.Atoi(m[1])
		if err != nil || v < 1 || v > 7 {
			return 0, false
		}
		return v, true
	}},
	fixedRule("seven-days-a-week", sevenDaysAWeekPattern, 7),
}

var slaRules = []rule{
	captureRule("sla-keyword", slaKeywordPattern, 1),
	captureRule("within-days", withinDaysPattern, 1),
}

var cohortRules = []rule{
	captureRule("cohort", cohortPattern, 1),
}

var horizonRules = []rule{
	fixedRule("one-year", oneYearPattern, 365),
	captureRule("years", yearsPattern, 365),
	captureRule("months", monthsPattern, 30),
	captureRule("weeks", weeksPattern, 7),
}

// DailyCapacity extracts the number of cases staff can review per day.
func DailyCapacity(text string) (int, bool) {
	return firstMatch(dailyCapacityRules, strings.ToLower(text))
}

// WorkdaysPerWeek extracts the number of working days per week (1-7).
func WorkdaysPerWeek(text string) (int, bool) {
	return firstMatch(workdaysRules, strings.ToLower(text))
}

// SLADays extracts the service-level window in days.
func SLADays(text string) (int, bool) {
	return firstMatch(slaRules, strings.ToLower(text))
}

// CohortSize extracts the size of the population rates are scaled to.
func CohortSize(text string) (int, bool) {
	return firstMatch(cohortRules, strings.ToLower(text))
}

// HorizonDays extracts the planning horizon in days. Months count as 30 days.
func HorizonDays(text string) (int, bool) {
	return firstMatch(horizonRules, strings.ToLower(text))
}
