package dialect

import (
	"strings"
)

// Time grain keys, ISO 8601 durations. GrainNone means no truncation.
const (
	GrainNone               = ""
	GrainSecond             = "PT1S"
	GrainFiveSeconds        = "PT5S"
	GrainThirtySeconds      = "PT30S"
	GrainMinute             = "PT1M"
	GrainFiveMinutes        = "PT5M"
	GrainTenMinutes         = "PT10M"
	GrainFifteenMinutes     = "PT15M"
	GrainThirtyMinutes      = "PT30M"
	GrainHalfHour           = "PT0.5H"
	GrainHour               = "PT1H"
	GrainSixHours           = "PT6H"
	GrainDay                = "P1D"
	GrainWeek               = "P1W"
	GrainWeekStartingSunday = "1969-12-28T00:00:00Z/P1W"
	GrainWeekStartingMonday = "1969-12-29T00:00:00Z/P1W"
	GrainWeekEndingSaturday = "P1W/1970-01-03T00:00:00Z"
	GrainWeekEndingSunday   = "P1W/1970-01-04T00:00:00Z"
	GrainMonth              = "P1M"
	GrainQuarter            = "P3M"
	GrainQuarterYear        = "P0.25Y"
	GrainYear               = "P1Y"
)

var grainNames = map[string]string{
	GrainNone:               "Original value",
	GrainSecond:             "Second",
	GrainFiveSeconds:        "5 second",
	GrainThirtySeconds:      "30 second",
	GrainMinute:             "Minute",
	GrainFiveMinutes:        "5 minute",
	GrainTenMinutes:         "10 minute",
	GrainFifteenMinutes:     "15 minute",
	GrainThirtyMinutes:      "30 minute",
	GrainHalfHour:           "Half hour",
	GrainHour:               "Hour",
	GrainSixHours:           "6 hour",
	GrainDay:                "Day",
	GrainWeek:               "Week",
	GrainWeekStartingSunday: "Week starting Sunday",
	GrainWeekStartingMonday: "Week starting Monday",
	GrainWeekEndingSaturday: "Week ending Saturday",
	GrainWeekEndingSunday:   "Week ending Sunday",
	GrainMonth:              "Month",
	GrainQuarter:            "Quarter",
	GrainQuarterYear:        "Quarter",
	GrainYear:               "Year",
}

var grainSequence = []string{
	GrainNone, GrainSecond, GrainFiveSeconds, GrainThirtySeconds,
	GrainMinute, GrainFiveMinutes, GrainTenMinutes, GrainFifteenMinutes, GrainThirtyMinutes,
	GrainHalfHour, GrainHour, GrainSixHours, GrainDay, GrainWeek,
	GrainWeekStartingSunday, GrainWeekStartingMonday, GrainWeekEndingSaturday, GrainWeekEndingSunday,
	GrainMonth, GrainQuarter, GrainQuarterYear, GrainYear,
}

func grainRank(key string) int {
	for i, k := range grainSequence {
		if k == key {
			return i
		}
	}
	return len(grainSequence)
}

// GrainName returns the display name of a grain key.
func GrainName(key string) string {
	if name, ok := grainNames[key]; ok {
		return name
	}
	return key
}

// NormalizeGrain maps the spellings of "no grain" to GrainNone.
func NormalizeGrain(key string) string {
	k := strings.TrimSpace(key)
	if strings.EqualFold(k, "none") || strings.EqualFold(k, "null") {
		return GrainNone
	}
	return k
}

// TimeGrains returns the supported grain keys in canonical order.
func (d *Dialect) TimeGrains() []string {
	out := make([]string, len(d.grainOrder))
	copy(out, d.grainOrder)
	return out
}

// TimeGrainTemplate returns the raw template for a grain key.
func (d *Dialect) TimeGrainTemplate(grain string) (string, bool) {
	tmpl, ok := d.timeGrains[NormalizeGrain(grain)]
	return tmpl, ok
}

// TimeGrainExpression substitutes column into the grain's template.
func (d *Dialect) TimeGrainExpression(grain, column string) (string, error) {
	tmpl, ok := d.TimeGrainTemplate(grain)
	if !ok {
		return "", ErrUnsupportedGrain.New(grain, d.Name)
	}
	return strings.ReplaceAll(tmpl, "{col}", column), nil
}
