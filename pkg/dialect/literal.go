package dialect

import "time"

// Layouts shared by datetime literal renderers.
const (
	LayoutDate      = "2006-01-02"
	LayoutTimestamp = "2006-01-02 15:04:05.000000"
	LayoutISOMicros = "2006-01-02T15:04:05.000000"
)

// FormatDate renders the date part of t.
func FormatDate(t time.Time) string {
	return t.Format(LayoutDate)
}

// FormatTimestamp renders t with microsecond precision.
func FormatTimestamp(t time.Time) string {
	return t.Format(LayoutTimestamp)
}

// FormatISOMicros renders t in ISO 8601 with a T separator and microseconds.
func FormatISOMicros(t time.Time) string {
	return t.Format(LayoutISOMicros)
}
