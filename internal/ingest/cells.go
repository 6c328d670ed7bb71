package ingest

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Excel renders cells as text, and the Lenta exports are not consistent about
// formats. Every accessor here is forgiving: an empty or malformed cell
// becomes the zero value instead of killing the whole file.

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	return int64(parseFloat(s))
}

var digitsRe = regexp.MustCompile(`\d+`)

// employeeID extracts the first run of digits from the raw employee cell.
// The exports mix plain numbers with values like "id 84123 (старый)".
func employeeID(s string) int64 {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"02.01.2006",
	"01-02-06",
	"1/2/06",
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"1/2/06 15:04",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Some columns carry a full timestamp where a date is expected.
	if t, ok := parseDateTime(s); ok {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nullDateTime(s string) sql.NullTime {
	if t, ok := parseDateTime(s); ok {
		return sql.NullTime{Time: t, Valid: true}
	}
	return sql.NullTime{}
}

// normalizeTK prefixes bare store numbers so "123" and "ТК123" land on the
// same dictionary entry.
func normalizeTK(s string) string {
	if strings.Contains(s, "ТК") {
		return s
	}
	return "ТК" + s
}
