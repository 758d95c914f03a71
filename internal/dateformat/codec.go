// Package dateformat converts between calendar dates and strings laid out by a
// token pattern such as "dd.mm.yyyy".
//
// Parsing is positional: each token's offset in the pattern is the offset of
// its digits in the text, so text and pattern must have the same length. No
// locale-sensitive parsing is involved.
package dateformat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"datepick/internal/model"
)

const (
	TokenDay   = "dd"
	TokenMonth = "mm"
	TokenYear  = "yyyy"

	// Today is accepted by Parse regardless of the pattern.
	Today = "today"
)

// Default pattern used when none is configured.
const DefaultPattern = "dd.mm.yyyy"

// Format substitutes the first occurrence of each token in pattern.
// It returns "" for the zero date.
func Format(d model.CalendarDate, pattern string) string {
	if d.IsZero() {
		return ""
	}
	out := strings.Replace(pattern, TokenDay, fmt.Sprintf("%02d", d.Day), 1)
	out = strings.Replace(out, TokenMonth, fmt.Sprintf("%02d", d.Month+1), 1)
	return strings.Replace(out, TokenYear, fmtYear(d.Year), 1)
}

// Parse parses text laid out by pattern using time.Now for "today".
func Parse(text, pattern string) (model.CalendarDate, bool) {
	return ParseAt(text, pattern, time.Now)
}

// ParseAt parses text laid out by pattern. The literal "today" yields the
// current date for any pattern, including an empty one. Otherwise the boolean
// is false when text or pattern is empty, or when their lengths differ.
//
// Fields start at 1 January 1970. A token slice that is not a positive number
// leaves its field at the default. The result is normalized, so "31.02.2024"
// becomes 2 March 2024.
func ParseAt(text, pattern string, now func() time.Time) (model.CalendarDate, bool) {
	if text == Today {
		return model.DateOf(now()), true
	}
	if text == "" || pattern == "" {
		return model.CalendarDate{}, false
	}
	if len(text) != len(pattern) {
		return model.CalendarDate{}, false
	}

	day, month, year := 1, 0, 1970
	if n, ok := field(text, pattern, TokenDay); ok {
		day = n
	}
	if n, ok := field(text, pattern, TokenMonth); ok {
		month = n - 1
	}
	if n, ok := field(text, pattern, TokenYear); ok {
		year = n
	}
	return model.NewCalendarDate(year, month, day), true
}

func field(text, pattern, token string) (int, bool) {
	i := strings.Index(pattern, token)
	if i < 0 {
		return 0, false
	}
	s := text[i : i+len(token)]
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func fmtYear(y int) string {
	if y < 0 {
		return "-" + fmtYear(-y)
	}
	s := strconv.Itoa(y)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}
