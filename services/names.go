package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// dayKeyword routes to a list named after the current day instead of a list
// literally called "Day".
const dayKeyword = "Day"

// Capitalize upper-cases the first rune and lower-cases the rest, so that
// "groceries", "Groceries" and "GROCERIES" all become "Groceries".
// Surrounding whitespace is kept.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// DayName formats t as e.g. "Monday the 5th".
func DayName(t time.Time) string {
	return fmt.Sprintf("%s the %s", t.Weekday(), humanize.Ordinal(t.Day()))
}

// NormalizeName turns user input into the canonical list name used for
// lookups and creation.
func NormalizeName(raw string, now time.Time) string {
	name := Capitalize(raw)
	if name == dayKeyword {
		return DayName(now)
	}
	return name
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
