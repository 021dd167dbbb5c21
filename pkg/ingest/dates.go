package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the canonical wire/storage date layout.
const DateFormat = "2006-01-02"

var (
	// shortDateRe matches a bare "M.D" token (month.day, never
	// day.month) occupying the whole first line of the raw notes.
	shortDateRe = regexp.MustCompile(`^\s*(\d{1,2})\.(\d{1,2})\s*$`)

	// canonicalDateRe matches a YYYY-MM-DD candidate from the extractor.
	canonicalDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// AnnotateShortDate rewrites a leading "M.D" line with an unambiguous
// interpretation so the extractor is biased toward the correct parse.
// Text without a short date token on its first line passes through
// unchanged.
func AnnotateShortDate(rawText string, now time.Time) string {
	firstLine, rest, hasRest := strings.Cut(rawText, "\n")
	m := shortDateRe.FindStringSubmatch(firstLine)
	if m == nil {
		return rawText
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	annotated := fmt.Sprintf("%s (date %04d-%02d-%02d: month %d, day %d, year %d)",
		strings.TrimSpace(firstLine), now.Year(), month, day, month, day, now.Year())

	if !hasRest {
		return annotated
	}
	return annotated + "\n" + rest
}

// shortDateToken extracts the (month, day) pair from the first line of
// the raw text, if present and plausibly a calendar date. The ranges
// are deliberately permissive: day-of-month is not checked against the
// specific month's length.
func shortDateToken(rawText string) (month, day int, ok bool) {
	firstLine, _, _ := strings.Cut(rawText, "\n")
	m := shortDateRe.FindStringSubmatch(firstLine)
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	day, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, false
	}
	return month, day, true
}

// NormalizeDate reconciles the extractor's candidate date against the
// short date token in the raw text and returns a canonical YYYY-MM-DD
// string.
//
// Precedence:
//  1. missing candidate -> current date;
//  2. canonical candidate whose month AND day both disagree with the
//     raw token -> trust the token, rebuilt with the current year;
//  3. canonical candidate with a stale year -> year corrected only;
//  4. non-canonical candidate -> raw token with current year, falling
//     back to the current date.
func NormalizeDate(rawText, candidate string, now time.Time) string {
	today := now.Format(DateFormat)

	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return today
	}

	if m := canonicalDateRe.FindStringSubmatch(candidate); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])

		if tokMonth, tokDay, ok := shortDateToken(rawText); ok {
			if tokMonth != month && tokDay != day {
				// The extractor disagrees with the raw token on both
				// components, which is the month/day swap signature.
				return fmt.Sprintf("%04d-%02d-%02d", now.Year(), tokMonth, tokDay)
			}
		}
		if year != now.Year() {
			return fmt.Sprintf("%04d-%02d-%02d", now.Year(), month, day)
		}
		return candidate
	}

	if tokMonth, tokDay, ok := shortDateToken(rawText); ok {
		return fmt.Sprintf("%04d-%02d-%02d", now.Year(), tokMonth, tokDay)
	}
	return today
}
