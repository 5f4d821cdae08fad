// Package dateparse turns free-text club dates ("September 2025",
// "2024-03-01", ...) into sortable instants.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Epoch is returned for anything that cannot be read as a date.
var Epoch = time.Unix(0, 0).UTC()

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

var months = [12]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

var monthToken = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)

var tokenSep = regexp.MustCompile(`[\s-]+`)

// Parse never fails: unparsable input yields Epoch.
func Parse(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return Epoch
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC()
		}
	}
	return monthYear(text)
}

// monthYear reads "<month...> ... <yyyy>" shapes such as "Sept. 2025".
func monthYear(text string) time.Time {
	tokens := tokenSep.Split(text, -1)
	if len(tokens) < 2 {
		return Epoch
	}

	first := strings.ToLower(tokens[0])
	if len(first) < 3 {
		return Epoch
	}
	month := -1
	for i, m := range months {
		if first[:3] == m {
			month = i
			break
		}
	}

	last := tokens[len(tokens)-1]
	if month < 0 || len(last) != 4 {
		return Epoch
	}
	year, err := strconv.Atoi(last)
	if err != nil || year < 0 {
		return Epoch
	}
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
}

// HasMonthToken reports whether a three letter month name appears anywhere
// in text.
func HasMonthToken(text string) bool {
	return monthToken.MatchString(text)
}
