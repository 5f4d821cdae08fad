package importer

import (
	"errors"
	"strings"
	"time"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/dateparse"
)

// ErrEmptyInput is returned when the sheet has no data rows.
var ErrEmptyInput = errors.New("import: sheet has no data rows")

// rowOffset keeps rows that share a parsed month in sheet order.
const rowOffset = time.Second

// Columns holds the resolved index of each semantic role, -1 when absent.
type Columns struct {
	Title    int
	Author   int
	Date     int
	Proposer int
	ISBN     int
	Comments int
}

var roles = []struct {
	keywords []string
	set      func(*Columns, int)
}{
	{[]string{"title", "book"}, func(c *Columns, i int) { c.Title = i }},
	{[]string{"author"}, func(c *Columns, i int) { c.Author = i }},
	{[]string{"month", "read", "year"}, func(c *Columns, i int) { c.Date = i }},
	{[]string{"proposer", "host"}, func(c *Columns, i int) { c.Proposer = i }},
	{[]string{"isbn"}, func(c *Columns, i int) { c.ISBN = i }},
	{[]string{"comment", "note"}, func(c *Columns, i int) { c.Comments = i }},
}

// MapColumns matches header cells to roles by substring. The first matching
// column wins; title and author fall back to columns 0 and 1.
func MapColumns(header []string) Columns {
	cols := Columns{Title: -1, Author: -1, Date: -1, Proposer: -1, ISBN: -1, Comments: -1}
	for _, role := range roles {
		idx := findColumn(header, role.keywords)
		role.set(&cols, idx)
	}
	if cols.Title < 0 {
		cols.Title = 0
	}
	if cols.Author < 0 {
		cols.Author = 1
	}
	return cols
}

func findColumn(header []string, keywords []string) int {
	for i, h := range header {
		h = strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return -1
}

// SplitFields splits one CSV line. Commas inside a quoted region do not
// split; each field loses one enclosing quote pair and surrounding spaces.
func SplitFields(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, cleanField(current.String()))
}

func cleanField(f string) string {
	f = strings.TrimSpace(f)
	if len(f) >= 2 && strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`) {
		f = strings.ReplaceAll(f[1:len(f)-1], `""`, `"`)
	}
	return strings.TrimSpace(f)
}

// Parser turns sheet text into drafts. It never persists anything.
type Parser struct {
	Now func() time.Time
}

func (p Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Parse returns one draft per new title. existing holds normalized titles
// already in the collection and is not modified.
func (p Parser) Parse(raw string, existing map[string]struct{}) ([]book.Draft, int, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return nil, 0, ErrEmptyInput
	}

	cols := MapColumns(SplitFields(strings.TrimRight(lines[0], "\r")))
	minLen := max(cols.Title, cols.Author) + 1

	seen := make(map[string]struct{}, len(existing))
	for t := range existing {
		seen[t] = struct{}{}
	}

	now := p.now()
	var drafts []book.Draft
	for i := 1; i < len(lines); i++ {
		fields := SplitFields(strings.TrimRight(lines[i], "\r"))
		if len(fields) < minLen {
			continue
		}
		title := fields[cols.Title]
		if title == "" {
			continue
		}
		key := book.NormalizeTitle(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		authors := book.AuthorsOrUnknown([]string{fields[cols.Author]})
		displayDate := field(fields, cols.Date)
		parsed := dateparse.Parse(displayDate)

		drafts = append(drafts, book.Draft{
			Title:       title,
			Authors:     authors,
			ISBN:        book.StringPtr(field(fields, cols.ISBN)),
			Status:      classify(displayDate, parsed, now),
			SortDate:    parsed.Add(time.Duration(i) * rowOffset),
			DisplayDate: displayDate,
			Proposer:    field(fields, cols.Proposer),
			Comments:    field(fields, cols.Comments),
			Links:       book.LinksFor(title, authors),
		})
	}
	return drafts, len(drafts), nil
}

func classify(displayDate string, parsed, now time.Time) book.Status {
	if !dateparse.HasMonthToken(displayDate) {
		return book.StatusSuggested
	}
	if parsed.After(now) {
		return book.StatusScheduled
	}
	return book.StatusRead
}

func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
