package book

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Status partitions the collection into the three displayed lists.
type Status string

const (
	StatusRead      Status = "read"
	StatusScheduled Status = "scheduled"
	StatusSuggested Status = "suggested"
)

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusRead:
		return StatusRead, nil
	case StatusScheduled:
		return StatusScheduled, nil
	case StatusSuggested:
		return StatusSuggested, nil
	default:
		return "", fmt.Errorf("invalid status: %s", s)
	}
}

// UnknownAuthor stands in when a source has no author data.
const UnknownAuthor = "Unknown"

// Record represents one book entry in a club list.
type Record struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Authors     []string  `json:"authors" yaml:"authors"`
	CoverURL    *string   `json:"coverUrl" yaml:"cover_url,omitempty"`
	ISBN        *string   `json:"isbn" yaml:"isbn,omitempty"`
	Status      Status    `json:"status" yaml:"status"`
	SortDate    time.Time `json:"sortDate" yaml:"sort_date"`
	DisplayDate string    `json:"displayDate" yaml:"display_date,omitempty"`
	Proposer    string    `json:"proposer" yaml:"proposer,omitempty"`
	Comments    string    `json:"comments" yaml:"comments,omitempty"`
	Links       Links     `json:"links" yaml:"links,omitempty"`
}

// WithLinks returns the record with its catalog links filled in when the
// store did not carry them.
func (r Record) WithLinks() Record {
	if r.Links.IsZero() {
		r.Links = LinksFor(r.Title, r.Authors)
	}
	return r
}

// AuthorText is the joined author list used for display and filtering.
func (r Record) AuthorText() string {
	return JoinAuthors(r.Authors)
}

// Draft is a record that has not been persisted yet.
type Draft struct {
	Title       string
	Authors     []string
	CoverURL    *string
	ISBN        *string
	Status      Status
	SortDate    time.Time
	DisplayDate string
	Proposer    string
	Comments    string
	Links       Links
}

// Record converts the draft into a record carrying the store-assigned id.
func (d Draft) Record(id string) Record {
	return Record{
		ID:          id,
		Title:       d.Title,
		Authors:     append([]string(nil), d.Authors...),
		CoverURL:    d.CoverURL,
		ISBN:        d.ISBN,
		Status:      d.Status,
		SortDate:    d.SortDate,
		DisplayDate: d.DisplayDate,
		Proposer:    d.Proposer,
		Comments:    d.Comments,
		Links:       d.Links,
	}
}

// Edit is the multi-field edit request for an existing record. A nil field
// means the caller declined to provide it, which aborts the whole edit.
type Edit struct {
	DisplayDate *string `json:"displayDate"`
	Proposer    *string `json:"proposer"`
	Comments    *string `json:"comments"`
}

// Complete reports whether every field of the edit was provided.
func (e Edit) Complete() bool {
	return e.DisplayDate != nil && e.Proposer != nil && e.Comments != nil
}

// Changes is the restricted field set an update may write.
type Changes struct {
	DisplayDate string
	Proposer    string
	Comments    string
	SortDate    time.Time
}

// SearchResult is the ephemeral projection produced by external searches.
type SearchResult struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	CoverURL *string  `json:"coverUrl"`
	ISBN     *string  `json:"isbn"`
	Links    Links    `json:"links"`
}

// Draft turns a search result into a draft for the manual add path.
func (s SearchResult) Draft(status Status) Draft {
	return Draft{
		Title:    s.Title,
		Authors:  append([]string(nil), s.Authors...),
		CoverURL: s.CoverURL,
		ISBN:     s.ISBN,
		Status:   status,
		Links:    s.Links,
	}
}

// Record projects the result into a record for display alongside the lists.
func (s SearchResult) Record() Record {
	return Record{
		Title:    s.Title,
		Authors:  s.Authors,
		CoverURL: s.CoverURL,
		ISBN:     s.ISBN,
		Links:    s.Links,
	}.WithLinks()
}

// JoinAuthors joins an author list the way it is shown to members.
func JoinAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}

// AuthorsOrUnknown returns authors, or the "Unknown" placeholder when empty.
func AuthorsOrUnknown(authors []string) []string {
	var out []string
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return []string{UnknownAuthor}
	}
	return out
}

// NormalizeTitle is the dedup key for titles.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
