package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/pdxshibaa/BookClub/internal/app"
	"github.com/pdxshibaa/BookClub/internal/book"
)

const (
	dateWidth    = 14
	titleWidth   = 40
	authorsWidth = 28
	clearScreen  = "\033[H\033[2J"
)

func printBooks(w io.Writer, books []book.Record) {
	if len(books) == 0 {
		fmt.Fprintln(w, color.YellowString("(no books)"))
		return
	}

	fmt.Fprintln(w, color.CyanString("%-*s  %-*s  %-*s  %s",
		dateWidth, "DATE", titleWidth, "TITLE", authorsWidth, "AUTHORS", "PROPOSER"))
	for _, b := range books {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n",
			dateWidth, truncate(b.DisplayDate, dateWidth),
			titleWidth, truncate(b.Title, titleWidth),
			authorsWidth, truncate(b.AuthorText(), authorsWidth),
			b.Proposer,
		)
	}
}

func printResults(w io.Writer, results []book.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, color.YellowString("(no results)"))
		return
	}

	fmt.Fprintln(w, color.CyanString("%3s  %-*s  %-*s  %s",
		"#", titleWidth, "TITLE", authorsWidth, "AUTHORS", "ISBN"))
	for i, r := range results {
		isbn := ""
		if r.ISBN != nil {
			isbn = *r.ISBN
		}
		fmt.Fprintf(w, "%3d  %-*s  %-*s  %s\n",
			i+1,
			titleWidth, truncate(r.Title, titleWidth),
			authorsWidth, truncate(book.JoinAuthors(r.Authors), authorsWidth),
			isbn,
		)
	}
}

// renderView redraws the whole screen for a live view.
func renderView(w io.Writer, v app.View, isAdmin bool) {
	fmt.Fprint(w, clearScreen)

	who := "signed out"
	if v.Identity != nil {
		who = "signed in as " + v.Identity.Email
		if isAdmin {
			who += " (admin)"
		}
	}
	line := fmt.Sprintf("tab: %s  |  %d books  |  %s", v.Tab, len(v.Books), who)
	if v.Filter != "" {
		line += fmt.Sprintf("  |  filter: %q", v.Filter)
	}
	fmt.Fprintln(w, color.New(color.Bold).Sprint(line))
	fmt.Fprintln(w)
	printBooks(w, v.Books)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:width-1])) + "…"
}
