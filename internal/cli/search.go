package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/collection"
)

func newSearchCmd() *cobra.Command {
	var (
		listID   string
		suggest  int
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Look up books by title, author or ISBN",
		Long: `Searches book metadata, or prints a curated bestseller list with --list.

--suggest N adds the Nth result to the suggested list; it needs a signed-in
member (--email, with the password from --password or $BOOKCLUB_PASSWORD).`,
		Example: `  bookclub search le guin dispossessed
  bookclub search --list hardcover-fiction
  bookclub search piranesi --suggest 1 --email me@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" && listID == "" {
				return errors.New("give a query or --list")
			}

			svc := newSearchService()
			var (
				results []book.SearchResult
				err     error
			)
			if listID != "" {
				results, err = svc.CuratedList(ctx, listID)
			} else {
				results, err = svc.Search(ctx, query)
			}
			if err != nil {
				return err
			}
			printResults(os.Stdout, results)

			if suggest == 0 {
				return nil
			}
			if suggest < 1 || suggest > len(results) {
				return fmt.Errorf("--suggest must be between 1 and %d", len(results))
			}
			return suggestResult(ctx, results[suggest-1], email, password)
		},
	}

	cmd.Flags().StringVar(&listID, "list", "", "Curated list id, e.g. hardcover-fiction")
	cmd.Flags().IntVar(&suggest, "suggest", 0, "Add result N to the suggested list")
	cmd.Flags().StringVar(&email, "email", "", "Member email for --suggest")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Member password (default: $"+passwordEnvVar+")")
	return cmd
}

func suggestResult(ctx context.Context, result book.SearchResult, email, password string) error {
	st, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	gate := newGate(st.users)
	ident, err := signIn(ctx, gate, email, password)
	if err != nil {
		return err
	}
	defer gate.SignOut(ctx)

	books := collection.NewService(st.books, gate, log)
	rec, err := books.Add(ctx, ident, result.Draft(book.StatusSuggested))
	if err != nil {
		return err
	}
	ok("Suggested %q (id %s)", rec.Title, rec.ID)
	return nil
}
