package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/importer"
	"github.com/pdxshibaa/BookClub/internal/platform/httpclient"
	"github.com/pdxshibaa/BookClub/internal/session"
)

func newImportCmd() *cobra.Command {
	var (
		filePath string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-import books from the club spreadsheet",
		Long: `Reads the spreadsheet CSV from import.csv_url, or from --file ("-" for
stdin), and adds every row whose title is not in the collection yet.
Needs an admin account. Rows that fail to save are reported; rows that
saved are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			raw, err := readImportFile(filePath)
			if err != nil {
				return err
			}

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

			return runImport(ctx, st.books, gate, ident, raw)
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", `CSV file to import ("-" for stdin)`)
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (default: $"+passwordEnvVar+")")
	return cmd
}

func readImportFile(path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	default:
		b, err := os.ReadFile(path)
		return string(b), err
	}
}

// runImport loads the current collection for title dedup, then imports raw,
// or the configured sheet when raw is empty.
func runImport(ctx context.Context, store collection.Store, authz collection.Authorizer, ident *session.Identity, raw string) error {
	snapshot, err := store.List(ctx)
	if err != nil {
		return err
	}

	books := collection.NewService(store, authz, log)
	sheets := httpclient.New(userAgent, sheetFetchRPS, upstreamRetries)
	svc := importer.NewService(books, authz, snapshotTitles(snapshot), sheets, cfg.Import.CSVURL, log)

	var res importer.Result
	if strings.TrimSpace(raw) == "" {
		res, err = svc.ImportFromURL(ctx, ident)
	} else {
		res, err = svc.Import(ctx, ident, raw)
	}

	if res.Parsed > 0 || err == nil {
		ok("Parsed %d rows, inserted %d, failed %d", res.Parsed, res.Inserted, res.Failed)
	}
	if err != nil {
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, e := range joined.Unwrap() {
				warn("%v", e)
			}
			return errors.New("some rows were not imported")
		}
		return err
	}
	return nil
}

// titleSet is a fixed title source for one-shot imports.
type titleSet map[string]struct{}

func (t titleSet) ExistingTitles(context.Context) (map[string]struct{}, error) {
	return t, nil
}

func snapshotTitles(snapshot []book.Record) titleSet {
	titles := make(titleSet, len(snapshot))
	for _, rec := range snapshot {
		titles[book.NormalizeTitle(rec.Title)] = struct{}{}
	}
	return titles
}
