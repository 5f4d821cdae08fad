package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/collection"
)

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the collection as YAML",
		Long:  "Writes every book in the collection as YAML to stdout, or to --out.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if outPath == "" {
				return runExport(cmd.Context(), os.Stdout, st.books)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := runExport(cmd.Context(), f, st.books); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			ok("Exported collection to %s", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func runExport(ctx context.Context, w io.Writer, store collection.Store) error {
	snapshot, err := store.List(ctx)
	if err != nil {
		return err
	}
	return encodeBooks(w, snapshot)
}

func encodeBooks(w io.Writer, books []book.Record) error {
	if books == nil {
		books = []book.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(books); err != nil {
		return fmt.Errorf("encoding books: %w", err)
	}
	return enc.Close()
}

func decodeBooks(r io.Reader) ([]book.Record, error) {
	var books []book.Record
	if err := yaml.NewDecoder(r).Decode(&books); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding books: %w", err)
	}
	for i := range books {
		books[i] = books[i].WithLinks()
	}
	return books, nil
}

func readBooksFile(path string) ([]book.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeBooks(f)
}
