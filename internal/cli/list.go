package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/listview"
)

func newListCmd() *cobra.Command {
	var (
		tabName string
		filter  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one of the club lists",
		Long:  "Prints the read, scheduled or suggested list, optionally narrowed by a title/author filter.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab, err := listTab(tabName)
			if err != nil {
				return err
			}

			st, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			return runList(cmd.Context(), os.Stdout, st.books, tab, filter)
		},
	}

	cmd.Flags().StringVar(&tabName, "tab", "read", "List to show: read, scheduled, suggested")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Case-insensitive title/author filter")
	return cmd
}

// listTab parses a tab flag; the search tab has its own command.
func listTab(name string) (listview.Tab, error) {
	tab, err := listview.ParseTab(name)
	if err != nil {
		return "", err
	}
	if tab == listview.TabSearch {
		return "", errors.New("use 'bookclub search' for search results")
	}
	return tab, nil
}

func runList(ctx context.Context, w io.Writer, store collection.Store, tab listview.Tab, filter string) error {
	snapshot, err := store.List(ctx)
	if err != nil {
		return err
	}
	printBooks(w, listview.Display(snapshot, nil, tab, filter))
	return nil
}
