package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdxshibaa/BookClub/internal/app"
	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/listview"
)

func newWatchCmd() *cobra.Command {
	var (
		tabName  string
		filter   string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a list and redraw it on every change",
		Long: `Keeps a list on screen and redraws it whenever anyone changes the
collection. Press Ctrl-C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab, err := listTab(tabName)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), tab, filter, email, password)
		},
	}

	cmd.Flags().StringVar(&tabName, "tab", "read", "List to show: read, scheduled, suggested")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Case-insensitive title/author filter")
	cmd.Flags().StringVar(&email, "email", "", "Sign in as this member")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Member password (default: $"+passwordEnvVar+")")
	return cmd
}

func runWatch(parent context.Context, tab listview.Tab, filter, email, password string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	gate := newGate(st.users)
	if email != "" {
		if _, err := signIn(ctx, gate, email, password); err != nil {
			return err
		}
		defer gate.SignOut(context.Background())
	}

	state := app.NewState(func(v app.View) {
		renderView(os.Stdout, v, gate.IsAdmin(v.Identity))
	})
	state.SetTab(tab)
	state.SetFilter(filter)

	sync := collection.NewSync(st.books, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sync.Run(gctx)
	})
	g.Go(func() error {
		for snapshot := range sync.Watch(gctx) {
			state.SetSnapshot(snapshot)
		}
		return nil
	})
	g.Go(func() error {
		for ident := range gate.Watch(gctx) {
			state.SetIdentity(ident)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
