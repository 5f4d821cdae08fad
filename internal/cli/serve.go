package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/httpapi"
	"github.com/pdxshibaa/BookClub/internal/importer"
	"github.com/pdxshibaa/BookClub/internal/platform/httpclient"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves the collection, search, import and session endpoints.

The collection subscription stays open for the life of the process and
reconnects after the database drops it. With --memory the stores live in
the process and --seed preloads books from a 'bookclub export' file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var seed []book.Record
			if seedPath != "" {
				if !flagMemory {
					return errors.New("--seed only applies with --memory")
				}
				var err error
				if seed, err = readBooksFile(seedPath); err != nil {
					return err
				}
			}
			return runServe(cmd.Context(), seed)
		},
	}

	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML export to preload into the in-process store")
	return cmd
}

func runServe(parent context.Context, seed []book.Record) error {
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, seed...)
	if err != nil {
		return err
	}
	defer st.Close()

	gate := newGate(st.users)
	sync := collection.NewSync(st.books, log)
	books := collection.NewService(st.books, gate, log)
	sheets := httpclient.New(userAgent, sheetFetchRPS, upstreamRetries)
	imports := importer.NewService(books, gate, sync, sheets, cfg.Import.CSVURL, log)

	deps := httpapi.Deps{
		Gate:       gate,
		Collection: books,
		Sync:       sync,
		Search:     newSearchService(),
		Importer:   imports,
		Log:        log,
	}
	if st.pool != nil {
		deps.Store = st.pool
	}

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.NewRouter(deps, httpapi.Options{
			CORSOrigins:    cfg.CORS.Origins,
			EnableHSTS:     cfg.EnableHSTS,
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			ImportMaxBytes: cfg.Import.MaxBytes,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Search.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sync.Run(gctx)
	})
	g.Go(func() error {
		log.Printf("server starting addr=%s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Printf("server shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
