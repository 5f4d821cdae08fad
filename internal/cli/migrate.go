package cli

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pdxshibaa/BookClub/db"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
		Long: `Runs the goose migrations bundled in the binary. Set migrations.dir
(BOOKCLUB_MIGRATIONS_DIR) to run a directory on disk instead.`,
	}

	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", "Migrations applied successfully",
			func(conn *sql.DB, dir string) error { return goose.Up(conn, dir) }),
		migrateSubcommand("down", "Roll back the latest migration", "Migrations rolled back successfully",
			func(conn *sql.DB, dir string) error { return goose.Down(conn, dir) }),
		migrateSubcommand("status", "Show applied and pending migrations", "",
			func(conn *sql.DB, dir string) error { return goose.Status(conn, dir) }),
	)
	return cmd
}

func migrateSubcommand(use, short, done string, run func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flagMemory {
				return needsDatabase("migrate")
			}

			pool, err := openDB(cmd.Context(), cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			conn := stdlib.OpenDBFromPool(pool)
			defer conn.Close()

			dir, err := migrationSource(cfg.Migrations.Dir)
			if err != nil {
				return err
			}
			if err := run(conn, dir); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			if done != "" {
				ok("%s", done)
			}
			return nil
		},
	}
}

// migrationSource points goose at the embedded migrations unless an
// on-disk directory is configured.
func migrationSource(dir string) (string, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return "", err
	}
	if dir != "" {
		goose.SetBaseFS(nil)
		return dir, nil
	}
	goose.SetBaseFS(db.Migrations)
	return db.MigrationsDir, nil
}
