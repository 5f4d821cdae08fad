package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdxshibaa/BookClub/internal/book"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectColumns = `
	id, title, authors, cover_url, isbn, status, sort_date,
	display_date, proposer, comments, goodreads_url, worldcat_url, openlibrary_url`

func (r *PostgresRepo) List(ctx context.Context) ([]book.Record, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM books ORDER BY sort_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	records := make([]book.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(row pgx.Row) (book.Record, error) {
	var (
		rec    book.Record
		status string
	)
	err := row.Scan(
		&rec.ID, &rec.Title, &rec.Authors, &rec.CoverURL, &rec.ISBN, &status, &rec.SortDate,
		&rec.DisplayDate, &rec.Proposer, &rec.Comments,
		&rec.Links.Goodreads, &rec.Links.WorldCat, &rec.Links.OpenLibrary,
	)
	if err != nil {
		return book.Record{}, fmt.Errorf("scan book: %w", err)
	}
	rec.Status = book.Status(status)
	rec.SortDate = rec.SortDate.UTC()
	return rec, nil
}

func (r *PostgresRepo) Create(ctx context.Context, d book.Draft) (book.Record, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	authors := d.Authors
	if authors == nil {
		authors = []string{}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO books (title, authors, cover_url, isbn, status, sort_date,
		                   display_date, proposer, comments, goodreads_url, worldcat_url, openlibrary_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+selectColumns,
		d.Title, authors, d.CoverURL, d.ISBN, string(d.Status), d.SortDate,
		d.DisplayDate, d.Proposer, d.Comments, d.Links.Goodreads, d.Links.WorldCat, d.Links.OpenLibrary,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return book.Record{}, fmt.Errorf("create book: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, c book.Changes) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE books
		SET display_date = $2, proposer = $3, comments = $4, sort_date = $5, updated_at = NOW()
		WHERE id = $1`,
		id, c.DisplayDate, c.Proposer, c.Comments, c.SortDate,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscribe holds a dedicated connection in LISTEN mode and re-reads the
// whole table on every notification.
func (r *PostgresRepo) Subscribe(ctx context.Context) (<-chan []book.Record, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", notifyChannel, err)
	}

	initial, err := r.List(ctx)
	if err != nil {
		conn.Release()
		return nil, err
	}

	out := make(chan []book.Record, 1)
	out <- initial

	go func() {
		defer close(out)
		defer conn.Release()

		for {
			if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
				return
			}
			snapshot, err := r.List(ctx)
			if err != nil {
				return
			}
			deliver(out, snapshot)
		}
	}()
	return out, nil
}

// deliver replaces any snapshot the reader has not consumed yet. The caller
// must be the channel's only writer.
func deliver(out chan []book.Record, snapshot []book.Record) {
	select {
	case <-out:
	default:
	}
	out <- snapshot
}
