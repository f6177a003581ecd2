// Package sqlstore implementa events.Store sobre database/sql. El orden de inserción lo da
// la columna seq (nunca los timestamps) y cada fila guarda sus celdas como un array JSON,
// así el schema sigue siendo configurable sin migraciones.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"baby-tracker/internal/domain/events"

	"github.com/bytedance/sonic"
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

type EventsRepo struct {
	db      *sql.DB
	dialect Dialect
	schema  events.Schema
}

func NewEventsRepo(db *sql.DB, dialect Dialect, schema events.Schema) *EventsRepo {
	return &EventsRepo{db: db, dialect: dialect, schema: schema}
}

const headerKey = "header"

func (r *EventsRepo) Columns() []string { return r.schema.Columns() }

func (r *EventsRepo) Initialize(ctx context.Context) error {
	seqType := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if r.dialect == Postgres {
		seqType = "BIGSERIAL PRIMARY KEY"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS babylog_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS babylog_events (
			seq   ` + seqType + `,
			cells TEXT NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
		}
	}

	header, err := sonic.MarshalString(r.schema.Columns())
	if err != nil {
		return err
	}
	// no pisa un header existente
	if _, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO babylog_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO NOTHING
	`), headerKey, header); err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *EventsRepo) ReadAll(ctx context.Context) ([]events.Record, error) {
	if err := r.checkHeader(ctx, r.db); err != nil {
		return nil, err
	}
	return r.query(ctx, r.db, `SELECT cells FROM babylog_events ORDER BY seq ASC`)
}

func (r *EventsRepo) ReadRecent(ctx context.Context, n int) ([]events.Record, error) {
	if n <= 0 {
		return []events.Record{}, nil
	}
	if err := r.checkHeader(ctx, r.db); err != nil {
		return nil, err
	}
	return r.query(ctx, r.db, r.rebind(`SELECT cells FROM babylog_events ORDER BY seq DESC LIMIT ?`), n)
}

func (r *EventsRepo) Append(ctx context.Context, e events.Event) error {
	rec, err := r.schema.Encode(e)
	if err != nil {
		return err
	}
	cells, err := sonic.MarshalString([]string(rec))
	if err != nil {
		return err
	}

	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.checkHeader(ctx, tx); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO babylog_events (cells) VALUES (?)`), cells)
		return err
	})
}

func (r *EventsRepo) ReplaceTail(ctx context.Context, newTail []events.Record, originalTailLength int) error {
	encoded := make([]string, 0, len(newTail))
	for _, rec := range newTail {
		if err := r.schema.CheckRecord(rec); err != nil {
			return err
		}
		cells, err := sonic.MarshalString([]string(rec))
		if err != nil {
			return err
		}
		encoded = append(encoded, cells)
	}

	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.checkHeader(ctx, tx); err != nil {
			return err
		}

		var total int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM babylog_events`).Scan(&total); err != nil {
			return err
		}
		if originalTailLength < 0 || originalTailLength > total {
			return fmt.Errorf("%w: tail length %d out of range (store has %d records)", events.ErrInvalidInput, originalTailLength, total)
		}

		if originalTailLength > 0 {
			var minSeq int64
			if err := tx.QueryRowContext(ctx, r.rebind(`
				SELECT MIN(seq) FROM (
					SELECT seq FROM babylog_events ORDER BY seq DESC LIMIT ?
				) tail
			`), originalTailLength).Scan(&minSeq); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM babylog_events WHERE seq >= ?`), minSeq); err != nil {
				return err
			}
		}

		for _, cells := range encoded {
			if _, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO babylog_events (cells) VALUES (?)`), cells); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *EventsRepo) DeleteSpecific(ctx context.Context, rec events.Record) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.checkHeader(ctx, tx); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT seq, cells FROM babylog_events ORDER BY seq DESC`)
		if err != nil {
			return err
		}

		var (
			target int64
			found  bool
		)
		for rows.Next() {
			var (
				seq   int64
				cells string
			)
			if err := rows.Scan(&seq, &cells); err != nil {
				rows.Close()
				return err
			}
			got, err := decodeCells(cells)
			if err != nil {
				rows.Close()
				return err
			}
			if got.Equal(rec) {
				target, found = seq, true
				break
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if !found {
			return events.ErrRecordNotFound
		}

		_, err = tx.ExecContext(ctx, r.rebind(`DELETE FROM babylog_events WHERE seq = ?`), target)
		return err
	})
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkHeader compara el header guardado con el schema configurado.
func (r *EventsRepo) checkHeader(ctx context.Context, q queryer) error {
	var raw string
	err := q.QueryRowContext(ctx, r.rebind(`SELECT value FROM babylog_meta WHERE key = ?`), headerKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: store not initialized", events.ErrStoreUnavailable)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}

	var header []string
	if err := sonic.UnmarshalString(raw, &header); err != nil {
		return fmt.Errorf("%w: stored header: %v", events.ErrSchemaMismatch, err)
	}
	if !r.schema.MatchesHeader(header) {
		return fmt.Errorf("%w: header %q, expected %q", events.ErrSchemaMismatch, header, r.schema.Columns())
	}
	return nil
}

func (r *EventsRepo) query(ctx context.Context, q queryer, query string, args ...any) ([]events.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := make([]events.Record, 0)
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		rec, err := decodeCells(cells)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *EventsRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}
	return nil
}

// rebind pasa los placeholders "?" a "$n" en Postgres.
func (r *EventsRepo) rebind(query string) string {
	if r.dialect != Postgres {
		return query
	}
	var sb strings.Builder
	n := 1
	for _, ch := range query {
		if ch == '?' {
			sb.WriteString("$" + strconv.Itoa(n))
			n++
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func decodeCells(cells string) (events.Record, error) {
	var rec []string
	if err := sonic.UnmarshalString(cells, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", events.ErrMalformedRecord, err)
	}
	return events.Record(rec), nil
}
