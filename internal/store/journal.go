package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Compilation is one journal record.
type Compilation struct {
	ID       string `json:"id"`
	Seq      int64  `json:"seq"`
	SpecHash string `json:"spec_hash"`
	SQLHash  string `json:"sql_hash"`
	Source   string `json:"source"`
	SQL      string `json:"sql"`
	Strict   bool   `json:"strict"`
}

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("compilation not found")

// Record appends a compilation to the journal. ID and Seq are assigned by
// the store. If the (SpecHash, SQLHash) pair is already recorded, the
// existing record is returned and inserted is false.
func (s *Store) Record(ctx context.Context, c Compilation) (rec Compilation, inserted bool, err error) {
	if c.SpecHash == "" || c.SQLHash == "" {
		return Compilation{}, false, fmt.Errorf("record compilation: spec and sql hashes are required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Compilation{}, false, fmt.Errorf("record compilation: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	existing, err := scanCompilation(tx.QueryRowContext(ctx, `
		SELECT id, seq, spec_hash, sql_hash, source, sql_text, strict
		FROM compilations
		WHERE spec_hash = ? AND sql_hash = ?
	`, c.SpecHash, c.SQLHash))
	switch {
	case err == nil:
		slog.Debug("compilation already recorded", "id", existing.ID, "seq", existing.Seq)
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return Compilation{}, false, fmt.Errorf("record compilation: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations").Scan(&seq); err != nil {
		return Compilation{}, false, fmt.Errorf("record compilation: next seq: %w", err)
	}

	c.ID = s.ids.NewID()
	c.Seq = seq
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO compilations (id, seq, spec_hash, sql_hash, source, sql_text, strict)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Seq, c.SpecHash, c.SQLHash, c.Source, c.SQL, c.Strict); err != nil {
		return Compilation{}, false, fmt.Errorf("record compilation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Compilation{}, false, fmt.Errorf("record compilation: commit: %w", err)
	}

	slog.Debug("compilation recorded", "id", c.ID, "seq", c.Seq, "spec_hash", c.SpecHash)
	return c, true, nil
}

// List returns the most recent compilations, newest first. A limit of zero
// or less returns all records.
func (s *Store) List(ctx context.Context, limit int) ([]Compilation, error) {
	query := `
		SELECT id, seq, spec_hash, sql_hash, source, sql_text, strict
		FROM compilations
		ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// FindBySpecHash returns every compilation whose spec hash starts with
// prefix, newest first. A short prefix as printed by the CLI is enough.
func (s *Store) FindBySpecHash(ctx context.Context, prefix string) ([]Compilation, error) {
	if prefix == "" {
		return nil, fmt.Errorf("find compilations: empty spec hash")
	}
	return s.query(ctx, `
		SELECT id, seq, spec_hash, sql_hash, source, sql_text, strict
		FROM compilations
		WHERE substr(spec_hash, 1, ?) = ?
		ORDER BY seq DESC
	`, len(prefix), prefix)
}

// Latest returns the newest compilation for an exact spec hash.
func (s *Store) Latest(ctx context.Context, specHash string) (Compilation, error) {
	c, err := scanCompilation(s.db.QueryRowContext(ctx, `
		SELECT id, seq, spec_hash, sql_hash, source, sql_text, strict
		FROM compilations
		WHERE spec_hash = ?
		ORDER BY seq DESC
		LIMIT 1
	`, specHash))
	if err != nil {
		return Compilation{}, fmt.Errorf("latest compilation: %w", err)
	}
	return c, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Compilation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	out := []Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompilation(row scanner) (Compilation, error) {
	var c Compilation
	err := row.Scan(&c.ID, &c.Seq, &c.SpecHash, &c.SQLHash, &c.Source, &c.SQL, &c.Strict)
	if errors.Is(err, sql.ErrNoRows) {
		return Compilation{}, ErrNotFound
	}
	if err != nil {
		return Compilation{}, fmt.Errorf("scan compilation: %w", err)
	}
	return c, nil
}
