// Package sheet is the tabular store adapter: named sheets of ordered rows
// with a fixed header in row 1, supporting append, ranged read, ranged
// overwrite and clear. The Weekly and Daily tables both live here.
package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the row-level contract the record stores are written against.
// Row indices are 1-based; row 1 is the header row.
type Store interface {
	AppendRow(ctx context.Context, sheet string, row []string) error
	ReadRange(ctx context.Context, sheet string, start, count int) ([][]string, error)
	WriteRange(ctx context.Context, sheet string, start int, rows [][]string) error
	ClearRange(ctx context.Context, sheet string, start, count int) error
	LastRowIndex(ctx context.Context, sheet string) (int, error)
	EnsureHeader(ctx context.Context, sheet string, headers []string) error
}

// SQLiteStore backs the sheet contract with a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet   TEXT    NOT NULL,
	row_idx INTEGER NOT NULL,
	cells   TEXT    NOT NULL,
	PRIMARY KEY (sheet, row_idx)
);`

// Open opens (creating if needed) the backing database at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sheet schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeCells(row []string) (string, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("failed to encode row: %w", err)
	}
	return string(data), nil
}

func decodeCells(data string) ([]string, error) {
	var row []string
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	return row, nil
}

// AppendRow adds a row after the current last row.
func (s *SQLiteStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	cells, err := encodeCells(row)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var last int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_idx), 0) FROM sheet_rows WHERE sheet = ?`, sheet,
	).Scan(&last); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, row_idx, cells) VALUES (?, ?, ?)`,
		sheet, last+1, cells,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ReadRange returns up to count rows starting at the 1-based index start.
func (s *SQLiteStore) ReadRange(ctx context.Context, sheet string, start, count int) ([][]string, error) {
	if count <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? AND row_idx >= ? AND row_idx < ? ORDER BY row_idx`,
		sheet, start, start+count,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		row, err := decodeCells(cells)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// WriteRange overwrites rows starting at the 1-based index start.
func (s *SQLiteStore) WriteRange(ctx context.Context, sheet string, start int, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, row := range rows {
		cells, err := encodeCells(row)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO sheet_rows (sheet, row_idx, cells) VALUES (?, ?, ?)`,
			sheet, start+i, cells,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ClearRange removes count rows starting at the 1-based index start.
func (s *SQLiteStore) ClearRange(ctx context.Context, sheet string, start, count int) error {
	if count <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_rows WHERE sheet = ? AND row_idx >= ? AND row_idx < ?`,
		sheet, start, start+count,
	)
	return err
}

// LastRowIndex returns the index of the last row, or 0 for an empty sheet.
func (s *SQLiteStore) LastRowIndex(ctx context.Context, sheet string) (int, error) {
	var last int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_idx), 0) FROM sheet_rows WHERE sheet = ?`, sheet,
	).Scan(&last)
	return last, err
}

// EnsureHeader writes the header row on first use of a sheet.
func (s *SQLiteStore) EnsureHeader(ctx context.Context, sheet string, headers []string) error {
	last, err := s.LastRowIndex(ctx, sheet)
	if err != nil {
		return err
	}
	if last > 0 {
		return nil
	}
	return s.AppendRow(ctx, sheet, headers)
}
