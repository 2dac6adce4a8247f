// Package sqlite persists dataset samples in a SQLite file, the handoff
// format the training side reads. Windows are stored as little-endian
// float32 blobs to keep files compact.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/crimson-sun/stylet/internal/model"
)

// Store implements output.Output backed by a SQLite database.
type Store struct {
	db     *sql.DB
	insert *sql.Stmt
}

// Open creates (or opens) the database at path and prepares the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite output: open %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite output: pragma: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	insert, err := db.Prepare(`INSERT INTO samples(distance, file_idx, ref_idx, x, y) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite output: prepare: %w", err)
	}
	return &Store{db: db, insert: insert}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS samples (
	  id       INTEGER PRIMARY KEY AUTOINCREMENT,
	  distance TEXT NOT NULL,
	  file_idx INTEGER NOT NULL,
	  ref_idx  INTEGER NOT NULL,
	  x        BLOB NOT NULL,
	  y        REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_samples_file ON samples(distance, file_idx);
	`)
	if err != nil {
		return fmt.Errorf("sqlite output: migrate: %w", err)
	}
	return nil
}

// Write inserts one sample.
func (s *Store) Write(ctx context.Context, sample model.Sample) error {
	_, err := s.insert.ExecContext(ctx,
		sample.Distance, sample.FileIndex, sample.RefIndex, encodeWindow(sample.X), sample.Y)
	if err != nil {
		return fmt.Errorf("sqlite output: insert: %w", err)
	}
	return nil
}

// Close releases the prepared statement and the database handle.
func (s *Store) Close() error {
	s.insert.Close()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite output: close: %w", err)
	}
	return nil
}

// Count returns the number of stored samples.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite output: count: %w", err)
	}
	return n, nil
}

// LoadFile returns the stored samples of one recording, in insertion order.
func (s *Store) LoadFile(ctx context.Context, distance string, fileIndex int) ([]model.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ref_idx, x, y FROM samples WHERE distance = ? AND file_idx = ? ORDER BY id`,
		distance, fileIndex)
	if err != nil {
		return nil, fmt.Errorf("sqlite output: load: %w", err)
	}
	defer rows.Close()

	var samples []model.Sample
	for rows.Next() {
		var (
			ref int
			xb  []byte
			y   float64
		)
		if err := rows.Scan(&ref, &xb, &y); err != nil {
			return nil, fmt.Errorf("sqlite output: scan: %w", err)
		}
		samples = append(samples, model.Sample{
			Distance:  distance,
			FileIndex: fileIndex,
			RefIndex:  ref,
			X:         decodeWindow(xb),
			Y:         y,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite output: load: %w", err)
	}
	return samples, nil
}

// encodeWindow packs a window as little-endian float32, matching the
// capture files' own precision.
func encodeWindow(x []float64) []byte {
	buf := make([]byte, 4*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	return buf
}

func decodeWindow(buf []byte) []float64 {
	x := make([]float64, len(buf)/4)
	for i := range x {
		x[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
	}
	return x
}
