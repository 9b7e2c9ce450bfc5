// Package store exports GFF records into a SQLite database. Each load is
// identified by a UUID; records keep their stream position and every
// attribute value becomes one row.
//
// Build modes:
//   - Default (CGO_ENABLED=0): uses pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): uses mattn/go-sqlite3
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/gffkit/core/errors"
	"github.com/FocuswithJustin/gffkit/core/gff"
)

const schema = `
CREATE TABLE IF NOT EXISTS loads (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	version TEXT NOT NULL,
	created_at TEXT NOT NULL,
	record_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS metadata (
	load_id TEXT NOT NULL REFERENCES loads(id),
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	load_id TEXT NOT NULL REFERENCES loads(id),
	position INTEGER NOT NULL,
	seqid TEXT NOT NULL,
	source TEXT NOT NULL,
	type TEXT NOT NULL,
	start_pos INTEGER NOT NULL,
	end_pos INTEGER NOT NULL,
	score REAL,
	strand TEXT NOT NULL,
	phase INTEGER
);
CREATE INDEX IF NOT EXISTS idx_records_load ON records(load_id, position);
CREATE INDEX IF NOT EXISTS idx_records_seqid ON records(seqid, start_pos);
CREATE TABLE IF NOT EXISTS attributes (
	record_id INTEGER NOT NULL REFERENCES records(id),
	tag_position INTEGER NOT NULL,
	tag TEXT NOT NULL,
	value_position INTEGER NOT NULL,
	value TEXT
);
CREATE INDEX IF NOT EXISTS idx_attributes_record ON attributes(record_id);
CREATE INDEX IF NOT EXISTS idx_attributes_tag ON attributes(tag, value);
`

// Store is a SQLite database of loaded GFF streams.
type Store struct {
	db *sql.DB
}

// Load describes one stored GFF stream.
type Load struct {
	ID          string
	Source      string
	Version     string
	CreatedAt   time.Time
	RecordCount int
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}
	db, err := openDB(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	// A single connection keeps ":memory:" databases alive and avoids
	// SQLITE_BUSY between concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadReader drains r into the database as one load named source. Nothing
// is stored if reading fails or ctx is cancelled.
func (s *Store) LoadReader(ctx context.Context, source string, r *gff.Reader) (*Load, error) {
	var recs []*gff.Record
	for rec, err := range r.Records() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return s.LoadRecords(ctx, source, r.Version(), r.Metadata(), recs)
}

// LoadRecords stores recs and metadata in a single transaction.
func (s *Store) LoadRecords(ctx context.Context, source, version string, metadata []gff.Metadatum, recs []*gff.Record) (*Load, error) {
	load := &Load{
		ID:          uuid.NewString(),
		Source:      source,
		Version:     version,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		RecordCount: len(recs),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin load")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO loads (id, source, version, created_at, record_count) VALUES (?, ?, ?, ?, ?)",
		load.ID, load.Source, load.Version, load.CreatedAt.Format(time.RFC3339), load.RecordCount); err != nil {
		return nil, errors.Wrap(err, "insert load")
	}

	for i, m := range metadata {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO metadata (load_id, position, name, value) VALUES (?, ?, ?, ?)",
			load.ID, i, m.Name, m.Value); err != nil {
			return nil, errors.Wrap(err, "insert metadata")
		}
	}

	recStmt, err := tx.PrepareContext(ctx, `INSERT INTO records
		(load_id, position, seqid, source, type, start_pos, end_pos, score, strand, phase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare records")
	}
	defer recStmt.Close()

	attrStmt, err := tx.PrepareContext(ctx, `INSERT INTO attributes
		(record_id, tag_position, tag, value_position, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare attributes")
	}
	defer attrStmt.Close()

	for i, rec := range recs {
		res, err := recStmt.ExecContext(ctx, load.ID, i,
			rec.SeqID, rec.Source, rec.Type, rec.Start, rec.End,
			nullFloat(rec.Score), rec.Strand, nullInt(rec.Phase))
		if err != nil {
			return nil, errors.Wrapf(err, "insert record %d", i)
		}
		recordID, err := res.LastInsertId()
		if err != nil {
			return nil, errors.Wrapf(err, "insert record %d", i)
		}

		for ti, tag := range rec.Attributes.Keys() {
			values := rec.Attributes.Get(tag)
			if len(values) == 0 {
				// Valueless tags keep a NULL row so they survive a read back.
				if _, err := attrStmt.ExecContext(ctx, recordID, ti, tag, -1, nil); err != nil {
					return nil, errors.Wrapf(err, "insert attribute %s", tag)
				}
				continue
			}
			for vi, v := range values {
				if _, err := attrStmt.ExecContext(ctx, recordID, ti, tag, vi, v); err != nil {
					return nil, errors.Wrapf(err, "insert attribute %s", tag)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit load")
	}
	return load, nil
}

// Loads lists every load, oldest first.
func (s *Store) Loads(ctx context.Context) ([]Load, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, source, version, created_at, record_count FROM loads ORDER BY created_at, rowid")
	if err != nil {
		return nil, errors.Wrap(err, "query loads")
	}
	defer rows.Close()

	var loads []Load
	for rows.Next() {
		var l Load
		var created string
		if err := rows.Scan(&l.ID, &l.Source, &l.Version, &created, &l.RecordCount); err != nil {
			return nil, errors.Wrap(err, "scan load")
		}
		if l.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, errors.Wrapf(err, "load %s", l.ID)
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}

// Metadata returns the directives stored with a load.
func (s *Store) Metadata(ctx context.Context, loadID string) ([]gff.Metadatum, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, value FROM metadata WHERE load_id = ? ORDER BY position", loadID)
	if err != nil {
		return nil, errors.Wrap(err, "query metadata")
	}
	defer rows.Close()

	var meta []gff.Metadatum
	for rows.Next() {
		var m gff.Metadatum
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, errors.Wrap(err, "scan metadata")
		}
		meta = append(meta, m)
	}
	return meta, rows.Err()
}

// Records reads back the records of a load in stream order. An unknown
// load returns an error wrapping errors.ErrNotFound.
func (s *Store) Records(ctx context.Context, loadID string) ([]*gff.Record, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM loads WHERE id = ?", loadID).Scan(&exists)
	if err != nil {
		return nil, errors.Wrap(err, "query load")
	}
	if exists == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "load %s", loadID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, seqid, source, type, start_pos, end_pos, score, strand, phase
		FROM records WHERE load_id = ? ORDER BY position`, loadID)
	if err != nil {
		return nil, errors.Wrap(err, "query records")
	}
	defer rows.Close()

	var recs []*gff.Record
	byID := make(map[int64]*gff.Record)
	for rows.Next() {
		var id int64
		var score sql.NullFloat64
		var phase sql.NullInt64
		rec := &gff.Record{Attributes: gff.NewAttributes()}
		if err := rows.Scan(&id, &rec.SeqID, &rec.Source, &rec.Type, &rec.Start, &rec.End, &score, &rec.Strand, &phase); err != nil {
			return nil, errors.Wrap(err, "scan record")
		}
		if score.Valid {
			rec.Score = gff.ScoreOf(score.Float64)
		}
		if phase.Valid {
			rec.Phase = gff.PhaseOf(int(phase.Int64))
		}
		recs = append(recs, rec)
		byID[id] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attrRows, err := s.db.QueryContext(ctx, `SELECT a.record_id, a.tag, a.value
		FROM attributes a JOIN records r ON r.id = a.record_id
		WHERE r.load_id = ?
		ORDER BY a.record_id, a.tag_position, a.value_position`, loadID)
	if err != nil {
		return nil, errors.Wrap(err, "query attributes")
	}
	defer attrRows.Close()

	for attrRows.Next() {
		var id int64
		var tag string
		var value sql.NullString
		if err := attrRows.Scan(&id, &tag, &value); err != nil {
			return nil, errors.Wrap(err, "scan attribute")
		}
		rec := byID[id]
		if rec == nil {
			continue
		}
		if value.Valid {
			rec.Attributes.Add(tag, value.String)
		} else {
			rec.Attributes.Add(tag)
		}
	}
	return recs, attrRows.Err()
}

// Delete removes a load and everything stored with it.
func (s *Store) Delete(ctx context.Context, loadID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin delete")
	}
	defer tx.Rollback()

	stmts := []string{
		"DELETE FROM attributes WHERE record_id IN (SELECT id FROM records WHERE load_id = ?)",
		"DELETE FROM records WHERE load_id = ?",
		"DELETE FROM metadata WHERE load_id = ?",
		"DELETE FROM loads WHERE id = ?",
	}
	var deleted int64
	for _, stmt := range stmts {
		res, err := tx.ExecContext(ctx, stmt, loadID)
		if err != nil {
			return errors.Wrapf(err, "delete load %s", loadID)
		}
		deleted, _ = res.RowsAffected()
	}
	if deleted == 0 {
		return errors.Wrapf(errors.ErrNotFound, "load %s", loadID)
	}
	return tx.Commit()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
