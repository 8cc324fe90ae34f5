// Package podstate persists the per-file earliest/latest/bytesWritten
// triple the core exposes after a pass, so an external multi-pass "POD"
// request driver can read back prior-pass state without re-scanning files
// it has already consumed.
package podstate

import (
	"context"
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	sqlite3migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/earthscope-oss/dataselect/hptime"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Record is one file's cross-pass state.
type Record struct {
	Path          string
	EarliestStart hptime.HPT
	LatestEnd     hptime.HPT
	BytesWritten  int64
	RecsWritten   int
}

// Store is a SQLite-backed key-value table keyed by input path.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// applies any pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataselect: open podstate db %s", path)
	}

	driver, err := sqlite3migrate.WithInstance(db.DB, &sqlite3migrate.Config{})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "dataselect: podstate migration driver")
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "dataselect: podstate migration source")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "dataselect: podstate migrate init")
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		db.Close()
		return nil, errors.Wrap(err, "dataselect: podstate migrate up")
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts rec, keyed by rec.Path.
func (s *Store) Put(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pod_files (path, earliest_start, latest_end, bytes_written, recs_written, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			earliest_start = excluded.earliest_start,
			latest_end     = excluded.latest_end,
			bytes_written  = excluded.bytes_written,
			recs_written   = excluded.recs_written,
			updated_at     = CURRENT_TIMESTAMP
	`, rec.Path, int64(rec.EarliestStart), int64(rec.LatestEnd), rec.BytesWritten, rec.RecsWritten)
	return errors.Wrapf(err, "dataselect: podstate put %s", rec.Path)
}

// Get returns the stored state for path, if any.
func (s *Store) Get(ctx context.Context, path string) (Record, bool, error) {
	var row struct {
		Path          string `db:"path"`
		EarliestStart int64  `db:"earliest_start"`
		LatestEnd     int64  `db:"latest_end"`
		BytesWritten  int64  `db:"bytes_written"`
		RecsWritten   int    `db:"recs_written"`
	}
	err := s.db.GetContext(ctx, &row, `
		SELECT path, earliest_start, latest_end, bytes_written, recs_written
		FROM pod_files WHERE path = ?`, path)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, errors.Wrapf(err, "dataselect: podstate get %s", path)
	}
	return Record{
		Path:          row.Path,
		EarliestStart: hptime.HPT(row.EarliestStart),
		LatestEnd:     hptime.HPT(row.LatestEnd),
		BytesWritten:  row.BytesWritten,
		RecsWritten:   row.RecsWritten,
	}, true, nil
}
