package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"chatpulse/internal/model"
)

// DB wraps the SQLite database holding imported chat rows.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS records (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  author TEXT NOT NULL,
	  date TEXT NOT NULL,
	  content TEXT NOT NULL DEFAULT '',
	  attachments TEXT NOT NULL DEFAULT '',
	  reactions TEXT NOT NULL DEFAULT '',
	  import_id TEXT,
	  UNIQUE(date, author, content)
	);
	CREATE INDEX IF NOT EXISTS idx_records_author ON records(author);
	CREATE TABLE IF NOT EXISTS imports (
	  id TEXT PRIMARY KEY,
	  source TEXT NOT NULL,
	  ts INTEGER NOT NULL,
	  rows INTEGER NOT NULL,
	  inserted INTEGER NOT NULL
	);
	`)
	return err
}

// Import describes one batch written by PutRows.
type Import struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	At       time.Time `json:"at"`
	Rows     int       `json:"rows"`
	Inserted int       `json:"inserted"`
}

// PutRows stores rows from source in one transaction. Rows already present
// (same date, author and content) are skipped, as are rows missing an author
// or date.
func (d *DB) PutRows(ctx context.Context, source string, rows []model.Row) (Import, error) {
	imp := Import{ID: uuid.NewString(), Source: source, At: time.Now().UTC(), Rows: len(rows)}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return imp, err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO records(author, date, content, attachments, reactions, import_id) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return imp, err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.Author == "" || r.Date == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, r.Author, r.Date, r.Content, r.Attachments, r.Reactions, imp.ID)
		if err != nil {
			return imp, err
		}
		if n, err := res.RowsAffected(); err == nil {
			imp.Inserted += int(n)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO imports(id, source, ts, rows, inserted) VALUES(?,?,?,?,?)`,
		imp.ID, imp.Source, imp.At.Unix(), imp.Rows, imp.Inserted); err != nil {
		return imp, err
	}
	return imp, tx.Commit()
}

// LoadRows returns every stored row in insertion order.
func (d *DB) LoadRows(ctx context.Context) ([]model.Row, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT author, date, content, attachments, reactions FROM records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Row
	for rows.Next() {
		var r model.Row
		if err := rows.Scan(&r.Author, &r.Date, &r.Content, &r.Attachments, &r.Reactions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRows returns the number of stored rows.
func (d *DB) CountRows(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

// Authors lists distinct author names, alphabetically.
func (d *DB) Authors(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT DISTINCT author FROM records ORDER BY author`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Imports returns recorded batches, newest first.
func (d *DB) Imports(ctx context.Context) ([]Import, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, source, ts, rows, inserted FROM imports ORDER BY ts DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Import
	for rows.Next() {
		var imp Import
		var ts int64
		if err := rows.Scan(&imp.ID, &imp.Source, &ts, &imp.Rows, &imp.Inserted); err != nil {
			return nil, err
		}
		imp.At = time.Unix(ts, 0).UTC()
		out = append(out, imp)
	}
	return out, rows.Err()
}
