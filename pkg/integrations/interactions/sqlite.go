package interactions

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed interaction table.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path. Use ":memory:"
// for a private in-memory database.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		a_source TEXT NOT NULL,
		a_id TEXT NOT NULL,
		a_kind TEXT NOT NULL DEFAULT 'Unknown',
		a_label TEXT NOT NULL DEFAULT '',
		b_source TEXT NOT NULL,
		b_id TEXT NOT NULL,
		b_kind TEXT NOT NULL DEFAULT 'Unknown',
		b_label TEXT NOT NULL DEFAULT '',
		evidence TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (a_source, a_id, b_source, b_id)
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_a ON interactions(a_source, a_id);
	CREATE INDEX IF NOT EXISTS idx_interactions_b ON interactions(b_source, b_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add stores an interaction. Re-adding the same pair updates its labels
// and evidence.
func (s *Store) Add(ctx context.Context, in Interaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (a_source, a_id, a_kind, a_label, b_source, b_id, b_kind, b_label, evidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (a_source, a_id, b_source, b_id) DO UPDATE SET
			a_kind = excluded.a_kind, a_label = excluded.a_label,
			b_kind = excluded.b_kind, b_label = excluded.b_label,
			evidence = excluded.evidence
	`, in.A.DataSource, in.A.ID, kindOrUnknown(in.A.Kind), in.A.Label,
		in.B.DataSource, in.B.ID, kindOrUnknown(in.B.Kind), in.B.Label, in.Evidence)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// Partners implements [Source].
func (s *Store) Partners(ctx context.Context, dataSource, id string) ([]Partner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b_id, b_source, b_kind, b_label, id FROM interactions WHERE a_source = ? AND a_id = ?
		UNION ALL
		SELECT a_id, a_source, a_kind, a_label, id FROM interactions WHERE b_source = ? AND b_id = ?
		ORDER BY 5
	`, dataSource, id, dataSource, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var out []Partner
	for rows.Next() {
		var p Partner
		var rowID int64
		if err := rows.Scan(&p.ID, &p.DataSource, &p.Kind, &p.Label, &rowID); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dedupe(out), nil
}

// Count returns the number of stored interactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&n)
	return n, err
}

// Import reads tab-separated interactions, one per line:
//
//	a_source  a_id  a_kind  a_label  b_source  b_id  b_kind  b_label  [evidence]
//
// Blank lines and lines starting with '#' are skipped. It returns the
// number of interactions stored.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO interactions (a_source, a_id, a_kind, a_label, b_source, b_id, b_kind, b_label, evidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n, line := 0, 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		f := strings.Split(text, "\t")
		if len(f) < 8 {
			return 0, fmt.Errorf("line %d: want at least 8 tab-separated fields, got %d", line, len(f))
		}
		evidence := ""
		if len(f) > 8 {
			evidence = f[8]
		}
		if _, err := stmt.ExecContext(ctx, f[0], f[1], kindOrUnknown(f[2]), f[3], f[4], f[5], kindOrUnknown(f[6]), f[7], evidence); err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func kindOrUnknown(k string) string {
	if k == "" {
		return "Unknown"
	}
	return k
}
