//go:build !sqlite_fts5

package cache

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search falls back to LIKE over the files table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string, _ []string) error {
	// Body is already stored in the files table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

func ftsRename(_ *sql.Tx, _, _, _ string) {}

// SearchText returns the paths whose name, body, or tags contain every
// token (LIKE fallback when FTS5 is not compiled in).
func (s *Store) SearchText(tokens []string, limit int) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 500
	}
	var (
		where []string
		args  []any
	)
	for _, tok := range tokens {
		like := "%" + tok + "%"
		where = append(where, `(path LIKE ? OR body LIKE ? OR tags LIKE ?)`)
		args = append(args, like, like, like)
	}
	args = append(args, limit)
	rows, err := s.db.Query(`
		SELECT path FROM files
		WHERE `+strings.Join(where, " AND ")+`
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
