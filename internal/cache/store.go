package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists the content index in SQLite. The files table mirrors
// FileRecord plus a body column used only by text search; thumbs holds
// generated feature-image blobs keyed by (path, key).
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the index database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS files (
    path TEXT PRIMARY KEY,
    preview TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    properties TEXT NOT NULL DEFAULT '[]',
    raw_nulls TEXT NOT NULL DEFAULT '[]',
    feature_image_key TEXT NOT NULL DEFAULT '',
    feature_image_status TEXT NOT NULL DEFAULT 'unprocessed',
    word_count INTEGER,
    task_unfinished INTEGER,
    checksum TEXT NOT NULL DEFAULT '',
    mtime INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS thumbs (
    path TEXT NOT NULL,
    key TEXT NOT NULL,
    data BLOB NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (path, key)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return initFTS(s.db)
}

// Upsert inserts or replaces one record. body is the note body without
// frontmatter; it feeds text search and is never loaded back into RAM.
func (s *Store) Upsert(rec *FileRecord, body string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	tagsJSON, _ := json.Marshal(rec.Tags)
	propsJSON, _ := json.Marshal(rec.Properties)
	nullsJSON, _ := json.Marshal(rawNullKeys(rec.RawNulls))

	_, err = tx.Exec(`
		INSERT INTO files (path, preview, tags, properties, raw_nulls,
			feature_image_key, feature_image_status, word_count,
			task_unfinished, checksum, mtime, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			preview              = excluded.preview,
			tags                 = excluded.tags,
			properties           = excluded.properties,
			raw_nulls            = excluded.raw_nulls,
			feature_image_key    = excluded.feature_image_key,
			feature_image_status = excluded.feature_image_status,
			word_count           = excluded.word_count,
			task_unfinished      = excluded.task_unfinished,
			checksum             = excluded.checksum,
			mtime                = excluded.mtime,
			body                 = excluded.body
	`, rec.Path, rec.Preview, string(tagsJSON), string(propsJSON), string(nullsJSON),
		rec.FeatureImageKey, string(rec.FeatureImageStatus),
		nullableInt(rec.WordCount), nullableInt(rec.TaskUnfinished),
		rec.Checksum, rec.Mtime, body)
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", rec.Path, err)
	}
	if err := ftsUpsert(tx, rec.Path, baseTitle(rec.Path), body, rec.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a record, its thumbnails, and its search entry.
func (s *Store) Delete(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	ftsDelete(tx, path)
	if _, err := tx.Exec(`DELETE FROM thumbs WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete thumbs %s: %w", path, err)
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete record %s: %w", path, err)
	}
	return tx.Commit()
}

// Rename re-keys a record and its thumbnails without reindexing content.
func (s *Store) Rename(oldPath, newPath string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin rename: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE files SET path = ? WHERE path = ?`, newPath, oldPath); err != nil {
		return fmt.Errorf("rename record %s: %w", oldPath, err)
	}
	if _, err := tx.Exec(`UPDATE thumbs SET path = ? WHERE path = ?`, newPath, oldPath); err != nil {
		return fmt.Errorf("rename thumbs %s: %w", oldPath, err)
	}
	ftsRename(tx, oldPath, newPath, baseTitle(newPath))
	return tx.Commit()
}

// SetMtime refreshes a record's mtime after a checksum-identical reindex.
func (s *Store) SetMtime(path string, mtime int64) error {
	if _, err := s.db.Exec(`UPDATE files SET mtime = ? WHERE path = ?`, mtime, path); err != nil {
		return fmt.Errorf("set mtime %s: %w", path, err)
	}
	return nil
}

// UpdateImage records the thumbnail pipeline's verdict for a path.
func (s *Store) UpdateImage(path, key string, status ImageStatus) error {
	_, err := s.db.Exec(`
		UPDATE files SET feature_image_key = ?, feature_image_status = ?
		WHERE path = ?
	`, key, string(status), path)
	if err != nil {
		return fmt.Errorf("update image %s: %w", path, err)
	}
	return nil
}

// LoadAll reads every record for RAM hydration. Bodies stay on disk.
func (s *Store) LoadAll() (map[string]*FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT path, preview, tags, properties, raw_nulls,
		       feature_image_key, feature_image_status,
		       word_count, task_unfinished, checksum, mtime
		FROM files
	`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*FileRecord)
	for rows.Next() {
		var (
			rec       FileRecord
			tagsJSON  string
			propsJSON string
			nullsJSON string
			status    string
			wordCount sql.NullInt64
			taskCount sql.NullInt64
		)
		if err := rows.Scan(&rec.Path, &rec.Preview, &tagsJSON, &propsJSON, &nullsJSON,
			&rec.FeatureImageKey, &status, &wordCount, &taskCount,
			&rec.Checksum, &rec.Mtime); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
			rec.Tags = nil
		}
		if err := json.Unmarshal([]byte(propsJSON), &rec.Properties); err != nil {
			rec.Properties = nil
		}
		var nullKeys []string
		if err := json.Unmarshal([]byte(nullsJSON), &nullKeys); err == nil && len(nullKeys) > 0 {
			rec.RawNulls = make(map[string]bool, len(nullKeys))
			for _, k := range nullKeys {
				rec.RawNulls[k] = true
			}
		}
		rec.FeatureImageStatus = ImageStatus(status)
		if wordCount.Valid {
			n := int(wordCount.Int64)
			rec.WordCount = &n
		}
		if taskCount.Valid {
			n := int(taskCount.Int64)
			rec.TaskUnfinished = &n
		}
		out[rec.Path] = &rec
	}
	return out, rows.Err()
}

// Checksums returns path -> checksum for every stored record. The initial
// scan uses it to skip unchanged files and to sweep stale rows.
func (s *Store) Checksums() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("load checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, sum string
		if err := rows.Scan(&path, &sum); err != nil {
			return nil, fmt.Errorf("scan checksum: %w", err)
		}
		out[path] = sum
	}
	return out, rows.Err()
}

// PutThumb stores (or replaces) a generated thumbnail blob.
func (s *Store) PutThumb(path, key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO thumbs (path, key, data, created_at)
		VALUES (?, ?, ?, ?)
	`, path, key, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put thumb %s: %w", path, err)
	}
	return nil
}

// Thumb fetches a thumbnail blob. Missing rows return (nil, nil).
func (s *Store) Thumb(path, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM thumbs WHERE path = ? AND key = ?`, path, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch thumb %s: %w", path, err)
	}
	return data, nil
}

// baseTitle is the search title column: the file's base name.
func baseTitle(path string) string {
	name := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		name = path[i+1:]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func rawNullKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return []string{}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
