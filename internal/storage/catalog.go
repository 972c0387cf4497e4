package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"logbook/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// AttachmentRecord is the catalog form of one attachment and its owner
type AttachmentRecord struct {
	ID       uuid.UUID
	EntryID  uuid.UUID
	Kind     string
	Source   string
	Path     string
	Comments string
	Size     int64
	Created  time.Time
	Modified time.Time
}

// Snapshot is everything the catalog stores for one logbook
type Snapshot struct {
	Logbook     *model.Logbook
	Attachments []AttachmentRecord
}

func openDB(path string) (*sql.DB, error) {
	expandedPath, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", expandedPath)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attachments (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		path TEXT NOT NULL,
		comments TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT 0,
		modified_at INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_attachments_entry ON attachments(entry_id);
	CREATE INDEX IF NOT EXISTS idx_attachments_path ON attachments(path);
	`

	_, err := db.Exec(schema)
	return err
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// LoadCatalog reads a logbook snapshot. A missing catalog yields an empty
// logbook whose attachment directory sits next to the catalog.
func LoadCatalog(path string) (*Snapshot, error) {
	expandedPath, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Logbook: &model.Logbook{
		Name:          filepath.Base(expandedPath),
		AttachmentDir: DefaultAttachmentDir(expandedPath),
	}}
	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		return snap, nil
	}

	db, err := openDB(expandedPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}

	if err := loadMeta(db, snap.Logbook); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT id, title, created_at, updated_at FROM entries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var created, updated int64
		entry := &model.Entry{}
		if err := rows.Scan(&id, &entry.Title, &created, &updated); err != nil {
			return nil, err
		}
		if entry.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid entry ID in catalog: %w", err)
		}
		entry.CreatedAt, entry.UpdatedAt = fromUnix(created), fromUnix(updated)
		snap.Logbook.Entries = append(snap.Logbook.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attachments, err := loadAttachments(db)
	if err != nil {
		return nil, err
	}
	snap.Attachments = attachments

	return snap, nil
}

func loadMeta(db *sql.DB, lb *model.Logbook) error {
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case "name":
			lb.Name = value
		case "attachment_dir":
			lb.AttachmentDir = value
		}
	}
	return rows.Err()
}

func loadAttachments(db *sql.DB) ([]AttachmentRecord, error) {
	rows, err := db.Query(`
		SELECT id, entry_id, kind, source, path, comments, size, created_at, modified_at
		FROM attachments ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var records []AttachmentRecord
	for rows.Next() {
		var rec AttachmentRecord
		var id, entryID string
		var created, modified int64
		if err := rows.Scan(&id, &entryID, &rec.Kind, &rec.Source, &rec.Path,
			&rec.Comments, &rec.Size, &created, &modified); err != nil {
			return nil, err
		}

		var parseErr error
		if rec.ID, parseErr = uuid.Parse(id); parseErr != nil {
			return nil, fmt.Errorf("invalid attachment ID in catalog: %w", parseErr)
		}
		if rec.EntryID, parseErr = uuid.Parse(entryID); parseErr != nil {
			return nil, fmt.Errorf("invalid entry ID in catalog: %w", parseErr)
		}
		rec.Created, rec.Modified = fromUnix(created), fromUnix(modified)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveCatalog replaces the catalog contents with snap
func SaveCatalog(path string, snap *Snapshot) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := initSchema(db); err != nil {
		return fmt.Errorf("init catalog schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM attachments`, `DELETE FROM entries`, `DELETE FROM meta`} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	meta := map[string]string{
		"name":           snap.Logbook.Name,
		"attachment_dir": snap.Logbook.AttachmentDir,
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}

	for _, entry := range snap.Logbook.Entries {
		_, err := tx.Exec(`
			INSERT INTO entries (id, title, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, entry.ID.String(), entry.Title, toUnix(entry.CreatedAt), toUnix(entry.UpdatedAt))
		if err != nil {
			return fmt.Errorf("save entry %s: %w", entry.ID, err)
		}
	}

	for _, rec := range snap.Attachments {
		_, err := tx.Exec(`
			INSERT INTO attachments (id, entry_id, kind, source, path, comments, size, created_at, modified_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID.String(), rec.EntryID.String(), rec.Kind, rec.Source, rec.Path,
			rec.Comments, rec.Size, toUnix(rec.Created), toUnix(rec.Modified))
		if err != nil {
			return fmt.Errorf("save attachment %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}
