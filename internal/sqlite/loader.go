package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
)

// loadAllJSONL inserts every table file found in dataDir. Loading is
// transactional: either all files load or the database stays empty. Each
// table's sequence resumes after its highest id, or later when the
// sequences file says so.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	paths, err := filepath.Glob(filepath.Join(dataDir, "*"+jsonlExt))
	if err != nil {
		return fmt.Errorf("listing JSONL files: %w", err)
	}
	sort.Strings(paths)

	seq, err := readSequences(dataDir)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, path := range paths {
		rows, err := readJSONL(path)
		if err != nil {
			return err
		}
		tableName := tableFromPath(path)
		if err := insertRows(tx, tableName, rows, seq[tableName]); err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRows loads rows for one table. A later row with a duplicate id
// replaces the earlier one.
func insertRows(tx *sql.Tx, tableName string, rows []row, next int64) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO records
		(table_name, record_id, fields, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var maxID int64
	for _, r := range rows {
		fields, err := json.Marshal(r.Fields)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(tableName, r.ID, string(fields), r.CreatedAt, r.UpdatedAt); err != nil {
			return fmt.Errorf("inserting row %d: %w", r.ID, err)
		}
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	_, err = tx.Exec(`INSERT INTO sequences (table_name, next_id) VALUES (?, ?)
		ON CONFLICT(table_name) DO UPDATE SET next_id = excluded.next_id`, tableName, max(next, maxID+1))
	return err
}
