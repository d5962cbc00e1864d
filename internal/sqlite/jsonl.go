package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

const (
	jsonlExt      = ".jsonl"
	sequencesFile = "sequences.json"
)

// row is one line of a table's JSONL file.
type row struct {
	ID        int64        `json:"id"`
	Fields    types.Record `json:"fields"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// jsonlPath returns the file holding tableName inside dataDir.
func jsonlPath(dataDir, tableName string) string {
	return filepath.Join(dataDir, tableName+jsonlExt)
}

// tableFromPath is the inverse of jsonlPath.
func tableFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), jsonlExt)
}

// readJSONL reads a table file. Blank lines, malformed lines and rows
// without a positive id are skipped.
func readJSONL(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r row
		if err := json.Unmarshal(line, &r); err != nil || r.ID <= 0 {
			continue
		}
		if r.Fields == nil {
			r.Fields = types.Record{}
		}
		rows = append(rows, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return rows, nil
}

// writeJSONL atomically replaces a table file using the temp-file, fsync,
// rename pattern.
func writeJSONL(path string, rows []row) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fail("writing row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// readSequences returns the persisted next id per table. A missing file
// yields an empty map.
func readSequences(dataDir string) (map[string]int64, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, sequencesFile))
	if os.IsNotExist(err) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sequencesFile, err)
	}
	seq := map[string]int64{}
	if err := json.Unmarshal(data, &seq); err != nil {
		return map[string]int64{}, nil
	}
	return seq, nil
}

// writeSequences atomically replaces the sequences file.
func writeSequences(dataDir string, seq map[string]int64) error {
	data, err := json.MarshalIndent(seq, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dataDir, ".sequences-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing sequences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(dataDir, sequencesFile))
}
