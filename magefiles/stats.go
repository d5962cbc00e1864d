package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/farmbook/internal/paths"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Stats prints Go line counts per package and the number of stored records
// per table in the local data directory as one JSON line. The data
// directory is FARMBOOK_DATA_DIR or .farmbook-db.
func Stats() error {
	packages, err := goLines()
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir("", "")
	if err != nil {
		return err
	}
	records, err := tableRecords(dataDir)
	if err != nil {
		return err
	}

	line, err := json.Marshal(map[string]any{
		"packages": packages,
		"data_dir": dataDir,
		"records":  records,
	})
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

// goLines counts production and test lines per package directory.
func goLines() (map[string][2]int, error) {
	perDir := map[string][2]int{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path == "vendor" || path == binaryDir || path == "magefiles" || (path != "." && strings.HasPrefix(d.Name(), ".")) || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return nil
		}
		c := perDir[filepath.Dir(path)]
		if strings.HasSuffix(path, "_test.go") {
			c[1] += n
		} else {
			c[0] += n
		}
		perDir[filepath.Dir(path)] = c
		return nil
	})
	return perDir, err
}

// tableRecords counts JSONL lines per store table. Tables without a file
// report zero.
func tableRecords(dataDir string) (map[string]int, error) {
	out := make(map[string]int, len(types.StandardTableNames))
	for _, table := range types.StandardTableNames {
		n, err := countLines(filepath.Join(dataDir, table+".jsonl"))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		out[table] = n
	}
	return out, nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	return count, scanner.Err()
}
