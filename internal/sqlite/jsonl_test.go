package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func TestWritesPersistToJSONL(t *testing.T) {
	b, dir := setupBackend(t)
	ctx := context.Background()
	path := jsonlPath(dir, types.TableCrops)

	ids := createCrops(t, b, types.Record{"name_c": "Corn"}, types.Record{"name_c": "Wheat"})
	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"id":1`)
	assert.Contains(t, lines[0], `"name_c":"Corn"`)

	_, err := b.UpdateRecord(ctx, types.TableCrops, types.WriteParams{Records: []types.Record{{types.IDField: ids[1], "name_c": "Durum"}}})
	require.NoError(t, err)
	lines = readLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Durum")

	_, err = b.DeleteRecord(ctx, types.TableCrops, types.DeleteParams{RecordIDs: ids})
	require.NoError(t, err)
	assert.Empty(t, readLines(t, path))

	_, err = os.Stat(filepath.Join(dir, sequencesFile))
	assert.NoError(t, err)
}

func TestReadJSONLSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "farms_c.jsonl")
	content := strings.Join([]string{
		`{"id":1,"fields":{"name_c":"North"},"created_at":"2025-01-15T10:30:00Z","updated_at":"2025-01-15T10:30:00Z"}`,
		``,
		`not json`,
		`{"id":0,"fields":{"name_c":"no id"}}`,
		`{"id":4,"future_field":true}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, "North", rows[0].Fields["name_c"])
	assert.Equal(t, int64(4), rows[1].ID)
	assert.NotNil(t, rows[1].Fields)
}

func TestLoadFromJSONLOnAttach(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weather_c.jsonl"), []byte(
		`{"id":3,"fields":{"date_c":"2025-06-02","condition_c":"rainy"}}`+"\n"+
			`{"id":7,"fields":{"date_c":"2025-06-01","condition_c":"sunny"}}`+"\n"), 0o644))

	b, err := Open(dir)
	require.NoError(t, err)
	defer b.Detach()

	ctx := context.Background()
	resp, err := b.FetchRecords(ctx, types.TableWeather, types.FetchParams{
		OrderBy: []types.OrderBy{{FieldName: "date_c", SortType: types.SortAsc}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "sunny", resp.Data[0]["condition_c"])
	assert.Equal(t, int64(7), resp.Data[0].ID())

	created, err := b.CreateRecord(ctx, types.TableWeather, types.WriteParams{Records: []types.Record{{"date_c": "2025-06-03"}}})
	require.NoError(t, err)
	assert.Equal(t, int64(8), created.Results[0].Data.ID())
}

func TestWriteJSONLLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task_c.jsonl")
	require.NoError(t, writeJSONL(path, []row{{ID: 1, Fields: types.Record{"title_c": "Water"}}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "task_c.jsonl", entries[0].Name())
	assert.Equal(t, types.TableTasks, tableFromPath(path))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
