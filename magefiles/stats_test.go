package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func TestTableRecords(t *testing.T) {
	dir := t.TempDir()
	farms := "{\"id\":1}\n{\"id\":2}\n\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, types.TableFarms+".jsonl"), []byte(farms), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, types.TableTasks+".jsonl"), []byte("{\"id\":7}\n"), 0o644))

	got, err := tableRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		types.TableFarms:      2,
		types.TableCrops:      0,
		types.TableTasks:      1,
		types.TableFinancials: 0,
		types.TableWeather:    0,
	}, got)
}
