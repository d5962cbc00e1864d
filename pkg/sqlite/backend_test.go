package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func TestOpenPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	resp, err := store.CreateRecord(ctx, types.TableFarms, types.WriteParams{
		Records: []types.Record{{"name_c": "Green Acres"}},
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NoError(t, store.Close())

	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.GetRecordByID(ctx, types.TableFarms, 1, types.FetchParams{})
	require.NoError(t, err)
	require.True(t, got.Success)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Green Acres", got.Data[0]["name_c"])
}

func TestOpenRejectsEmptyDir(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, types.ErrDataDirEmpty)
}
