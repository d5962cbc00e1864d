package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func setupBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: filepath.Join(tmpDir, "nested", "data"),
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	dbPath := filepath.Join(config.DataDir, DBFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", DBFile)
	}

	if err := b.Attach(config); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite})
	if !errors.Is(err, types.ErrDataDirEmpty) {
		t.Errorf("expected ErrDataDirEmpty, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b, _ := setupBackend(t)

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	ctx := context.Background()
	if _, err := b.FetchRecords(ctx, types.TableCrops, types.FetchParams{}); !errors.Is(err, ErrDetached) {
		t.Errorf("expected ErrDetached from fetch, got %v", err)
	}
	if _, err := b.CreateRecord(ctx, types.TableCrops, types.WriteParams{}); !errors.Is(err, ErrDetached) {
		t.Errorf("expected ErrDetached from create, got %v", err)
	}
}

func TestBackend_ReattachRestoresData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	resp, err := b1.CreateRecord(ctx, types.TableFarms, types.WriteParams{Records: []types.Record{
		{"name_c": "North Field", "size_c": 12.5},
		{"name_c": "River Farm"},
	}})
	if err != nil || !resp.Success {
		t.Fatalf("CreateRecord failed: %v %+v", err, resp)
	}
	if _, err := b1.DeleteRecord(ctx, types.TableFarms, types.DeleteParams{RecordIDs: []int64{2}}); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	if err := b1.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	b2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer b2.Detach()

	got, err := b2.GetRecordByID(ctx, types.TableFarms, 1, types.FetchParams{})
	if err != nil || !got.Success {
		t.Fatalf("GetRecordByID after reattach: %v %+v", err, got)
	}
	if got.Data[0]["name_c"] != "North Field" || got.Data[0]["size_c"] != 12.5 {
		t.Errorf("unexpected record after reattach: %v", got.Data[0])
	}

	// Identities are never reused, even after the highest row is deleted.
	created, err := b2.CreateRecord(ctx, types.TableFarms, types.WriteParams{Records: []types.Record{{"name_c": "Hill"}}})
	if err != nil {
		t.Fatalf("CreateRecord after reattach: %v", err)
	}
	if id := created.Results[0].Data.ID(); id != 3 {
		t.Errorf("expected id 3, got %d", id)
	}
}
