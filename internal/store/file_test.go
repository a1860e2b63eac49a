package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "resources.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, sampleResource("a", 10)))
	require.NoError(t, s.Create(ctx, sampleResource("b", 20)))
	require.NoError(t, s.Delete(ctx, 1))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name)
	assert.Equal(t, 15.0, *list[0].CPUUtilization)

	// IDs are never reused after a delete.
	c := sampleResource("c", 5)
	require.NoError(t, reopened.Create(ctx, c))
	assert.Equal(t, int64(3), c.ID)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := OpenFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_RejectsInconsistentSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.json")
	snapshot := `{"next_id": 4, "resources": [
  {"id": 1, "name": "web", "resource_type": "compute", "provider": "aws", "instance_type": "t3.small", "monthly_cost": 15},
  {"id": 2, "name": "web", "resource_type": "compute", "provider": "aws", "instance_type": "t3.large", "monthly_cost": 60},
  {"id": 2, "name": "free", "resource_type": "compute", "provider": "aws", "instance_type": "t3.nano", "monthly_cost": 0}
]}`
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))

	_, err := OpenFileStore(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, `name "web" duplicates resource 1`)
	assert.ErrorContains(t, err, "duplicate id 2")
	assert.ErrorContains(t, err, "monthly_cost")
}

func TestFileStore_FailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resources.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, sampleResource("a", 10)))

	// A non-empty directory in place of the snapshot makes the rename fail.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))

	require.Error(t, s.Create(ctx, sampleResource("b", 20)))
	_, err = s.Upsert(ctx, sampleResource("a", 99))
	require.Error(t, err)
	require.Error(t, s.Delete(ctx, 1))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, 10.0, list[0].MonthlyCost)
	_, err = s.GetByName(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)

	// Once the snapshot is writable again the next id was not consumed.
	require.NoError(t, os.RemoveAll(path))
	b := sampleResource("b", 20)
	require.NoError(t, s.Create(ctx, b))
	assert.Equal(t, int64(2), b.ID)
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	s, err := Open(ctx, Options{Driver: DriverMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "r.json")}, logger)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Driver: DriverFile}, logger)
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: DriverPostgres}, logger)
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "sqlite"}, logger)
	assert.ErrorContains(t, err, "unknown store driver")
}
