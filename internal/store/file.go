package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// FileStore is a MemoryStore persisted as a JSON snapshot. Every successful
// write rewrites the snapshot, so a single-user CLI keeps its inventory
// between invocations without a database.
//
// A write whose snapshot cannot be saved is rolled back in memory, so the
// process never sees state that is not on disk.
type FileStore struct {
	*MemoryStore
	path    string
	writeMu sync.Mutex
}

type snapshot struct {
	NextID    int64             `json:"next_id"`
	Resources []models.Resource `json:"resources"`
}

// OpenFileStore loads the snapshot at path. A missing file yields an empty
// store. A snapshot holding invalid records, duplicate ids or duplicate
// names is rejected with every problem listed.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{MemoryStore: NewMemoryStore(), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", path, err)
	}
	if err := checkSnapshot(snap.Resources); err != nil {
		return nil, fmt.Errorf("load store %s: %w", path, err)
	}

	m := fs.MemoryStore
	for _, r := range snap.Resources {
		m.byID[r.ID] = r
		m.byName[r.Name] = r.ID
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	if snap.NextID > m.nextID {
		m.nextID = snap.NextID
	}
	return fs, nil
}

func checkSnapshot(resources []models.Resource) error {
	var errs []error
	ids := make(map[int64]struct{}, len(resources))
	names := make(map[string]int64, len(resources))
	for _, r := range resources {
		if r.ID <= 0 {
			errs = append(errs, fmt.Errorf("resource %q: invalid id %d", r.Name, r.ID))
		} else if _, dup := ids[r.ID]; dup {
			errs = append(errs, fmt.Errorf("resource %q: duplicate id %d", r.Name, r.ID))
		}
		ids[r.ID] = struct{}{}

		if first, dup := names[r.Name]; dup {
			errs = append(errs, fmt.Errorf("resource %d: name %q duplicates resource %d", r.ID, r.Name, first))
		} else {
			names[r.Name] = r.ID
		}

		if err := r.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *FileStore) Create(ctx context.Context, r *models.Resource) error {
	return s.write(ctx, func() error {
		return s.MemoryStore.Create(ctx, r)
	})
}

func (s *FileStore) Upsert(ctx context.Context, r *models.Resource) (bool, error) {
	var created bool
	err := s.write(ctx, func() error {
		var err error
		created, err = s.MemoryStore.Upsert(ctx, r)
		return err
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *FileStore) Delete(ctx context.Context, id int64) error {
	return s.write(ctx, func() error {
		return s.MemoryStore.Delete(ctx, id)
	})
}

// write applies mutate and persists the result. When saving fails the
// in-memory state is restored to what it was before mutate ran.
func (s *FileStore) write(ctx context.Context, mutate func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.state()
	if err := mutate(); err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		s.restore(prev)
		return err
	}
	return nil
}

// save writes the snapshot to a temporary file and renames it into place.
// Callers must hold s.writeMu.
func (s *FileStore) save(ctx context.Context) error {
	resources, err := s.List(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	snap := snapshot{NextID: s.nextID, Resources: resources}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write store %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace store %s: %w", s.path, err)
	}
	return nil
}
