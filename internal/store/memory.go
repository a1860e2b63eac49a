package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// MemoryStore is a process-local Store. IDs are assigned sequentially from 1.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.Resource
	byName map[string]int64
	now    func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		byID:   make(map[int64]models.Resource),
		byName: make(map[string]int64),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) List(_ context.Context) ([]models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Resource, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, cloneResource(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("get resource %d: %w", id, ErrNotFound)
	}
	r = cloneResource(r)
	return &r, nil
}

func (s *MemoryStore) GetByName(_ context.Context, name string) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("get resource %q: %w", name, ErrNotFound)
	}
	r := cloneResource(s.byID[id])
	return &r, nil
}

func (s *MemoryStore) Create(_ context.Context, r *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[r.Name]; exists {
		return fmt.Errorf("create resource %q: %w", r.Name, ErrDuplicateName)
	}
	s.insertLocked(r)
	return nil
}

func (s *MemoryStore) Upsert(_ context.Context, r *models.Resource) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byName[r.Name]
	if !exists {
		s.insertLocked(r)
		return true, nil
	}

	prev := s.byID[id]
	r.ID = id
	r.CreatedAt = prev.CreatedAt
	r.UpdatedAt = s.now()
	s.byID[id] = cloneResource(*r)
	return false, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("delete resource %d: %w", id, ErrNotFound)
	}
	delete(s.byID, id)
	delete(s.byName, r.Name)
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() {}

// memoryState is a point-in-time copy of a MemoryStore's contents.
type memoryState struct {
	nextID int64
	byID   map[int64]models.Resource
	byName map[string]int64
}

// state copies the store contents. Stored resources are replaced, never
// modified in place, so copying the maps is enough.
func (s *MemoryStore) state() memoryState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := memoryState{
		nextID: s.nextID,
		byID:   make(map[int64]models.Resource, len(s.byID)),
		byName: make(map[string]int64, len(s.byName)),
	}
	for id, r := range s.byID {
		st.byID[id] = r
	}
	for name, id := range s.byName {
		st.byName[name] = id
	}
	return st
}

func (s *MemoryStore) restore(st memoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = st.nextID
	s.byID = st.byID
	s.byName = st.byName
}

// insertLocked assigns identity and timestamps to r and stores a copy.
// Callers must hold s.mu for writing.
func (s *MemoryStore) insertLocked(r *models.Resource) {
	now := s.now()
	r.ID = s.nextID
	r.CreatedAt = now
	r.UpdatedAt = now
	s.nextID++
	s.byID[r.ID] = cloneResource(*r)
	s.byName[r.Name] = r.ID
}

// cloneResource deep-copies the optional measurement pointers so callers
// cannot reach stored state through a returned value.
func cloneResource(r models.Resource) models.Resource {
	r.CPUUtilization = clonePtr(r.CPUUtilization)
	r.MemoryUtilization = clonePtr(r.MemoryUtilization)
	r.StorageUsage = clonePtr(r.StorageUsage)
	return r
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
