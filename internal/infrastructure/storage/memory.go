package storage

import (
	"fmt"
	"sync"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
)

// MemoryStore держит записи в памяти процесса.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int]domain.ReplayRecord
	nextID  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int]domain.ReplayRecord)}
}

func (s *MemoryStore) Save(rec domain.ReplayRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.records[id] = rec.Clone()
	s.nextID++
	return id, nil
}

func (s *MemoryStore) LoadByID(id int) (domain.ReplayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.ReplayRecord{}, fmt.Errorf("load replay %d: %w", id, domain.ErrRecordNotFound)
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[int]domain.ReplayRecord)
	s.nextID = 0
	return nil
}
