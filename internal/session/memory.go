package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a map, purging expired records whenever it's accessed
type MemoryStore struct {
	records map[string]memoryRecord
	mu      sync.Mutex
	now     func() time.Time
}

type memoryRecord struct {
	values    Values
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (Values, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge()
	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return record.values.clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, values Values, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge()
	s.records[id] = memoryRecord{
		values:    values.clone(),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// purge drops all expired records; callers must hold s.mu
func (s *MemoryStore) purge() {
	now := s.now()
	for id, record := range s.records {
		if record.expiresAt.Before(now) {
			delete(s.records, id)
		}
	}
}
