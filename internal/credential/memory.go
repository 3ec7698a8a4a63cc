package credential

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[Service]string
}

// NewMemoryStore creates a new in-memory secret store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[Service]string)}
}

func (s *MemoryStore) Read(svc Service) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.secrets[svc]
	if !ok {
		return "", notFound(svc)
	}
	return val, nil
}

func (s *MemoryStore) Write(svc Service, blob string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[svc] = blob
	return nil
}

func (s *MemoryStore) Delete(svc Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, svc)
	return nil
}

// Services lists stored services by name. Tests use it to check cleanup.
func (s *MemoryStore) Services() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.secrets))
	for svc := range s.secrets {
		names = append(names, svc.String())
	}
	sort.Strings(names)
	return names
}
