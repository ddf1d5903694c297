package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/straye-as/pipeline-api/internal/domain"
)

// ErrNoState is returned by a Store that has never been written
var ErrNoState = errors.New("no persisted client state")

// Store persists the whole client collection at once.
// Load returns ErrNoState when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) ([]domain.Client, error)
	Save(ctx context.Context, clients []domain.Client) error
}

// MemoryStore keeps the collection in process memory
type MemoryStore struct {
	mu      sync.Mutex
	clients []domain.Client
	saved   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return nil, ErrNoState
	}
	return cloneClients(s.clients), nil
}

func (s *MemoryStore) Save(ctx context.Context, clients []domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients = cloneClients(clients)
	s.saved = true
	return nil
}

func cloneClients(clients []domain.Client) []domain.Client {
	out := make([]domain.Client, len(clients))
	for i := range clients {
		out[i] = clients[i].Clone()
	}
	return out
}
