package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/storage"
)

// DefaultStateKey is the object key of the persisted collection
const DefaultStateKey = "crm_clients.json"

// BlobStore keeps the collection as one JSON document in object storage
type BlobStore struct {
	storage storage.Storage
	key     string
}

func NewBlobStore(s storage.Storage, key string) *BlobStore {
	if key == "" {
		key = DefaultStateKey
	}
	return &BlobStore{storage: s, key: key}
}

func (s *BlobStore) Load(ctx context.Context) ([]domain.Client, error) {
	rc, err := s.storage.Download(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("failed to read client state: %w", err)
	}
	defer rc.Close()

	var clients []domain.Client
	if err := json.NewDecoder(rc).Decode(&clients); err != nil {
		return nil, fmt.Errorf("failed to decode client state: %w", err)
	}
	return clients, nil
}

func (s *BlobStore) Save(ctx context.Context, clients []domain.Client) error {
	if clients == nil {
		clients = []domain.Client{}
	}
	payload, err := json.Marshal(clients)
	if err != nil {
		return fmt.Errorf("failed to encode client state: %w", err)
	}
	if _, err := s.storage.Upload(ctx, s.key, "application/json", bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("failed to write client state: %w", err)
	}
	return nil
}
