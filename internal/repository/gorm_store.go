package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/straye-as/pipeline-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stateRowID is the primary key of the only pipeline_state row
const stateRowID = 1

// GormStore keeps the collection in the clients and client_history tables.
// Ids are assigned as max+1, so ordering by id reproduces insertion order.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load reads every client with its history newest-first. ErrNoState is
// returned only when nothing was ever saved; an emptied collection loads as
// zero clients.
func (s *GormStore) Load(ctx context.Context) ([]domain.Client, error) {
	db := s.db.WithContext(ctx)

	var clients []domain.Client
	if err := db.Order("id ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	if len(clients) == 0 {
		var saves int64
		if err := db.Model(&domain.PipelineState{}).Count(&saves).Error; err != nil {
			return nil, fmt.Errorf("failed to load pipeline state: %w", err)
		}
		if saves == 0 {
			return nil, ErrNoState
		}
		return []domain.Client{}, nil
	}

	var rows []domain.ClientHistory
	if err := db.Order("client_id ASC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load client history: %w", err)
	}

	history := make(map[int][]domain.HistoryEntry, len(clients))
	for _, row := range rows {
		history[row.ClientID] = append(history[row.ClientID], domain.HistoryEntry{
			Date:   row.Date,
			Action: row.Action,
			User:   row.User,
		})
	}
	for i := range clients {
		clients[i].History = history[clients[i].ID]
		if clients[i].History == nil {
			clients[i].History = []domain.HistoryEntry{}
		}
	}

	return clients, nil
}

// Save replaces both tables with clients and marks the state as written,
// all inside one transaction
func (s *GormStore) Save(ctx context.Context, clients []domain.Client) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state := domain.PipelineState{ID: stateRowID, ClientCount: len(clients), SavedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&state).Error; err != nil {
			return fmt.Errorf("failed to record pipeline state: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&domain.ClientHistory{}).Error; err != nil {
			return fmt.Errorf("failed to clear client history: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&domain.Client{}).Error; err != nil {
			return fmt.Errorf("failed to clear clients: %w", err)
		}
		if len(clients) == 0 {
			return nil
		}

		rows := make([]domain.Client, len(clients))
		copy(rows, clients)
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return fmt.Errorf("failed to insert clients: %w", err)
		}

		var history []domain.ClientHistory
		for _, c := range clients {
			// oldest first so row ids grow with recency
			for i := len(c.History) - 1; i >= 0; i-- {
				h := c.History[i]
				history = append(history, domain.ClientHistory{
					ClientID: c.ID,
					Date:     h.Date,
					Action:   h.Action,
					User:     h.User,
				})
			}
		}
		if len(history) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&history, 200).Error; err != nil {
			return fmt.Errorf("failed to insert client history: %w", err)
		}
		return nil
	})
}
