package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/straye-as/pipeline-api/internal/domain"
	"go.uber.org/zap"
)

// DefaultHistoryUser is recorded on history entries written by the repository
const DefaultHistoryUser = "Sales Team"

// ClientRepository is the single owner of the client collection. It assigns
// identity, computes derived fields, appends history and writes the whole
// collection through its Store after every mutation.
type ClientRepository struct {
	mu          sync.Mutex
	store       Store
	logger      *zap.Logger
	clients     []domain.Client
	now         func() time.Time
	historyUser string
	seed        func() []domain.Client
}

// Option configures a ClientRepository
type Option func(*ClientRepository)

// WithClock overrides the time source used for derived fields and history dates
func WithClock(now func() time.Time) Option {
	return func(r *ClientRepository) {
		r.now = now
	}
}

// WithHistoryUser sets the user recorded on history entries
func WithHistoryUser(user string) Option {
	return func(r *ClientRepository) {
		if user != "" {
			r.historyUser = user
		}
	}
}

// WithSeed replaces the collection used when the store has no usable state
func WithSeed(seed func() []domain.Client) Option {
	return func(r *ClientRepository) {
		r.seed = seed
	}
}

// NewClientRepository loads the collection from store. A missing or unreadable
// state falls back to the seed collection.
func NewClientRepository(ctx context.Context, store Store, logger *zap.Logger, opts ...Option) *ClientRepository {
	r := &ClientRepository{
		store:       store,
		logger:      logger,
		now:         time.Now,
		historyUser: DefaultHistoryUser,
		seed:        SeedClients,
	}
	for _, opt := range opts {
		opt(r)
	}

	clients, err := store.Load(ctx)
	switch {
	case err == nil:
		r.clients = clients
		logger.Info("Loaded persisted clients", zap.Int("count", len(clients)))
	case errors.Is(err, ErrNoState):
		r.clients = r.seed()
		logger.Info("No persisted clients, using seed collection", zap.Int("count", len(r.clients)))
	default:
		r.clients = r.seed()
		logger.Warn("Failed to load persisted clients, using seed collection",
			zap.Error(err),
			zap.Int("count", len(r.clients)),
		)
	}
	if r.clients == nil {
		r.clients = []domain.Client{}
	}

	return r
}

// List returns a copy of every client in insertion order
func (r *ClientRepository) List(ctx context.Context) []domain.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneClients(r.clients)
}

// Get returns a copy of the client with the given id
func (r *ClientRepository) Get(ctx context.Context, id int) (*domain.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, false
	}
	c := r.clients[i].Clone()
	return &c, true
}

// Create appends a new client with the next id and a single creation history entry
func (r *ClientRepository) Create(ctx context.Context, fields domain.ClientFields) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	client := domain.Client{
		ID:               r.nextID(),
		Name:             fields.Name,
		Stage:            fields.Stage,
		LastFollowup:     fields.LastFollowup,
		NextFollowup:     fields.NextFollowup,
		ProposalStatus:   fields.ProposalStatus,
		ProjectValue:     fields.ProjectValue,
		ValueNumeric:     fields.ValueNumeric,
		Priority:         fields.Priority,
		DaysInPipeline:   domain.DaysInPipelineSince(fields.FirstContactDate, now),
		FirstContactDate: fields.FirstContactDate,
		ContactPerson:    fields.ContactPerson,
		Email:            fields.Email,
		Phone:            fields.Phone,
		Notes:            fields.Notes,
		History:          []domain.HistoryEntry{r.historyEntry(domain.HistoryActionCreated, now)},
	}
	client.RefreshColors()

	prev := r.clients
	next := make([]domain.Client, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, client)

	if err := r.commit(ctx, prev, next); err != nil {
		return nil, err
	}

	out := client.Clone()
	return &out, nil
}

// Update merges patch into the client with the given id and prepends an update
// history entry. It returns nil without error when the id is unknown.
func (r *ClientRepository) Update(ctx context.Context, id int, patch domain.ClientPatch) (*domain.Client, error) {
	return r.UpdateFunc(ctx, id, func(domain.Client) domain.ClientPatch { return patch })
}

// UpdateFunc is Update with a patch computed from the current record while the
// repository lock is held, for read-modify-write changes such as appending notes.
func (r *ClientRepository) UpdateFunc(ctx context.Context, id int, build func(current domain.Client) domain.ClientPatch) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}

	now := r.now()
	client := r.clients[i].Clone()
	patch := build(client.Clone())
	patch.Apply(&client)
	if patch.FirstContactDate != nil {
		client.DaysInPipeline = domain.DaysInPipelineSince(client.FirstContactDate, now)
	}
	client.RefreshColors()
	client.History = append([]domain.HistoryEntry{r.historyEntry(domain.HistoryActionUpdated, now)}, client.History...)

	prev := r.clients
	next := make([]domain.Client, len(prev))
	copy(next, prev)
	next[i] = client

	if err := r.commit(ctx, prev, next); err != nil {
		return nil, err
	}

	out := client.Clone()
	return &out, nil
}

// Delete removes the client with the given id and reports whether it existed
func (r *ClientRepository) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}

	prev := r.clients
	next := make([]domain.Client, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)

	if err := r.commit(ctx, prev, next); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshDerived recomputes DaysInPipeline for every client against the current
// clock without touching history. It returns the number of clients that changed.
func (r *ClientRepository) RefreshDerived(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	prev := r.clients
	next := make([]domain.Client, len(prev))
	copy(next, prev)

	changed := 0
	for i := range next {
		days := domain.DaysInPipelineSince(next[i].FirstContactDate, now)
		if days != next[i].DaysInPipeline {
			next[i].DaysInPipeline = days
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if err := r.commit(ctx, prev, next); err != nil {
		return 0, err
	}
	return changed, nil
}

// commit persists next and makes it current. On failure prev stays current.
// Must be called with r.mu held.
func (r *ClientRepository) commit(ctx context.Context, prev, next []domain.Client) error {
	if err := r.store.Save(ctx, next); err != nil {
		r.clients = prev
		r.logger.Error("Failed to persist clients", zap.Error(err))
		return fmt.Errorf("failed to save clients: %w", err)
	}
	r.clients = next
	return nil
}

func (r *ClientRepository) indexOf(id int) int {
	for i := range r.clients {
		if r.clients[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *ClientRepository) nextID() int {
	maxID := 0
	for i := range r.clients {
		if r.clients[i].ID > maxID {
			maxID = r.clients[i].ID
		}
	}
	return maxID + 1
}

func (r *ClientRepository) historyEntry(action string, now time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		Date:   now.Format(domain.DisplayDateLayout),
		Action: action,
		User:   r.historyUser,
	}
}
