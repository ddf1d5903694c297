package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/http/metrics"
	"github.com/straye-as/pipeline-api/internal/logger"
	"github.com/straye-as/pipeline-api/internal/mapper"
	"github.com/straye-as/pipeline-api/internal/query"
	"github.com/straye-as/pipeline-api/internal/report"
	"github.com/straye-as/pipeline-api/internal/repository"
	"go.uber.org/zap"
)

const (
	opCreate           = "create"
	opUpdate           = "update"
	opDelete           = "delete"
	opAddNote          = "add_note"
	opScheduleFollowup = "schedule_followup"
	opUpdateStatus     = "update_status"
)

type ClientService struct {
	repo   *repository.ClientRepository
	logger *zap.Logger
}

func NewClientService(repo *repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the filtered and sorted view together with the metrics of
// exactly the clients in that view
func (s *ClientService) List(ctx context.Context, view query.View) domain.ClientListResponse {
	clients := view.Run(s.repo.List(ctx))
	return domain.ClientListResponse{
		Data:    mapper.ToClientDTOs(clients),
		Total:   len(clients),
		Sort:    mapper.ToSortDTO(view.Sort),
		Metrics: report.Summarize(clients),
	}
}

// Metrics summarizes the filtered view
func (s *ClientService) Metrics(ctx context.Context, filter query.Filter) domain.PipelineMetrics {
	return report.Summarize(query.Apply(s.repo.List(ctx), filter))
}

// Export writes the filtered and sorted view as CSV
func (s *ClientService) Export(ctx context.Context, w io.Writer, view query.View) (int, error) {
	clients := view.Run(s.repo.List(ctx))
	if err := report.WriteCSV(w, clients); err != nil {
		return 0, fmt.Errorf("failed to write export: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("download").Inc()
	return len(clients), nil
}

// All returns every client in insertion order
func (s *ClientService) All(ctx context.Context) []domain.Client {
	return s.repo.List(ctx)
}

func (s *ClientService) GetByID(ctx context.Context, id int) (*domain.ClientDTO, error) {
	client, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrClientNotFound
	}
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	fields, err := mapper.ToClientFields(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	client, err := s.repo.Create(ctx, fields)
	if err != nil {
		s.record(opCreate, err)
		return nil, mapper.FormatError("client", "create", err)
	}
	s.record(opCreate, nil)

	logger.WithClient(s.logger, client.ID).Info("Client created",
		zap.String("name", client.Name),
		zap.String("stage", string(client.Stage)),
	)

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Update(ctx context.Context, id int, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	patch, err := mapper.ToClientPatch(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.apply(ctx, opUpdate, id, func(domain.Client) domain.ClientPatch { return patch })
}

func (s *ClientService) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.record(opDelete, err)
		return mapper.FormatError("client", "delete", err)
	}
	if !deleted {
		s.record(opDelete, ErrClientNotFound)
		return ErrClientNotFound
	}
	s.record(opDelete, nil)

	logger.WithClient(s.logger, id).Info("Client deleted")
	return nil
}

// AddNote appends a note to the client's notes
func (s *ClientService) AddNote(ctx context.Context, id int, req *domain.AddNoteRequest) (*domain.ClientDTO, error) {
	note := strings.TrimSpace(req.Note)
	if note == "" {
		return nil, fmt.Errorf("%w: note is required", ErrInvalidInput)
	}
	return s.apply(ctx, opAddNote, id, withNote(domain.ClientPatch{}, note))
}

// ScheduleFollowup sets the next follow-up date and appends optional notes
func (s *ClientService) ScheduleFollowup(ctx context.Context, id int, req *domain.ScheduleFollowupRequest) (*domain.ClientDTO, error) {
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	next := date.Format(domain.DisplayDateLayout)
	return s.apply(ctx, opScheduleFollowup, id, withNote(domain.ClientPatch{NextFollowup: &next}, req.Notes))
}

// UpdateStatus moves the client to a new stage and proposal status
func (s *ClientService) UpdateStatus(ctx context.Context, id int, req *domain.UpdateStatusRequest) (*domain.ClientDTO, error) {
	stage, ok := domain.ParseStage(req.Stage)
	if !ok {
		return nil, fmt.Errorf("%w: invalid stage: %q", ErrInvalidInput, req.Stage)
	}
	status, ok := domain.ParseProposalStatus(req.ProposalStatus)
	if !ok {
		return nil, fmt.Errorf("%w: invalid proposal status: %q", ErrInvalidInput, req.ProposalStatus)
	}
	patch := domain.ClientPatch{Stage: &stage, ProposalStatus: &status}
	return s.apply(ctx, opUpdateStatus, id, withNote(patch, req.Notes))
}

// RefreshDerived recomputes daysInPipeline for every client and refreshes the pipeline gauges
func (s *ClientService) RefreshDerived(ctx context.Context) (int, error) {
	changed, err := s.repo.RefreshDerived(ctx)
	if err != nil {
		return 0, mapper.FormatError("clients", "refresh", err)
	}
	metrics.ObservePipeline(s.repo.List(ctx))
	return changed, nil
}

func (s *ClientService) apply(ctx context.Context, op string, id int, build func(domain.Client) domain.ClientPatch) (*domain.ClientDTO, error) {
	client, err := s.repo.UpdateFunc(ctx, id, build)
	if err != nil {
		s.record(op, err)
		return nil, mapper.FormatError("client", "update", err)
	}
	if client == nil {
		s.record(op, ErrClientNotFound)
		return nil, ErrClientNotFound
	}
	s.record(op, nil)

	logger.WithClient(s.logger, id).Info("Client updated",
		zap.String("operation", op),
		zap.String("stage", string(client.Stage)),
	)

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) record(op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrClientNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.ClientMutationsTotal.WithLabelValues(op, result).Inc()
}

// withNote returns a patch builder that also appends note, when non-blank, to
// the current notes
func withNote(patch domain.ClientPatch, note string) func(domain.Client) domain.ClientPatch {
	note = strings.TrimSpace(note)
	return func(current domain.Client) domain.ClientPatch {
		if note == "" {
			return patch
		}
		notes := note
		if strings.TrimSpace(current.Notes) != "" {
			notes = current.Notes + "\n" + note
		}
		patch.Notes = &notes
		return patch
	}
}
