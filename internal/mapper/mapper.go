package mapper

import (
	"fmt"

	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/query"
)

// ToClientDTO converts Client to ClientDTO. Colors are resolved from the
// enum values rather than copied from the record.
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	history := client.History
	if history == nil {
		history = []domain.HistoryEntry{}
	} else {
		history = append([]domain.HistoryEntry(nil), history...)
	}
	return domain.ClientDTO{
		ID:               client.ID,
		Name:             client.Name,
		Stage:            client.Stage,
		StageColor:       domain.ResolveStageColor(string(client.Stage)),
		LastFollowup:     client.LastFollowup,
		NextFollowup:     client.NextFollowup,
		ProposalStatus:   client.ProposalStatus,
		StatusColor:      domain.ResolveStatusColor(string(client.ProposalStatus)),
		ProjectValue:     client.ProjectValue,
		ValueNumeric:     client.ValueNumeric,
		Priority:         client.Priority,
		DaysInPipeline:   client.DaysInPipeline,
		FirstContactDate: client.FirstContactDate,
		ContactPerson:    client.ContactPerson,
		Email:            client.Email,
		Phone:            client.Phone,
		Notes:            client.Notes,
		History:          history,
	}
}

// ToClientDTOs converts a client list, keeping its order
func ToClientDTOs(clients []domain.Client) []domain.ClientDTO {
	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = ToClientDTO(&clients[i])
	}
	return dtos
}

// ToSortDTO echoes the active sort
func ToSortDTO(s query.Sort) domain.SortDTO {
	dir := s.Direction
	if dir == "" {
		dir = query.Ascending
	}
	return domain.SortDTO{Key: string(s.Key), Direction: string(dir)}
}

// ToClientFields converts a validated create request. Enum strings are parsed
// tolerantly; valueNumeric is always derived from projectValue.
func ToClientFields(req *domain.CreateClientRequest) (domain.ClientFields, error) {
	stage, ok := domain.ParseStage(req.Stage)
	if !ok {
		return domain.ClientFields{}, fmt.Errorf("invalid stage: %q", req.Stage)
	}
	status, ok := domain.ParseProposalStatus(req.ProposalStatus)
	if !ok {
		return domain.ClientFields{}, fmt.Errorf("invalid proposal status: %q", req.ProposalStatus)
	}
	priority, ok := domain.ParsePriority(req.Priority)
	if !ok {
		return domain.ClientFields{}, fmt.Errorf("invalid priority: %q", req.Priority)
	}

	return domain.ClientFields{
		Name:             req.Name,
		ContactPerson:    req.ContactPerson,
		Email:            req.Email,
		Phone:            req.Phone,
		Stage:            stage,
		ProposalStatus:   status,
		Priority:         priority,
		ProjectValue:     req.ProjectValue,
		ValueNumeric:     domain.ParseProjectValue(req.ProjectValue),
		FirstContactDate: req.FirstContactDate,
		LastFollowup:     req.LastFollowup,
		NextFollowup:     req.NextFollowup,
		Notes:            req.Notes,
	}, nil
}

// ToClientPatch converts a validated update request. A new projectValue also
// sets valueNumeric.
func ToClientPatch(req *domain.UpdateClientRequest) (domain.ClientPatch, error) {
	patch := domain.ClientPatch{
		Name:             req.Name,
		ContactPerson:    req.ContactPerson,
		Email:            req.Email,
		Phone:            req.Phone,
		ProjectValue:     req.ProjectValue,
		FirstContactDate: req.FirstContactDate,
		LastFollowup:     req.LastFollowup,
		NextFollowup:     req.NextFollowup,
		Notes:            req.Notes,
	}

	if req.Stage != nil {
		stage, ok := domain.ParseStage(*req.Stage)
		if !ok {
			return domain.ClientPatch{}, fmt.Errorf("invalid stage: %q", *req.Stage)
		}
		patch.Stage = &stage
	}
	if req.ProposalStatus != nil {
		status, ok := domain.ParseProposalStatus(*req.ProposalStatus)
		if !ok {
			return domain.ClientPatch{}, fmt.Errorf("invalid proposal status: %q", *req.ProposalStatus)
		}
		patch.ProposalStatus = &status
	}
	if req.Priority != nil {
		priority, ok := domain.ParsePriority(*req.Priority)
		if !ok {
			return domain.ClientPatch{}, fmt.Errorf("invalid priority: %q", *req.Priority)
		}
		patch.Priority = &priority
	}
	if req.ProjectValue != nil {
		value := domain.ParseProjectValue(*req.ProjectValue)
		patch.ValueNumeric = &value
	}

	return patch, nil
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
