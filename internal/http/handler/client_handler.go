package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/query"
	"github.com/straye-as/pipeline-api/internal/report"
	"github.com/straye-as/pipeline-api/internal/service"
	"go.uber.org/zap"
)

// ClientHandler handles HTTP requests for the client pipeline
type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new client handler instance
func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// List godoc
// @Summary List clients
// @Description Get the filtered and sorted client view with metrics for exactly that view
// @Tags Clients
// @Produce json
// @Param search query string false "Case-insensitive match on name, contact person or email"
// @Param stage query string false "Filter by stage" Enums(Lead, Qualified, Proposal Sent, In Negotiation, Won)
// @Param status query string false "Filter by proposal status" Enums(none, In Negotiation, On Hold, Proposal Rejected)
// @Param priority query string false "Filter by priority" Enums(low, medium, high)
// @Param sortBy query string false "Sort key" Enums(name, contactPerson, email, phone, stage, proposalStatus, priority, projectValue, valueNumeric, daysInPipeline, firstContactDate, lastFollowup, nextFollowup, notes)
// @Param sortDir query string false "Sort direction" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.ClientListResponse
// @Failure 400 {object} domain.ErrorResponse
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := parseView(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.clientService.List(r.Context(), view))
}

// Metrics godoc
// @Summary Pipeline metrics
// @Description Get dashboard metrics for the filtered view
// @Tags Clients
// @Produce json
// @Param search query string false "Case-insensitive match on name, contact person or email"
// @Param stage query string false "Filter by stage"
// @Param status query string false "Filter by proposal status"
// @Param priority query string false "Filter by priority"
// @Success 200 {object} domain.PipelineMetrics
// @Failure 400 {object} domain.ErrorResponse
// @Router /clients/metrics [get]
func (h *ClientHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.clientService.Metrics(r.Context(), filter))
}

// Export godoc
// @Summary Export clients
// @Description Download the filtered and sorted view as CSV
// @Tags Clients
// @Produce text/csv
// @Param search query string false "Case-insensitive match on name, contact person or email"
// @Param stage query string false "Filter by stage"
// @Param status query string false "Filter by proposal status"
// @Param priority query string false "Filter by priority"
// @Param sortBy query string false "Sort key"
// @Param sortDir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {file} file
// @Failure 400 {object} domain.ErrorResponse
// @Router /clients/export [get]
func (h *ClientHandler) Export(w http.ResponseWriter, r *http.Request) {
	view, err := parseView(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ExportFilename))
	w.WriteHeader(http.StatusOK)

	n, err := h.clientService.Export(r.Context(), w, view)
	if err != nil {
		// headers are already sent
		h.logger.Error("failed to export clients", zap.Error(err))
		return
	}
	h.logger.Debug("Exported clients", zap.Int("count", n))
}

// GetByID godoc
// @Summary Get client by ID
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "get")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Create godoc
// @Summary Create client
// @Description Create a new client. daysInPipeline, valueNumeric and the colors are derived.
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.ErrorResponse
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, err, "create")
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+strconv.Itoa(client.ID))
	respondJSON(w, http.StatusCreated, client)
}

// Update godoc
// @Summary Update client
// @Description Merge the supplied fields into an existing client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body domain.UpdateClientRequest true "Fields to change"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /clients/{id} [put]
// @Router /clients/{id} [patch]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateClientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "update")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Tags Clients
// @Param id path int true "Client ID"
// @Success 204
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "delete")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddNote godoc
// @Summary Add note
// @Description Append a note to the client's notes
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body domain.AddNoteRequest true "Note"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Router /clients/{id}/notes [post]
func (h *ClientHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	var req domain.AddNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.AddNote(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "add note to")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// ScheduleFollowup godoc
// @Summary Schedule follow-up
// @Description Set the next follow-up date, optionally appending notes
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body domain.ScheduleFollowupRequest true "Follow-up"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Router /clients/{id}/followups [post]
func (h *ClientHandler) ScheduleFollowup(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	var req domain.ScheduleFollowupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.ScheduleFollowup(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "schedule follow-up for")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// UpdateStatus godoc
// @Summary Update status
// @Description Move the client to a new stage and proposal status
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body domain.UpdateStatusRequest true "Status"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Router /clients/{id}/status [put]
func (h *ClientHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "update status of")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) handleError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		respondWithError(w, http.StatusNotFound, "Client not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+action+" client", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action+" client")
	}
}

func clientID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID")
		return 0, false
	}
	return id, true
}

// parseFilter reads search, stage, status and priority. An empty parameter
// leaves that filter unset; status=none selects clients without a status.
func parseFilter(r *http.Request) (query.Filter, error) {
	q := r.URL.Query()
	filter := query.Filter{Search: q.Get("search")}

	if v := q.Get("stage"); v != "" {
		stage, ok := domain.ParseStage(v)
		if !ok {
			return filter, fmt.Errorf("invalid stage filter: %q", v)
		}
		filter.Stage = &stage
	}
	if v := q.Get("status"); v != "" {
		status, ok := domain.ParseProposalStatus(v)
		if !ok {
			return filter, fmt.Errorf("invalid status filter: %q", v)
		}
		filter.Status = &status
	}
	if v := q.Get("priority"); v != "" {
		priority, ok := domain.ParsePriority(v)
		if !ok {
			return filter, fmt.Errorf("invalid priority filter: %q", v)
		}
		filter.Priority = &priority
	}
	return filter, nil
}

func parseView(r *http.Request) (query.View, error) {
	filter, err := parseFilter(r)
	if err != nil {
		return query.View{}, err
	}

	sortBy := r.URL.Query().Get("sortBy")
	key, ok := query.ParseSortKey(sortBy)
	if !ok {
		return query.View{}, fmt.Errorf("invalid sort key: %q", sortBy)
	}

	return query.View{
		Filter: filter,
		Sort: query.Sort{
			Key:       key,
			Direction: query.ParseDirection(r.URL.Query().Get("sortDir")),
		},
	}, nil
}
