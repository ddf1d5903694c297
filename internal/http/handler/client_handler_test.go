package handler_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/http/handler"
	"github.com/straye-as/pipeline-api/internal/repository"
	"github.com/straye-as/pipeline-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.November, 18, 15, 30, 0, 0, time.UTC)

// setupClientRouter mounts a ClientHandler over the seed collection the same way the API router does
func setupClientRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := zap.NewNop()
	repo := repository.NewClientRepository(context.Background(), repository.NewMemoryStore(), logger,
		repository.WithClock(func() time.Time { return fixedNow }),
	)
	h := handler.NewClientHandler(service.NewClientService(repo, logger), logger)

	r := chi.NewRouter()
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/metrics", h.Metrics)
		r.Get("/export", h.Export)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/notes", h.AddNote)
		r.Post("/{id}/followups", h.ScheduleFollowup)
		r.Put("/{id}/status", h.UpdateStatus)
	})
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func names(dtos []domain.ClientDTO) []string {
	out := make([]string, len(dtos))
	for i := range dtos {
		out[i] = dtos[i].Name
	}
	return out
}

// ============================================================================
// List, metrics & export
// ============================================================================

func TestClientHandler_List(t *testing.T) {
	r := setupClientRouter(t)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"everything in insertion order", "", []string{"Acme Corporation", "TechStart Inc", "Global Solutions Ltd", "FutureTech Systems", "Innovation Hub"}},
		{"search is case-insensitive", "?search=TECH", []string{"TechStart Inc", "FutureTech Systems"}},
		{"search matches email", "?search=globalsolutions.com", []string{"Global Solutions Ltd"}},
		{"stage filter", "?stage=won", []string{"Global Solutions Ltd"}},
		{"status filter", "?status=In%20Negotiation", []string{"Acme Corporation", "FutureTech Systems"}},
		{"status none", "?status=none", []string{"Innovation Hub"}},
		{"combined filters", "?priority=high&status=In%20Negotiation&search=acme", []string{"Acme Corporation"}},
		{"sort by value descending", "?sortBy=valueNumeric&sortDir=desc", []string{"Global Solutions Ltd", "FutureTech Systems", "Acme Corporation", "TechStart Inc", "Innovation Hub"}},
		{"sort by name", "?sortBy=name", []string{"Acme Corporation", "FutureTech Systems", "Global Solutions Ltd", "Innovation Hub", "TechStart Inc"}},
		{"no match", "?search=zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, r, http.MethodGet, "/clients"+tt.query, nil)
			require.Equal(t, http.StatusOK, rr.Code)

			res := decode[domain.ClientListResponse](t, rr)
			assert.Equal(t, tt.expected, names(res.Data))
			assert.Equal(t, len(tt.expected), res.Total)
			assert.Equal(t, len(tt.expected), res.Metrics.TotalClients)
		})
	}

	t.Run("invalid filters are rejected", func(t *testing.T) {
		for _, q := range []string{"?stage=Closed", "?status=Pending", "?priority=urgent", "?sortBy=revenue"} {
			rr := doRequest(t, r, http.MethodGet, "/clients"+q, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code, q)
		}
	})
}

func TestClientHandler_Metrics(t *testing.T) {
	r := setupClientRouter(t)

	rr := doRequest(t, r, http.MethodGet, "/clients/metrics?priority=high", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	m := decode[domain.PipelineMetrics](t, rr)
	assert.Equal(t, 3, m.TotalClients)
	assert.Equal(t, 1, m.WonClients)
	assert.Equal(t, 2, m.NegotiationClients)
	assert.Equal(t, 0, m.RejectedClients)
	assert.Equal(t, "$0.99M", m.FormattedPipeline)
}

func TestClientHandler_Export(t *testing.T) {
	r := setupClientRouter(t)

	rr := doRequest(t, r, http.MethodGet, "/clients/export?stage=Lead", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="clients-export.csv"`, rr.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(rr.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Client Name", records[0][0])
	assert.Equal(t, "Innovation Hub", records[1][0])
	assert.Equal(t, "—", records[1][5])
}

// ============================================================================
// CRUD
// ============================================================================

func TestClientHandler_GetByID(t *testing.T) {
	r := setupClientRouter(t)

	t.Run("found", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodGet, "/clients/1", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		dto := decode[domain.ClientDTO](t, rr)
		assert.Equal(t, "Acme Corporation", dto.Name)
		assert.Equal(t, "bg-blue-500", dto.StageColor)
		assert.Equal(t, "text-yellow-600", dto.StatusColor)
	})

	t.Run("not found", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodGet, "/clients/99", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Not Found","message":"Client not found"}`, rr.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodGet, "/clients/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestClientHandler_Create(t *testing.T) {
	r := setupClientRouter(t)

	valid := map[string]string{
		"name":             "Northwind Traders",
		"contactPerson":    "Ana Trujillo",
		"email":            "ana@northwind.com",
		"phone":            "+1 234-567-8910",
		"stage":            "Proposal Sent",
		"proposalStatus":   "On Hold",
		"priority":         "medium",
		"projectValue":     "$75K",
		"firstContactDate": "2025-11-10",
		"lastFollowup":     "11/12/2025",
		"nextFollowup":     "11/26/2025",
	}

	t.Run("creates with derived fields", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPost, "/clients", valid)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "/api/v1/clients/6", rr.Header().Get("Location"))

		dto := decode[domain.ClientDTO](t, rr)
		assert.Equal(t, 6, dto.ID)
		assert.InDelta(t, 75_000, dto.ValueNumeric, 0.001)
		assert.Equal(t, 8, dto.DaysInPipeline)
		assert.Equal(t, "bg-purple-500", dto.StageColor)
		assert.Equal(t, "text-orange-600", dto.StatusColor)
		require.Len(t, dto.History, 1)
		assert.Equal(t, "Client created", dto.History[0].Action)
	})

	t.Run("validation errors per field", func(t *testing.T) {
		body := map[string]string{}
		for k, v := range valid {
			body[k] = v
		}
		body["email"] = "not-an-email"
		body["stage"] = "Closed"
		body["firstContactDate"] = "11/10/2025"
		delete(body, "name")

		rr := doRequest(t, r, http.MethodPost, "/clients", body)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		apiErr := decode[domain.APIError](t, rr)
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Equal(t, "name is required", apiErr.Errors["name"])
		assert.Equal(t, "Must be a valid email address", apiErr.Errors["email"])
		assert.Contains(t, apiErr.Errors["stage"], "Must be one of")
		assert.Equal(t, "Must be a date in YYYY-MM-DD format", apiErr.Errors["firstContactDate"])
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestClientHandler_Update(t *testing.T) {
	r := setupClientRouter(t)

	t.Run("patch merges fields", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPatch, "/clients/2", map[string]string{"proposalStatus": "none", "projectValue": "$200K"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		dto := decode[domain.ClientDTO](t, rr)
		assert.Equal(t, "TechStart Inc", dto.Name)
		assert.Equal(t, domain.ProposalStatusNone, dto.ProposalStatus)
		assert.Equal(t, domain.DefaultStatusColor, dto.StatusColor)
		assert.InDelta(t, 200_000, dto.ValueNumeric, 0.001)
		assert.Equal(t, "Client updated", dto.History[0].Action)
	})

	t.Run("put behaves the same", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPut, "/clients/2", map[string]string{"firstContactDate": "2025-11-01"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 17, decode[domain.ClientDTO](t, rr).DaysInPipeline)
	})

	t.Run("unknown client", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPut, "/clients/77", map[string]string{"name": "Ghost"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid enum", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPatch, "/clients/2", map[string]string{"priority": "urgent"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestClientHandler_Delete(t *testing.T) {
	r := setupClientRouter(t)

	assert.Equal(t, http.StatusNoContent, doRequest(t, r, http.MethodDelete, "/clients/3", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, r, http.MethodDelete, "/clients/3", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, r, http.MethodGet, "/clients/3", nil).Code)
}

// ============================================================================
// Quick actions
// ============================================================================

func TestClientHandler_QuickActions(t *testing.T) {
	r := setupClientRouter(t)

	t.Run("add note", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPost, "/clients/5/notes", map[string]string{"note": "Discovery call booked"})
		require.Equal(t, http.StatusOK, rr.Code)

		dto := decode[domain.ClientDTO](t, rr)
		assert.True(t, strings.HasSuffix(dto.Notes, "\nDiscovery call booked"))
	})

	t.Run("blank note", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPost, "/clients/5/notes", map[string]string{"note": "   "})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Must not be blank", decode[domain.APIError](t, rr).Errors["note"])
	})

	t.Run("schedule follow-up", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPost, "/clients/5/followups", map[string]string{"date": "2025-12-01"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "12/01/2025", decode[domain.ClientDTO](t, rr).NextFollowup)
	})

	t.Run("follow-up needs an iso date", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPost, "/clients/5/followups", map[string]string{"date": "12/01/2025"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("update status", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPut, "/clients/5/status", map[string]string{"stage": "Qualified", "proposalStatus": "In Negotiation"})
		require.Equal(t, http.StatusOK, rr.Code)

		dto := decode[domain.ClientDTO](t, rr)
		assert.Equal(t, domain.StageQualified, dto.Stage)
		assert.Equal(t, domain.ProposalStatusInNegotiation, dto.ProposalStatus)
		// three quick actions, each prepending an update entry to the two seeded ones
		assert.Len(t, dto.History, 5)
	})

	t.Run("unknown client", func(t *testing.T) {
		rr := doRequest(t, r, http.MethodPost, "/clients/123/notes", map[string]string{"note": "hello"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// ============================================================================
// Health
// ============================================================================

func TestHealthHandler(t *testing.T) {
	h := handler.NewHealthHandler(zap.NewNop())
	h.Register("database", func(ctx context.Context) error { return nil })

	r := chi.NewRouter()
	r.Get("/health", h.Live)
	r.Get("/health/ready", h.Ready)

	rr := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = doRequest(t, r, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","checks":{"database":{"status":"healthy"}}}`, rr.Body.String())

	h.Register("storage", func(ctx context.Context) error { return errors.New("connection refused") })
	rr = doRequest(t, r, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"database":{"status":"healthy"},"storage":{"status":"unhealthy","error":"connection refused"}}}`, rr.Body.String())
}
