package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
)

// fakeScriptStore is an in-memory store.ScriptRequestStore.
type fakeScriptStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*domain.ScriptRequest
	results  map[uuid.UUID]*domain.Script
}

func newFakeScriptStore() *fakeScriptStore {
	return &fakeScriptStore{
		requests: make(map[uuid.UUID]*domain.ScriptRequest),
		results:  make(map[uuid.UUID]*domain.Script),
	}
}

func (s *fakeScriptStore) Create(ctx context.Context, req *domain.ScriptRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *fakeScriptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScriptRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, store.ErrScriptRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *fakeScriptStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ScriptRequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return store.ErrScriptRequestNotFound
	}
	return req.UpdateStatus(status)
}

func (s *fakeScriptStore) SaveResult(ctx context.Context, id uuid.UUID, script *domain.Script) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return store.ErrScriptRequestNotFound
	}
	s.results[id] = script
	return req.UpdateStatus(domain.ScriptRequestStatusCompleted)
}

func (s *fakeScriptStore) GetResult(ctx context.Context, id uuid.UUID) (*domain.Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	script, ok := s.results[id]
	if !ok {
		return nil, store.ErrScriptNotReady
	}
	return script, nil
}

// fixedGenerator returns the same script for every request.
type fixedGenerator struct {
	script *domain.Script
}

func (g *fixedGenerator) GenerateScript(ctx context.Context, config json.RawMessage, maxUnits int) (*domain.Script, error) {
	return g.script, nil
}

func sampleGeneratedScript() *domain.Script {
	return &domain.Script{
		Rounds: []domain.Round{{
			RoundNumber: 1,
			UnitID:      "u1",
			Items: []domain.LearningItem{{
				ID:          "i1",
				Type:        domain.ItemTypeDebut,
				UnitID:      "u1",
				KnownText:   "water",
				TargetText:  "agua",
				RoundNumber: 1,
			}},
		}},
	}
}

func newScriptHandler(requests *fakeScriptStore) *ScriptHandler {
	svc := service.NewScriptService(requests, nil, &fixedGenerator{script: sampleGeneratedScript()}, nil, 0, nil)
	return NewScriptHandler(svc)
}

// authedRequest builds a request carrying the user's ID the way the
// auth middleware would.
func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withPathID attaches a chi URL parameter named "id".
func withPathID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateScript(t *testing.T) {
	t.Parallel()

	requests := newFakeScriptStore()
	handler := newScriptHandler(requests)
	userID := uuid.New()

	req := authedRequest(http.MethodPost, "/api/scripts",
		`{"config":{"seed_pack":"spanish-core"},"max_units":30}`, userID)
	rec := httptest.NewRecorder()
	handler.CreateScript(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp ScriptRequestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, string(domain.ScriptRequestStatusPending), resp.Status)
	assert.Equal(t, 30, resp.MaxUnits)
	assert.Nil(t, resp.Script)

	stored, err := requests.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, stored.UserID)
}

func TestCreateScriptUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := newScriptHandler(newFakeScriptStore())

	req := httptest.NewRequest(http.MethodPost, "/api/scripts",
		strings.NewReader(`{"config":{},"max_units":30}`))
	rec := httptest.NewRecorder()
	handler.CreateScript(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateScriptValidation(t *testing.T) {
	t.Parallel()

	handler := newScriptHandler(newFakeScriptStore())
	userID := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"config":`},
		{name: "missing config", body: `{"max_units":30}`},
		{name: "zero max units", body: `{"config":{"a":1},"max_units":0}`},
		{name: "max units over cap", body: `{"config":{"a":1},"max_units":501}`},
		{name: "unknown field", body: `{"config":{"a":1},"max_units":30,"extra":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := authedRequest(http.MethodPost, "/api/scripts", tt.body, userID)
			rec := httptest.NewRecorder()
			handler.CreateScript(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetScriptPending(t *testing.T) {
	t.Parallel()

	requests := newFakeScriptStore()
	handler := newScriptHandler(requests)
	userID := uuid.New()

	created := createScriptRequest(t, handler, userID)

	req := withPathID(authedRequest(http.MethodGet, "/api/scripts/"+created.String(), "", userID), created.String())
	rec := httptest.NewRecorder()
	handler.GetScript(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScriptRequestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, string(domain.ScriptRequestStatusPending), resp.Status)
	assert.Nil(t, resp.Script)
}

func TestGetScriptCompleted(t *testing.T) {
	t.Parallel()

	requests := newFakeScriptStore()
	handler := newScriptHandler(requests)
	userID := uuid.New()

	created := createScriptRequest(t, handler, userID)
	require.NoError(t, requests.SaveResult(context.Background(), created, sampleGeneratedScript()))

	req := withPathID(authedRequest(http.MethodGet, "/api/scripts/"+created.String(), "", userID), created.String())
	rec := httptest.NewRecorder()
	handler.GetScript(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScriptRequestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, string(domain.ScriptRequestStatusCompleted), resp.Status)
	require.NotNil(t, resp.Script)
	require.Len(t, resp.Script.Rounds, 1)
	assert.Equal(t, "u1", resp.Script.Rounds[0].UnitID)
}

func TestGetScriptErrors(t *testing.T) {
	t.Parallel()

	requests := newFakeScriptStore()
	handler := newScriptHandler(requests)
	owner := uuid.New()

	created := createScriptRequest(t, handler, owner)

	tests := []struct {
		name     string
		userID   uuid.UUID
		pathID   string
		expected int
	}{
		{name: "not a uuid", userID: owner, pathID: "not-a-uuid", expected: http.StatusBadRequest},
		{name: "unknown request", userID: owner, pathID: uuid.NewString(), expected: http.StatusNotFound},
		{name: "another user's request", userID: uuid.New(), pathID: created.String(), expected: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := withPathID(authedRequest(http.MethodGet, "/api/scripts/"+tt.pathID, "", tt.userID), tt.pathID)
			rec := httptest.NewRecorder()
			handler.GetScript(rec, req)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestGetScriptUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := newScriptHandler(newFakeScriptStore())

	req := withPathID(httptest.NewRequest(http.MethodGet, "/api/scripts/"+uuid.NewString(), nil), uuid.NewString())
	rec := httptest.NewRecorder()
	handler.GetScript(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func createScriptRequest(t *testing.T, handler *ScriptHandler, userID uuid.UUID) uuid.UUID {
	t.Helper()

	req := authedRequest(http.MethodPost, "/api/scripts",
		`{"config":{"seed_pack":"spanish-core"},"max_units":30}`, userID)
	rec := httptest.NewRecorder()
	handler.CreateScript(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp ScriptRequestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.ID
}
