package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
)

// ScriptHandler handles script request API endpoints.
type ScriptHandler struct {
	scripts   *service.ScriptService
	validator *validator.Validate
}

// NewScriptHandler creates a new ScriptHandler.
func NewScriptHandler(scripts *service.ScriptService) *ScriptHandler {
	return &ScriptHandler{
		scripts:   scripts,
		validator: validator.New(),
	}
}

// CreateScript handles POST /scripts. Generation runs in the
// background; the response is the accepted request's ID and status.
func (h *ScriptHandler) CreateScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateScriptRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	created, err := h.scripts.CreateRequest(r.Context(), userID, req.Config, req.MaxUnits)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusAccepted, ScriptRequestResponse{
		ID:        created.ID,
		Status:    string(created.Status),
		MaxUnits:  created.MaxUnits,
		CreatedAt: created.CreatedAt.Format(time.RFC3339),
	})
}

// GetScript handles GET /scripts/{id}. While generation is pending the
// response carries only the status; once completed it includes the
// script.
func (h *ScriptHandler) GetScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	requestID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	req, err := h.scripts.GetRequestForUser(r.Context(), requestID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := ScriptRequestResponse{
		ID:        req.ID,
		Status:    string(req.Status),
		MaxUnits:  req.MaxUnits,
		CreatedAt: req.CreatedAt.Format(time.RFC3339),
	}

	if req.Status == domain.ScriptRequestStatusCompleted {
		script, err := h.scripts.GetResult(r.Context(), requestID, userID)
		if err != nil && !errors.Is(err, store.ErrScriptNotReady) {
			HandleAPIError(w, r, err, "")
			return
		}
		resp.Script = script
	}

	RespondWithJSON(w, r, http.StatusOK, resp)
}
