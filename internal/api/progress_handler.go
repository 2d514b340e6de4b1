package api

import (
	"net/http"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
)

// ProgressHandler handles learner progress snapshot endpoints.
type ProgressHandler struct {
	progress *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GetProgress handles GET /progress. A user with no stored progress
// gets an empty snapshot.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	snap, err := h.progress.Load(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load progress")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// PutProgress handles PUT /progress, replacing the stored snapshot.
func (h *ProgressHandler) PutProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ProgressSnapshotRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.progress.Save(r.Context(), userID, requestToSnapshot(req)); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func requestToSnapshot(req ProgressSnapshotRequest) store.ProgressSnapshot {
	snap := store.ProgressSnapshot{
		Nodes: make([]domain.UnitNode, 0, len(req.Nodes)),
		Edges: make([]domain.UnitEdge, 0, len(req.Edges)),
	}

	for _, n := range req.Nodes {
		snap.Nodes = append(snap.Nodes, domain.UnitNode{
			ID:             n.ID,
			KnownText:      n.KnownText,
			TargetText:     n.TargetText,
			SeedID:         n.SeedID,
			TotalPractices: n.TotalPractices,
			MasteryScore:   n.MasteryScore,
			IsEternal:      n.IsEternal,
			BirthBeltTier:  domain.BeltTier(n.BirthBeltTier),
		})
	}
	for _, e := range req.Edges {
		src, dst := domain.CanonicalEdgeIDs(e.SourceID, e.TargetID)
		snap.Edges = append(snap.Edges, domain.UnitEdge{
			SourceID: src,
			TargetID: dst,
			Count:    e.Count,
		})
	}
	return snap
}

func snapshotToResponse(snap store.ProgressSnapshot) ProgressSnapshotResponse {
	resp := ProgressSnapshotResponse{
		Nodes: make([]ProgressNode, 0, len(snap.Nodes)),
		Edges: make([]ProgressEdge, 0, len(snap.Edges)),
	}

	for _, n := range snap.Nodes {
		resp.Nodes = append(resp.Nodes, ProgressNode{
			ID:             n.ID,
			KnownText:      n.KnownText,
			TargetText:     n.TargetText,
			SeedID:         n.SeedID,
			TotalPractices: n.TotalPractices,
			MasteryScore:   n.MasteryScore,
			IsEternal:      n.IsEternal,
			BirthBeltTier:  string(n.BirthBeltTier),
		})
	}
	for _, e := range snap.Edges {
		resp.Edges = append(resp.Edges, ProgressEdge{
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			Count:    e.Count,
		})
	}
	return resp
}
