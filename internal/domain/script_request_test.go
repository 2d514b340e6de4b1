package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewScriptRequest(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	config := json.RawMessage(`{"seed_pack":"spanish-core","level":"beginner"}`)

	req, err := NewScriptRequest(userID, config, 50)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if req.ID == uuid.Nil {
		t.Error("Expected non-nil request ID")
	}
	if req.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, req.UserID)
	}
	if req.Status != ScriptRequestStatusPending {
		t.Errorf("Expected status %q, got %q", ScriptRequestStatusPending, req.Status)
	}
	if req.MaxUnits != 50 {
		t.Errorf("Expected max units 50, got %d", req.MaxUnits)
	}
	if req.CreatedAt.IsZero() || req.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	// Test missing user ID
	_, err = NewScriptRequest(uuid.Nil, config, 50)
	if !errors.Is(err, ErrEmptyScriptRequestUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyScriptRequestUserID, err)
	}

	// Test empty config
	_, err = NewScriptRequest(userID, nil, 50)
	if !errors.Is(err, ErrEmptyScriptConfig) {
		t.Errorf("Expected error %v, got %v", ErrEmptyScriptConfig, err)
	}

	// Test malformed config JSON
	_, err = NewScriptRequest(userID, json.RawMessage(`{"broken`), 50)
	if !errors.Is(err, ErrEmptyScriptConfig) {
		t.Errorf("Expected error %v, got %v", ErrEmptyScriptConfig, err)
	}
}

func TestScriptRequestUpdateStatus(t *testing.T) {
	t.Parallel()

	req, err := NewScriptRequest(uuid.New(), json.RawMessage(`{}`), 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	before := req.UpdatedAt

	for _, status := range []ScriptRequestStatus{
		ScriptRequestStatusProcessing,
		ScriptRequestStatusCompleted,
		ScriptRequestStatusFailed,
		ScriptRequestStatusPending,
	} {
		if err := req.UpdateStatus(status); err != nil {
			t.Errorf("Expected no error for status %q, got %v", status, err)
		}
		if req.Status != status {
			t.Errorf("Expected status %q, got %q", status, req.Status)
		}
	}

	if req.UpdatedAt.Before(before) {
		t.Error("Expected UpdatedAt to advance")
	}

	if err := req.UpdateStatus("archived"); !errors.Is(err, ErrInvalidScriptStatus) {
		t.Errorf("Expected error %v, got %v", ErrInvalidScriptStatus, err)
	}
}
