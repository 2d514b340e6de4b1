package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ScriptRequestStatus represents the processing state of a script
// generation request.
type ScriptRequestStatus string

// Possible script request status values
const (
	ScriptRequestStatusPending    ScriptRequestStatus = "pending"
	ScriptRequestStatusProcessing ScriptRequestStatus = "processing"
	ScriptRequestStatusCompleted  ScriptRequestStatus = "completed"
	ScriptRequestStatusFailed     ScriptRequestStatus = "failed"
)

// Common validation errors for ScriptRequest
var (
	ErrEmptyScriptRequestID     = errors.New("script request ID cannot be empty")
	ErrEmptyScriptRequestUserID = errors.New("script request user ID cannot be empty")
	ErrEmptyScriptConfig        = errors.New("script request config cannot be empty")
	ErrInvalidScriptStatus      = errors.New("invalid script request status")
)

// ScriptRequest tracks one asynchronous curriculum generation job from
// submission through completion. The generator config is kept as raw
// JSON so the content provider owns its own schema.
type ScriptRequest struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Config    json.RawMessage     `json:"config"`
	MaxUnits  int                 `json:"max_units"`
	Status    ScriptRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewScriptRequest creates a pending ScriptRequest for the given user,
// generator config, and unit cap. Returns an error if validation fails.
func NewScriptRequest(userID uuid.UUID, config json.RawMessage, maxUnits int) (*ScriptRequest, error) {
	req := &ScriptRequest{
		ID:        uuid.New(),
		UserID:    userID,
		Config:    config,
		MaxUnits:  maxUnits,
		Status:    ScriptRequestStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks if the ScriptRequest has valid data.
func (r *ScriptRequest) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyScriptRequestID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyScriptRequestUserID
	}

	if len(r.Config) == 0 {
		return ErrEmptyScriptConfig
	}

	var js json.RawMessage
	if err := json.Unmarshal(r.Config, &js); err != nil {
		return ErrEmptyScriptConfig
	}

	if !isValidScriptRequestStatus(r.Status) {
		return ErrInvalidScriptStatus
	}

	return nil
}

// UpdateStatus transitions the request to the given status and bumps
// the UpdatedAt timestamp. Returns an error if the status is unknown.
func (r *ScriptRequest) UpdateStatus(status ScriptRequestStatus) error {
	if !isValidScriptRequestStatus(status) {
		return ErrInvalidScriptStatus
	}

	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidScriptRequestStatus checks if the given status is known.
func isValidScriptRequestStatus(status ScriptRequestStatus) bool {
	switch status {
	case ScriptRequestStatusPending, ScriptRequestStatusProcessing,
		ScriptRequestStatusCompleted, ScriptRequestStatusFailed:
		return true
	default:
		return false
	}
}
