package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication
// endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    string    `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateScriptRequest defines the payload for submitting a script
// generation request. Config is passed through to the generator.
type CreateScriptRequest struct {
	Config   json.RawMessage `json:"config"    validate:"required"`
	MaxUnits int             `json:"max_units" validate:"required,gte=1,lte=500"`
}

// ScriptRequestResponse reports the state of a script request. Script
// is populated only once generation has completed.
type ScriptRequestResponse struct {
	ID        uuid.UUID      `json:"id"`
	Status    string         `json:"status"`
	MaxUnits  int            `json:"max_units"`
	CreatedAt string         `json:"created_at"`
	Script    *domain.Script `json:"script,omitempty"`
}

// ProgressNode is the wire form of a unit node in a progress snapshot.
type ProgressNode struct {
	ID             string  `json:"id"`
	KnownText      string  `json:"known_text,omitempty"`
	TargetText     string  `json:"target_text,omitempty"`
	SeedID         string  `json:"seed_id,omitempty"`
	TotalPractices int     `json:"total_practices"`
	MasteryScore   float64 `json:"mastery_score"`
	IsEternal      bool    `json:"is_eternal"`
	BirthBeltTier  string  `json:"birth_belt_tier,omitempty"`
}

// ProgressEdge is the wire form of a co-occurrence edge.
type ProgressEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Count    int    `json:"count"`
}

// ProgressSnapshotRequest defines the payload for saving progress.
type ProgressSnapshotRequest struct {
	Nodes []ProgressNode `json:"nodes"`
	Edges []ProgressEdge `json:"edges"`
}

// ProgressSnapshotResponse returns a stored progress snapshot.
type ProgressSnapshotResponse struct {
	Nodes []ProgressNode `json:"nodes"`
	Edges []ProgressEdge `json:"edges"`
}
