// Package gemini implements script generation against Google's Gemini
// API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"google.golang.org/genai"
)

// ErrEmptyConfig is returned when the generator config is empty.
var ErrEmptyConfig = errors.New("generator config cannot be empty")

// GeminiGenerator implements the generation.ScriptGenerator interface
// using Google's Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Ensure GeminiGenerator implements generation.ScriptGenerator
var _ generation.ScriptGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator, loading the prompt
// template from disk and initializing the API client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.PromptTemplatePath == "" {
		return nil, fmt.Errorf("%w: prompt template path cannot be empty", generation.ErrInvalidConfig)
	}

	templateContent, err := os.ReadFile(cfg.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
	}

	promptTemplate, err := template.New("script").Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateScript implements generation.ScriptGenerator. It renders the
// prompt, calls the API with retry, and maps the response into a
// domain script.
func (g *GeminiGenerator) GenerateScript(ctx context.Context, cfg json.RawMessage, maxUnits int) (*domain.Script, error) {
	prompt, err := g.createPrompt(ctx, cfg, maxUnits)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response)
}

// createPrompt renders the prompt template with the generator config
// and unit cap.
func (g *GeminiGenerator) createPrompt(ctx context.Context, cfg json.RawMessage, maxUnits int) (string, error) {
	if len(cfg) == 0 {
		return "", ErrEmptyConfig
	}

	data := promptData{
		Config:   string(cfg),
		MaxUnits: maxUnits,
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		slog.Int("prompt_length", buf.Len()),
		slog.Int("max_units", maxUnits))

	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and
// jitter. Permanent errors (blocked content, malformed responses) are
// returned immediately; transient errors retry up to MaxRetries times.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		response, err := g.callOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce makes a single API call and decodes the JSON body.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (*responseSchema, error) {
	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	return &parsed, nil
}

// stripCodeFence removes a markdown code fence the model sometimes
// wraps around JSON output despite the response MIME type.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// parseResponse converts the decoded response into a domain script,
// validating each round and item on the way.
func (g *GeminiGenerator) parseResponse(ctx context.Context, response *responseSchema) (*domain.Script, error) {
	if response == nil || len(response.Rounds) == 0 {
		return nil, fmt.Errorf("%w: no rounds in response", generation.ErrInvalidResponse)
	}

	script := &domain.Script{
		Rounds: make([]domain.Round, 0, len(response.Rounds)),
	}

	for i, rs := range response.Rounds {
		round := domain.Round{
			RoundNumber:      rs.RoundNumber,
			UnitID:           rs.UnitID,
			SeedID:           rs.SeedID,
			Items:            make([]domain.LearningItem, 0, len(rs.Items)),
			SpacedRepReviews: rs.SpacedRepReviews,
		}

		for j, is := range rs.Items {
			item := domain.LearningItem{
				ID:          uuid.New().String(),
				Type:        domain.ItemType(is.Type),
				UnitID:      is.UnitID,
				KnownText:   is.KnownText,
				TargetText:  is.TargetText,
				RoundNumber: rs.RoundNumber,
				ReviewOf:    is.ReviewOf,
			}
			if err := item.Validate(); err != nil {
				return nil, fmt.Errorf("%w: round %d item %d: %v",
					generation.ErrInvalidResponse, i, j, err)
			}
			round.Items = append(round.Items, item)
		}

		script.Rounds = append(script.Rounds, round)
	}

	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	g.logger.InfoContext(ctx, "parsed generation response",
		slog.Int("round_count", len(script.Rounds)))

	return script, nil
}
