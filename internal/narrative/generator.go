package narrative

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aurorastack/insight-engine/internal/cache"
	"github.com/aurorastack/insight-engine/internal/models"
)

// TextGenerator is the external text-generation collaborator. Implementations
// must return within a bounded timeout or fail loudly; the selector converts
// any failure into the deterministic template path.
type TextGenerator interface {
	Invoke(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}

// LiveGenerator calls a remote text-generation endpoint over HTTP JSON.
type LiveGenerator struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewLiveGenerator constructs a generator client with a bounded timeout.
func NewLiveGenerator(endpoint, apiKey string, timeout time.Duration) *LiveGenerator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LiveGenerator{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Invoke posts the prompt pair and returns the generated text.
func (g *LiveGenerator) Invoke(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	if g == nil || g.endpoint == "" {
		return "", &models.CollaboratorUnavailableError{
			Collaborator: "text-generation",
			Err:          fmt.Errorf("endpoint not configured"),
		}
	}

	payload := map[string]string{
		"system": systemInstruction,
		"prompt": userPrompt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &models.CollaboratorUnavailableError{Collaborator: "text-generation", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &models.CollaboratorUnavailableError{
			Collaborator: "text-generation",
			Err:          fmt.Errorf("generator returned %s", resp.Status),
		}
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &models.CollaboratorUnavailableError{
			Collaborator: "text-generation",
			Err:          fmt.Errorf("decode response: %w", err),
		}
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", &models.CollaboratorUnavailableError{
			Collaborator: "text-generation",
			Err:          fmt.Errorf("generator returned empty text"),
		}
	}
	return out.Text, nil
}

// CachedGenerator memoizes generator responses keyed by a prompt fingerprint.
// Cache failures degrade to a plain Invoke; they are never fatal.
type CachedGenerator struct {
	inner  TextGenerator
	store  cache.Provider
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGenerator wraps a generator with response caching.
func NewCachedGenerator(inner TextGenerator, store cache.Provider, ttl time.Duration, logger *slog.Logger) *CachedGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = cache.NoopProvider{}
	}
	return &CachedGenerator{inner: inner, store: store, ttl: ttl, logger: logger}
}

// Invoke consults the cache before delegating to the wrapped generator.
func (g *CachedGenerator) Invoke(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	key := promptKey(systemInstruction, userPrompt)

	if cached, err := g.store.Get(ctx, key); err == nil && len(cached) > 0 {
		return string(cached), nil
	}

	text, err := g.inner.Invoke(ctx, systemInstruction, userPrompt)
	if err != nil {
		return "", err
	}
	if err := g.store.Set(ctx, key, []byte(text), g.ttl); err != nil {
		g.logger.Warn("narrative cache write failed", slog.Any("error", err))
	}
	return text, nil
}

func promptKey(systemInstruction, userPrompt string) string {
	sum := sha256.Sum256([]byte(systemInstruction + "\n" + userPrompt))
	return "narrative:" + hex.EncodeToString(sum[:])
}
