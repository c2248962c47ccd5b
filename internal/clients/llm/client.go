package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
)

// RankedMenu is one scored candidate handed to the generation service.
type RankedMenu struct {
	Name  string
	Score int
}

// Request is the structured generation input: the ranked candidates plus an
// optional condition map. The reserved keys "logic" (value "User Similarity")
// and "history" select the taste-twin phrasing; any other keys are treated as
// situational context. An empty menu list requests a generic pitch keyed on
// the conditions alone.
type Request struct {
	Menus      []RankedMenu
	Conditions map[string]string
}

// Client turns a ranked candidate list into a one-paragraph manager's pitch.
type Client interface {
	Pitch(ctx context.Context, req Request) (string, error)
}

type client struct {
	log     *logger.Logger
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration

	httpClient *http.Client

	// The backing model runs on a single accelerator: warmup happens once
	// per process (shared across concurrent first callers), and inference
	// calls are serialized rather than issued in parallel.
	warmupGroup singleflight.Group
	warmMu      sync.Mutex
	warm        bool
	inferMu     sync.Mutex
}

func NewClientFromEnv(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("llm: logger required")
	}

	baseURL := strings.TrimSpace(os.Getenv("LLM_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))
	if model == "" {
		model = "llama-3.1-8b-instruct"
	}

	timeoutSec := 60
	if v := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:        log.With("client", "LLM"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		model:      model,
		timeout:    time.Duration(timeoutSec) * time.Second,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *client) Pitch(ctx context.Context, req Request) (string, error) {
	if err := c.ensureWarm(ctx); err != nil {
		return "", err
	}

	system, user := buildPrompt(req)

	// One request at a time into the model server.
	c.inferMu.Lock()
	defer c.inferMu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.4,
		TopP:        0.9,
		MaxTokens:   400,
	}

	var resp chatResponse
	if err := c.doJSON(callCtx, "POST", "/v1/chat/completions", body, &resp); err != nil {
		return "", fmt.Errorf("llm: generation call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion")
	}

	pitch := CleanPitch(resp.Choices[0].Message.Content)
	if pitch == "" {
		return "", fmt.Errorf("llm: completion contained no usable text")
	}
	return pitch, nil
}

// ensureWarm performs the model server's one-time warmup round-trip. The
// singleflight group collapses concurrent first callers into one load; a
// failed warmup leaves the client cold so the next caller retries.
func (c *client) ensureWarm(ctx context.Context) error {
	c.warmMu.Lock()
	warm := c.warm
	c.warmMu.Unlock()
	if warm {
		return nil
	}

	_, err, _ := c.warmupGroup.Do("warmup", func() (any, error) {
		warmCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		c.log.Info("Warming up generation service", "base_url", c.baseURL, "model", c.model)
		if err := c.doJSON(warmCtx, "GET", "/v1/models", nil, nil); err != nil {
			return nil, fmt.Errorf("llm: warmup: %w", err)
		}

		c.warmMu.Lock()
		c.warm = true
		c.warmMu.Unlock()
		c.log.Info("Generation service ready")
		return nil, nil
	})
	return err
}

func (c *client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("llm server status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
