package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/respawn/internal/plan"
)

// HTTPClient implements SessionSource by calling the Respawn REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// sessions live on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies SessionSource.
var _ SessionSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The key
// is sent as X-API-Key when set.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// controlPaths maps tool actions to REST control endpoints. The resume
// action maps to start, which doubles as resume on the server side.
var controlPaths = map[string]string{
	"pause":    "pause",
	"resume":   "start",
	"skip":     "skip",
	"complete": "complete",
	"close":    "close",
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func decodeState(body []byte) (SessionState, error) {
	var state SessionState
	if err := json.Unmarshal(body, &state); err != nil {
		return SessionState{}, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return state, nil
}

// StartSession creates a session on the remote server, then starts it.
func (c *HTTPClient) StartSession(ctx context.Context, workoutJSON []byte) (SessionState, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/sessions", workoutJSON)
	if err != nil {
		return SessionState{}, err
	}
	state, err := decodeState(body)
	if err != nil {
		return SessionState{}, err
	}

	body, err = c.do(ctx, http.MethodPost, "/api/v1/sessions/"+state.ID+"/start", nil)
	if err != nil {
		return SessionState{}, err
	}
	return decodeState(body)
}

func (c *HTTPClient) GetSession(ctx context.Context, id string) (SessionState, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+id, nil)
	if err != nil {
		return SessionState{}, err
	}
	return decodeState(body)
}

func (c *HTTPClient) ControlSession(ctx context.Context, id, action string) (SessionState, error) {
	endpoint, ok := controlPaths[action]
	if !ok {
		return SessionState{}, fmt.Errorf("unknown action %q", action)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+id+"/"+endpoint, nil)
	if err != nil {
		return SessionState{}, err
	}
	return decodeState(body)
}

func (c *HTTPClient) ListSessions(ctx context.Context) ([]SessionState, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil)
	if err != nil {
		return nil, err
	}

	var states []SessionState
	if err := json.Unmarshal(body, &states); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return states, nil
}

func (c *HTTPClient) DefaultPlan(ctx context.Context) (plan.RawSession, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/plans/default", nil)
	if err != nil {
		return plan.RawSession{}, err
	}

	var raw plan.RawSession
	if err := json.Unmarshal(body, &raw); err != nil {
		return plan.RawSession{}, fmt.Errorf("httpclient: decode plan: %w", err)
	}
	return raw, nil
}
