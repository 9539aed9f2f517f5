package gamma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("gamma: api key is required")

// Options configures the Gamma generations API client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Gamma public generations API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// Status is the provider's view of a generation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// CreateRequest captures the inputs for one generation call.
type CreateRequest struct {
	InputText string
	ExportAs  domain.ExportFormat
	NumCards  int
}

// Generation is the normalized poll result.
type Generation struct {
	ID           string
	Status       Status
	ExportURL    string
	ErrorMessage string
}

type createPayload struct {
	InputText string `json:"inputText"`
	TextMode  string `json:"textMode"`
	Format    string `json:"format"`
	ExportAs  string `json:"exportAs"`
	NumCards  int    `json:"numCards"`
}

type createResponse struct {
	GenerationID string `json:"generationId"`
	Message      string `json:"message"`
}

type pollResponse struct {
	GenerationID string `json:"generationId"`
	Status       string `json:"status"`
	ExportURL    string `json:"exportUrl"`
	Message      string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://public-api.gamma.app/v0.2"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// CreateGeneration starts a presentation generation and returns the
// provider-assigned generation id.
func (c *Client) CreateGeneration(ctx context.Context, req CreateRequest) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	payload := createPayload{
		InputText: req.InputText,
		TextMode:  "generate",
		Format:    "presentation",
		ExportAs:  string(req.ExportAs),
		NumCards:  req.NumCards,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gamma: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gamma: build request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gamma: create generation: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gamma: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gamma: create status %d: %s", resp.StatusCode, apiMessage(raw))
	}

	var decoded createResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("gamma: decode response: %w", err)
	}
	if decoded.GenerationID == "" {
		return "", errors.New("gamma: missing generationId in response")
	}
	c.logger.Debug().
		Str("generation_id", decoded.GenerationID).
		Str("export_as", string(req.ExportAs)).
		Int("num_cards", req.NumCards).
		Msg("gamma: generation started")
	return decoded.GenerationID, nil
}

// PollGeneration fetches the current state of a generation. Transport and
// HTTP failures are returned as errors; retrying is the caller's decision.
func (c *Client) PollGeneration(ctx context.Context, generationID string) (*Generation, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(generationID) == "" {
		return nil, errors.New("gamma: generation id is required")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/generations/"+generationID, nil)
	if err != nil {
		return nil, fmt.Errorf("gamma: build request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gamma: poll generation: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gamma: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gamma: poll status %d: %s", resp.StatusCode, apiMessage(raw))
	}

	var decoded pollResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("gamma: decode response: %w", err)
	}

	gen := &Generation{ID: generationID, ExportURL: decoded.ExportURL}
	switch decoded.Status {
	case "completed":
		gen.Status = StatusCompleted
		if gen.ExportURL == "" {
			return nil, errors.New("gamma: completed generation without export url")
		}
	case "failed":
		gen.Status = StatusFailed
		gen.ErrorMessage = decoded.Message
		if gen.ErrorMessage == "" {
			gen.ErrorMessage = "provider reported generation failure"
		}
	default:
		gen.Status = StatusPending
	}
	return gen, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)
}

// apiMessage extracts a human-readable message from an error body without
// echoing the whole payload back to callers.
func apiMessage(raw []byte) string {
	var detail struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil {
		if detail.Message != "" {
			return detail.Message
		}
		if detail.Error != "" {
			return detail.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
