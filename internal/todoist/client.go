// Package todoist creates tasks through the Todoist quick-add endpoint.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/seqmail/internal/apperr"
)

const (
	// DefaultBaseURL is the root of the Todoist sync API.
	DefaultBaseURL = "https://api.todoist.com/sync/v9"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 5 * time.Second

	quickAddPath = "/quick/add"
)

// Client is a thin HTTP client for Todoist authenticated with an API key.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Todoist client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL, key string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
}

type quickAddRequest struct {
	Text string `json:"text"`
	Note string `json:"note,omitempty"`
}

// CreateTask adds a task parsed from text, attaching note as a comment.
func (c *Client) CreateTask(ctx context.Context, text, note string) error {
	data, err := json.Marshal(quickAddRequest{Text: text, Note: note})
	if err != nil {
		return fmt.Errorf("marshaling quick add request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+quickAddPath, bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("creating quick add request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperr.TransportError{Op: "todoist quick add", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var description string
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			description = "reading response body: " + err.Error()
		} else {
			description = strings.TrimSpace(string(body))
		}

		c.logger.Warn("todoist quick add failed",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return &apperr.RemoteOperationError{
			Op:          "todoist quick add",
			Type:        http.StatusText(resp.StatusCode),
			Description: description,
		}
	}

	c.logger.Info("todoist task created", zap.String("request_id", requestID))
	return nil
}
