// Package jmap is a small JMAP client covering the calls needed to triage
// an inbox: session discovery, listing mailboxes, listing emails and
// updating a single email.
package jmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/seqmail/internal/apperr"
	"github.com/nhle/seqmail/internal/model"
)

const (
	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 5 * time.Second

	wellKnownPath = "/.well-known/jmap"
)

// Session is the negotiated API endpoint and mail account.
type Session struct {
	APIURL    string
	AccountID string
}

// Client talks to a single JMAP account. The session and the mailbox list
// are fetched on first use and cached for the lifetime of the client. A
// Client is not safe for concurrent use.
type Client struct {
	sessionURL string
	token      string
	httpClient *http.Client
	logger     *zap.Logger

	session   *Session
	mailboxes []model.Mailbox
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionURL overrides the session discovery URL derived from the
// hostname.
func WithSessionURL(url string) Option {
	return func(c *Client) { c.sessionURL = url }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the JMAP server at hostname, authenticating
// with the bearer token. No network traffic happens until the first call.
func NewClient(hostname, token string, opts ...Option) *Client {
	c := &Client{
		sessionURL: "https://" + strings.TrimRight(hostname, "/") + wellKnownPath,
		token:      token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the JMAP session, discovering it on the first call.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	if c.session != nil {
		return c.session, nil
	}

	body, err := c.do(ctx, "session", http.MethodGet, c.sessionURL, nil)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &apperr.DecodeError{What: "session", Err: err}
	}

	res, ok := raw.(map[string]any)
	if !ok {
		return nil, &apperr.ConfigurationError{
			Message: fmt.Sprintf("session resource is a JSON %T, not an object", raw),
		}
	}

	apiURL, _ := res["apiUrl"].(string)
	if apiURL == "" {
		return nil, &apperr.ConfigurationError{
			Message: "no API URL provided in session",
		}
	}

	accounts, _ := res["primaryAccounts"].(map[string]any)
	accountID, _ := accounts[CapabilityMail].(string)
	if accountID == "" {
		return nil, &apperr.ConfigurationError{
			Message: "no primary account for " + CapabilityMail + " in session",
		}
	}

	c.session = &Session{APIURL: apiURL, AccountID: accountID}
	c.logger.Debug("jmap session established",
		zap.String("api_url", apiURL),
		zap.String("account_id", accountID),
	)

	return c.session, nil
}

// Call sends the invocations as one batch and returns the decoded
// response. The session is established first if needed.
func (c *Client) Call(ctx context.Context, calls ...Invocation) (*Response, error) {
	session, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(calls))
	for _, call := range calls {
		names = append(names, call.Name)
	}
	op := strings.Join(names, "+")

	payload, err := json.Marshal(newRequest(calls...))
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", op, err)
	}

	start := time.Now()
	body, err := c.do(ctx, op, http.MethodPost, session.APIURL, payload)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("jmap call",
		zap.Strings("methods", names),
		zap.Duration("elapsed", time.Since(start)),
	)

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &apperr.DecodeError{What: op + " response", Err: err}
	}

	return &resp, nil
}

// do performs a single authenticated request and returns the response
// body. Network failures and non-2xx statuses become TransportErrors.
func (c *Client) do(
	ctx context.Context,
	op string,
	method string,
	url string,
	payload []byte,
) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("jmap request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 512)),
		)
		return nil, &apperr.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	return body, nil
}

// result finds the response for callID and decodes its arguments into
// out. An error-tagged response becomes a RemoteOperationError.
func result(resp *Response, op, callID string, out any) error {
	inv, ok := resp.Lookup(callID)
	if !ok {
		return &apperr.DecodeError{
			What: fmt.Sprintf("%s: no response for call %q", op, callID),
		}
	}

	if inv.IsError() {
		var merr MethodError
		if err := json.Unmarshal(inv.Args, &merr); err != nil {
			return &apperr.RemoteOperationError{Op: op, Description: string(inv.Args)}
		}
		return &apperr.RemoteOperationError{
			Op:          op,
			Type:        merr.Type,
			Description: merr.Description,
		}
	}

	if err := json.Unmarshal(inv.Args, out); err != nil {
		return &apperr.DecodeError{What: op, Err: err}
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
