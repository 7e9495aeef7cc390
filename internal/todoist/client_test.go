package todoist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhle/seqmail/internal/apperr"
)

func TestCreateTask_SendsQuickAdd(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotReqID   string
		gotPayload quickAddRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", zaptest.NewLogger(t))
	err := c.CreateTask(context.Background(), "Reply to Ann", "https://mail.example.com/x")
	require.NoError(t, err)

	assert.Equal(t, "/quick/add", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	_, err = uuid.Parse(gotReqID)
	assert.NoError(t, err, "X-Request-Id should be a UUID")
	assert.Equal(t, quickAddRequest{Text: "Reply to Ann", Note: "https://mail.example.com/x"}, gotPayload)
}

func TestCreateTask_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	err := c.CreateTask(context.Background(), "x", "")
	require.Error(t, err)

	var rerr *apperr.RemoteOperationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Forbidden", rerr.Type)
	assert.Equal(t, "bad token", rerr.Description)
}

func TestCreateTask_NonSuccessWithTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("short"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", zaptest.NewLogger(t))
	err := c.CreateTask(context.Background(), "x", "")

	var rerr *apperr.RemoteOperationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Bad Gateway", rerr.Type)
	assert.Contains(t, rerr.Description, "reading response body")
}

func TestCreateTask_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "secret", nil)
	err := c.CreateTask(context.Background(), "x", "")
	assert.True(t, apperr.IsTransport(err), "got %v", err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "k", nil)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}
