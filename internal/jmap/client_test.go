package jmap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhle/seqmail/internal/apperr"
	"github.com/nhle/seqmail/tests/testutil"
)

func newTestClient(t *testing.T, srv *testutil.JMAPServer) *Client {
	t.Helper()
	return NewClient("unused.example.com", testutil.Token,
		WithSessionURL(srv.SessionURL()),
		WithLogger(zaptest.NewLogger(t)),
	)
}

func inbox() map[string]any {
	return map[string]any{"id": "mb-inbox", "name": "Inbox", "parentId": nil, "role": "inbox"}
}

func TestNewClient_DerivesSessionURL(t *testing.T) {
	c := NewClient("api.fastmail.com/", "tok")
	assert.Equal(t, "https://api.fastmail.com/.well-known/jmap", c.sessionURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestSession_EstablishedOnce(t *testing.T) {
	srv := testutil.NewJMAPServer(t)
	srv.Mailboxes = []map[string]any{inbox()}
	c := newTestClient(t, srv)
	ctx := context.Background()

	s1, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.AccountID, s1.AccountID)
	assert.Equal(t, srv.URL+"/api", s1.APIURL)

	_, err = c.Mailboxes(ctx)
	require.NoError(t, err)
	_, err = c.Emails(ctx, "mb-inbox")
	require.NoError(t, err)

	s2, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, srv.SessionHits)
}

func TestSession_MissingAPIURL(t *testing.T) {
	srv := testutil.NewJMAPServer(t)
	srv.Session = map[string]any{
		"primaryAccounts": map[string]string{CapabilityMail: "u1"},
	}
	c := newTestClient(t, srv)

	_, err := c.Session(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsConfiguration(err), "got %v", err)
}

func TestSession_MissingMailAccount(t *testing.T) {
	srv := testutil.NewJMAPServer(t)
	srv.Session = map[string]any{
		"apiUrl":          srv.URL + "/api",
		"primaryAccounts": map[string]string{"urn:ietf:params:jmap:contacts": "u1"},
	}
	c := newTestClient(t, srv)

	_, err := c.Mailboxes(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsConfiguration(err), "got %v", err)
	assert.Empty(t, srv.Batches, "no method call before a session exists")
}

func TestSession_UnusableResourceIsConfigurationError(t *testing.T) {
	bodies := map[string]string{
		"array":           `[]`,
		"string":          `"hello"`,
		"numeric apiUrl":  `{"apiUrl":42,"primaryAccounts":{"urn:ietf:params:jmap:mail":"u1"}}`,
		"numeric account": `{"apiUrl":"https://x/api","primaryAccounts":{"urn:ietf:params:jmap:mail":7}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewClient("unused", "tok", WithSessionURL(srv.URL))
			_, err := c.Session(context.Background())
			require.Error(t, err)
			assert.True(t, apperr.IsConfiguration(err), "got %v", err)
		})
	}
}

func TestSession_Unauthorized(t *testing.T) {
	srv := testutil.NewJMAPServer(t)
	c := NewClient("unused", "wrong-token", WithSessionURL(srv.SessionURL()))

	_, err := c.Session(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))

	var terr *apperr.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
}

func TestSession_NotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	c := NewClient("unused", "tok", WithSessionURL(srv.URL))
	_, err := c.Session(context.Background())
	assert.True(t, apperr.IsDecode(err), "got %v", err)
}

func TestCall_NetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient("unused", "tok", WithSessionURL(url))
	_, err := c.Mailboxes(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))
}

func TestCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("unused", "tok",
		WithSessionURL(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
	)
	_, err := c.Session(context.Background())
	assert.True(t, apperr.IsTransport(err), "got %v", err)
}

func TestCall_APIStatusIsTransportError(t *testing.T) {
	srv := testutil.NewJMAPServer(t)
	srv.APIStatus = http.StatusInternalServerError
	c := newTestClient(t, srv)

	_, err := c.Mailboxes(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))
}

func TestCall_RequestShape(t *testing.T) {
	var body map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"apiUrl":          "http://" + r.Host + "/api",
				"primaryAccounts": map[string]string{CapabilityMail: "acc"},
			})
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"methodResponses":[["Core/echo",{},"x"]]}`))
	}))
	defer srv.Close()

	c := NewClient("unused", "tok", WithSessionURL(srv.URL))
	resp, err := c.Call(context.Background(), Invocation{
		Name:   "Core/echo",
		Args:   map[string]any{"hello": "world"},
		CallID: "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, []any{CapabilityCore, CapabilityMail}, body["using"])
	assert.Equal(t,
		[]any{[]any{"Core/echo", map[string]any{"hello": "world"}, "x"}},
		body["methodCalls"],
	)

	inv, ok := resp.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "Core/echo", inv.Name)
	assert.False(t, inv.IsError())
}

func TestResponseInvocation_RejectsWrongArity(t *testing.T) {
	var r Response
	err := json.Unmarshal([]byte(`{"methodResponses":[["Mailbox/get",{}]]}`), &r)
	assert.Error(t, err)
}
