// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
)

// Token is the bearer token the fake server accepts.
const Token = "test-token"

// AccountID is the mail account the fake server advertises.
const AccountID = "u123"

// FakeEmail is an email stored by the fake server.
type FakeEmail struct {
	ID          string
	ThreadID    string
	Subject     string
	Preview     string
	ReceivedAt  string
	From        []map[string]string
	Attachments []map[string]any
	MailboxIDs  map[string]bool
	Keywords    map[string]bool

	// Unsubscribe is served as header:List-Unsubscribe:asURLs; nil is
	// served as JSON null.
	Unsubscribe []string
}

// Call is a method call recorded by the fake server.
type Call struct {
	Name   string
	Args   map[string]any
	CallID string
}

// JMAPServer is an in-process JMAP server that understands the handful of
// methods the client uses.
type JMAPServer struct {
	*httptest.Server

	Mailboxes []map[string]any
	Emails    []*FakeEmail

	// MethodErrors maps a method name to the error payload returned for it.
	MethodErrors map[string]map[string]any

	// NotUpdated maps an email id to the SetError returned by Email/set.
	NotUpdated map[string]map[string]any

	// Session overrides the session resource when non-nil.
	Session map[string]any

	// APIStatus, when non-zero, is returned for every API POST.
	APIStatus int

	SessionHits int
	Batches     [][]Call
}

// NewJMAPServer starts a fake server that is closed when the test ends.
func NewJMAPServer(t *testing.T) *JMAPServer {
	t.Helper()

	s := &JMAPServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/jmap", s.handleSession)
	mux.HandleFunc("/api", s.handleAPI)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

// SessionURL is the discovery URL to pass to the client.
func (s *JMAPServer) SessionURL() string {
	return s.URL + "/.well-known/jmap"
}

// Calls returns every recorded call, flattened across batches.
func (s *JMAPServer) Calls() []Call {
	var out []Call
	for _, b := range s.Batches {
		out = append(out, b...)
	}
	return out
}

// CallsNamed returns recorded calls of one method.
func (s *JMAPServer) CallsNamed(name string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Email returns the stored email with the given id.
func (s *JMAPServer) Email(id string) *FakeEmail {
	for _, e := range s.Emails {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *JMAPServer) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+Token
}

func (s *JMAPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	s.SessionHits++
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	session := s.Session
	if session == nil {
		session = map[string]any{
			"apiUrl": s.URL + "/api",
			"primaryAccounts": map[string]string{
				"urn:ietf:params:jmap:mail": AccountID,
			},
		}
	}
	writeJSON(w, session)
}

func (s *JMAPServer) handleAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if s.APIStatus != 0 {
		http.Error(w, "failure", s.APIStatus)
		return
	}

	var req struct {
		Using       []string            `json:"using"`
		MethodCalls [][]json.RawMessage `json:"methodCalls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var batch []Call
	results := map[string]map[string]any{}
	var responses []any

	for _, raw := range req.MethodCalls {
		var c Call
		if len(raw) != 3 ||
			json.Unmarshal(raw[0], &c.Name) != nil ||
			json.Unmarshal(raw[1], &c.Args) != nil ||
			json.Unmarshal(raw[2], &c.CallID) != nil {
			http.Error(w, "malformed invocation", http.StatusBadRequest)
			return
		}
		batch = append(batch, c)

		if payload, ok := s.MethodErrors[c.Name]; ok {
			responses = append(responses, []any{"error", payload, c.CallID})
			continue
		}

		res := s.dispatch(c, results)
		results[c.CallID] = res
		responses = append(responses, []any{c.Name, res, c.CallID})
	}

	s.Batches = append(s.Batches, batch)
	writeJSON(w, map[string]any{
		"methodResponses": responses,
		"sessionState":    "s1",
	})
}

func (s *JMAPServer) dispatch(c Call, results map[string]map[string]any) map[string]any {
	switch c.Name {
	case "Mailbox/get":
		return map[string]any{
			"accountId": AccountID,
			"state":     "m1",
			"list":      s.Mailboxes,
			"notFound":  []string{},
		}
	case "Email/query":
		return s.query(c.Args)
	case "Email/get":
		return s.get(c.Args, results)
	case "Email/set":
		return s.set(c.Args)
	default:
		return map[string]any{}
	}
}

func (s *JMAPServer) query(args map[string]any) map[string]any {
	var mailboxID string
	if filter, ok := args["filter"].(map[string]any); ok {
		mailboxID, _ = filter["inMailbox"].(string)
	}

	var matched []*FakeEmail
	for _, e := range s.Emails {
		if mailboxID == "" || e.MailboxIDs[mailboxID] {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ReceivedAt > matched[j].ReceivedAt
	})

	ids := make([]string, 0, len(matched))
	for _, e := range matched {
		ids = append(ids, e.ID)
	}
	return map[string]any{"accountId": AccountID, "ids": ids}
}

func (s *JMAPServer) get(args map[string]any, results map[string]map[string]any) map[string]any {
	var ids []string
	if ref, ok := args["#ids"].(map[string]any); ok {
		resultOf, _ := ref["resultOf"].(string)
		path, _ := ref["path"].(string)
		field := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/*")
		if prior, ok := results[resultOf]; ok {
			if list, ok := prior[field].([]string); ok {
				ids = list
			}
		}
	} else if raw, ok := args["ids"].([]any); ok {
		for _, id := range raw {
			if str, ok := id.(string); ok {
				ids = append(ids, str)
			}
		}
	}

	list := []map[string]any{}
	for _, id := range ids {
		e := s.Email(id)
		if e == nil {
			continue
		}
		var unsubscribe any
		if e.Unsubscribe != nil {
			unsubscribe = e.Unsubscribe
		}
		attachments := e.Attachments
		if attachments == nil {
			attachments = []map[string]any{}
		}
		list = append(list, map[string]any{
			"id":                             e.ID,
			"threadId":                       e.ThreadID,
			"subject":                        e.Subject,
			"preview":                        e.Preview,
			"receivedAt":                     e.ReceivedAt,
			"from":                           e.From,
			"attachments":                    attachments,
			"header:List-Unsubscribe:asURLs": unsubscribe,
		})
	}

	return map[string]any{
		"accountId": AccountID,
		"state":     "e1",
		"list":      list,
		"notFound":  []string{},
	}
}

func (s *JMAPServer) set(args map[string]any) map[string]any {
	updated := map[string]any{}
	notUpdated := map[string]any{}

	update, _ := args["update"].(map[string]any)
	for id, rawPatch := range update {
		if setErr, ok := s.NotUpdated[id]; ok {
			notUpdated[id] = setErr
			continue
		}
		e := s.Email(id)
		if e == nil {
			notUpdated[id] = map[string]any{"type": "notFound"}
			continue
		}

		patch, _ := rawPatch.(map[string]any)
		for key, value := range patch {
			switch {
			case key == "mailboxIds":
				e.MailboxIDs = map[string]bool{}
				if boxes, ok := value.(map[string]any); ok {
					for box := range boxes {
						e.MailboxIDs[box] = true
					}
				}
			case strings.HasPrefix(key, "keywords/"):
				if e.Keywords == nil {
					e.Keywords = map[string]bool{}
				}
				e.Keywords[strings.TrimPrefix(key, "keywords/")] = value == true
			}
		}
		updated[id] = nil
	}

	res := map[string]any{"accountId": AccountID, "updated": updated}
	if len(notUpdated) > 0 {
		res["notUpdated"] = notUpdated
	}
	return res
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
