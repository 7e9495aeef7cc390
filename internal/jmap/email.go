package jmap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/seqmail/internal/apperr"
	"github.com/nhle/seqmail/internal/model"
)

// PropertyUnsubscribe asks the server to parse List-Unsubscribe into a
// list of URLs, or null when the header is absent.
const PropertyUnsubscribe = "header:List-Unsubscribe:asURLs"

// KeywordSeen marks an email as read.
const KeywordSeen = "$seen"

// emailProperties is the property list requested by Email/get.
var emailProperties = []string{
	"id",
	"threadId",
	"from",
	"subject",
	"receivedAt",
	"preview",
	PropertyUnsubscribe,
	"attachments",
}

type wireEmail struct {
	ID              *string            `json:"id"`
	ThreadID        *string            `json:"threadId"`
	Subject         *string            `json:"subject"`
	Preview         *string            `json:"preview"`
	ReceivedAt      *string            `json:"receivedAt"`
	From            []model.Sender     `json:"from"`
	Attachments     []model.Attachment `json:"attachments"`
	UnsubscribeURLs []string           `json:"header:List-Unsubscribe:asURLs"`
}

func (w wireEmail) toModel(i int) (model.Email, error) {
	if w.ID == nil || *w.ID == "" {
		return model.Email{}, &apperr.DecodeError{
			What: fmt.Sprintf("email %d: missing id", i),
		}
	}
	if w.ThreadID == nil {
		return model.Email{}, &apperr.DecodeError{
			What: fmt.Sprintf("email %s: missing threadId", *w.ID),
		}
	}
	if w.ReceivedAt == nil {
		return model.Email{}, &apperr.DecodeError{
			What: fmt.Sprintf("email %s: missing receivedAt", *w.ID),
		}
	}

	e := model.Email{
		ID:              *w.ID,
		ThreadID:        *w.ThreadID,
		ReceivedAt:      *w.ReceivedAt,
		From:            w.From,
		Attachments:     w.Attachments,
		UnsubscribeURLs: w.UnsubscribeURLs,
	}
	if w.Subject != nil {
		e.Subject = *w.Subject
	}
	if w.Preview != nil {
		e.Preview = *w.Preview
	}
	return e, nil
}

// Emails returns the emails in a mailbox, newest first. The query and the
// fetch go out in a single batch: Email/get takes its ids from the
// Email/query result by back-reference.
func (c *Client) Emails(ctx context.Context, mailboxID string) ([]model.Email, error) {
	session, err := c.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching emails: %w", err)
	}

	resp, err := c.Call(ctx,
		Invocation{
			Name: "Email/query",
			Args: map[string]any{
				"accountId": session.AccountID,
				"filter":    map[string]any{"inMailbox": mailboxID},
				"sort": []map[string]any{
					{"property": "receivedAt", "isAscending": false},
				},
			},
			CallID: "a",
		},
		Invocation{
			Name: "Email/get",
			Args: map[string]any{
				"accountId": session.AccountID,
				"#ids": ResultReference{
					ResultOf: "a",
					Name:     "Email/query",
					Path:     "/ids/*",
				},
				"properties": emailProperties,
			},
			CallID: "b",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("fetching emails: %w", err)
	}

	var query struct {
		IDs []string `json:"ids"`
	}
	if err := result(resp, "Email/query", "a", &query); err != nil {
		return nil, fmt.Errorf("fetching emails: %w", err)
	}

	var got getResponse[wireEmail]
	if err := result(resp, "Email/get", "b", &got); err != nil {
		return nil, fmt.Errorf("fetching emails: %w", err)
	}

	byID := make(map[string]model.Email, len(got.List))
	for i, w := range got.List {
		e, err := w.toModel(i)
		if err != nil {
			return nil, fmt.Errorf("fetching emails: %w", err)
		}
		byID[e.ID] = e
	}

	// Email/get may list results in any order; the query ids carry the
	// newest-first sort.
	emails := make([]model.Email, 0, len(query.IDs))
	for _, id := range query.IDs {
		if e, ok := byID[id]; ok {
			emails = append(emails, e)
		}
	}

	c.logger.Debug("fetched emails",
		zap.String("mailbox_id", mailboxID),
		zap.Int("count", len(emails)),
		zap.Strings("not_found", got.NotFound),
	)

	return emails, nil
}

// MoveEmail replaces the mailbox membership of an email with the single
// target mailbox.
func (c *Client) MoveEmail(ctx context.Context, emailID, mailboxID string) error {
	err := c.updateEmail(ctx, emailID, map[string]any{
		"mailboxIds": map[string]bool{mailboxID: true},
	})
	if err != nil {
		return fmt.Errorf("moving email %s: %w", emailID, err)
	}
	return nil
}

// MarkRead sets the $seen keyword on an email.
func (c *Client) MarkRead(ctx context.Context, emailID string) error {
	err := c.updateEmail(ctx, emailID, map[string]any{
		"keywords/" + KeywordSeen: true,
	})
	if err != nil {
		return fmt.Errorf("marking email %s read: %w", emailID, err)
	}
	return nil
}

// updateEmail applies patch to one email with Email/set.
func (c *Client) updateEmail(ctx context.Context, emailID string, patch map[string]any) error {
	session, err := c.Session(ctx)
	if err != nil {
		return err
	}

	resp, err := c.Call(ctx, Invocation{
		Name: "Email/set",
		Args: map[string]any{
			"accountId": session.AccountID,
			"update": map[string]any{
				emailID: patch,
			},
		},
		CallID: "a",
	})
	if err != nil {
		return err
	}

	var set setResponse
	if err := result(resp, "Email/set", "a", &set); err != nil {
		return err
	}

	if setErr, ok := set.NotUpdated[emailID]; ok {
		return &apperr.RemoteOperationError{
			Op:          "Email/set",
			Type:        setErr.Type,
			Description: setErr.Description,
		}
	}

	return nil
}
