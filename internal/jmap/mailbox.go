package jmap

import (
	"context"
	"fmt"

	"github.com/nhle/seqmail/internal/apperr"
	"github.com/nhle/seqmail/internal/model"
)

type wireMailbox struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
	Role     *string `json:"role"`
}

func (w wireMailbox) toModel(i int) (model.Mailbox, error) {
	if w.ID == nil || *w.ID == "" {
		return model.Mailbox{}, &apperr.DecodeError{
			What: fmt.Sprintf("mailbox %d: missing id", i),
		}
	}
	if w.Name == nil {
		return model.Mailbox{}, &apperr.DecodeError{
			What: fmt.Sprintf("mailbox %s: missing name", *w.ID),
		}
	}

	m := model.Mailbox{
		ID:       *w.ID,
		Name:     *w.Name,
		ParentID: w.ParentID,
	}
	if w.Role != nil {
		m.Role = *w.Role
	}
	return m, nil
}

// Mailboxes returns every mailbox of the account in server order. The list
// is fetched once and cached.
func (c *Client) Mailboxes(ctx context.Context) ([]model.Mailbox, error) {
	if c.mailboxes != nil {
		return c.mailboxes, nil
	}

	session, err := c.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching mailboxes: %w", err)
	}

	resp, err := c.Call(ctx, Invocation{
		Name: "Mailbox/get",
		Args: map[string]any{
			"accountId": session.AccountID,
		},
		CallID: "a",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching mailboxes: %w", err)
	}

	var got getResponse[wireMailbox]
	if err := result(resp, "Mailbox/get", "a", &got); err != nil {
		return nil, fmt.Errorf("fetching mailboxes: %w", err)
	}

	mailboxes := make([]model.Mailbox, 0, len(got.List))
	for i, w := range got.List {
		m, err := w.toModel(i)
		if err != nil {
			return nil, fmt.Errorf("fetching mailboxes: %w", err)
		}
		mailboxes = append(mailboxes, m)
	}

	c.mailboxes = mailboxes
	return mailboxes, nil
}

// FindMailbox returns the mailbox with exactly the given name, or a
// NotFoundError.
func (c *Client) FindMailbox(ctx context.Context, name string) (model.Mailbox, error) {
	mailboxes, err := c.Mailboxes(ctx)
	if err != nil {
		return model.Mailbox{}, err
	}

	m, ok := model.FindMailboxByName(mailboxes, name)
	if !ok {
		return model.Mailbox{}, &apperr.NotFoundError{Kind: "mailbox", Name: name}
	}
	return m, nil
}
