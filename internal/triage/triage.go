// Package triage walks the inbox one email at a time and applies the
// action the operator picks for each.
package triage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/seqmail/internal/model"
)

// Menu and prompt titles.
const (
	actionMenuTitle  = "What do you want to do?"
	mailboxMenuTitle = "File where? (Press Esc to go back)"
	todoQuestion     = "What do you need to do? (Leave empty to abort)"
)

// MailClient is the subset of the JMAP client the loop needs.
type MailClient interface {
	Mailboxes(ctx context.Context) ([]model.Mailbox, error)
	FindMailbox(ctx context.Context, name string) (model.Mailbox, error)
	Emails(ctx context.Context, mailboxID string) ([]model.Email, error)
	MoveEmail(ctx context.Context, emailID, mailboxID string) error
	MarkRead(ctx context.Context, emailID string) error
}

// TaskCreator creates a todo. note carries the email's web link.
type TaskCreator interface {
	CreateTask(ctx context.Context, text, note string) error
}

// URLOpener opens a link in the browser.
type URLOpener interface {
	Open(url string) error
}

// Menu shows a single-select menu and returns the chosen index, or
// ok=false when the operator cancels.
type Menu interface {
	Show(title string, options []string) (index int, ok bool, err error)
}

// Prompter asks for one line of free text.
type Prompter interface {
	Ask(question string) (string, error)
}

// mailboxShortcuts annotates well-known mailboxes in the File menu.
var mailboxShortcuts = map[string]string{
	"Spam":                "s",
	"Archive":             "a",
	"Trash":               "t",
	"Delete after 1 year": "1",
	"Receipts":            "r",
	"Make filter":         "f",
}

// MailboxLabel returns the File menu text for a mailbox.
func MailboxLabel(m model.Mailbox) string {
	if key, ok := mailboxShortcuts[m.Name]; ok {
		return fmt.Sprintf("[%s] %s", key, m.Name)
	}
	return m.Name
}

// Options wires the collaborators of a Triager.
type Options struct {
	Mail       MailClient
	Tasks      TaskCreator
	Browser    URLOpener
	Menu       Menu
	Prompt     Prompter
	Out        io.Writer
	Logger     *zap.Logger
	WebBaseURL string
}

// Triager runs the decision loop.
type Triager struct {
	mail       MailClient
	tasks      TaskCreator
	browser    URLOpener
	menu       Menu
	prompt     Prompter
	out        io.Writer
	logger     *zap.Logger
	webBaseURL string
}

// New creates a Triager.
func New(opts Options) *Triager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := opts.WebBaseURL
	if base == "" {
		base = model.DefaultWebBaseURL
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &Triager{
		mail:       opts.Mail,
		tasks:      opts.Tasks,
		browser:    opts.Browser,
		menu:       opts.Menu,
		prompt:     opts.Prompt,
		out:        out,
		logger:     logger,
		webBaseURL: base,
	}
}

// Summary reports what a run did.
type Summary struct {
	Total   int
	Handled int
	Quit    bool
}

// Run triages the inbox, newest email first. It returns when every email
// was handled or the operator quit.
func (t *Triager) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	inbox, err := t.mail.FindMailbox(ctx, model.MailboxInbox)
	if err != nil {
		return sum, err
	}

	emails, err := t.mail.Emails(ctx, inbox.ID)
	if err != nil {
		return sum, err
	}
	sum.Total = len(emails)
	t.logger.Info("triage started", zap.Int("emails", len(emails)))

	if len(emails) == 0 {
		fmt.Fprintln(t.out, "Inbox zero.")
		return sum, nil
	}

	for _, e := range emails {
		outcome, err := t.TriageEmail(ctx, e)
		if err != nil {
			return sum, err
		}
		if outcome == OutcomeQuit {
			sum.Quit = true
			fmt.Fprintln(t.out, "Quitting.")
			return sum, nil
		}
		sum.Handled++
	}

	return sum, nil
}

// TriageEmail shows one email and loops on the action menu until an
// action handles it or the operator quits.
func (t *Triager) TriageEmail(ctx context.Context, e model.Email) (Outcome, error) {
	renderEmail(t.out, e, WebURL(t.webBaseURL, e))

	offered := ActionsFor(e)
	for {
		action, err := t.choose(ctx, offered)
		if err != nil {
			return OutcomeStay, err
		}
		if action == nil {
			continue
		}

		outcome, err := t.execute(ctx, e, action)
		if err != nil {
			return outcome, err
		}
		t.logger.Info("action executed",
			zap.String("email_id", e.ID),
			zap.Stringer("action", action.Kind()),
		)

		switch outcome {
		case OutcomeStay:
			continue
		case OutcomeHandled:
			fmt.Fprintf(t.out, "Action selected: %s\n", action.Kind())
			renderSeparator(t.out)
		}
		return outcome, nil
	}
}

// choose runs one decision round. A nil Action with a nil error means the
// round produced nothing and should be retried.
func (t *Triager) choose(ctx context.Context, offered []Descriptor) (Action, error) {
	texts := make([]string, len(offered))
	for i, d := range offered {
		texts[i] = d.MenuText()
	}

	idx, ok, err := t.menu.Show(actionMenuTitle, texts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Quit{}, nil
	}
	if idx < 0 || idx >= len(offered) {
		return nil, fmt.Errorf("menu returned index %d of %d options", idx, len(offered))
	}

	switch offered[idx].Kind {
	case KindSkip:
		return Skip{}, nil
	case KindDelete:
		return t.chooseTrash(ctx)
	case KindMarkRead:
		return MarkRead{}, nil
	case KindAddTodo:
		return t.chooseTodo()
	case KindFile:
		return t.chooseMailbox(ctx)
	case KindUnsubscribe:
		return Unsubscribe{}, nil
	case KindOpen:
		return Open{}, nil
	case KindQuit:
		return Quit{}, nil
	default:
		return nil, fmt.Errorf("unhandled action kind %d", offered[idx].Kind)
	}
}

func (t *Triager) chooseTodo() (Action, error) {
	text, err := t.prompt.Ask(todoQuestion)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Fprintln(t.out, "\nNo todo made.")
		fmt.Fprintln(t.out)
		return nil, nil
	}
	return AddTodo{Text: text}, nil
}

func (t *Triager) chooseMailbox(ctx context.Context) (Action, error) {
	mailboxes, err := t.mail.Mailboxes(ctx)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(mailboxes))
	for i, m := range mailboxes {
		labels[i] = MailboxLabel(m)
	}

	idx, ok, err := t.menu.Show(mailboxMenuTitle, labels)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if idx < 0 || idx >= len(mailboxes) {
		return nil, fmt.Errorf("menu returned index %d of %d mailboxes", idx, len(mailboxes))
	}

	chosen := mailboxes[idx]
	fmt.Fprintln(t.out, chosen.Name)
	return File{MailboxID: chosen.ID, MailboxName: chosen.Name, Via: KindFile}, nil
}

func (t *Triager) chooseTrash(ctx context.Context) (Action, error) {
	trash, err := t.mail.FindMailbox(ctx, model.MailboxTrash)
	if err != nil {
		return nil, err
	}
	return File{MailboxID: trash.ID, MailboxName: trash.Name, Via: KindDelete}, nil
}
