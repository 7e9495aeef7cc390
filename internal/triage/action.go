package triage

import (
	"fmt"

	"github.com/nhle/seqmail/internal/model"
)

// Kind identifies an entry of the action catalog.
type Kind int

const (
	KindSkip Kind = iota
	KindDelete
	KindMarkRead
	KindAddTodo
	KindFile
	KindUnsubscribe
	KindOpen
	KindQuit
)

// Descriptor is the menu presentation of an action kind.
type Descriptor struct {
	Kind  Kind
	Key   string
	Label string
}

// MenuText formats the descriptor as "[key] label".
func (d Descriptor) MenuText() string {
	return fmt.Sprintf("[%s] %s", d.Key, d.Label)
}

// Catalog lists every action kind in menu order.
var Catalog = []Descriptor{
	{Kind: KindSkip, Key: "s", Label: "Skip"},
	{Kind: KindDelete, Key: "d", Label: "Delete"},
	{Kind: KindMarkRead, Key: "m", Label: "Mark as read"},
	{Kind: KindAddTodo, Key: "t", Label: "Make todo..."},
	{Kind: KindFile, Key: "f", Label: "File under..."},
	{Kind: KindUnsubscribe, Key: "u", Label: "Unsubscribe..."},
	{Kind: KindOpen, Key: "o", Label: "Open in browser"},
	{Kind: KindQuit, Key: "q", Label: "Quit"},
}

// Describe returns the catalog entry for k.
func Describe(k Kind) Descriptor {
	for _, d := range Catalog {
		if d.Kind == k {
			return d
		}
	}
	return Descriptor{Kind: k, Label: fmt.Sprintf("Kind(%d)", int(k))}
}

func (k Kind) String() string {
	return Describe(k).Label
}

// ActionsFor returns the catalog entries offered for an email, in catalog
// order. Unsubscribe is offered only when the email has an unsubscribe URL.
func ActionsFor(e model.Email) []Descriptor {
	out := make([]Descriptor, 0, len(Catalog))
	for _, d := range Catalog {
		if d.Kind == KindUnsubscribe && !e.CanUnsubscribe() {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Action is a decision ready to execute. The concrete types below are the
// only implementations.
type Action interface {
	Kind() Kind
}

// AddTodo creates a task with the given text.
type AddTodo struct {
	Text string
}

// Skip leaves the email where it is.
type Skip struct{}

// File moves the email into a mailbox.
type File struct {
	MailboxID   string
	MailboxName string

	// Via records the catalog entry that produced the move (File or
	// Delete).
	Via Kind
}

// MarkRead marks the email as seen.
type MarkRead struct{}

// Unsubscribe opens the email's unsubscribe link.
type Unsubscribe struct{}

// Open shows the email in the web client.
type Open struct{}

// Quit ends the whole run.
type Quit struct{}

func (AddTodo) Kind() Kind     { return KindAddTodo }
func (Skip) Kind() Kind        { return KindSkip }
func (MarkRead) Kind() Kind    { return KindMarkRead }
func (Unsubscribe) Kind() Kind { return KindUnsubscribe }
func (Open) Kind() Kind        { return KindOpen }
func (Quit) Kind() Kind        { return KindQuit }

func (f File) Kind() Kind {
	if f.Via == KindDelete {
		return KindDelete
	}
	return KindFile
}

// Outcome tells the loop what to do after an action ran.
type Outcome int

const (
	// OutcomeStay keeps the same email and shows the menu again.
	OutcomeStay Outcome = iota
	// OutcomeHandled moves on to the next email.
	OutcomeHandled
	// OutcomeQuit ends the run.
	OutcomeQuit
)
