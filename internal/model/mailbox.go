package model

// Well-known mailbox names the triage loop relies on.
const (
	MailboxInbox = "Inbox"
	MailboxTrash = "Trash"
)

// Mailbox is a folder-like container for messages on the mail server.
type Mailbox struct {
	ID   string
	Name string

	// ParentID is nil for root mailboxes.
	ParentID *string

	// Role is the server-assigned role ("inbox", "trash", ...), if any.
	Role string
}

// IsRoot reports whether the mailbox has no parent.
func (m Mailbox) IsRoot() bool {
	return m.ParentID == nil
}

// FindMailboxByName returns the first mailbox whose name matches exactly.
func FindMailboxByName(mailboxes []Mailbox, name string) (Mailbox, bool) {
	for _, m := range mailboxes {
		if m.Name == name {
			return m, true
		}
	}
	return Mailbox{}, false
}
