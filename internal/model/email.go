package model

import (
	"fmt"
	"strings"
)

// MIMETypeCalendar marks an attachment as a calendar invite.
const MIMETypeCalendar = "text/calendar"

// Sender is one entry of a message's From header.
type Sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String formats the sender as "Name <address>".
func (s Sender) String() string {
	if s.Name == "" {
		return "<" + s.Email + ">"
	}
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// Attachment holds the metadata of a message attachment. Only Type is
// interpreted; the rest is carried through unmodified.
type Attachment struct {
	BlobID      string `json:"blobId"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Disposition string `json:"disposition"`
	Charset     string `json:"charset"`
	Language    string `json:"language"`
	Location    string `json:"location"`
	CID         string `json:"cid"`
	PartID      string `json:"partId"`
}

// IsCalendar reports whether the attachment is a calendar invite.
func (a Attachment) IsCalendar() bool {
	return strings.EqualFold(a.Type, MIMETypeCalendar)
}

// Email is an immutable snapshot of a message's metadata.
type Email struct {
	ID          string
	ThreadID    string
	Subject     string
	Preview     string
	ReceivedAt  string
	From        []Sender
	Attachments []Attachment

	// UnsubscribeURLs is nil when the message has no List-Unsubscribe
	// header.
	UnsubscribeURLs []string
}

// PrimarySender returns the first sender, if any.
func (e Email) PrimarySender() (Sender, bool) {
	if len(e.From) == 0 {
		return Sender{}, false
	}
	return e.From[0], true
}

// CanUnsubscribe reports whether the message carries at least one
// unsubscribe URL.
func (e Email) CanUnsubscribe() bool {
	return len(e.UnsubscribeURLs) > 0
}

// CalendarAttachments returns the attachments that are calendar invites.
func (e Email) CalendarAttachments() []Attachment {
	var out []Attachment
	for _, a := range e.Attachments {
		if a.IsCalendar() {
			out = append(out, a)
		}
	}
	return out
}
