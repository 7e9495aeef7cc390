package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail_CalendarAttachments(t *testing.T) {
	e := Email{
		Attachments: []Attachment{
			{Name: "invite.ics", Type: "text/calendar"},
			{Name: "photo.jpg", Type: "image/jpeg"},
			{Name: "update.ics", Type: "TEXT/CALENDAR"},
		},
	}

	got := e.CalendarAttachments()
	if assert.Len(t, got, 2) {
		assert.Equal(t, "invite.ics", got[0].Name)
		assert.Equal(t, "update.ics", got[1].Name)
	}
}

func TestEmail_CanUnsubscribe(t *testing.T) {
	assert.False(t, Email{}.CanUnsubscribe())
	assert.False(t, Email{UnsubscribeURLs: []string{}}.CanUnsubscribe())
	assert.True(t, Email{UnsubscribeURLs: []string{"mailto:x@example.com"}}.CanUnsubscribe())
}

func TestSender_String(t *testing.T) {
	assert.Equal(t, "Ann <ann@example.com>", Sender{Name: "Ann", Email: "ann@example.com"}.String())
	assert.Equal(t, "<ann@example.com>", Sender{Email: "ann@example.com"}.String())
}

func TestFindMailboxByName(t *testing.T) {
	parent := "root"
	boxes := []Mailbox{
		{ID: "1", Name: "Inbox"},
		{ID: "2", Name: "Trash", ParentID: &parent},
		{ID: "3", Name: "Trash"},
	}

	m, ok := FindMailboxByName(boxes, "Trash")
	assert.True(t, ok)
	assert.Equal(t, "2", m.ID)
	assert.False(t, m.IsRoot())

	_, ok = FindMailboxByName(boxes, "inbox")
	assert.False(t, ok, "names match exactly")
}
