package triage

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nhle/seqmail/internal/model"
	"github.com/nhle/seqmail/internal/theme"
)

const separatorWidth = 52

// WebURL builds the web client link for an email.
func WebURL(baseURL string, e model.Email) string {
	return fmt.Sprintf("%s/%s/%s.%s",
		strings.TrimRight(baseURL, "/"), model.MailboxInbox, e.ThreadID, e.ID)
}

// renderEmail prints the message header, preview and attachment notes.
func renderEmail(w io.Writer, e model.Email, webURL string) {
	from := "(unknown sender)"
	if s, ok := e.PrimarySender(); ok {
		from = s.String()
	}

	subject := e.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	fmt.Fprintln(w, theme.LabelStyle.Render("Received: ")+e.ReceivedAt)
	fmt.Fprintln(w, theme.LabelStyle.Render("From:     ")+from)
	fmt.Fprintln(w, theme.LabelStyle.Render("Subject:  ")+subject)
	fmt.Fprintln(w)
	fmt.Fprintln(w, indent(e.Preview, "    "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "View at "+theme.LinkStyle.Render(webURL))
	fmt.Fprintln(w)

	for _, a := range e.CalendarAttachments() {
		name := a.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "%s %s (%s)\n",
			theme.InviteStyle.Render("Calendar invite:"), name, humanize.Bytes(uint64(a.Size)))
		fmt.Fprintln(w)
	}

	if others := len(e.Attachments) - len(e.CalendarAttachments()); others > 0 {
		fmt.Fprintln(w, theme.LabelStyle.Render(
			fmt.Sprintf("%d other attachment(s)", others)))
		fmt.Fprintln(w)
	}
}

// renderSeparator prints the rule between two emails.
func renderSeparator(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.SeparatorStyle.Render(strings.Repeat("=", separatorWidth)))
	fmt.Fprintln(w)
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
