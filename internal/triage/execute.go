package triage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/seqmail/internal/apperr"
	"github.com/nhle/seqmail/internal/model"
	"github.com/nhle/seqmail/internal/theme"
)

// secureScheme is the only scheme accepted for unsubscribe links.
const secureScheme = "https://"

// UnsubscribeURL returns the first https URL in list order.
func UnsubscribeURL(e model.Email) (string, bool) {
	for _, u := range e.UnsubscribeURLs {
		if strings.HasPrefix(u, secureScheme) {
			return u, true
		}
	}
	return "", false
}

// execute carries out a single action against one email.
func (t *Triager) execute(ctx context.Context, e model.Email, action Action) (Outcome, error) {
	switch a := action.(type) {
	case Skip:
		return OutcomeHandled, nil

	case Quit:
		return OutcomeQuit, nil

	case File:
		if err := t.mail.MoveEmail(ctx, e.ID, a.MailboxID); err != nil {
			return OutcomeStay, err
		}
		return OutcomeHandled, nil

	case MarkRead:
		if err := t.mail.MarkRead(ctx, e.ID); err != nil {
			return OutcomeStay, err
		}
		fmt.Fprintln(t.out, theme.SuccessStyle.Render("Marked as read."))
		return OutcomeStay, nil

	case AddTodo:
		if err := t.tasks.CreateTask(ctx, a.Text, WebURL(t.webBaseURL, e)); err != nil {
			return OutcomeStay, err
		}
		fmt.Fprintln(t.out, theme.SuccessStyle.Render("Todo created."))
		return OutcomeStay, nil

	case Unsubscribe:
		if !e.CanUnsubscribe() {
			return OutcomeStay, &apperr.ValidationError{
				Message: "email " + e.ID + " has no unsubscribe URLs",
			}
		}
		url, ok := UnsubscribeURL(e)
		if !ok {
			fmt.Fprintln(t.out, "No https unsubscribe link found.")
			return OutcomeStay, nil
		}
		t.openURL(url)
		return OutcomeStay, nil

	case Open:
		t.openURL(WebURL(t.webBaseURL, e))
		return OutcomeStay, nil

	default:
		return OutcomeStay, fmt.Errorf("unknown action %T", action)
	}
}

// openURL is best effort: a browser that fails to start is reported and
// the loop carries on.
func (t *Triager) openURL(url string) {
	if err := t.browser.Open(url); err != nil {
		t.logger.Warn("opening browser failed", zap.String("url", url), zap.Error(err))
		fmt.Fprintf(t.out, "Could not open browser: %v\n", err)
	}
}
