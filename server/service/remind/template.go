package remind

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"

	"github.com/magicailabs/magicai/store"
)

// markdownToHTML renders user-authored descriptions for the email body.
// On a render failure the raw text is escaped and used as-is.
func markdownToHTML(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		slog.Warn("failed to render markdown description", "error", err)
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return buf.String()
}

func renderCardEmail(item *store.CardReminder) (subject, body string) {
	due := time.Unix(item.Card.DueTs, 0).Format("02/01/2006")

	if item.Language == store.LanguageEN {
		subject = fmt.Sprintf("Reminder: %q is due on %s", item.Card.Title, due)
		body = fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Your task <strong>%s</strong> in <em>%s / %s</em> is due on <strong>%s</strong>.</p>
%s`,
			html.EscapeString(item.UserName),
			html.EscapeString(item.Card.Title),
			html.EscapeString(item.ProjectName),
			html.EscapeString(item.SectionName),
			due,
			markdownToHTML(item.Card.Description))
		return subject, body
	}

	subject = fmt.Sprintf("Recordatorio: %q vence el %s", item.Card.Title, due)
	body = fmt.Sprintf(`<h2>Hola %s,</h2>
<p>Tu tarea <strong>%s</strong> en <em>%s / %s</em> vence el <strong>%s</strong>.</p>
%s`,
		html.EscapeString(item.UserName),
		html.EscapeString(item.Card.Title),
		html.EscapeString(item.ProjectName),
		html.EscapeString(item.SectionName),
		due,
		markdownToHTML(item.Card.Description))
	return subject, body
}

func renderReminderEmail(item *store.ReminderNotice) (subject, body string) {
	if item.Language == store.LanguageEN {
		subject = fmt.Sprintf("Reminder: %s", item.Reminder.Title)
		body = fmt.Sprintf(`<h2>Hi %s,</h2>
<p>This is your reminder: <strong>%s</strong></p>
%s`,
			html.EscapeString(item.UserName),
			html.EscapeString(item.Reminder.Title),
			markdownToHTML(item.Reminder.Description))
		return subject, body
	}

	subject = fmt.Sprintf("Recordatorio: %s", item.Reminder.Title)
	body = fmt.Sprintf(`<h2>Hola %s,</h2>
<p>Este es tu recordatorio: <strong>%s</strong></p>
%s`,
		html.EscapeString(item.UserName),
		html.EscapeString(item.Reminder.Title),
		markdownToHTML(item.Reminder.Description))
	return subject, body
}
