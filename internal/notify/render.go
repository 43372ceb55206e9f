package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/yuin/goldmark"

	"github.com/dtroode/musehabit-server/internal/model"
)

const signupSubject = "New Musehabit Signup!"

const signupBody = `A new artist joined Musehabit.

- **Username:** {{.Username}}
- **Display name:** {{.DisplayName}}
- **Email:** {{.Email}}
- **Joined:** {{.Joined}}`

// Renderer turns thresholds into emails. Bodies are markdown: the template
// filled with raw values is the text part, and the template filled with
// markdown-escaped values is rendered with goldmark for the HTML part.
type Renderer struct {
	md             goldmark.Markdown
	from           string
	reminderStream string
	signupStream   string
	reminderTmpls  map[string]*template.Template
	signupTmpl     *template.Template
}

// NewRenderer creates a Renderer. It fails if a template does not parse.
func NewRenderer(from, reminderStream, signupStream string) (*Renderer, error) {
	r := &Renderer{
		md:             goldmark.New(),
		from:           from,
		reminderStream: reminderStream,
		signupStream:   signupStream,
		reminderTmpls:  make(map[string]*template.Template, len(Table)),
	}

	for _, t := range Table {
		tmpl, err := template.New(t.Key).Parse(t.body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", t.Key, err)
		}
		r.reminderTmpls[t.Key] = tmpl
	}

	tmpl, err := template.New("signup").Parse(signupBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signup template: %w", err)
	}
	r.signupTmpl = tmpl

	return r, nil
}

// Reminder builds the reminder email for the artist.
func (r *Renderer) Reminder(t Threshold, user model.User) (model.Email, error) {
	tmpl, ok := r.reminderTmpls[t.Key]
	if !ok {
		return model.Email{}, fmt.Errorf("unknown threshold %q", t.Key)
	}
	if user.Email == "" {
		return model.Email{}, fmt.Errorf("artist %s has no email address", user.ID)
	}

	type reminderData struct {
		Name     string
		DaysLeft int
	}
	raw := reminderData{Name: user.Name(), DaysLeft: t.DaysLeft}
	escaped := reminderData{Name: escapeMarkdown(raw.Name), DaysLeft: t.DaysLeft}

	return r.build(tmpl, raw, escaped, user.Email, t.subject, r.reminderStream)
}

// SignupNotice builds the admin notice sent when an artist registers.
func (r *Renderer) SignupNotice(user model.User, to string) (model.Email, error) {
	type signupData struct {
		Username    string
		DisplayName string
		Email       string
		Joined      string
	}
	raw := signupData{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Joined:      user.JoinedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
	escaped := signupData{
		Username:    escapeMarkdown(raw.Username),
		DisplayName: escapeMarkdown(raw.DisplayName),
		Email:       escapeMarkdown(raw.Email),
		Joined:      raw.Joined,
	}

	return r.build(r.signupTmpl, raw, escaped, to, signupSubject, r.signupStream)
}

func (r *Renderer) build(tmpl *template.Template, raw, escaped any, to, subject, stream string) (model.Email, error) {
	var text bytes.Buffer
	if err := tmpl.Execute(&text, raw); err != nil {
		return model.Email{}, fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}

	var source bytes.Buffer
	if err := tmpl.Execute(&source, escaped); err != nil {
		return model.Email{}, fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}

	var html bytes.Buffer
	if err := r.md.Convert(source.Bytes(), &html); err != nil {
		return model.Email{}, fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}

	return model.Email{
		To:       to,
		From:     r.from,
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: strings.TrimSpace(text.String()),
		Stream:   stream,
	}, nil
}

// escapeMarkdown backslash-escapes every ASCII punctuation character so user
// supplied values render as literal text. Newlines become spaces.
func escapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case c == '\n' || c == '\r':
			b.WriteByte(' ')
		case c < 0x80 && (unicode.IsPunct(c) || unicode.IsSymbol(c)):
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
