package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/mentormatch/internal/logging"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// Templates names the template of each kind of message.
type Templates struct {
	Mentees      string
	AloneMentees string
	Mentors      string
}

// Message is one rendered notification.
type Message struct {
	Role    models.Role
	To      string
	Name    string
	Subject string
	Body    string
}

// Notifier renders and delivers the messages of a run.
type Notifier struct {
	renderer  *Renderer
	mailer    Mailer
	templates Templates
	log       logging.Logger
}

func NewNotifier(renderer *Renderer, mailer Mailer, templates Templates, log logging.Logger) *Notifier {
	return &Notifier{renderer: renderer, mailer: mailer, templates: templates, log: log}
}

// Compose renders one message per mentee, in order, then one message per
// mentor having at least one mentee. Mentor and mentee handles index the
// given slices. A missing template aborts composition.
func (n *Notifier) Compose(mentors []*models.Mentor, mentees []*models.Mentee) ([]Message, error) {
	msgs := make([]Message, 0, len(mentees)+len(mentors))

	for _, m := range mentees {
		name, data := n.templates.AloneMentees, MenteeData{Recipient: m}
		if id, ok := m.Mentor(); ok {
			name, data.Mentor = n.templates.Mentees, mentors[id]
		}
		msg, err := n.render(models.RoleMentee, &m.Person, name, data)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	for _, m := range mentors {
		if len(m.Mentees) == 0 {
			continue
		}
		data := MentorData{Recipient: m, Mentees: make([]*models.Mentee, 0, len(m.Mentees))}
		for _, id := range m.Mentees {
			data.Mentees = append(data.Mentees, mentees[id])
		}
		msg, err := n.render(models.RoleMentor, &m.Person, n.templates.Mentors, data)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}

func (n *Notifier) render(role models.Role, p *models.Person, name string, data any) (Message, error) {
	subject, body, err := n.renderer.Render(name, data)
	if err != nil {
		return Message{}, fmt.Errorf("%s %s: %w", role, p.FullName(), err)
	}
	return Message{Role: role, To: p.Email, Name: p.FullName(), Subject: subject, Body: body}, nil
}

// WriteArtifact writes the bodies of msgs one after another, each ending
// with a newline.
func WriteArtifact(w io.Writer, msgs []Message) error {
	for _, m := range msgs {
		body := m.Body
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		if _, err := io.WriteString(w, body); err != nil {
			return fmt.Errorf("write message for %s: %w", m.To, err)
		}
	}
	return nil
}

// Dispatch sends msgs through the mailer and returns how many were sent.
// Messages without a recipient address are skipped; failures are collected
// and do not stop the remaining messages.
func (n *Notifier) Dispatch(ctx context.Context, msgs []Message) (int, error) {
	var (
		sent int
		errs []error
	)
	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if m.To == "" {
			n.log.Warn(ctx, "no email address, message not sent", "name", m.Name, "role", m.Role)
			continue
		}
		if err := n.mailer.Send(ctx, m.To, m.Subject, m.Body); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", m.To, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
