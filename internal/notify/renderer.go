package notify

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/dmitrijs2005/mentormatch/internal/common"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

const subjectBlock = "subject"

// MenteeData is the data of mentee templates. Mentor is nil for the
// template of mentees left without a mentor.
type MenteeData struct {
	Recipient *models.Mentee
	Mentor    *models.Mentor
}

// MentorData is the data of mentor templates: the mentees bound to the
// recipient during this run, in assignment order.
type MentorData struct {
	Recipient *models.Mentor
	Mentees   []*models.Mentee
}

// Renderer executes named templates from a folder. Parsed templates are
// cached by name.
type Renderer struct {
	fsys   fs.FS
	parsed map[string]*template.Template
}

func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys, parsed: make(map[string]*template.Template)}
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	if t, ok := r.parsed[name]; ok {
		return t, nil
	}
	raw, err := fs.ReadFile(r.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", common.ErrTemplateNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	t, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	r.parsed[name] = t
	return t, nil
}

// Render executes template name with data and returns its subject (empty
// when the template defines none) and body.
func (r *Renderer) Render(name string, data any) (subject, body string, err error) {
	t, err := r.lookup(name)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	s := t.Lookup(subjectBlock)
	if s != nil {
		if err := s.Execute(&buf, data); err != nil {
			return "", "", fmt.Errorf("render subject of %s: %w", name, err)
		}
		subject = strings.TrimSpace(buf.String())
		buf.Reset()
	}
	if err := t.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	body = buf.String()
	if s != nil {
		body = strings.TrimLeft(body, "\r\n")
	}
	return subject, body, nil
}
