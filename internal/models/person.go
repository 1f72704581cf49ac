// Package models defines the people handled by a matching run: mentors,
// mentees and the record form they are persisted in between runs.
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/mentormatch/internal/compat"
)

// Role classifies a person.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// MentorID is a handle into the mentor registry of a run.
type MentorID int

// MenteeID is a handle into the mentee registry of a run.
type MenteeID int

// NoMentor is the handle of an unbound mentee.
const NoMentor MentorID = -1

// Identifiable is implemented by every person variant so that registries can
// compare identities without knowing the variant.
type Identifiable interface {
	Ident() *Person
}

// Person holds the survey answers shared by mentors and mentees.
type Person struct {
	Surname        string
	GivenName      string
	Email          string
	Languages      []string
	Country        string
	City           string
	University     string
	PresentAtEvent bool
	SubmittedAt    time.Time
}

func (p *Person) Ident() *Person { return p }

// LooksLike reports whether o might be the same person as p: same email, or
// same given name and surname, all compared in normalized form.
func (p *Person) LooksLike(o *Person) bool {
	if compat.Equal(p.Email, o.Email) {
		return true
	}
	return compat.Equal(p.GivenName, o.GivenName) && compat.Equal(p.Surname, o.Surname)
}

// FullName returns "GivenName Surname".
func (p *Person) FullName() string {
	return strings.TrimSpace(p.GivenName + " " + p.Surname)
}

// LanguageList renders the spoken languages for templates and prompts.
func (p *Person) LanguageList() string {
	return strings.Join(p.Languages, ", ")
}

// Key is the storage key of the person: normalized given name and surname,
// or the normalized email for a person known by email only.
func (p *Person) Key() string {
	given, surname := compat.Normalize(p.GivenName), compat.Normalize(p.Surname)
	if given == "" && surname == "" {
		return compat.Normalize(p.Email)
	}
	return given + "." + surname
}

// ParseLanguages splits a ";" separated survey cell into a sorted set.
// Entries equal after normalization are kept once.
func ParseLanguages(cell string) []string {
	seen := make(map[string]struct{})
	langs := make([]string, 0)
	for _, l := range strings.Split(cell, ";") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		k := compat.Normalize(l)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Mentor is a person offering help. Mentees lists the mentees bound during
// the current run, in assignment order; PriorLoad counts the mentees bound in
// earlier runs.
type Mentor struct {
	Person
	HelpingAtEvent bool
	PriorLoad      int
	Mentees        []MenteeID
}

// Load is the number of mentees the mentor takes care of.
func (m *Mentor) Load() int {
	return m.PriorLoad + len(m.Mentees)
}

func (m *Mentor) String() string {
	return fmt.Sprintf(" - %s, %s, have studied in %s, speak %s.",
		m.FullName(), m.Email, m.Country, m.LanguageList())
}

// Mentee is a person looking for a mentor.
type Mentee struct {
	Person
	mentor MentorID
	bound  bool
}

// NewMentee returns an unbound mentee.
func NewMentee(p Person) *Mentee {
	return &Mentee{Person: p, mentor: NoMentor}
}

// Mentor returns the handle of the bound mentor, if any.
func (m *Mentee) Mentor() (MentorID, bool) {
	if !m.bound {
		return NoMentor, false
	}
	return m.mentor, true
}

// HasMentor reports whether a mentor is bound.
func (m *Mentee) HasMentor() bool { return m.bound }

// Bind attaches the mentee to mentor id and appends it to the mentor's list,
// keeping both sides consistent. Binding the same pair twice is a no-op. A
// mentee already bound to another mentor is left untouched and Bind reports
// false.
func (m *Mentee) Bind(self MenteeID, id MentorID, mentor *Mentor) bool {
	if m.bound && m.mentor != id {
		return false
	}
	m.mentor = id
	m.bound = true
	for _, existing := range mentor.Mentees {
		if existing == self {
			return true
		}
	}
	mentor.Mentees = append(mentor.Mentees, self)
	return true
}

func (m *Mentee) String() string {
	return fmt.Sprintf(" - %s, %s, want to go to %s, speak %s.",
		m.FullName(), m.Email, m.Country, m.LanguageList())
}
