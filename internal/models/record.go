package models

import "time"

// Record is the persisted form of a person, kept between runs.
// MenteeCount is only meaningful for mentors: the load they had when saved.
type Record struct {
	Role           Role      `json:"role"`
	Surname        string    `json:"surname"`
	GivenName      string    `json:"given_name"`
	Email          string    `json:"email"`
	Languages      []string  `json:"languages"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	University     string    `json:"university"`
	PresentAtEvent bool      `json:"present_at_event"`
	HelpingAtEvent bool      `json:"helping_at_event,omitempty"`
	MenteeCount    int       `json:"mentee_count,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Key is the storage key of the record, see Person.Key.
func (r Record) Key() string {
	p := r.person()
	return p.Key()
}

func (r Record) person() Person {
	langs := make([]string, len(r.Languages))
	copy(langs, r.Languages)
	return Person{
		Surname:        r.Surname,
		GivenName:      r.GivenName,
		Email:          r.Email,
		Languages:      langs,
		Country:        r.Country,
		City:           r.City,
		University:     r.University,
		PresentAtEvent: r.PresentAtEvent,
		SubmittedAt:    r.SubmittedAt,
	}
}

func recordOf(role Role, p *Person) Record {
	langs := make([]string, len(p.Languages))
	copy(langs, p.Languages)
	return Record{
		Role:           role,
		Surname:        p.Surname,
		GivenName:      p.GivenName,
		Email:          p.Email,
		Languages:      langs,
		Country:        p.Country,
		City:           p.City,
		University:     p.University,
		PresentAtEvent: p.PresentAtEvent,
		SubmittedAt:    p.SubmittedAt,
	}
}

// MentorRecord snapshots a mentor, folding its current load into MenteeCount.
func MentorRecord(m *Mentor) Record {
	r := recordOf(RoleMentor, &m.Person)
	r.HelpingAtEvent = m.HelpingAtEvent
	r.MenteeCount = m.Load()
	return r
}

// MenteeRecord snapshots a mentee. The mentor binding is not persisted.
func MenteeRecord(m *Mentee) Record {
	return recordOf(RoleMentee, &m.Person)
}

// Mentor rebuilds a mentor whose earlier mentees count as prior load.
func (r Record) Mentor() *Mentor {
	return &Mentor{
		Person:         r.person(),
		HelpingAtEvent: r.HelpingAtEvent,
		PriorLoad:      r.MenteeCount,
	}
}

// Mentee rebuilds an unbound mentee.
func (r Record) Mentee() *Mentee {
	return NewMentee(r.person())
}
