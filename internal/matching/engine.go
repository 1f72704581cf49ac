// Package matching assigns mentors to mentees.
//
// The assignment is greedy: mentees are taken one at a time in registry
// order, and each one gets the least loaded mentor among the best candidates
// at that moment. Candidates are narrowed in cascade:
//
//  1. same country (hard filter: no mentor there means no assignment),
//  2. same city, kept only if it leaves at least one candidate,
//  3. same university among those, with the same rule.
//
// Ties on load go to the mentor that came first in the mentor registry.
package matching

import (
	"github.com/dmitrijs2005/mentormatch/internal/compat"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// Result lists the outcome of an assignment pass, in mentee order.
type Result struct {
	Assigned   []models.MenteeID
	Unassigned []models.MenteeID
}

type place struct {
	country, city, university string
}

func placeOf(p *models.Person) place {
	return place{
		country:    compat.Normalize(p.Country),
		city:       compat.Normalize(p.City),
		university: compat.Normalize(p.University),
	}
}

// Engine holds the mentor pool of a run. The pool slice is indexed by
// models.MentorID and must not be reordered while the engine is in use.
type Engine struct {
	mentors []*models.Mentor
	places  []place
}

// NewEngine returns an engine over mentors; their normalized places are
// computed once.
func NewEngine(mentors []*models.Mentor) *Engine {
	places := make([]place, len(mentors))
	for i, m := range mentors {
		places[i] = placeOf(&m.Person)
	}
	return &Engine{mentors: mentors, places: places}
}

// Candidates returns the mentors left after the cascade of filters, in pool
// order. An empty result means the mentee cannot be assigned.
func (e *Engine) Candidates(mentee *models.Mentee) []models.MentorID {
	want := placeOf(&mentee.Person)

	var ids []models.MentorID
	for i, p := range e.places {
		if p.country == want.country {
			ids = append(ids, models.MentorID(i))
		}
	}
	if len(ids) == 0 {
		return nil
	}

	ids = e.narrow(ids, func(p place) bool { return p.city == want.city })
	ids = e.narrow(ids, func(p place) bool { return p.university == want.university })
	return ids
}

// narrow applies a soft filter: the narrowed set replaces ids only when it
// is not empty.
func (e *Engine) narrow(ids []models.MentorID, keep func(place) bool) []models.MentorID {
	var out []models.MentorID
	for _, id := range ids {
		if keep(e.places[id]) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return ids
	}
	return out
}

// Assign binds mentee (handle id) to the least loaded candidate mentor and
// returns that mentor. It returns false when no mentor shares the mentee's
// country; the mentee is then left unbound. A mentee that already has a
// mentor keeps it.
func (e *Engine) Assign(id models.MenteeID, mentee *models.Mentee) (models.MentorID, bool) {
	if current, ok := mentee.Mentor(); ok {
		return current, true
	}

	ids := e.Candidates(mentee)
	if len(ids) == 0 {
		return models.NoMentor, false
	}

	best := ids[0]
	for _, c := range ids[1:] {
		if e.mentors[c].Load() < e.mentors[best].Load() {
			best = c
		}
	}

	mentee.Bind(id, best, e.mentors[best])
	return best, true
}

// AssignAll runs Assign over mentees in slice order, the slice index being
// the mentee handle.
func (e *Engine) AssignAll(mentees []*models.Mentee) Result {
	var res Result
	for i, m := range mentees {
		id := models.MenteeID(i)
		if _, ok := e.Assign(id, m); ok {
			res.Assigned = append(res.Assigned, id)
		} else {
			res.Unassigned = append(res.Unassigned, id)
		}
	}
	return res
}
