// Package registry implements the deduplicating person collections of a run.
//
// A Group keeps its members in insertion order; that order is the iteration
// order used by the assignment pass and the index of a member is its handle
// (models.MentorID / models.MenteeID). Identity is fuzzy (see
// models.Person.LooksLike), so collisions are never resolved automatically:
// every colliding pair is handed to an injected ConfirmFunc.
package registry

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// ConfirmFunc decides whether candidate is a duplicate of existing. It is the
// only suspension point of the registry; a returned error aborts the insert.
type ConfirmFunc[T models.Identifiable] func(ctx context.Context, candidate, existing T) (bool, error)

// AlwaysDuplicate treats every collision as the same person.
func AlwaysDuplicate[T models.Identifiable]() ConfirmFunc[T] {
	return func(context.Context, T, T) (bool, error) { return true, nil }
}

// AlwaysDistinct treats every collision as two different people.
func AlwaysDistinct[T models.Identifiable]() ConfirmFunc[T] {
	return func(context.Context, T, T) (bool, error) { return false, nil }
}

// Group is an ordered, deduplicating collection of people.
type Group[T models.Identifiable] struct {
	members []T
	confirm ConfirmFunc[T]
}

// New returns an empty group using confirm to resolve collisions.
func New[T models.Identifiable](confirm ConfirmFunc[T]) *Group[T] {
	return &Group[T]{confirm: confirm}
}

// Insert adds candidate unless it is confirmed to be a duplicate of an
// existing member. Existing members are checked in insertion order and the
// first confirmed duplicate wins; no fields are merged. It returns the index
// of the added member, or of the member that made the candidate a duplicate.
func (g *Group[T]) Insert(ctx context.Context, candidate T) (int, bool, error) {
	for i, existing := range g.members {
		if !candidate.Ident().LooksLike(existing.Ident()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return -1, false, err
		}
		dup, err := g.confirm(ctx, candidate, existing)
		if err != nil {
			return -1, false, fmt.Errorf("confirm duplicate of %q: %w", existing.Ident().FullName(), err)
		}
		if dup {
			return i, false, nil
		}
	}
	g.members = append(g.members, candidate)
	return len(g.members) - 1, true, nil
}

// Len returns the number of members.
func (g *Group[T]) Len() int { return len(g.members) }

// At returns the member with handle i.
func (g *Group[T]) At(i int) T { return g.members[i] }

// Members returns the members in insertion order. The slice is a copy; the
// members are shared.
func (g *Group[T]) Members() []T {
	out := make([]T, len(g.members))
	copy(out, g.members)
	return out
}

// Prune keeps only the members satisfying keep and returns how many were
// dropped. Handles taken before Prune are invalid afterwards.
func (g *Group[T]) Prune(keep func(T) bool) int {
	kept := g.members[:0]
	for _, m := range g.members {
		if keep(m) {
			kept = append(kept, m)
		}
	}
	dropped := len(g.members) - len(kept)
	var zero T
	for i := len(kept); i < len(g.members); i++ {
		g.members[i] = zero
	}
	g.members = kept
	return dropped
}

// Stats summarizes one batch.
type Stats struct {
	Read       int
	Skipped    int
	Added      int
	Duplicates int
}

func (s *Stats) count(added bool) {
	if added {
		s.Added++
	} else {
		s.Duplicates++
	}
}

// LoadBatch parses rows in order and inserts every person accepted by filter
// (nil accepts all). A parse error stops the batch.
func LoadBatch[T models.Identifiable, R any](ctx context.Context, g *Group[T], rows []R, parse func(R) (T, error), filter func(T) bool) (Stats, error) {
	var st Stats
	for _, row := range rows {
		st.Read++
		p, err := parse(row)
		if err != nil {
			return st, err
		}
		if filter != nil && !filter(p) {
			st.Skipped++
			continue
		}
		_, added, err := g.Insert(ctx, p)
		if err != nil {
			return st, err
		}
		st.count(added)
	}
	return st, nil
}

// Restore inserts people persisted by an earlier run.
func (g *Group[T]) Restore(ctx context.Context, people []T) (Stats, error) {
	var st Stats
	for _, p := range people {
		st.Read++
		_, added, err := g.Insert(ctx, p)
		if err != nil {
			return st, err
		}
		st.count(added)
	}
	return st, nil
}
