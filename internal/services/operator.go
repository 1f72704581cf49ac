package services

import (
	"context"

	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// Operator answers the questions of a run and is shown its findings. The
// interactive command line and the unattended policies both implement it.
type Operator interface {
	// Confirm asks a yes/no question whose default answer is yes.
	Confirm(ctx context.Context, question string) (bool, error)
	// Choose picks one of options and returns its index.
	Choose(ctx context.Context, prompt string, options []string) (int, error)
	// SamePerson decides whether candidate and existing, who look alike,
	// are one person.
	SamePerson(ctx context.Context, role models.Role, candidate, existing *models.Person) (bool, error)
	// Inform shows a list of lines under header.
	Inform(ctx context.Context, header string, lines []string)
}
