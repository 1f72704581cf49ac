package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/mentormatch/internal/compat"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// Prompter asks the questions of a run on a terminal.
type Prompter struct {
	reader *bufio.Reader
	w      io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(r), w: w}
}

// Confirm asks question; anything but "n" or "no" means yes.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	ans, err := readLine(ctx, p.reader, "\n"+question+" [Y/n]", p.w)
	if err != nil {
		return false, err
	}
	return !compat.Equal(ans, "n") && !compat.Equal(ans, "no"), nil
}

// Choose lists options and reads a 1-based selection. Anything but a valid
// number selects the first option.
func (p *Prompter) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	fmt.Fprintln(p.w, "\n"+prompt)
	for i, o := range options {
		fmt.Fprintf(p.w, "%d: %s\n", i+1, o)
	}
	ans, err := readLine(ctx, p.reader, "Enter a selection (default=1):", p.w)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(ans)
	if err != nil || n < 1 || n > len(options) {
		return 0, nil
	}
	return n - 1, nil
}

// SamePerson shows both people and asks whether they are one.
func (p *Prompter) SamePerson(ctx context.Context, role models.Role, candidate, existing *models.Person) (bool, error) {
	fmt.Fprintf(p.w, "\nThese %ss look alike:\n", role)
	fmt.Fprintln(p.w, describe(existing))
	fmt.Fprintln(p.w, describe(candidate))
	return p.Confirm(ctx, "Are these people the same person?")
}

// Inform prints header and lines.
func (p *Prompter) Inform(_ context.Context, header string, lines []string) {
	fmt.Fprintln(p.w, "\n"+header)
	for _, l := range lines {
		fmt.Fprintln(p.w, l)
	}
}

func describe(p *models.Person) string {
	return fmt.Sprintf(" - %s, %s, %s, %s, %s, speak %s (answered %s)",
		p.FullName(), p.Email, p.Country, p.City, p.University, p.LanguageList(),
		p.SubmittedAt.Format("2006-01-02 15:04"))
}
