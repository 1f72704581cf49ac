package cli

import (
	"context"

	"github.com/dmitrijs2005/mentormatch/internal/config"
	"github.com/dmitrijs2005/mentormatch/internal/logging"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// operator answers the questions of a run, asking the prompter when there
// is one and the configuration allows it.
type operator struct {
	prompt    *Prompter
	assumeYes bool
	policy    string
	log       logging.Logger
}

func newOperator(prompt *Prompter, assumeYes bool, policy string, log logging.Logger) *operator {
	return &operator{prompt: prompt, assumeYes: assumeYes, policy: policy, log: log}
}

func (o *operator) Confirm(ctx context.Context, question string) (bool, error) {
	if o.assumeYes || o.prompt == nil {
		o.log.Info(ctx, "answered yes", "question", question)
		return true, nil
	}
	return o.prompt.Confirm(ctx, question)
}

func (o *operator) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	if o.prompt == nil {
		o.log.Warn(ctx, "several candidates, using the first", "candidates", options)
		return 0, nil
	}
	return o.prompt.Choose(ctx, prompt, options)
}

func (o *operator) SamePerson(ctx context.Context, role models.Role, candidate, existing *models.Person) (bool, error) {
	switch o.policy {
	case config.PolicyDistinct:
		return false, nil
	case config.PolicyDuplicate:
		return true, nil
	}
	if o.prompt == nil {
		o.log.Warn(ctx, "possible duplicate merged", "role", role,
			"kept", existing.FullName()+" <"+existing.Email+">",
			"dropped", candidate.FullName()+" <"+candidate.Email+">")
		return true, nil
	}
	return o.prompt.SamePerson(ctx, role, candidate, existing)
}

func (o *operator) Inform(ctx context.Context, header string, lines []string) {
	if o.prompt == nil {
		o.log.Warn(ctx, header, "people", lines)
		return
	}
	o.prompt.Inform(ctx, header, lines)
}
