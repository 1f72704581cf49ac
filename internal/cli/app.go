package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mentormatch/internal/config"
	"github.com/dmitrijs2005/mentormatch/internal/logging"
	"github.com/dmitrijs2005/mentormatch/internal/metrics"
	"github.com/dmitrijs2005/mentormatch/internal/notify"
	"github.com/dmitrijs2005/mentormatch/internal/repositories/people"
	"github.com/dmitrijs2005/mentormatch/internal/services"
)

type App struct {
	config  *config.Config
	store   people.Repository
	service *services.MatchService
	out     io.Writer
	log     logging.Logger
}

// NewApp wires an App reading answers from stdin when it is a terminal.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	interactive := isTerminal(int(os.Stdin.Fd()))
	log := logging.New(os.Stderr, c.LogLevel)
	return newApp(ctx, c, os.Stdin, os.Stdout, interactive, log)
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, interactive bool, log logging.Logger) (*App, error) {
	store, err := people.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	mailer, err := notify.NewMailer(ctx, notify.MailerConfig{
		Provider:    c.MailProvider,
		FromAddress: c.MailFromAddress,
		FromName:    c.MailFromName,
		SES: notify.SESConfig{
			Region:          c.SESRegion,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
		},
	}, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	notifier := notify.NewNotifier(notify.NewRenderer(os.DirFS(c.TemplatesFolder)), mailer, notify.Templates{
		Mentees:      c.MenteesTemplate,
		AloneMentees: c.AloneMenteesTemplate,
		Mentors:      c.MentorsTemplate,
	}, log)

	var prompt *Prompter
	if interactive {
		prompt = NewPrompter(in, out)
	} else if c.DuplicatePolicy == config.PolicyAsk {
		log.Warn(ctx, "stdin is not a terminal, possible duplicates will be merged")
	}

	svc := services.NewMatchService(store, notifier, newOperator(prompt, c.AssumeYes, c.DuplicatePolicy, log),
		metrics.New(), log, services.MatchOptions{
			CSVFolder:   c.CSVFolder,
			MentorsFile: c.MentorsFile,
			MenteesFile: c.MenteesFile,
			SkipRows:    c.SkipRows,
			OutputFile:  c.OutputFile,
			SendMail:    c.MailProvider != config.MailNoop,
			MetricsFile: c.MetricsFile,
		})

	return &App{config: c, store: store, service: svc, out: out, log: log}, nil
}

// Run performs one matching run and prints its summary.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Warn(ctx, "store not closed cleanly", "error", err)
		}
	}()

	rep, err := a.service.Run(ctx)
	if err != nil {
		return err
	}
	a.printReport(rep)
	return nil
}

func (a *App) printReport(rep *services.Report) {
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "%q was used for new mentors data.\n", rep.MentorsFile)
	fmt.Fprintf(a.out, "%q was used for new mentees data.\n", rep.MenteesFile)
	if !rep.Cutoff.IsZero() {
		fmt.Fprintf(a.out, "Answers submitted before %s were ignored.\n", rep.Cutoff.Format(people.LastRunLayout))
	}
	fmt.Fprintf(a.out, "%d mentors, %d mentees, %d assigned, %d without a mentor.\n",
		rep.Mentors, rep.Mentees, rep.Assigned, len(rep.Unassigned))
	fmt.Fprintf(a.out, "%d emails written to %q", rep.Messages, a.config.OutputFile)
	if rep.Sent > 0 {
		fmt.Fprintf(a.out, ", %d sent", rep.Sent)
	}
	fmt.Fprintln(a.out, ".")
}
