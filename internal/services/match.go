package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/mentormatch/internal/filex"
	"github.com/dmitrijs2005/mentormatch/internal/logging"
	"github.com/dmitrijs2005/mentormatch/internal/matching"
	"github.com/dmitrijs2005/mentormatch/internal/metrics"
	"github.com/dmitrijs2005/mentormatch/internal/models"
	"github.com/dmitrijs2005/mentormatch/internal/notify"
	"github.com/dmitrijs2005/mentormatch/internal/registry"
	"github.com/dmitrijs2005/mentormatch/internal/repositories/people"
	"github.com/dmitrijs2005/mentormatch/internal/survey"
)

// MatchOptions are the settings of a run.
type MatchOptions struct {
	CSVFolder   string
	MentorsFile string
	MenteesFile string
	SkipRows    int
	OutputFile  string
	SendMail    bool
	MetricsFile string
}

// Report summarizes a finished run.
type Report struct {
	RunID       string
	Cutoff      time.Time
	MentorsFile string
	MenteesFile string
	Mentors     int
	Mentees     int
	Assigned    int
	Unassigned  []*models.Mentee
	Messages    int
	Sent        int
}

// MatchService runs one matching pass: restore, import, assign, notify,
// persist.
type MatchService struct {
	store    people.Repository
	notifier *notify.Notifier
	operator Operator
	metrics  *metrics.Metrics
	log      logging.Logger
	opts     MatchOptions
	now      func() time.Time
}

func NewMatchService(store people.Repository, notifier *notify.Notifier, operator Operator,
	m *metrics.Metrics, log logging.Logger, opts MatchOptions) *MatchService {
	return &MatchService{
		store:    store,
		notifier: notifier,
		operator: operator,
		metrics:  m,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

// Run performs a full run. Every question is asked before the first write,
// so a run cancelled at any prompt persists nothing.
func (s *MatchService) Run(ctx context.Context) (*Report, error) {
	start := s.now()
	rep := &Report{RunID: uuid.NewString()}
	log := s.log.With("run", rep.RunID)

	cutoff, err := s.cutoff(ctx)
	if err != nil {
		return nil, err
	}
	rep.Cutoff = cutoff

	mentors := registry.New[*models.Mentor](func(ctx context.Context, c, e *models.Mentor) (bool, error) {
		return s.operator.SamePerson(ctx, models.RoleMentor, &c.Person, &e.Person)
	})
	if _, err := restore(ctx, s, log, mentors, models.RoleMentor,
		"Previous mentors data are available, do you want to use them?",
		func(r models.Record) *models.Mentor { return r.Mentor() }); err != nil {
		return nil, err
	}
	if rep.MentorsFile, err = importCSV(ctx, s, log, mentors, models.RoleMentor, s.opts.MentorsFile, cutoff, survey.ParseMentor); err != nil {
		return nil, err
	}

	mentees := registry.New[*models.Mentee](func(ctx context.Context, c, e *models.Mentee) (bool, error) {
		return s.operator.SamePerson(ctx, models.RoleMentee, &c.Person, &e.Person)
	})
	restoredMentees, err := restore(ctx, s, log, mentees, models.RoleMentee,
		"Previous mentees data are available, do you want to use them?",
		func(r models.Record) *models.Mentee { return r.Mentee() })
	if err != nil {
		return nil, err
	}
	if rep.MenteesFile, err = importCSV(ctx, s, log, mentees, models.RoleMentee, s.opts.MenteesFile, cutoff, survey.ParseMentee); err != nil {
		return nil, err
	}

	mentorList, menteeList := mentors.Members(), mentees.Members()
	rep.Mentors, rep.Mentees = len(mentorList), len(menteeList)

	res := matching.NewEngine(mentorList).AssignAll(menteeList)
	rep.Assigned = len(res.Assigned)
	for _, id := range res.Unassigned {
		rep.Unassigned = append(rep.Unassigned, menteeList[id])
	}
	s.metrics.ObserveAssignments(len(res.Assigned), len(res.Unassigned))
	log.Info(ctx, "mentees assigned", "assigned", len(res.Assigned), "unassigned", len(res.Unassigned))

	msgs, err := s.notifier.Compose(mentorList, menteeList)
	if err != nil {
		return nil, fmt.Errorf("generate emails: %w", err)
	}
	rep.Messages = len(msgs)
	if err := s.writeOutput(msgs); err != nil {
		return nil, err
	}
	log.Info(ctx, "emails generated", "file", s.opts.OutputFile, "messages", len(msgs))

	if len(rep.Unassigned) > 0 {
		lines := make([]string, 0, len(rep.Unassigned))
		for _, m := range rep.Unassigned {
			lines = append(lines, m.String())
		}
		s.operator.Inform(ctx, "These students don't have a mentor:", lines)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.opts.SendMail && len(msgs) > 0 {
		ok, err := s.operator.Confirm(ctx, fmt.Sprintf("Do you want to send the %d generated emails now?", len(msgs)))
		if err != nil {
			return nil, err
		}
		if ok {
			sent, err := s.notifier.Dispatch(ctx, msgs)
			rep.Sent = sent
			if err != nil {
				log.Error(ctx, "some emails were not sent", "sent", sent, "error", err)
			}
		}
	}
	s.metrics.ObserveMessages(rep.Messages, rep.Sent)

	plan, err := s.planSave(ctx, mentees, restoredMentees)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// No prompt past this point: the store is written in one go.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.saveMentees(persistCtx, log, plan); err != nil {
		return nil, err
	}
	if plan.saveMentors {
		if err := s.saveMentors(persistCtx, log, mentorList); err != nil {
			return nil, err
		}
	}

	end := s.now()
	if err := s.store.SetMeta(persistCtx, people.MetaLastRun, end.Format(people.LastRunLayout)); err != nil {
		return nil, fmt.Errorf("record last run: %w", err)
	}

	s.metrics.Finish(start, end)
	if err := s.metrics.WriteTextfile(s.opts.MetricsFile); err != nil {
		log.Warn(ctx, "metrics not written", "error", err)
	}
	return rep, nil
}

// cutoff returns the date before which survey answers are ignored: the date
// of the last run, if the operator agrees.
func (s *MatchService) cutoff(ctx context.Context) (time.Time, error) {
	v, ok, err := s.store.GetMeta(ctx, people.MetaLastRun)
	if err != nil {
		return time.Time{}, fmt.Errorf("read last run: %w", err)
	}
	if !ok {
		return time.Time{}, nil
	}
	last, err := time.Parse(people.LastRunLayout, v)
	if err != nil {
		s.log.Warn(ctx, "ignoring unreadable last run date", "value", v, "error", err)
		return time.Time{}, nil
	}

	ignore, err := s.operator.Confirm(ctx, fmt.Sprintf("Do you want to ignore csv data from before %s?", v))
	if err != nil {
		return time.Time{}, err
	}
	if !ignore {
		return time.Time{}, nil
	}
	return last, nil
}

func restore[T models.Identifiable](ctx context.Context, s *MatchService, log logging.Logger, g *registry.Group[T],
	role models.Role, question string, rebuild func(models.Record) T) (int, error) {
	exists, err := s.store.Exists(ctx, role)
	if err != nil {
		return 0, fmt.Errorf("check stored %ss: %w", role, err)
	}
	if !exists {
		return 0, nil
	}
	use, err := s.operator.Confirm(ctx, question)
	if err != nil {
		return 0, err
	}
	if !use {
		return 0, nil
	}

	recs, err := s.store.List(ctx, role)
	if err != nil {
		return 0, fmt.Errorf("list stored %ss: %w", role, err)
	}
	stored := make([]T, 0, len(recs))
	for _, r := range recs {
		stored = append(stored, rebuild(r))
	}
	st, err := g.Restore(ctx, stored)
	if err != nil {
		return 0, fmt.Errorf("restore %ss: %w", role, err)
	}
	s.metrics.ObserveLoad(string(role), "store", st.Read, st.Duplicates)
	log.Info(ctx, "previous data restored", "role", role, "read", st.Read, "added", st.Added, "duplicates", st.Duplicates)
	return st.Added, nil
}

func importCSV[T models.Identifiable](ctx context.Context, s *MatchService, log logging.Logger, g *registry.Group[T],
	role models.Role, name string, cutoff time.Time, parse func(survey.Row) (T, error)) (string, error) {
	path, err := filex.FindFile(s.opts.CSVFolder, name, func(candidates []string) (int, error) {
		return s.operator.Choose(ctx, fmt.Sprintf("Several files match %q:", name), candidates)
	})
	if err != nil {
		return "", fmt.Errorf("find %ss file: %w", role, err)
	}
	log.Info(ctx, "survey file selected", "role", role, "file", path)

	rows, err := survey.ReadFile(path, s.opts.SkipRows)
	if err != nil {
		return "", err
	}
	st, err := registry.LoadBatch(ctx, g, rows, parse, survey.SubmittedAfter[T](cutoff))
	if err != nil {
		return "", fmt.Errorf("load %ss: %w", role, err)
	}
	s.metrics.ObserveLoad(string(role), "csv", st.Read-st.Skipped, st.Duplicates)
	log.Info(ctx, "survey loaded", "role", role, "read", st.Read, "skipped", st.Skipped, "added", st.Added, "duplicates", st.Duplicates)
	return path, nil
}

func (s *MatchService) writeOutput(msgs []notify.Message) error {
	var buf bytes.Buffer
	if err := notify.WriteArtifact(&buf, msgs); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(s.opts.OutputFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write emails: %w", err)
	}
	return nil
}

// savePlan holds the operator's persistence answers, all collected before
// the first write.
type savePlan struct {
	alone       []*models.Mentee
	assigned    int
	clear       bool
	keepAlone   bool
	saveMentors bool
}

// planSave prunes mentees to those without a mentor and asks what to keep
// for the next run. When every mentee got a mentor, mentees restored this
// run are dropped from the store without asking.
func (s *MatchService) planSave(ctx context.Context, mentees *registry.Group[*models.Mentee], restored int) (savePlan, error) {
	var plan savePlan
	plan.assigned = mentees.Prune(func(m *models.Mentee) bool { return !m.HasMentor() })
	plan.alone = mentees.Members()

	if len(plan.alone) == 0 {
		plan.clear = restored > 0
	} else {
		ok, err := s.operator.Confirm(ctx, "Do you want to save them for next time?")
		if err != nil {
			return savePlan{}, err
		}
		plan.keepAlone = ok
	}

	ok, err := s.operator.Confirm(ctx, "Do you want to save mentors data for next time?")
	if err != nil {
		return savePlan{}, err
	}
	plan.saveMentors = ok
	return plan, nil
}

func (s *MatchService) saveMentees(ctx context.Context, log logging.Logger, plan savePlan) error {
	if plan.clear {
		if err := s.store.Clear(ctx, models.RoleMentee); err != nil {
			return fmt.Errorf("clear stored mentees: %w", err)
		}
		log.Info(ctx, "stored mentees cleared", "assigned", plan.assigned)
		return nil
	}
	if !plan.keepAlone {
		return nil
	}
	recs := make([]models.Record, 0, len(plan.alone))
	for _, m := range plan.alone {
		recs = append(recs, models.MenteeRecord(m))
	}
	if err := s.store.Replace(ctx, models.RoleMentee, recs); err != nil {
		return fmt.Errorf("save mentees: %w", err)
	}
	log.Info(ctx, "mentees without mentor saved", "count", len(recs))
	return nil
}

func (s *MatchService) saveMentors(ctx context.Context, log logging.Logger, mentors []*models.Mentor) error {
	for _, m := range mentors {
		if err := s.store.Save(ctx, models.MentorRecord(m)); err != nil {
			return fmt.Errorf("save mentor %s: %w", m.FullName(), err)
		}
	}
	log.Info(ctx, "mentors saved", "count", len(mentors))
	return nil
}
