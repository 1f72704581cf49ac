package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/dmitrijs2005/mentormatch/internal/common"
	"github.com/dmitrijs2005/mentormatch/internal/logging"
	"github.com/dmitrijs2005/mentormatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var templates = fstest.MapFS{
	"mentees.txt": {Data: []byte(`{{define "subject"}}Meet {{.Mentor.GivenName}}{{end}}
Hi {{.Recipient.GivenName}}, your mentor is {{.Mentor.FullName}} ({{.Mentor.Email}}).
`)},
	"alone_mentees.txt": {Data: []byte("Hi {{.Recipient.GivenName}}, no mentor went to {{.Recipient.Country}} yet.\n")},
	"mentors.txt": {Data: []byte(`Hi {{.Recipient.GivenName}}, your mentees:
{{range .Mentees}}{{.}}
{{end}}`)},
}

var names = Templates{Mentees: "mentees.txt", AloneMentees: "alone_mentees.txt", Mentors: "mentors.txt"}

func fixture() ([]*models.Mentor, []*models.Mentee) {
	ada := &models.Mentor{Person: models.Person{GivenName: "Ada", Surname: "Lovelace", Email: "ada@example.com", Country: "France"}}
	idle := &models.Mentor{Person: models.Person{GivenName: "Grace", Surname: "Hopper", Email: "grace@example.com", Country: "Japan"}}
	alan := models.NewMentee(models.Person{GivenName: "Alan", Surname: "Turing", Email: "alan@example.com", Country: "France", Languages: []string{"English"}})
	lone := models.NewMentee(models.Person{GivenName: "Kurt", Surname: "Gödel", Email: "kurt@example.com", Country: "Peru"})
	alan.Bind(0, 0, ada)
	return []*models.Mentor{ada, idle}, []*models.Mentee{alan, lone}
}

func TestRenderer_SubjectAndBody(t *testing.T) {
	r := NewRenderer(templates)
	mentors, mentees := fixture()

	subject, body, err := r.Render("mentees.txt", MenteeData{Recipient: mentees[0], Mentor: mentors[0]})
	require.NoError(t, err)
	assert.Equal(t, "Meet Ada", subject)
	assert.Equal(t, "Hi Alan, your mentor is Ada Lovelace (ada@example.com).\n", body)

	subject, body, err = r.Render("alone_mentees.txt", MenteeData{Recipient: mentees[1]})
	require.NoError(t, err)
	assert.Empty(t, subject)
	assert.Equal(t, "Hi Kurt, no mentor went to Peru yet.\n", body)
}

func TestRenderer_MissingTemplate(t *testing.T) {
	r := NewRenderer(templates)
	_, _, err := r.Render("nope.txt", nil)
	require.ErrorIs(t, err, common.ErrTemplateNotFound)
}

func TestRenderer_ParseError(t *testing.T) {
	r := NewRenderer(fstest.MapFS{"bad.txt": {Data: []byte("{{.Recipient")}})
	_, _, err := r.Render("bad.txt", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrTemplateNotFound)
}

func TestNotifier_ComposeOrderAndTemplates(t *testing.T) {
	n := NewNotifier(NewRenderer(templates), &recordingMailer{}, names, logging.Discard())
	mentors, mentees := fixture()

	msgs, err := n.Compose(mentors, mentees)
	require.NoError(t, err)
	require.Len(t, msgs, 3, "two mentees then the only mentor with a mentee")

	assert.Equal(t, models.RoleMentee, msgs[0].Role)
	assert.Equal(t, "alan@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].Body, "your mentor is Ada Lovelace")

	assert.Equal(t, "kurt@example.com", msgs[1].To)
	assert.Contains(t, msgs[1].Body, "no mentor went to Peru")

	assert.Equal(t, models.RoleMentor, msgs[2].Role)
	assert.Equal(t, "Ada Lovelace", msgs[2].Name)
	assert.Contains(t, msgs[2].Body, " - Alan Turing, alan@example.com, want to go to France, speak English.")
}

func TestNotifier_ComposeMissingTemplate(t *testing.T) {
	n := NewNotifier(NewRenderer(fstest.MapFS{}), &recordingMailer{}, names, logging.Discard())
	mentors, mentees := fixture()

	_, err := n.Compose(mentors, mentees)
	require.ErrorIs(t, err, common.ErrTemplateNotFound)
}

func TestWriteArtifact(t *testing.T) {
	var buf bytes.Buffer
	err := WriteArtifact(&buf, []Message{{Body: "first\n"}, {Body: "second"}})
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", buf.String())
}

type recordingMailer struct {
	sent []string
	fail map[string]error
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	if err := m.fail[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, to)
	return nil
}

func TestNotifier_DispatchCollectsFailures(t *testing.T) {
	mailer := &recordingMailer{fail: map[string]error{"b@example.com": errors.New("throttled")}}
	n := NewNotifier(NewRenderer(templates), mailer, names, logging.Discard())

	sent, err := n.Dispatch(context.Background(), []Message{
		{To: "a@example.com"},
		{To: "b@example.com"},
		{To: "", Name: "No Address"},
		{To: "c@example.com"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, mailer.sent)
}

func TestNotifier_DispatchStopsOnCancel(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(NewRenderer(templates), mailer, names, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := n.Dispatch(ctx, []Message{{To: "a@example.com"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sent)
}

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("id-1")}, nil
}

func TestSESMailer_BuildsInput(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, MailerConfig{FromAddress: "team@example.com", FromName: "Mentoring Team"}, logging.Discard())

	require.NoError(t, m.Send(context.Background(), "alan@example.com", "Meet Ada", "body"))
	require.NotNil(t, client.in)
	assert.Equal(t, "Mentoring Team <team@example.com>", aws.ToString(client.in.Source))
	assert.Equal(t, []string{"alan@example.com"}, client.in.Destination.ToAddresses)
	assert.Equal(t, "Meet Ada", aws.ToString(client.in.Message.Subject.Data))
	assert.Equal(t, "body", aws.ToString(client.in.Message.Body.Text.Data))
}

func TestSESMailer_WrapsError(t *testing.T) {
	client := &fakeSES{err: errors.New("denied")}
	m := newSESMailer(client, MailerConfig{FromAddress: "team@example.com"}, logging.Discard())

	err := m.Send(context.Background(), "alan@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestNewMailer_NoopAndValidation(t *testing.T) {
	ctx := context.Background()

	m, err := NewMailer(ctx, MailerConfig{Provider: "noop"}, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, m.Send(ctx, "a@example.com", "s", "b"))

	m, err = NewMailer(ctx, MailerConfig{Provider: "pigeon"}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(ctx, MailerConfig{Provider: "ses"}, logging.Discard())
	require.Error(t, err)
}
