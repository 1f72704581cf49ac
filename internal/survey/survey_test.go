package survey

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mentormatch/internal/common"
	"github.com/dmitrijs2005/mentormatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds a CSV record with the survey layout.
func line(ts, surname, given, email, langs, country, city, univ, present, helping string) string {
	f := make([]string, 18)
	f[colTimestamp] = ts
	f[colSurname] = surname
	f[colGivenName] = given
	f[colEmail] = email
	f[colLanguages] = langs
	f[colCountry] = country
	f[colCity] = city
	f[colUniversity] = univ
	f[colPresent] = present
	f[colHelping] = helping
	return strings.Join(f, ",")
}

func TestRead_SkipsHeaderRows(t *testing.T) {
	data := strings.Join([]string{
		"Horodateur,Nom,Prénom,Email",
		line("2019/08/12 10:23:45 AM UTC", "Curie", "Marie", "marie@example.com", "French;Polish", "France", "Paris", "Sorbonne", YesAnswer, ""),
		line("2019/08/13 01:02:03 PM UTC", "Turing", "Alan", "alan@example.com", "English", "UK", "London", "KCL", "", YesAnswer),
	}, "\n")

	rows, err := Read(strings.NewReader(data), "mentors.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "mentors.csv", rows[0].Source)
}

func TestParseMentor(t *testing.T) {
	rows, err := Read(strings.NewReader(
		line("2019/08/13 01:02:03 PM UTC", " Turing ", "Alan", "alan@example.com", "English; French", "UK", "London", "KCL", "", YesAnswer),
	), "mentors.csv", 0)
	require.NoError(t, err)

	m, err := ParseMentor(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "Turing", m.Surname)
	assert.Equal(t, "Alan", m.GivenName)
	assert.Equal(t, []string{"English", "French"}, m.Languages)
	assert.Equal(t, "UK", m.Country)
	assert.False(t, m.PresentAtEvent)
	assert.True(t, m.HelpingAtEvent)
	assert.Equal(t, time.Date(2019, 8, 13, 13, 2, 3, 0, time.UTC), m.SubmittedAt.UTC())
}

func TestParseMentee_ShortRowWithoutAttendance(t *testing.T) {
	row := Row{Source: "mentees.csv", Line: 4, Fields: []string{
		"2019/08/12 10:23:45 AM UTC", "Curie", "Marie", "marie@example.com", "", "", "", "French", "France", "Paris", "Sorbonne",
	}}

	m, err := ParseMentee(row)
	require.NoError(t, err)
	assert.False(t, m.PresentAtEvent)
	assert.False(t, m.HasMentor())
	assert.Equal(t, "Sorbonne", m.University)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{name: "too few columns", fields: []string{"2019/08/12 10:23:45 AM UTC", "Curie"}, want: "columns"},
		{name: "bad timestamp", fields: strings.Split(line("yesterday", "C", "M", "m@example.com", "", "FR", "", "", "", ""), ","), want: "timestamp"},
		{name: "no identity", fields: strings.Split(line("2019/08/12 10:23:45 AM UTC", "", "Marie", "", "", "FR", "", "", "", ""), ","), want: "no email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMentee(Row{Source: "mentees.csv", Line: 7, Fields: tt.fields})
			require.ErrorIs(t, err, common.ErrMalformedRow)
			assert.Contains(t, err.Error(), "mentees.csv line 7")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	for _, s := range []string{
		"2019/08/12 10:23:45 AM UTC",
		"2019/08/12 10:23:45 AM",
		"2019/08/12 10:23:45",
		"2019-08-12T10:23:45Z",
	} {
		ts, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2019, ts.Year())
		assert.Equal(t, 10, ts.Hour())
	}
}

func TestSubmittedAfter(t *testing.T) {
	cutoff := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, SubmittedAfter[*models.Mentee](time.Time{}))

	keep := SubmittedAfter[*models.Mentee](cutoff)
	before := models.NewMentee(models.Person{SubmittedAt: cutoff})
	after := models.NewMentee(models.Person{SubmittedAt: cutoff.Add(time.Second)})
	assert.False(t, keep(before))
	assert.True(t, keep(after))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentees.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\n"+line("2019/08/12 10:23:45 AM UTC", "C", "M", "m@example.com", "", "FR", "", "", "", "")+"\n"), 0o600))

	rows, err := ReadFile(path, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"), 1)
	require.Error(t, err)
}
