// Package survey reads the CSV exports of the mentor and mentee sign-up
// forms and turns their rows into models.
//
// Column layout (0-based):
//
//	0  timestamp, e.g. "2019/08/12 10:23:45 AM GMT+2"
//	1  surname
//	2  given name
//	3  email
//	7  spoken languages, ";" separated
//	8  country
//	9  city
//	10 university
//	16 present at the event ("Oui / Yes")
//	17 helping at the event ("Oui / Yes", mentors only)
//
// The attendance columns may be missing on short rows; they then read as no.
package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/mentormatch/internal/common"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

const (
	colTimestamp  = 0
	colSurname    = 1
	colGivenName  = 2
	colEmail      = 3
	colLanguages  = 7
	colCountry    = 8
	colCity       = 9
	colUniversity = 10
	colPresent    = 16
	colHelping    = 17

	requiredColumns = colUniversity + 1
)

// YesAnswer is the cell value of a checked yes/no question.
const YesAnswer = "Oui / Yes"

// timestampLayouts are tried in order. The first one is what the form
// export writes.
var timestampLayouts = []string{
	"2006/01/02 3:04:05 PM MST",
	"2006/01/02 3:04:05 PM",
	"2006/01/02 15:04:05",
	time.RFC3339,
}

// Row is one data row with its 1-based line number in the source.
type Row struct {
	Source string
	Line   int
	Fields []string
}

func (r Row) malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s line %d: %s", common.ErrMalformedRow, r.Source, r.Line, fmt.Sprintf(format, args...))
}

func (r Row) cell(i int) string {
	if i >= len(r.Fields) {
		return ""
	}
	return strings.TrimSpace(r.Fields[i])
}

// Read returns the rows of a CSV stream, skipping the first skip rows
// (headers). Rows may have different lengths.
func Read(in io.Reader, source string, skip int) ([]Row, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrMalformedRow, source, err)
		}
		if line <= skip {
			continue
		}
		rows = append(rows, Row{Source: source, Line: line, Fields: fields})
	}
	return rows, nil
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, skip int) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path, skip)
}

// ParseTimestamp parses a form timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func parsePerson(r Row) (models.Person, error) {
	if len(r.Fields) < requiredColumns {
		return models.Person{}, r.malformed("%d columns, want at least %d", len(r.Fields), requiredColumns)
	}
	ts, err := ParseTimestamp(r.Fields[colTimestamp])
	if err != nil {
		return models.Person{}, r.malformed("timestamp %q: %v", r.Fields[colTimestamp], err)
	}
	p := models.Person{
		Surname:        r.cell(colSurname),
		GivenName:      r.cell(colGivenName),
		Email:          r.cell(colEmail),
		Languages:      models.ParseLanguages(r.cell(colLanguages)),
		Country:        r.cell(colCountry),
		City:           r.cell(colCity),
		University:     r.cell(colUniversity),
		PresentAtEvent: r.cell(colPresent) == YesAnswer,
		SubmittedAt:    ts,
	}
	if p.Email == "" && (p.GivenName == "" || p.Surname == "") {
		return models.Person{}, r.malformed("no email and no full name")
	}
	return p, nil
}

// ParseMentor builds a mentor from a row of the mentors export.
func ParseMentor(r Row) (*models.Mentor, error) {
	p, err := parsePerson(r)
	if err != nil {
		return nil, err
	}
	return &models.Mentor{Person: p, HelpingAtEvent: r.cell(colHelping) == YesAnswer}, nil
}

// ParseMentee builds a mentee from a row of the mentees export.
func ParseMentee(r Row) (*models.Mentee, error) {
	p, err := parsePerson(r)
	if err != nil {
		return nil, err
	}
	return models.NewMentee(p), nil
}

// SubmittedAfter returns a filter keeping people whose answers were
// submitted strictly after cutoff. A zero cutoff keeps everyone.
func SubmittedAfter[T models.Identifiable](cutoff time.Time) func(T) bool {
	if cutoff.IsZero() {
		return nil
	}
	return func(p T) bool {
		return p.Ident().SubmittedAt.After(cutoff)
	}
}
