package report

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

// ErrNotReport is returned when a document carries no report fields.
var ErrNotReport = errors.New("document is not a patient report")

// showText matches a literal string painted with the Tj operator.
var showText = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\) Tj`)

// Fields are the values recovered from a rendered report.
type Fields struct {
	Title   string
	ID      string
	Name    string
	Disease string
	Phone   string
	Age     string
	Date    string
}

// Parse extracts the report fields from a document produced by Synthesize.
func Parse(doc []byte) (Fields, error) {
	var f Fields
	for _, m := range showText.FindAllSubmatch(doc, -1) {
		text, err := charmap.Windows1252.NewDecoder().String(unescape(string(m[1])))
		if err != nil {
			continue
		}
		if text == Title {
			f.Title = text
			continue
		}
		label, value, ok := strings.Cut(text, ": ")
		if !ok {
			continue
		}
		switch label {
		case LabelID:
			f.ID = value
		case LabelName:
			f.Name = value
		case LabelDisease:
			f.Disease = value
		case LabelPhone:
			f.Phone = value
		case LabelAge:
			f.Age = value
		case LabelDate:
			f.Date = value
		}
	}
	if f.Title == "" || f.ID == "" {
		return Fields{}, ErrNotReport
	}
	return f, nil
}

// Matches reports whether the rendered fields equal rec.
func (f Fields) Matches(rec domain.PatientRecord) bool {
	return f.ID == rec.ID &&
		f.Name == rec.Name &&
		f.Disease == rec.Disease &&
		f.Phone == rec.Phone &&
		f.Age == strconv.Itoa(rec.Age)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
