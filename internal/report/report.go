// Package report renders the patient report stored in the content store.
//
// The layout is fixed: an A4 page with a black border, a title, one
// "Label: value" line per record field, the synthesis timestamp and an
// optional photo. Apart from the timestamp the output is a pure function of
// its inputs, so a frozen clock yields byte-identical documents.
package report

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

// Title is the heading printed on every report.
const Title = "Patient Information"

// TimestampLayout renders as DD-MM-YYYY HH:MM:SS AM/PM.
const TimestampLayout = "02-01-2006 03:04:05 PM"

// Page geometry in millimetres.
const (
	marginLeft   = 20.0
	marginTop    = 20.0
	marginRight  = 190.0
	marginBottom = 270.0
	imageSize    = 50.0
)

// Field labels in render order.
const (
	LabelID      = "ID"
	LabelName    = "Name"
	LabelDisease = "Disease"
	LabelPhone   = "Phone"
	LabelAge     = "Age"
	LabelDate    = "Date"
)

// Synthesizer produces report documents. Now defaults to time.Now.
type Synthesizer struct {
	Now func() time.Time
}

// New returns a Synthesizer using the local wall clock.
func New() *Synthesizer {
	return &Synthesizer{Now: time.Now}
}

// FormatTimestamp formats t the way it is printed on the report.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func fieldLines(rec domain.PatientRecord) []string {
	return []string{
		line(LabelID, rec.ID),
		line(LabelName, rec.Name),
		line(LabelDisease, rec.Disease),
		line(LabelPhone, rec.Phone),
		line(LabelAge, strconv.Itoa(rec.Age)),
	}
}

func line(label, value string) string {
	return label + ": " + value
}

// Synthesize renders rec and, when image is non-empty, embeds it.
// The image must be JPEG or PNG.
func (s *Synthesizer) Synthesize(rec domain.PatientRecord, image []byte) ([]byte, error) {
	now := time.Now
	if s != nil && s.Now != nil {
		now = s.Now
	}
	at := now()

	pdf := fpdf.New("P", "mm", "A4", "")
	// Stable object order and dates make the output reproducible.
	pdf.SetCatalogSort(true)
	pdf.SetCompression(false)
	pdf.SetCreationDate(at)
	pdf.SetModificationDate(at)
	pdf.SetTitle(fmt.Sprintf("Patient %s Report", rec.ID), false)
	pdf.SetCreator("shdms", false)
	pdf.AddPage()

	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(marginLeft, marginTop, marginRight, marginTop)
	pdf.Line(marginLeft, marginTop, marginLeft, marginBottom)
	pdf.Line(marginRight, marginTop, marginRight, marginBottom)
	pdf.Line(marginLeft, marginBottom, marginRight, marginBottom)

	// The core fonts are cp1252; UTF-8 text has to be translated first.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 16)
	pdf.Text(marginLeft+5, marginTop+10, Title)

	pdf.SetFont("Helvetica", "", 12)
	for i, l := range fieldLines(rec) {
		pdf.Text(marginLeft+5, marginTop+25+float64(i)*10, tr(l))
	}
	pdf.Text(marginLeft+5, marginTop+85, line(LabelDate, FormatTimestamp(at)))

	if len(image) > 0 {
		imageType, err := imageType(image)
		if err != nil {
			return nil, err
		}
		opts := fpdf.ImageOptions{ImageType: imageType}
		pdf.RegisterImageOptionsReader("photo", opts, bytes.NewReader(image))
		pdf.ImageOptions("photo", marginLeft+5, marginTop+95, imageSize, imageSize, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func imageType(image []byte) (string, error) {
	switch ct := http.DetectContentType(image); ct {
	case "image/jpeg":
		return "JPG", nil
	case "image/png":
		return "PNG", nil
	default:
		return "", fmt.Errorf("unsupported image type %q", ct)
	}
}
