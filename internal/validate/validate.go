// Package validate checks registration input before any network call is made.
package validate

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	agePattern   = regexp.MustCompile(`^\d+$`)
)

// Rule names carried by domain.ValidationError.
const (
	RuleRequired = "required"
	RuleLetters  = "letters_only"
	RulePhone    = "ten_digits"
	RuleAge      = "positive_integer"
	RuleImage    = "jpeg_or_png"
	RuleSize     = "max_size"
	RuleCharset  = "cp1252"
)

// MaxImageBytes caps the photo embedded in a report.
const MaxImageBytes = 5 << 20

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return &domain.ValidationError{
				Field:   f.name,
				Rule:    RuleRequired,
				Message: "all fields are required for registration",
			}
		}
	}
	return nil
}

// Clinician validates a clinician registration. Only presence is checked:
// clinician names commonly carry titles and punctuation.
func Clinician(in domain.ClinicianRegistrationInput) error {
	return required(
		field{"id", in.ID},
		field{"name", in.Name},
		field{"specialization", in.Specialization},
		field{"phone", in.Phone},
	)
}

// Patient validates a patient registration and returns the parsed age.
func Patient(in domain.PatientRegistrationInput) (int, error) {
	if err := required(
		field{"id", in.ID},
		field{"name", in.Name},
		field{"disease", in.Disease},
		field{"phone", in.Phone},
		field{"age", in.Age},
	); err != nil {
		return 0, err
	}
	if err := Printable("id", in.ID); err != nil {
		return 0, err
	}
	if err := Name(in.Name); err != nil {
		return 0, err
	}
	if err := Printable("disease", in.Disease); err != nil {
		return 0, err
	}
	if err := Phone(in.Phone); err != nil {
		return 0, err
	}
	age, err := Age(in.Age)
	if err != nil {
		return 0, err
	}
	if err := Image(in.Image); err != nil {
		return 0, err
	}
	return age, nil
}

// Image accepts an absent image or JPEG/PNG bytes up to MaxImageBytes.
func Image(image []byte) error {
	if len(image) == 0 {
		return nil
	}
	if len(image) > MaxImageBytes {
		return &domain.ValidationError{
			Field:   "image",
			Rule:    RuleSize,
			Message: "image should not exceed 5 MiB",
		}
	}
	switch http.DetectContentType(image) {
	case "image/jpeg", "image/png":
		return nil
	}
	return &domain.ValidationError{
		Field:   "image",
		Rule:    RuleImage,
		Message: "image should be a JPEG or PNG file",
	}
}

// Printable accepts text the report fonts can draw: the Windows-1252
// repertoire without control characters.
func Printable(field, value string) error {
	invalid := &domain.ValidationError{
		Field:   field,
		Rule:    RuleCharset,
		Message: field + " contains characters that cannot be printed on the report",
	}
	for _, r := range value {
		if r < 0x20 || (r >= 0x7f && r < 0xa0) {
			return invalid
		}
	}
	if _, err := charmap.Windows1252.NewEncoder().String(value); err != nil {
		return invalid
	}
	return nil
}

// Name accepts letters and whitespace only.
func Name(name string) error {
	if strings.TrimSpace(name) == "" || !namePattern.MatchString(name) {
		return &domain.ValidationError{
			Field:   "name",
			Rule:    RuleLetters,
			Message: "name should contain only letters and spaces",
		}
	}
	return nil
}

// Phone accepts exactly ten decimal digits.
func Phone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return &domain.ValidationError{
			Field:   "phone",
			Rule:    RulePhone,
			Message: "phone number should contain exactly 10 digits",
		}
	}
	return nil
}

// Age parses a string of digits with a value above zero.
func Age(age string) (int, error) {
	invalid := &domain.ValidationError{
		Field:   "age",
		Rule:    RuleAge,
		Message: "age should be a positive number",
	}
	if !agePattern.MatchString(age) {
		return 0, invalid
	}
	n, err := strconv.Atoi(age)
	if err != nil || n <= 0 {
		return 0, invalid
	}
	return n, nil
}
