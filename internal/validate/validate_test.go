package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

func validPatient() domain.PatientRegistrationInput {
	return domain.PatientRegistrationInput{
		ID:      "P1",
		Name:    "Jane Doe",
		Disease: "Flu",
		Phone:   "9876543210",
		Age:     "30",
	}
}

func TestPatient_Valid(t *testing.T) {
	age, err := Patient(validPatient())
	require.NoError(t, err)
	assert.Equal(t, 30, age)
}

func TestPatient_Violations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.PatientRegistrationInput)
		wantField string
		wantRule  string
	}{
		{"missing id", func(in *domain.PatientRegistrationInput) { in.ID = "" }, "id", RuleRequired},
		{"missing name", func(in *domain.PatientRegistrationInput) { in.Name = "" }, "name", RuleRequired},
		{"missing disease", func(in *domain.PatientRegistrationInput) { in.Disease = "" }, "disease", RuleRequired},
		{"missing phone", func(in *domain.PatientRegistrationInput) { in.Phone = "" }, "phone", RuleRequired},
		{"missing age", func(in *domain.PatientRegistrationInput) { in.Age = "" }, "age", RuleRequired},
		{"name with digits", func(in *domain.PatientRegistrationInput) { in.Name = "Jane2" }, "name", RuleLetters},
		{"name with punctuation", func(in *domain.PatientRegistrationInput) { in.Name = "Dr. Smith" }, "name", RuleLetters},
		{"name only spaces", func(in *domain.PatientRegistrationInput) { in.Name = "   " }, "name", RuleLetters},
		{"phone nine digits", func(in *domain.PatientRegistrationInput) { in.Phone = "123456789" }, "phone", RulePhone},
		{"phone three digits", func(in *domain.PatientRegistrationInput) { in.Phone = "123" }, "phone", RulePhone},
		{"phone eleven digits", func(in *domain.PatientRegistrationInput) { in.Phone = "12345678901" }, "phone", RulePhone},
		{"phone with letters", func(in *domain.PatientRegistrationInput) { in.Phone = "98765abcde" }, "phone", RulePhone},
		{"age zero", func(in *domain.PatientRegistrationInput) { in.Age = "0" }, "age", RuleAge},
		{"age negative", func(in *domain.PatientRegistrationInput) { in.Age = "-5" }, "age", RuleAge},
		{"age decimal", func(in *domain.PatientRegistrationInput) { in.Age = "3.5" }, "age", RuleAge},
		{"age words", func(in *domain.PatientRegistrationInput) { in.Age = "thirty" }, "age", RuleAge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPatient()
			tt.mutate(&in)

			_, err := Patient(in)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, tt.wantRule, ve.Rule)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestPatient_FirstViolationWins(t *testing.T) {
	in := validPatient()
	in.Name = "J4ne"
	in.Phone = "1"
	in.Age = "0"

	_, err := Patient(in)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestAge_ZeroAndNegativeShareKind(t *testing.T) {
	_, errZero := Age("0")
	_, errNeg := Age("-5")

	var zero, neg *domain.ValidationError
	require.ErrorAs(t, errZero, &zero)
	require.ErrorAs(t, errNeg, &neg)
	assert.Equal(t, zero.Rule, neg.Rule)
}

func TestClinician(t *testing.T) {
	in := domain.ClinicianRegistrationInput{
		ID:             "D1",
		Name:           "Dr. Smith",
		Specialization: "Cardiology",
		Phone:          "5551234567",
	}
	require.NoError(t, Clinician(in))

	in.Specialization = ""
	err := Clinician(in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "specialization", ve.Field)
	assert.Equal(t, RuleRequired, ve.Rule)
}

func TestImage(t *testing.T) {
	require.NoError(t, Image(nil))
	require.NoError(t, Image([]byte("\x89PNG\r\n\x1a\n0000")))
	require.NoError(t, Image([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}))

	err := Image([]byte("%PDF-1.4 not an image"))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, RuleImage, ve.Rule)
}

func TestImage_TooLarge(t *testing.T) {
	big := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, MaxImageBytes)...)
	var ve *domain.ValidationError
	require.ErrorAs(t, Image(big), &ve)
	assert.Equal(t, RuleSize, ve.Rule)
}

func TestPatient_Charset(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *domain.PatientRegistrationInput)
		field   string
		wantErr bool
	}{
		{"accented disease", func(in *domain.PatientRegistrationInput) { in.Disease = "Ménière's disease" }, "", false},
		{"euro sign in id", func(in *domain.PatientRegistrationInput) { in.ID = "P€1" }, "", false},
		{"cyrillic disease", func(in *domain.PatientRegistrationInput) { in.Disease = "грипп" }, "disease", true},
		{"emoji id", func(in *domain.PatientRegistrationInput) { in.ID = "P1🙂" }, "id", true},
		{"newline in disease", func(in *domain.PatientRegistrationInput) { in.Disease = "Flu\nCold" }, "disease", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPatient()
			tt.mutate(&in)
			_, err := Patient(in)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, RuleCharset, ve.Rule)
		})
	}
}
