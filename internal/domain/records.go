package domain

// ClinicianRecord is a doctor entry as stored by the registry contract.
type ClinicianRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phoneNumber"`
}

// PatientRecord is a patient entry as stored by the registry contract.
// DocumentRef is the content identifier of the report synthesized at
// registration; it is empty until registration completes and never changes.
type PatientRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Disease     string `json:"disease"`
	Phone       string `json:"phoneNumber"`
	Age         int    `json:"age"`
	DocumentRef string `json:"pdfCID,omitempty"`
}

// ClinicianRegistrationInput carries the raw form fields of one clinician
// registration attempt.
type ClinicianRegistrationInput struct {
	ID             string
	Name           string
	Specialization string
	Phone          string
}

// PatientRegistrationInput carries the raw form fields of one patient
// registration attempt. Image is optional and embedded in the report.
type PatientRegistrationInput struct {
	ID      string
	Name    string
	Disease string
	Phone   string
	Age     string
	Image   []byte
}

// Record builds the patient record from validated input.
func (in PatientRegistrationInput) Record(age int) PatientRecord {
	return PatientRecord{
		ID:      in.ID,
		Name:    in.Name,
		Disease: in.Disease,
		Phone:   in.Phone,
		Age:     age,
	}
}

// Record builds the clinician record from validated input.
func (in ClinicianRegistrationInput) Record() ClinicianRecord {
	return ClinicianRecord{
		ID:             in.ID,
		Name:           in.Name,
		Specialization: in.Specialization,
		Phone:          in.Phone,
	}
}
