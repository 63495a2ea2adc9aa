package domain

// Role identifies who holds the active session.
type Role string

const (
	RoleNone      Role = "none"
	RoleClinician Role = "clinician"
	RolePatient   Role = "patient"
)

// State is the controller state derived from the active role.
type State string

const (
	StateAnonymous        State = "anonymous"
	StateClinicianSession State = "clinician_session"
	StatePatientSession   State = "patient_session"
)

// ViewState names the screen the presentation layer should show.
type ViewState string

const (
	ViewHome               ViewState = "home"
	ViewClinicianLogin     ViewState = "doctorLogin"
	ViewClinicianRegister  ViewState = "doctorRegister"
	ViewClinicianDashboard ViewState = "doctorDashboard"
	ViewPatientLogin       ViewState = "patientLogin"
	ViewPatientDashboard   ViewState = "patientDashboard"
)

// ParseViewState returns the view named s, or false if s is unknown.
func ParseViewState(s string) (ViewState, bool) {
	switch v := ViewState(s); v {
	case ViewHome, ViewClinicianLogin, ViewClinicianRegister,
		ViewClinicianDashboard, ViewPatientLogin, ViewPatientDashboard:
		return v, true
	}
	return "", false
}

// Session holds the single active identity. At most one of Clinician and
// Patient is set, matching Role.
type Session struct {
	Role      Role             `json:"role"`
	Clinician *ClinicianRecord `json:"clinician,omitempty"`
	Patient   *PatientRecord   `json:"patient,omitempty"`
}

// State projects the session onto the controller state machine.
func (s Session) State() State {
	switch s.Role {
	case RoleClinician:
		return StateClinicianSession
	case RolePatient:
		return StatePatientSession
	default:
		return StateAnonymous
	}
}

// Anonymous reports whether no identity is active.
func (s Session) Anonymous() bool {
	return s.Role == RoleNone || s.Role == ""
}
