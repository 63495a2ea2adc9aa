package registry

import "fmt"

// Object types used as composite key namespaces.
const (
	doctorObject         = "Doctor"
	patientObject        = "Patient"
	doctorByCallerObject = "DoctorByCaller"
	patientsByCaller     = "PatientsByCaller"
)

func createDoctorCompositeKey(state State, doctorID string) (string, error) {
	compositeKey, err := state.CreateCompositeKey(doctorObject, []string{"doctorID", doctorID})
	if err != nil {
		return "", fmt.Errorf("failed to create composite key: %v", err)
	}
	return compositeKey, nil
}

func createPatientCompositeKey(state State, patientID string) (string, error) {
	compositeKey, err := state.CreateCompositeKey(patientObject, []string{"patientID", patientID})
	if err != nil {
		return "", fmt.Errorf("failed to create composite key: %v", err)
	}
	return compositeKey, nil
}

func createDoctorByCallerCompositeKey(state State, caller string) (string, error) {
	compositeKey, err := state.CreateCompositeKey(doctorByCallerObject, []string{"caller", caller})
	if err != nil {
		return "", fmt.Errorf("failed to create composite key: %v", err)
	}
	return compositeKey, nil
}

func createPatientsByCallerCompositeKey(state State, caller string) (string, error) {
	compositeKey, err := state.CreateCompositeKey(patientsByCaller, []string{"caller", caller})
	if err != nil {
		return "", fmt.Errorf("failed to create composite key: %v", err)
	}
	return compositeKey, nil
}
