// Package registry holds the doctor/patient registry chaincode.
//
// The business rules live in Registry, which works on any State. The
// Contract type exposes them as Fabric transactions; the in-memory ledger
// backend drives Registry directly over a MemoryState.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error messages the client maps to typed failures. They travel inside
// endorsement errors, so clients match on the text.
const (
	MsgNotFound          = "does not exist"
	MsgAlreadyRegistered = "already registered"
	MsgInvalidArgument   = "invalid argument"
)

var (
	ErrNotFound          = errors.New(MsgNotFound)
	ErrAlreadyRegistered = errors.New(MsgAlreadyRegistered)
	ErrInvalidArgument   = errors.New(MsgInvalidArgument)
)

// Doctor is the stored clinician entry.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	PhoneNumber    string `json:"phoneNumber"`
}

// Patient is the stored patient entry. PdfCID is the content identifier of
// the report published before registration.
type Patient struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Disease      string `json:"disease"`
	PhoneNumber  string `json:"phoneNumber"`
	Age          int    `json:"age"`
	PdfCID       string `json:"pdfCID"`
	RegisteredBy string `json:"registeredBy"`
}

// Registry applies the registry rules to a world state on behalf of caller.
type Registry struct {
	state  State
	caller string
}

// New binds the registry to state and the invoking identity.
func New(state State, caller string) *Registry {
	return &Registry{state: state, caller: caller}
}

// RegisterDoctor stores a doctor and binds it to the caller.
func (r *Registry) RegisterDoctor(id, name, specialization, phoneNumber string) error {
	if id == "" || name == "" {
		return fmt.Errorf("doctor id and name are required: %w", ErrInvalidArgument)
	}

	key, err := createDoctorCompositeKey(r.state, id)
	if err != nil {
		return err
	}
	exists, err := r.exists(key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("doctor %s %w", id, ErrAlreadyRegistered)
	}

	doctor := Doctor{ID: id, Name: name, Specialization: specialization, PhoneNumber: phoneNumber}
	if err := r.put(key, doctor); err != nil {
		return err
	}

	callerKey, err := createDoctorByCallerCompositeKey(r.state, r.caller)
	if err != nil {
		return err
	}
	if err := r.state.PutState(callerKey, []byte(id)); err != nil {
		return fmt.Errorf("failed to store doctor binding: %v", err)
	}
	return nil
}

// GetDoctorInfo returns the doctor stored under id.
func (r *Registry) GetDoctorInfo(id string) (*Doctor, error) {
	key, err := createDoctorCompositeKey(r.state, id)
	if err != nil {
		return nil, err
	}
	var doctor Doctor
	found, err := r.get(key, &doctor)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("doctor %s %w", id, ErrNotFound)
	}
	return &doctor, nil
}

// DoctorIds returns the doctor id registered by the caller, or "".
func (r *Registry) DoctorIds() (string, error) {
	key, err := createDoctorByCallerCompositeKey(r.state, r.caller)
	if err != nil {
		return "", err
	}
	id, err := r.state.GetState(key)
	if err != nil {
		return "", fmt.Errorf("failed to read doctor binding: %v", err)
	}
	return string(id), nil
}

// RegisterPatient stores a patient together with its report identifier and
// adds it to the caller's patient list.
func (r *Registry) RegisterPatient(id, name, disease, phoneNumber string, age int, pdfCID string) error {
	if id == "" || name == "" || phoneNumber == "" {
		return fmt.Errorf("patient id, name and phone are required: %w", ErrInvalidArgument)
	}
	if age <= 0 {
		return fmt.Errorf("age must be positive: %w", ErrInvalidArgument)
	}
	if pdfCID == "" {
		return fmt.Errorf("report identifier is required: %w", ErrInvalidArgument)
	}

	key, err := createPatientCompositeKey(r.state, id)
	if err != nil {
		return err
	}
	exists, err := r.exists(key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("patient %s %w", id, ErrAlreadyRegistered)
	}

	listKey, err := createPatientsByCallerCompositeKey(r.state, r.caller)
	if err != nil {
		return err
	}
	var ids []string
	if _, err := r.get(listKey, &ids); err != nil {
		return err
	}

	patient := Patient{
		ID:           id,
		Name:         name,
		Disease:      disease,
		PhoneNumber:  phoneNumber,
		Age:          age,
		PdfCID:       pdfCID,
		RegisteredBy: r.caller,
	}
	if err := r.put(key, patient); err != nil {
		return err
	}
	return r.put(listKey, append(ids, id))
}

// GetPatientInfo returns the patient stored under id.
func (r *Registry) GetPatientInfo(id string) (*Patient, error) {
	key, err := createPatientCompositeKey(r.state, id)
	if err != nil {
		return nil, err
	}
	var patient Patient
	found, err := r.get(key, &patient)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("patient %s %w", id, ErrNotFound)
	}
	return &patient, nil
}

// GetAllPatientIds lists the patients registered by the caller, in
// registration order.
func (r *Registry) GetAllPatientIds() ([]string, error) {
	key, err := createPatientsByCallerCompositeKey(r.state, r.caller)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if _, err := r.get(key, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Registry) exists(key string) (bool, error) {
	raw, err := r.state.GetState(key)
	if err != nil {
		return false, fmt.Errorf("failed to read from world state: %v", err)
	}
	return raw != nil, nil
}

func (r *Registry) get(key string, v any) (bool, error) {
	raw, err := r.state.GetState(key)
	if err != nil {
		return false, fmt.Errorf("failed to read from world state: %v", err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %v", key, err)
	}
	return true, nil
}

func (r *Registry) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal: %v", err)
	}
	if err := r.state.PutState(key, raw); err != nil {
		return fmt.Errorf("failed to put to world state: %v", err)
	}
	return nil
}
