package registry

import (
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// Contract exposes the registry as chaincode transactions. Caller-scoped
// reads use the submitting client's X.509 identity.
type Contract struct {
	contractapi.Contract
}

func registryFor(ctx contractapi.TransactionContextInterface) (*Registry, error) {
	caller, err := ctx.GetClientIdentity().GetID()
	if err != nil {
		return nil, fmt.Errorf("failed to read client identity: %v", err)
	}
	return New(ctx.GetStub(), caller), nil
}

// RegisterDoctor submits a new doctor.
func (c *Contract) RegisterDoctor(ctx contractapi.TransactionContextInterface,
	id, name, specialization, phoneNumber string) error {

	r, err := registryFor(ctx)
	if err != nil {
		return err
	}
	return r.RegisterDoctor(id, name, specialization, phoneNumber)
}

// GetDoctorInfo evaluates a doctor lookup.
func (c *Contract) GetDoctorInfo(ctx contractapi.TransactionContextInterface, id string) (*Doctor, error) {
	r, err := registryFor(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetDoctorInfo(id)
}

// DoctorIds returns the doctor id bound to the caller.
func (c *Contract) DoctorIds(ctx contractapi.TransactionContextInterface) (string, error) {
	r, err := registryFor(ctx)
	if err != nil {
		return "", err
	}
	return r.DoctorIds()
}

// RegisterPatient submits a new patient with its report identifier.
func (c *Contract) RegisterPatient(ctx contractapi.TransactionContextInterface,
	id, name, disease, phoneNumber string, age int, pdfCID string) error {

	r, err := registryFor(ctx)
	if err != nil {
		return err
	}
	return r.RegisterPatient(id, name, disease, phoneNumber, age, pdfCID)
}

// GetPatientInfo evaluates a patient lookup.
func (c *Contract) GetPatientInfo(ctx contractapi.TransactionContextInterface, id string) (*Patient, error) {
	r, err := registryFor(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetPatientInfo(id)
}

// GetAllPatientIds lists the caller's patients.
func (c *Contract) GetAllPatientIds(ctx contractapi.TransactionContextInterface) ([]string, error) {
	r, err := registryFor(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetAllPatientIds()
}
