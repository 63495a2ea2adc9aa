// Package ledger is the client side of the registry contract.
package ledger

//go:generate mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks

import (
	"context"

	"github.com/ApolloMedTech/shdms/chaincode/registry"
	"github.com/ApolloMedTech/shdms/internal/domain"
)

// Client issues reads and state-changing transactions against the registry.
//
// Reads are idempotent and fail with domain.ErrNotFound or
// domain.ErrLedgerUnavailable. Writes fail with domain.ErrTransactionRejected
// or domain.ErrTransactionUnconfirmed and are never retried here: an
// unconfirmed write has an unknown outcome until read state says otherwise.
type Client interface {
	RegisterClinician(ctx context.Context, rec domain.ClinicianRecord) error
	GetClinician(ctx context.Context, id string) (*domain.ClinicianRecord, error)
	RegisterPatient(ctx context.Context, rec domain.PatientRecord, documentRef string) error
	GetPatient(ctx context.Context, id string) (*domain.PatientRecord, error)
	ListPatientIDsForCaller(ctx context.Context) ([]string, error)
	GetClinicianIDForCaller(ctx context.Context) (string, error)
}

// Transaction names of the registry chaincode.
const (
	TxRegisterDoctor   = "RegisterDoctor"
	TxGetDoctorInfo    = "GetDoctorInfo"
	TxRegisterPatient  = "RegisterPatient"
	TxGetPatientInfo   = "GetPatientInfo"
	TxGetAllPatientIds = "GetAllPatientIds"
	TxDoctorIds        = "DoctorIds"
)

// ClinicianFromDoctor converts the contract representation.
func ClinicianFromDoctor(d *registry.Doctor) *domain.ClinicianRecord {
	return &domain.ClinicianRecord{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		Phone:          d.PhoneNumber,
	}
}

// PatientFromContract converts the contract representation.
func PatientFromContract(p *registry.Patient) *domain.PatientRecord {
	return &domain.PatientRecord{
		ID:          p.ID,
		Name:        p.Name,
		Disease:     p.Disease,
		Phone:       p.PhoneNumber,
		Age:         p.Age,
		DocumentRef: p.PdfCID,
	}
}
