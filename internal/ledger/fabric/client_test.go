package fabric

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-protos-go-apiv2/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ApolloMedTech/shdms/chaincode/registry"
	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/ledger"
)

type fakeContract struct {
	results map[string][]byte
	errs    map[string]error
	calls   []string
}

func (f *fakeContract) EvaluateWithContext(_ context.Context, name string, _ ...client.ProposalOption) ([]byte, error) {
	f.calls = append(f.calls, name)
	return f.results[name], f.errs[name]
}

func (f *fakeContract) SubmitWithContext(_ context.Context, name string, _ ...client.ProposalOption) ([]byte, error) {
	f.calls = append(f.calls, name)
	return f.results[name], f.errs[name]
}

func chaincodeError(t *testing.T, code codes.Code, message string) error {
	t.Helper()
	st, err := status.New(code, "failed to evaluate transaction, see attached details for more info").
		WithDetails(&gateway.ErrorDetail{Address: "peer0.org1.example.com:7051", MspId: "Org1MSP", Message: message})
	require.NoError(t, err)
	return st.Err()
}

func TestGetPatientDecodesContractJSON(t *testing.T) {
	raw, err := json.Marshal(registry.Patient{
		ID: "P1", Name: "Jane Doe", Disease: "Flu", PhoneNumber: "5551234567", Age: 30,
		PdfCID: "bafkreiabc", RegisteredBy: "x509::CN=User1",
	})
	require.NoError(t, err)
	fake := &fakeContract{results: map[string][]byte{ledger.TxGetPatientInfo: raw}}
	c := &Client{contract: fake}

	got, err := c.GetPatient(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, domain.PatientRecord{
		ID: "P1", Name: "Jane Doe", Disease: "Flu", Phone: "5551234567", Age: 30, DocumentRef: "bafkreiabc",
	}, *got)
	assert.Equal(t, []string{ledger.TxGetPatientInfo}, fake.calls)
}

func TestGetClinicianNotFound(t *testing.T) {
	fake := &fakeContract{errs: map[string]error{
		ledger.TxGetDoctorInfo: chaincodeError(t, codes.Aborted, "chaincode response 500, doctor D9 does not exist"),
	}}
	c := &Client{contract: fake}

	_, err := c.GetClinician(context.Background(), "D9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReadTransportFailure(t *testing.T) {
	fake := &fakeContract{errs: map[string]error{
		ledger.TxGetAllPatientIds: status.Error(codes.Unavailable, "connection refused"),
	}}
	c := &Client{contract: fake}

	_, err := c.ListPatientIDsForCaller(context.Background())
	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)
	assert.True(t, domain.IsTransient(err))
}

func TestListPatientIDsEmptyPayload(t *testing.T) {
	c := &Client{contract: &fakeContract{}}

	ids, err := c.ListPatientIDsForCaller(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestClinicianForCallerReturnsRawString(t *testing.T) {
	c := &Client{contract: &fakeContract{results: map[string][]byte{ledger.TxDoctorIds: []byte("D1")}}}

	id, err := c.GetClinicianIDForCaller(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "D1", id)
}

func TestClassifyWrite(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", context.DeadlineExceeded, domain.ErrTransactionUnconfirmed},
		{"unavailable", status.Error(codes.Unavailable, "peer down"), domain.ErrTransactionUnconfirmed},
		{"chaincode rejection", chaincodeError(t, codes.Aborted, "patient P1 already registered"), domain.ErrTransactionRejected},
		{"plain", assert.AnError, domain.ErrTransactionRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyWrite(tt.err), tt.want)
		})
	}
}

func TestEndorseFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"peer unreachable", status.Error(codes.Unavailable, "connection refused"), domain.ErrLedgerUnavailable},
		{"endorse deadline", status.Error(codes.DeadlineExceeded, "context deadline exceeded"), domain.ErrLedgerUnavailable},
		{"chaincode refused", chaincodeError(t, codes.Aborted, "doctor D1 already registered"), domain.ErrTransactionRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := endorseFailure(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.False(t, errors.Is(got, domain.ErrTransactionUnconfirmed))
		})
	}
}

func TestRegisterPatientRejected(t *testing.T) {
	fake := &fakeContract{errs: map[string]error{
		ledger.TxRegisterPatient: chaincodeError(t, codes.Aborted, "patient P1 already registered"),
	}}
	c := &Client{contract: fake}

	err := c.RegisterPatient(context.Background(), domain.PatientRecord{ID: "P1", Age: 30}, "bafkreiabc")
	assert.ErrorIs(t, err, domain.ErrTransactionRejected)
	assert.Contains(t, err.Error(), "already registered")
}
