package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

const janeCID = "bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku"

func jane() domain.PatientRecord {
	return domain.PatientRecord{ID: "P1", Name: "Jane Doe", Disease: "Flu", Phone: "5551234567", Age: 30}
}

func TestClinicianRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New("alice")

	rec := domain.ClinicianRecord{ID: "D1", Name: "Dr. Smith", Specialization: "Cardiology", Phone: "5550001111"}
	require.NoError(t, c.RegisterClinician(ctx, rec))

	got, err := c.GetClinician(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	id, err := c.GetClinicianIDForCaller(ctx)
	require.NoError(t, err)
	assert.Equal(t, "D1", id)

	other, err := c.As("bob").GetClinicianIDForCaller(ctx)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRegisterClinicianTwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	c := New("alice")
	rec := domain.ClinicianRecord{ID: "D1", Name: "Dr. Smith"}

	require.NoError(t, c.RegisterClinician(ctx, rec))
	err := c.RegisterClinician(ctx, rec)
	assert.ErrorIs(t, err, domain.ErrTransactionRejected)
}

func TestGetMissingRecords(t *testing.T) {
	ctx := context.Background()
	c := New("alice")

	_, err := c.GetClinician(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.GetPatient(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatientRoundTripAndRoster(t *testing.T) {
	ctx := context.Background()
	alice := New("alice")
	bob := alice.As("bob")

	require.NoError(t, alice.RegisterPatient(ctx, jane(), janeCID))

	got, err := bob.GetPatient(ctx, "P1")
	require.NoError(t, err)
	want := jane()
	want.DocumentRef = janeCID
	assert.Equal(t, want, *got)

	ids, err := alice.ListPatientIDsForCaller(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, ids)

	ids, err = bob.ListPatientIDsForCaller(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestRegisterPatientRejections(t *testing.T) {
	ctx := context.Background()
	c := New("alice")

	err := c.RegisterPatient(ctx, jane(), "")
	assert.ErrorIs(t, err, domain.ErrTransactionRejected)

	require.NoError(t, c.RegisterPatient(ctx, jane(), janeCID))
	err = c.RegisterPatient(ctx, jane(), janeCID)
	assert.ErrorIs(t, err, domain.ErrTransactionRejected)

	ids, err := c.ListPatientIDsForCaller(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, ids)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New("alice")

	assert.ErrorIs(t, c.RegisterPatient(ctx, jane(), janeCID), domain.ErrTransactionUnconfirmed)
	_, err := c.GetPatient(ctx, "P1")
	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)
	_, err = c.ListPatientIDsForCaller(ctx)
	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)
}
