// Package memory runs the registry contract in process. It backs tests and
// the memory ledger mode of the CLI.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ApolloMedTech/shdms/chaincode/registry"
	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/ledger"
)

// Client is a ledger.Client over a MemoryState. All identities share one
// world state; the caller identity scopes the roster and clinician lookups
// the same way the signing certificate does on a peer.
type Client struct {
	mu     *sync.Mutex
	state  *registry.MemoryState
	caller string
}

var _ ledger.Client = (*Client)(nil)

// New returns a client acting as caller over an empty world state.
func New(caller string) *Client {
	return &Client{mu: &sync.Mutex{}, state: registry.NewMemoryState(), caller: caller}
}

// As returns a client over the same world state acting as another identity.
func (c *Client) As(caller string) *Client {
	return &Client{mu: c.mu, state: c.state, caller: caller}
}

func (c *Client) registry() *registry.Registry {
	return registry.New(c.state, c.caller)
}

func (c *Client) RegisterClinician(ctx context.Context, rec domain.ClinicianRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("register clinician %s: %w", rec.ID, domain.ErrTransactionUnconfirmed)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.registry().RegisterDoctor(rec.ID, rec.Name, rec.Specialization, rec.Phone)
	return writeError("register clinician", rec.ID, err)
}

func (c *Client) GetClinician(ctx context.Context, id string) (*domain.ClinicianRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get clinician %s: %w", id, domain.ErrLedgerUnavailable)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	doctor, err := c.registry().GetDoctorInfo(id)
	if err != nil {
		return nil, readError("get clinician", id, err)
	}
	return ledger.ClinicianFromDoctor(doctor), nil
}

func (c *Client) RegisterPatient(ctx context.Context, rec domain.PatientRecord, documentRef string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("register patient %s: %w", rec.ID, domain.ErrTransactionUnconfirmed)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.registry().RegisterPatient(rec.ID, rec.Name, rec.Disease, rec.Phone, rec.Age, documentRef)
	return writeError("register patient", rec.ID, err)
}

func (c *Client) GetPatient(ctx context.Context, id string) (*domain.PatientRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get patient %s: %w", id, domain.ErrLedgerUnavailable)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	patient, err := c.registry().GetPatientInfo(id)
	if err != nil {
		return nil, readError("get patient", id, err)
	}
	return ledger.PatientFromContract(patient), nil
}

func (c *Client) ListPatientIDsForCaller(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list patients: %w", domain.ErrLedgerUnavailable)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, err := c.registry().GetAllPatientIds()
	if err != nil {
		return nil, readError("list patients", c.caller, err)
	}
	return ids, nil
}

func (c *Client) GetClinicianIDForCaller(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("clinician for caller: %w", domain.ErrLedgerUnavailable)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := c.registry().DoctorIds()
	if err != nil {
		return "", readError("clinician for caller", c.caller, err)
	}
	return id, nil
}

func writeError(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %v: %w", op, id, err, domain.ErrTransactionRejected)
}

func readError(op, id string, err error) error {
	if errors.Is(err, registry.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %v: %w", op, id, err, domain.ErrLedgerUnavailable)
}
