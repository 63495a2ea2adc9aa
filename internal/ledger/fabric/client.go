// Package fabric implements the ledger client over a Hyperledger Fabric
// Gateway peer.
package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"google.golang.org/grpc"

	"github.com/ApolloMedTech/shdms/chaincode/registry"
	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/ledger"
)

// Config locates the peer, the signing identity and the registry contract.
type Config struct {
	MSPID        string
	PeerEndpoint string
	GatewayPeer  string
	CertPath     string
	// KeyPath is the keystore directory; its first file is the private key.
	KeyPath     string
	TLSCertPath string
	Channel     string
	Chaincode   string

	EvaluateTimeout     time.Duration
	EndorseTimeout      time.Duration
	SubmitTimeout       time.Duration
	CommitStatusTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.EvaluateTimeout == 0 {
		c.EvaluateTimeout = 5 * time.Second
	}
	if c.EndorseTimeout == 0 {
		c.EndorseTimeout = 15 * time.Second
	}
	if c.SubmitTimeout == 0 {
		c.SubmitTimeout = 5 * time.Second
	}
	if c.CommitStatusTimeout == 0 {
		c.CommitStatusTimeout = time.Minute
	}
	return c
}

// contract is the part of *client.Contract the ledger client drives.
type contract interface {
	EvaluateWithContext(ctx context.Context, transactionName string, options ...client.ProposalOption) ([]byte, error)
	SubmitWithContext(ctx context.Context, transactionName string, options ...client.ProposalOption) ([]byte, error)
}

// Client is a ledger.Client bound to one channel and chaincode.
type Client struct {
	contract contract
	gw       *client.Gateway
	conn     *grpc.ClientConn
}

var _ ledger.Client = (*Client)(nil)

// Dial connects to the gateway peer with the configured identity.
// The gRPC connection is shared by every call made through the client.
func Dial(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	conn, err := newGrpcConnection(cfg)
	if err != nil {
		return nil, err
	}
	id, err := newIdentity(cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	sign, err := newSign(cfg.KeyPath)
	if err != nil {
		conn.Close()
		return nil, err
	}

	gw, err := client.Connect(
		id,
		client.WithSign(sign),
		client.WithClientConnection(conn),
		client.WithEvaluateTimeout(cfg.EvaluateTimeout),
		client.WithEndorseTimeout(cfg.EndorseTimeout),
		client.WithSubmitTimeout(cfg.SubmitTimeout),
		client.WithCommitStatusTimeout(cfg.CommitStatusTimeout),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect gateway: %w", err)
	}

	network := gw.GetNetwork(cfg.Channel)
	return &Client{
		contract: network.GetContract(cfg.Chaincode),
		gw:       gw,
		conn:     conn,
	}, nil
}

// Close releases the gateway and its gRPC connection.
func (c *Client) Close() error {
	if c.gw != nil {
		c.gw.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// RegisterClinician submits RegisterDoctor and waits for commit.
func (c *Client) RegisterClinician(ctx context.Context, rec domain.ClinicianRecord) error {
	_, err := c.contract.SubmitWithContext(ctx, ledger.TxRegisterDoctor,
		client.WithArguments(rec.ID, rec.Name, rec.Specialization, rec.Phone))
	if err != nil {
		return fmt.Errorf("register clinician %s: %w", rec.ID, classifyWrite(err))
	}
	return nil
}

func (c *Client) GetClinician(ctx context.Context, id string) (*domain.ClinicianRecord, error) {
	raw, err := c.contract.EvaluateWithContext(ctx, ledger.TxGetDoctorInfo, client.WithArguments(id))
	if err != nil {
		return nil, fmt.Errorf("get clinician %s: %w", id, classifyRead(err))
	}
	var doctor registry.Doctor
	if err := json.Unmarshal(raw, &doctor); err != nil {
		return nil, fmt.Errorf("decode clinician %s: %v: %w", id, err, domain.ErrLedgerUnavailable)
	}
	return ledger.ClinicianFromDoctor(&doctor), nil
}

// RegisterPatient submits RegisterPatient with the published report
// identifier and waits for commit.
func (c *Client) RegisterPatient(ctx context.Context, rec domain.PatientRecord, documentRef string) error {
	_, err := c.contract.SubmitWithContext(ctx, ledger.TxRegisterPatient,
		client.WithArguments(rec.ID, rec.Name, rec.Disease, rec.Phone, strconv.Itoa(rec.Age), documentRef))
	if err != nil {
		return fmt.Errorf("register patient %s: %w", rec.ID, classifyWrite(err))
	}
	return nil
}

func (c *Client) GetPatient(ctx context.Context, id string) (*domain.PatientRecord, error) {
	raw, err := c.contract.EvaluateWithContext(ctx, ledger.TxGetPatientInfo, client.WithArguments(id))
	if err != nil {
		return nil, fmt.Errorf("get patient %s: %w", id, classifyRead(err))
	}
	var patient registry.Patient
	if err := json.Unmarshal(raw, &patient); err != nil {
		return nil, fmt.Errorf("decode patient %s: %v: %w", id, err, domain.ErrLedgerUnavailable)
	}
	return ledger.PatientFromContract(&patient), nil
}

func (c *Client) ListPatientIDsForCaller(ctx context.Context) ([]string, error) {
	raw, err := c.contract.EvaluateWithContext(ctx, ledger.TxGetAllPatientIds)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", classifyRead(err))
	}
	ids := []string{}
	if len(raw) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode patient ids: %v: %w", err, domain.ErrLedgerUnavailable)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// GetClinicianIDForCaller returns "" when the signing identity has not
// registered a clinician.
func (c *Client) GetClinicianIDForCaller(ctx context.Context) (string, error) {
	raw, err := c.contract.EvaluateWithContext(ctx, ledger.TxDoctorIds)
	if err != nil {
		return "", fmt.Errorf("clinician for caller: %w", classifyRead(err))
	}
	return string(raw), nil
}
