package fabric

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-protos-go-apiv2/gateway"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ApolloMedTech/shdms/chaincode/registry"
	"github.com/ApolloMedTech/shdms/internal/domain"
)

// classifyWrite maps a submit failure to Rejected when the ledger declined
// the transaction, to LedgerUnavailable when it never reached an endorser,
// and to Unconfirmed when it may have committed.
func classifyWrite(err error) error {
	var (
		endorseErr      *client.EndorseError
		submitErr       *client.SubmitError
		commitStatusErr *client.CommitStatusError
		commitErr       *client.CommitError
	)
	msg := describe(err)
	switch {
	case errors.As(err, &endorseErr):
		return fmt.Errorf("endorse %s: %s: %w", endorseErr.TransactionID, msg, endorseFailure(err))
	case errors.As(err, &commitErr):
		return fmt.Errorf("commit %s: %s: %w", commitErr.TransactionID, msg, domain.ErrTransactionRejected)
	case errors.As(err, &commitStatusErr):
		return fmt.Errorf("commit status %s: %s: %w", commitStatusErr.TransactionID, msg, domain.ErrTransactionUnconfirmed)
	case errors.As(err, &submitErr):
		if uncertain(err) {
			return fmt.Errorf("submit %s: %s: %w", submitErr.TransactionID, msg, domain.ErrTransactionUnconfirmed)
		}
		return fmt.Errorf("submit %s: %s: %w", submitErr.TransactionID, msg, domain.ErrTransactionRejected)
	case uncertain(err):
		return fmt.Errorf("%s: %w", msg, domain.ErrTransactionUnconfirmed)
	default:
		return fmt.Errorf("%s: %w", msg, domain.ErrTransactionRejected)
	}
}

// endorseFailure separates a proposal the peers refused from one that
// never got an answer. Neither reached the orderer.
func endorseFailure(err error) error {
	if uncertain(err) {
		return domain.ErrLedgerUnavailable
	}
	return domain.ErrTransactionRejected
}

// classifyRead maps an evaluate failure. Chaincode lookups of unknown ids
// fail with the registry's not-found message.
func classifyRead(err error) error {
	msg := describe(err)
	if strings.Contains(msg, registry.MsgNotFound) {
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, domain.ErrLedgerUnavailable)
}

func uncertain(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	switch status.Code(err) {
	case codes.DeadlineExceeded, codes.Unavailable, codes.Canceled:
		return true
	}
	return false
}

// describe flattens the gRPC status and the error details attached by
// peers and orderers into one message.
func describe(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return err.Error()
	}
	parts := []string{st.Message()}
	for _, detail := range st.Details() {
		if d, ok := detail.(*gateway.ErrorDetail); ok {
			parts = append(parts, fmt.Sprintf("%s (%s): %s", d.GetAddress(), d.GetMspId(), d.GetMessage()))
		}
	}
	return strings.Join(parts, "; ")
}
