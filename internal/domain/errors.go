package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store, ledger, auth and session layers.
// Clients wrap them with context; callers match with errors.Is.
var (
	ErrAuthFailed             = errors.New("authentication failed")
	ErrNotFound               = errors.New("not found")
	ErrStoreUnavailable       = errors.New("content store unavailable")
	ErrStoreRejected          = errors.New("content store rejected request")
	ErrTransactionRejected    = errors.New("transaction rejected")
	ErrTransactionUnconfirmed = errors.New("transaction unconfirmed")
	ErrLedgerUnavailable      = errors.New("ledger unavailable")
	ErrInvalidTransition      = errors.New("invalid session transition")
	ErrNotClinician           = errors.New("caller is not a registered clinician")
)

// ValidationError reports the first input rule a registration violated.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Kind is a stable, low-cardinality name for an error class.
type Kind string

const (
	KindNone                   Kind = "ok"
	KindValidation             Kind = "validation"
	KindAuthFailed             Kind = "auth_failed"
	KindNotFound               Kind = "not_found"
	KindStoreUnavailable       Kind = "store_unavailable"
	KindStoreRejected          Kind = "store_rejected"
	KindTransactionRejected    Kind = "transaction_rejected"
	KindTransactionUnconfirmed Kind = "transaction_unconfirmed"
	KindLedgerUnavailable      Kind = "ledger_unavailable"
	KindInvalidTransition      Kind = "invalid_transition"
	KindNotClinician           Kind = "not_clinician"
	KindInternal               Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrAuthFailed, KindAuthFailed},
	{ErrNotFound, KindNotFound},
	{ErrStoreUnavailable, KindStoreUnavailable},
	{ErrStoreRejected, KindStoreRejected},
	{ErrTransactionRejected, KindTransactionRejected},
	{ErrTransactionUnconfirmed, KindTransactionUnconfirmed},
	{ErrLedgerUnavailable, KindLedgerUnavailable},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrNotClinician, KindNotClinician},
}

// KindOf classifies err. Unrecognized errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsTransient reports whether err is worth retrying for an idempotent call.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrLedgerUnavailable)
}
