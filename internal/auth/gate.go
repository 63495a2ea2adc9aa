// Package auth resolves login claims against the registry ledger.
//
// The secondary factor is public ledger data compared in plaintext: a
// clinician proves their id with their registered name, a patient with
// their registered phone number. There is no lockout or rate limiting.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/ledger"
)

type Gate struct {
	ledger ledger.Client
}

func New(l ledger.Client) *Gate {
	return &Gate{ledger: l}
}

// AuthenticateClinician returns the clinician stored under id when its name
// equals claimedName exactly.
func (g *Gate) AuthenticateClinician(ctx context.Context, id, claimedName string) (*domain.ClinicianRecord, error) {
	if id == "" {
		return nil, domain.ErrAuthFailed
	}
	rec, err := g.ledger.GetClinician(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	if rec.Name != claimedName {
		return nil, domain.ErrAuthFailed
	}
	return rec, nil
}

// AuthenticatePatient returns the patient stored under id when its phone
// equals claimedPhone exactly.
func (g *Gate) AuthenticatePatient(ctx context.Context, id, claimedPhone string) (*domain.PatientRecord, error) {
	if id == "" {
		return nil, domain.ErrAuthFailed
	}
	rec, err := g.ledger.GetPatient(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	if rec.Phone != claimedPhone {
		return nil, domain.ErrAuthFailed
	}
	return rec, nil
}

// lookupError hides whether the id exists; transport failures stay visible.
func lookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrAuthFailed
	}
	return fmt.Errorf("authenticate: %w", err)
}
