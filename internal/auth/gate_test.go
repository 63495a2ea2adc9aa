package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/ledger/mocks"
)

func TestAuthenticateClinician(t *testing.T) {
	smith := &domain.ClinicianRecord{ID: "D1", Name: "Dr. Smith", Specialization: "Cardiology", Phone: "5550001111"}

	tests := []struct {
		name    string
		id      string
		claim   string
		setup   func(m *mocks.MockClient)
		wantErr error
	}{
		{
			name:  "exact match",
			id:    "D1",
			claim: "Dr. Smith",
			setup: func(m *mocks.MockClient) {
				m.EXPECT().GetClinician(gomock.Any(), "D1").Return(smith, nil)
			},
		},
		{
			name:  "case differs",
			id:    "D1",
			claim: "dr. smith",
			setup: func(m *mocks.MockClient) {
				m.EXPECT().GetClinician(gomock.Any(), "D1").Return(smith, nil)
			},
			wantErr: domain.ErrAuthFailed,
		},
		{
			name:  "unknown id",
			id:    "D9",
			claim: "Dr. Smith",
			setup: func(m *mocks.MockClient) {
				m.EXPECT().GetClinician(gomock.Any(), "D9").Return(nil, fmt.Errorf("get clinician D9: %w", domain.ErrNotFound))
			},
			wantErr: domain.ErrAuthFailed,
		},
		{
			name:  "ledger down",
			id:    "D1",
			claim: "Dr. Smith",
			setup: func(m *mocks.MockClient) {
				m.EXPECT().GetClinician(gomock.Any(), "D1").Return(nil, domain.ErrLedgerUnavailable)
			},
			wantErr: domain.ErrLedgerUnavailable,
		},
		{
			name:    "empty id",
			claim:   "Dr. Smith",
			setup:   func(m *mocks.MockClient) {},
			wantErr: domain.ErrAuthFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			l := mocks.NewMockClient(ctrl)
			tt.setup(l)

			rec, err := New(l).AuthenticateClinician(context.Background(), tt.id, tt.claim)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, smith, rec)
		})
	}
}

func TestAuthenticatePatient(t *testing.T) {
	jane := &domain.PatientRecord{ID: "P1", Name: "Jane Doe", Disease: "Flu", Phone: "5551234567", Age: 30, DocumentRef: "bafkreiabc"}

	t.Run("phone matches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := mocks.NewMockClient(ctrl)
		l.EXPECT().GetPatient(gomock.Any(), "P1").Return(jane, nil)

		rec, err := New(l).AuthenticatePatient(context.Background(), "P1", "5551234567")
		require.NoError(t, err)
		assert.Equal(t, "bafkreiabc", rec.DocumentRef)
	})

	t.Run("phone differs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := mocks.NewMockClient(ctrl)
		l.EXPECT().GetPatient(gomock.Any(), "P1").Return(jane, nil)

		_, err := New(l).AuthenticatePatient(context.Background(), "P1", "0000000000")
		assert.ErrorIs(t, err, domain.ErrAuthFailed)
	})

	t.Run("unknown id is indistinguishable from mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := mocks.NewMockClient(ctrl)
		l.EXPECT().GetPatient(gomock.Any(), "P9").Return(nil, domain.ErrNotFound)

		_, err := New(l).AuthenticatePatient(context.Background(), "P9", "5551234567")
		assert.Equal(t, domain.ErrAuthFailed, err)
	})
}
