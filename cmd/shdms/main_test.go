package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

func memoryEnv(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("CALLER_ID", "cli-test")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClinicianRegisterCommand(t *testing.T) {
	memoryEnv(t)

	out, err := run(t, clinicianCmd(), "register",
		"--id", "D1", "--name", "Dr. Smith", "--specialization", "Cardiology", "--phone", "5550001111")
	require.NoError(t, err)

	var rec domain.ClinicianRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Dr. Smith", rec.Name)
}

func TestPatientRegisterCommandValidates(t *testing.T) {
	memoryEnv(t)

	_, err := run(t, patientCmd(), "register",
		"--id", "P1", "--name", "Jane Doe", "--disease", "Flu", "--phone", "123", "--age", "30")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestLoginAgainstFreshLedgerFails(t *testing.T) {
	memoryEnv(t)

	_, err := run(t, patientCmd(), "login", "--id", "P1", "--phone", "9876543210")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestNewAppRejectsBadBackend(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "ethereum")

	_, err := newApp()
	assert.ErrorContains(t, err, "LEDGER_BACKEND")
}
