package session

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

// LoginClinician opens a clinician session and loads its roster. A roster
// that cannot be loaded leaves the session open with an empty roster.
func (c *Controller) LoginClinician(ctx context.Context, id, name string) (s domain.Session, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "session.LoginClinician",
		trace.WithAttributes(attribute.String("clinician.id", id)))
	defer func() { c.finish(span, string(domain.RoleClinician), err, c.metrics.IncLogin) }()

	if !c.session.Anonymous() {
		return domain.Session{}, fmt.Errorf("login from %s: %w", c.session.State(), domain.ErrInvalidTransition)
	}

	var rec *domain.ClinicianRecord
	err = c.ledgerRead(ctx, "get_clinician", func(ctx context.Context) error {
		var err error
		rec, err = c.gate.AuthenticateClinician(ctx, id, name)
		return err
	})
	if err != nil {
		return domain.Session{}, err
	}

	c.session = domain.Session{Role: domain.RoleClinician, Clinician: rec}
	c.view = domain.ViewClinicianDashboard
	c.log.Info().Str("clinician_id", rec.ID).Msg("clinician session started")

	if _, err := c.refreshPatients(ctx); err != nil {
		c.log.Warn().Err(err).Str("clinician_id", rec.ID).Msg("roster not loaded")
	}
	return copySession(c.session), nil
}

// LoginPatient opens a patient session.
func (c *Controller) LoginPatient(ctx context.Context, id, phone string) (s domain.Session, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "session.LoginPatient",
		trace.WithAttributes(attribute.String("patient.id", id)))
	defer func() { c.finish(span, string(domain.RolePatient), err, c.metrics.IncLogin) }()

	if !c.session.Anonymous() {
		return domain.Session{}, fmt.Errorf("login from %s: %w", c.session.State(), domain.ErrInvalidTransition)
	}

	rec, err := c.authenticatePatient(ctx, id, phone)
	if err != nil {
		return domain.Session{}, err
	}

	c.session = domain.Session{Role: domain.RolePatient, Patient: rec}
	c.view = domain.ViewPatientDashboard
	c.log.Info().Str("patient_id", rec.ID).Msg("patient session started")
	return copySession(c.session), nil
}

// OpenPatientReport checks the patient's phone and returns the report
// identifier. The session is not changed.
func (c *Controller) OpenPatientReport(ctx context.Context, id, phone string) (cid string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "session.OpenPatientReport",
		trace.WithAttributes(attribute.String("patient.id", id)))
	defer span.End()

	rec, err := c.authenticatePatient(ctx, id, phone)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if rec.DocumentRef == "" {
		return "", fmt.Errorf("report for patient %s: %w", id, domain.ErrNotFound)
	}
	return rec.DocumentRef, nil
}

func (c *Controller) authenticatePatient(ctx context.Context, id, phone string) (*domain.PatientRecord, error) {
	var rec *domain.PatientRecord
	err := c.ledgerRead(ctx, "get_patient", func(ctx context.Context) error {
		var err error
		rec, err = c.gate.AuthenticatePatient(ctx, id, phone)
		return err
	})
	return rec, err
}
