package session

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/events"
	"github.com/ApolloMedTech/shdms/internal/validate"
)

// SubmitClinicianRegistration validates in and commits the clinician. The
// session is left as it was; the view moves to the clinician login.
func (c *Controller) SubmitClinicianRegistration(ctx context.Context, in domain.ClinicianRegistrationInput) (rec *domain.ClinicianRecord, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "session.SubmitClinicianRegistration",
		trace.WithAttributes(attribute.String("clinician.id", in.ID)))
	defer func() { c.finish(span, string(domain.RoleClinician), err, c.metrics.IncRegistration) }()

	if err := validate.Clinician(in); err != nil {
		return nil, err
	}

	clinician := in.Record()
	err = c.ledgerWrite(ctx, "register_clinician", func(ctx context.Context) error {
		return c.ledger.RegisterClinician(ctx, clinician)
	})
	if errors.Is(err, domain.ErrTransactionUnconfirmed) && c.clinicianCommitted(ctx, clinician) {
		c.log.Info().Str("clinician_id", clinician.ID).Msg("unconfirmed clinician registration found on ledger")
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("register clinician %s: %w", clinician.ID, err)
	}

	c.log.Info().Str("clinician_id", clinician.ID).Msg("clinician registered")
	c.emit(ctx, events.New(events.TypeClinicianRegistered, clinician.ID, ""))
	if c.session.Anonymous() {
		c.view = domain.ViewClinicianLogin
	}
	return &clinician, nil
}

// SubmitPatientRegistration validates in, renders the report, publishes it
// and commits the patient with the report identifier. A publish failure
// ends the action before the ledger is touched. A document published but
// not committed is reported as orphaned.
func (c *Controller) SubmitPatientRegistration(ctx context.Context, in domain.PatientRegistrationInput) (rec *domain.PatientRecord, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "session.SubmitPatientRegistration",
		trace.WithAttributes(attribute.String("patient.id", in.ID)))
	defer func() { c.finish(span, string(domain.RolePatient), err, c.metrics.IncRegistration) }()

	age, err := validate.Patient(in)
	if err != nil {
		return nil, err
	}
	patient := in.Record(age)

	doc, err := c.synth.Synthesize(patient, in.Image)
	if err != nil {
		return nil, fmt.Errorf("render report for %s: %w", patient.ID, err)
	}

	cid, err := c.publish(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("publish report for %s: %w", patient.ID, err)
	}
	span.SetAttributes(attribute.String("report.cid", cid))

	err = c.ledgerWrite(ctx, "register_patient", func(ctx context.Context) error {
		return c.ledger.RegisterPatient(ctx, patient, cid)
	})
	if errors.Is(err, domain.ErrTransactionUnconfirmed) && c.patientCommitted(ctx, patient.ID, cid) {
		c.log.Info().Str("patient_id", patient.ID).Str("cid", cid).Msg("unconfirmed patient registration found on ledger")
		err = nil
	}
	if err != nil {
		c.orphan(ctx, patient.ID, cid, err)
		return nil, fmt.Errorf("register patient %s: %w", patient.ID, err)
	}

	patient.DocumentRef = cid
	c.log.Info().Str("patient_id", patient.ID).Str("cid", cid).Msg("patient registered")
	c.emit(ctx, events.New(events.TypePatientRegistered, patient.ID, cid))

	if c.session.Role == domain.RoleClinician {
		if _, err := c.refreshPatients(ctx); err != nil {
			c.log.Warn().Err(err).Msg("roster refresh after registration failed")
		}
	}
	return &patient, nil
}

// publish is retried: identical bytes always get the same identifier.
func (c *Controller) publish(ctx context.Context, doc []byte) (string, error) {
	var cid string
	err := c.retry(ctx, func() error {
		return c.storeCall(ctx, "publish", func(ctx context.Context) error {
			var err error
			cid, err = c.store.Publish(ctx, doc)
			return err
		})
	})
	return cid, err
}

// clinicianCommitted reads back a clinician whose registration went unconfirmed.
func (c *Controller) clinicianCommitted(ctx context.Context, want domain.ClinicianRecord) bool {
	var got *domain.ClinicianRecord
	err := c.ledgerRead(ctx, "get_clinician", func(ctx context.Context) error {
		var err error
		got, err = c.ledger.GetClinician(ctx, want.ID)
		return err
	})
	return err == nil && *got == want
}

// patientCommitted reads back a patient whose registration went unconfirmed.
// Only a record carrying the document just published counts.
func (c *Controller) patientCommitted(ctx context.Context, id, cid string) bool {
	var got *domain.PatientRecord
	err := c.ledgerRead(ctx, "get_patient", func(ctx context.Context) error {
		var err error
		got, err = c.ledger.GetPatient(ctx, id)
		return err
	})
	return err == nil && got.DocumentRef == cid
}

func (c *Controller) orphan(ctx context.Context, patientID, cid string, cause error) {
	kind := string(domain.KindOf(cause))
	c.metrics.IncOrphaned()
	c.log.Error().
		Err(cause).
		Str("patient_id", patientID).
		Str("cid", cid).
		Str("kind", kind).
		Msg("published report has no ledger record")

	event := events.New(events.TypeDocumentOrphaned, patientID, cid)
	event.Reason = kind
	c.emit(ctx, event)
}

// finish closes an action span and counts its outcome.
func (c *Controller) finish(span trace.Span, role string, err error, count func(role, outcome string)) {
	outcome := string(domain.KindOf(err))
	count(role, outcome)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, outcome)
	}
	span.End()
}
