package session

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ApolloMedTech/shdms/internal/contentstore"
	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/validate"
)

// RefreshPatients re-lists the patients registered by the active clinician.
func (c *Controller) RefreshPatients(ctx context.Context) ([]domain.PatientRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Role != domain.RoleClinician {
		return nil, fmt.Errorf("refresh patients from %s: %w", c.session.State(), domain.ErrInvalidTransition)
	}
	return c.refreshPatients(ctx)
}

// refreshPatients lists the caller's patient ids and reads the records
// concurrently, keeping ledger order. The roster is replaced only when every
// record was read.
func (c *Controller) refreshPatients(ctx context.Context) ([]domain.PatientRecord, error) {
	ctx, span := c.tracer.Start(ctx, "session.RefreshPatients")
	defer span.End()

	var ids []string
	err := c.ledgerRead(ctx, "list_patient_ids", func(ctx context.Context) error {
		var err error
		ids, err = c.ledger.ListPatientIDsForCaller(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	records := make([]domain.PatientRecord, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rosterConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			return c.ledgerRead(gctx, "get_patient", func(ctx context.Context) error {
				rec, err := c.ledger.GetPatient(ctx, id)
				if err != nil {
					return err
				}
				records[i] = *rec
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("roster.size", len(records)))
	c.patients = records
	return append([]domain.PatientRecord(nil), records...), nil
}

// DownloadReport fetches a published report. The store verifies the bytes
// against the identifier.
func (c *Controller) DownloadReport(ctx context.Context, cid string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "session.DownloadReport",
		trace.WithAttributes(attribute.String("report.cid", cid)))
	defer span.End()

	if !contentstore.Valid(cid) {
		return nil, fmt.Errorf("report %q: %w", cid, domain.ErrNotFound)
	}
	doc, err := c.fetch(ctx, cid)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return doc, nil
}

// ReportURL is the browser-openable location of a report.
func (c *Controller) ReportURL(cid string) (string, error) {
	if !contentstore.Valid(cid) {
		return "", fmt.Errorf("report %q: %w", cid, domain.ErrNotFound)
	}
	if c.gatewayURL == nil {
		return "", fmt.Errorf("report %s: no gateway configured: %w", cid, domain.ErrStoreUnavailable)
	}
	return c.gatewayURL(cid), nil
}

// RegenerateReport renders a fresh report for a registered patient on
// behalf of a clinician caller. The optional imageRef names a published
// JPEG or PNG; when it cannot be fetched the report is rendered without it.
func (c *Controller) RegenerateReport(ctx context.Context, patientID, imageRef string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "session.RegenerateReport",
		trace.WithAttributes(attribute.String("patient.id", patientID)))
	defer span.End()

	var clinicianID string
	err := c.ledgerRead(ctx, "clinician_for_caller", func(ctx context.Context) error {
		var err error
		clinicianID, err = c.ledger.GetClinicianIDForCaller(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if clinicianID == "" {
		return nil, domain.ErrNotClinician
	}

	var rec *domain.PatientRecord
	err = c.ledgerRead(ctx, "get_patient", func(ctx context.Context) error {
		var err error
		rec, err = c.ledger.GetPatient(ctx, patientID)
		return err
	})
	if err != nil {
		return nil, err
	}

	image := c.image(ctx, imageRef)
	doc, err := c.synth.Synthesize(*rec, image)
	if err != nil {
		return nil, fmt.Errorf("render report for %s: %w", patientID, err)
	}
	return doc, nil
}

func (c *Controller) image(ctx context.Context, ref string) []byte {
	if ref == "" {
		return nil
	}
	img, err := c.fetch(ctx, ref)
	if err == nil {
		err = validate.Image(img)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("cid", ref).Msg("image unavailable, rendering text only")
		return nil
	}
	return img
}

func (c *Controller) fetch(ctx context.Context, cid string) ([]byte, error) {
	var doc []byte
	err := c.retry(ctx, func() error {
		return c.storeCall(ctx, "fetch", func(ctx context.Context) error {
			var err error
			doc, err = c.store.Fetch(ctx, cid)
			return err
		})
	})
	return doc, err
}
