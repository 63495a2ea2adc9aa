package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ApolloMedTech/shdms/internal/contentstore"
	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/events"
	ledgermem "github.com/ApolloMedTech/shdms/internal/ledger/memory"
)

// stalledPublisher never reaches its broker: Publish returns only when ctx ends.
type stalledPublisher struct {
	calls atomic.Int32
}

func (p *stalledPublisher) Publish(ctx context.Context, _ events.Event) error {
	p.calls.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (p *stalledPublisher) Close() error { return nil }

func TestStalledPublisherDoesNotHoldActions(t *testing.T) {
	publisher := &stalledPublisher{}
	l := ledgermem.New("clinic-1")
	c := New(contentstore.NewMemory(), l,
		WithSynthesizer(frozenSynthesizer()),
		WithEvents(publisher),
		WithEventTimeout(50*time.Millisecond),
	)

	type result struct {
		rec *domain.PatientRecord
		err error
	}
	done := make(chan result, 1)
	go func() {
		rec, err := c.SubmitPatientRegistration(context.Background(), janeInput())
		done <- result{rec, err}
	}()

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.NotEmpty(t, res.rec.DocumentRef)
	case <-time.After(5 * time.Second):
		t.Fatal("registration did not return while the event broker was unreachable")
	}
	assert.Equal(t, int32(1), publisher.calls.Load())

	stateDone := make(chan domain.State, 1)
	go func() { stateDone <- c.State() }()
	select {
	case state := <-stateDone:
		assert.Equal(t, domain.StateAnonymous, state)
	case <-time.After(time.Second):
		t.Fatal("controller still locked after registration")
	}

	_, err := c.LoginPatient(context.Background(), "P1", "9876543210")
	require.NoError(t, err)
}

// ctxPublisher records the context each event was published under.
type ctxPublisher struct {
	err         error
	hasDeadline bool
}

func (p *ctxPublisher) Publish(ctx context.Context, _ events.Event) error {
	p.err = ctx.Err()
	_, p.hasDeadline = ctx.Deadline()
	return nil
}

func (p *ctxPublisher) Close() error { return nil }

func TestEventPublishOutlivesCancelledAction(t *testing.T) {
	publisher := &ctxPublisher{}
	c := New(contentstore.NewMemory(), ledgermem.New("clinic-1"), WithEvents(publisher))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.emit(ctx, events.New(events.TypeClinicianRegistered, "D1", ""))

	assert.NoError(t, publisher.err)
	assert.True(t, publisher.hasDeadline)
}
