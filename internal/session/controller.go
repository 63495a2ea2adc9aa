// Package session orchestrates registration, login and report retrieval on
// top of the content store and the registry ledger, and owns the single
// active identity of the client.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ApolloMedTech/shdms/internal/auth"
	"github.com/ApolloMedTech/shdms/internal/contentstore"
	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/events"
	"github.com/ApolloMedTech/shdms/internal/ledger"
	"github.com/ApolloMedTech/shdms/internal/platform/metrics"
	"github.com/ApolloMedTech/shdms/internal/report"
)

const tracerName = "github.com/ApolloMedTech/shdms/internal/session"

const (
	DefaultStoreTimeout    = 30 * time.Second
	DefaultLedgerTimeout   = time.Minute
	DefaultRetryMaxElapsed = 10 * time.Second
	DefaultEventTimeout    = 5 * time.Second

	rosterConcurrency = 8
)

// Controller serializes user actions. Every exported method may be called
// concurrently; actions run one at a time.
type Controller struct {
	mu sync.Mutex

	store   contentstore.Store
	ledger  ledger.Client
	gate    *auth.Gate
	synth   *report.Synthesizer
	events  events.Publisher
	metrics *metrics.Metrics
	log     zerolog.Logger
	tracer  trace.Tracer

	gatewayURL      func(id string) string
	storeTimeout    time.Duration
	ledgerTimeout   time.Duration
	retryInitial    time.Duration
	retryMaxElapsed time.Duration
	eventTimeout    time.Duration

	session  domain.Session
	view     domain.ViewState
	patients []domain.PatientRecord
}

type Option func(*Controller)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log.With().Str("component", "session").Logger()
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithEvents(p events.Publisher) Option {
	return func(c *Controller) {
		c.events = p
	}
}

// WithSynthesizer replaces the report synthesizer, typically to freeze its clock.
func WithSynthesizer(s *report.Synthesizer) Option {
	return func(c *Controller) {
		c.synth = s
	}
}

// WithTimeouts bounds each content store and ledger call.
func WithTimeouts(store, ledger time.Duration) Option {
	return func(c *Controller) {
		c.storeTimeout = store
		c.ledgerTimeout = ledger
	}
}

// WithRetry configures the backoff for publishes and ledger reads.
// A maxElapsed of zero disables retries.
func WithRetry(initial, maxElapsed time.Duration) Option {
	return func(c *Controller) {
		c.retryInitial = initial
		c.retryMaxElapsed = maxElapsed
	}
}

// WithGatewayURL sets how report identifiers become browser URLs.
func WithGatewayURL(fn func(id string) string) Option {
	return func(c *Controller) {
		c.gatewayURL = fn
	}
}

// WithEventTimeout bounds each event publication.
func WithEventTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.eventTimeout = d
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		c.tracer = t
	}
}

// New returns a controller in the anonymous state.
func New(store contentstore.Store, l ledger.Client, opts ...Option) *Controller {
	c := &Controller{
		store:           store,
		ledger:          l,
		gate:            auth.New(l),
		synth:           report.New(),
		events:          events.Nop{},
		log:             zerolog.Nop(),
		tracer:          otel.Tracer(tracerName),
		storeTimeout:    DefaultStoreTimeout,
		ledgerTimeout:   DefaultLedgerTimeout,
		retryInitial:    200 * time.Millisecond,
		retryMaxElapsed: DefaultRetryMaxElapsed,
		eventTimeout:    DefaultEventTimeout,
		session:         domain.Session{Role: domain.RoleNone},
		view:            domain.ViewHome,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the active session.
func (c *Controller) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySession(c.session)
}

func (c *Controller) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State()
}

func (c *Controller) View() domain.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Patients returns the roster loaded for the active clinician.
func (c *Controller) Patients() []domain.PatientRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.PatientRecord(nil), c.patients...)
}

// Logout drops the active identity and everything loaded for it.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logout()
}

func (c *Controller) logout() {
	if !c.session.Anonymous() {
		c.log.Info().Str("from", string(c.session.State())).Msg("session ended")
	}
	c.session = domain.Session{Role: domain.RoleNone}
	c.view = domain.ViewHome
	c.patients = nil
}

// Navigate moves the view. Home always ends the session. Login and
// registration screens need an anonymous session; dashboards need the
// matching session.
func (c *Controller) Navigate(view domain.ViewState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.session.State()
	switch view {
	case domain.ViewHome:
		c.logout()
		return nil
	case domain.ViewClinicianLogin, domain.ViewClinicianRegister, domain.ViewPatientLogin:
		if state != domain.StateAnonymous {
			return fmt.Errorf("navigate to %s from %s: %w", view, state, domain.ErrInvalidTransition)
		}
	case domain.ViewClinicianDashboard:
		if state != domain.StateClinicianSession {
			return fmt.Errorf("navigate to %s from %s: %w", view, state, domain.ErrInvalidTransition)
		}
	case domain.ViewPatientDashboard:
		if state != domain.StatePatientSession {
			return fmt.Errorf("navigate to %s from %s: %w", view, state, domain.ErrInvalidTransition)
		}
	default:
		return fmt.Errorf("navigate to %q: %w", view, domain.ErrInvalidTransition)
	}
	c.view = view
	return nil
}

func copySession(s domain.Session) domain.Session {
	out := domain.Session{Role: s.Role}
	if s.Clinician != nil {
		rec := *s.Clinician
		out.Clinician = &rec
	}
	if s.Patient != nil {
		rec := *s.Patient
		out.Patient = &rec
	}
	return out
}

// emit publishes event under its own deadline. The action has already
// succeeded, so neither its cancellation nor a slow broker may hold it.
func (c *Controller) emit(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.eventTimeout)
	defer cancel()
	if err := c.events.Publish(ctx, event); err != nil {
		c.log.Warn().Err(err).Str("event", event.Type).Str("subject_id", event.SubjectID).Msg("event not published")
	}
}
