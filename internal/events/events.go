// Package events announces registry outcomes to downstream consumers.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeClinicianRegistered = "clinician.registered"
	TypePatientRegistered   = "patient.registered"
	TypeDocumentOrphaned    = "document.orphaned"
)

// Event is one registry outcome. SubjectID is the clinician or patient id;
// ContentID is the report identifier when one exists.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	SubjectID  string    `json:"subjectId"`
	ContentID  string    `json:"contentId,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, subjectID, contentID string) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		SubjectID:  subjectID,
		ContentID:  contentID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what was published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType filters the recorded events.
func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
