// Package analytics provides a fire-and-forget NATS publisher for catalog
// usage events.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subject constants for every analytics event type.
const (
	SubjectTitleViewed     = "analytics.catalog.title_viewed"
	SubjectSearchPerformed = "analytics.search.performed"
	SubjectFavoriteAdded   = "analytics.catalog.favorite_added"
	SubjectFavoriteRemoved = "analytics.catalog.favorite_removed"

	streamName = "ANALYTICS"
)

// Event is the canonical envelope sent to all analytics.* subjects.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher publishes analytics events to NATS JetStream.
// The zero value and a nil pointer are both safe no-op stubs.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
	now func() time.Time
}

// New creates a Publisher using an existing JetStream context.
// Pass js=nil to get a no-op stub (useful in tests and without NATS).
func New(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{js: js, log: log, now: time.Now}
}

// NewFromConn opens a JetStream context on nc and makes sure the ANALYTICS
// stream exists. A nil nc yields a no-op publisher.
func NewFromConn(nc *nats.Conn, log *zap.Logger) (*Publisher, error) {
	if nc == nil {
		return New(nil, log), nil
	}
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	if _, err := js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{"analytics.>"},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	}); err != nil && log != nil {
		log.Warn("failed to create NATS stream (may already exist)", zap.String("stream", streamName), zap.Error(err))
	}
	return New(js, log), nil
}

// Publish sends an analytics event asynchronously (fire-and-forget).
// Failures are logged as warnings and never surface to the caller.
// The publisher is safe to call with a nil receiver.
func (p *Publisher) Publish(subject, eventName string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	data, err := json.Marshal(p.newEvent(eventName, props))
	if err != nil {
		p.log.Warn("analytics: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("analytics: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

func (p *Publisher) newEvent(eventName string, props map[string]any) Event {
	return Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		OccurredAt: p.now().UTC(),
		Properties: props,
	}
}
