package handlers

import (
	"context"

	"github.com/example/stream-catalog/services/catalog/internal/catalog"
	"github.com/example/stream-catalog/services/catalog/internal/metadata"
)

// Catalog is the read side of the title cache.
type Catalog interface {
	Titles(ctx context.Context) []catalog.Title
}

type CastResolver interface {
	Cast(ctx context.Context, externalID int64, title string) []metadata.CastMember
}

// EventPublisher receives fire-and-forget analytics events.
type EventPublisher interface {
	Publish(subject, eventName string, props map[string]any)
}

func publish(events EventPublisher, subject, eventName string, props map[string]any) {
	if events == nil {
		return
	}
	events.Publish(subject, eventName, props)
}
