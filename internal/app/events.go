package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"nextbase/internal/model"
)

type EventPublisher interface {
	Publish(ctx context.Context, event model.EntityEvent) error
}

type notifier struct {
	publisher EventPublisher
}

// notify publishes a change event. Failures are logged and never reach the caller,
// the write has already been committed.
func (n notifier) notify(ctx context.Context, entity, action string, id int64, payload any) {
	if n.publisher == nil {
		return
	}

	event := model.EntityEvent{
		Entity:     entity,
		EntityID:   id,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("marshal %s event payload failed: %v", entity, err)
		} else {
			event.Payload = body
		}
	}

	if err := n.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish %s %s event failed: entity_id=%d err=%v", entity, action, id, err)
	}
}
