package notification

import (
	"context"
	"time"

	"commission-service/internal/domain"
	rabbit "commission-service/internal/infra/rabbitmq"
)

// EventSink publishes every transition to the message broker.
type EventSink struct {
	publisher rabbit.PublisherInterface
	now       func() time.Time
}

func NewEventSink(publisher rabbit.PublisherInterface) *EventSink {
	return &EventSink{publisher: publisher, now: time.Now}
}

func (s *EventSink) OrderCreated(ctx context.Context, o *domain.Order) error {
	return s.publish(ctx, domain.EventOrderCreated, o)
}

func (s *EventSink) PaymentConfirmed(ctx context.Context, o *domain.Order) error {
	return s.publish(ctx, domain.EventOrderPaid, o)
}

func (s *EventSink) OrderCancelled(ctx context.Context, o *domain.Order) error {
	return s.publish(ctx, domain.EventOrderCancelled, o)
}

func (s *EventSink) PoemDelivered(ctx context.Context, o *domain.Order) error {
	return s.publish(ctx, domain.EventOrderDelivered, o)
}

func (s *EventSink) publish(ctx context.Context, event string, o *domain.Order) error {
	return s.publisher.Publish(ctx, event, domain.NewOrderEvent(o, s.now().UTC()))
}
