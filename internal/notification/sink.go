// Package notification tells customers, the shop owner and downstream
// consumers about order lifecycle transitions.
package notification

import (
	"context"
	"errors"

	"commission-service/internal/domain"
)

// Sink receives one call per committed transition. Failures are reported
// to the caller but never undo the transition.
type Sink interface {
	OrderCreated(ctx context.Context, o *domain.Order) error
	PaymentConfirmed(ctx context.Context, o *domain.Order) error
	OrderCancelled(ctx context.Context, o *domain.Order) error
	PoemDelivered(ctx context.Context, o *domain.Order) error
}

// Multi fans each notification out to every sink and joins their errors.
type Multi []Sink

func (m Multi) OrderCreated(ctx context.Context, o *domain.Order) error {
	return m.each(func(s Sink) error { return s.OrderCreated(ctx, o) })
}

func (m Multi) PaymentConfirmed(ctx context.Context, o *domain.Order) error {
	return m.each(func(s Sink) error { return s.PaymentConfirmed(ctx, o) })
}

func (m Multi) OrderCancelled(ctx context.Context, o *domain.Order) error {
	return m.each(func(s Sink) error { return s.OrderCancelled(ctx, o) })
}

func (m Multi) PoemDelivered(ctx context.Context, o *domain.Order) error {
	return m.each(func(s Sink) error { return s.PoemDelivered(ctx, o) })
}

func (m Multi) each(fn func(Sink) error) error {
	var errs []error
	for _, s := range m {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Sink = Multi(nil)
	_ Sink = (*EmailSink)(nil)
	_ Sink = (*EventSink)(nil)
)
