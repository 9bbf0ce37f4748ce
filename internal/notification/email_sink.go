package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"commission-service/internal/domain"
	"commission-service/internal/infra/email"
)

type EmailSink struct {
	sender     email.Sender
	baseURL    string
	adminEmail string
}

// NewEmailSink builds tracking links under baseURL. adminEmail may be empty,
// in which case the owner is not told about paid orders.
func NewEmailSink(sender email.Sender, baseURL, adminEmail string) *EmailSink {
	return &EmailSink{sender: sender, baseURL: strings.TrimRight(baseURL, "/"), adminEmail: adminEmail}
}

func (s *EmailSink) OrderCreated(ctx context.Context, o *domain.Order) error {
	return s.send(ctx, o.CustomerEmail, "We received your poem order", "order_created", s.data(o))
}

// PaymentConfirmed mails the customer and the owner independently; one
// failing delivery does not stop the other.
func (s *EmailSink) PaymentConfirmed(ctx context.Context, o *domain.Order) error {
	data := s.data(o)
	customerErr := s.send(ctx, o.CustomerEmail, "Payment confirmed", "payment_confirmed", data)
	if s.adminEmail == "" {
		return customerErr
	}
	ownerErr := s.send(ctx, s.adminEmail, fmt.Sprintf("New %s order %s", data.Kind, o.ID), "admin_paid", data)
	return errors.Join(customerErr, ownerErr)
}

// OrderCancelled sends nothing; the customer cancelled it themselves.
func (s *EmailSink) OrderCancelled(context.Context, *domain.Order) error {
	return nil
}

func (s *EmailSink) PoemDelivered(ctx context.Context, o *domain.Order) error {
	return s.send(ctx, o.CustomerEmail, "Your poem is ready", "poem_delivered", s.data(o))
}

func (s *EmailSink) send(ctx context.Context, to, subject, tmpl string, data email.TemplateData) error {
	html, err := email.Render(tmpl, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}
	return s.sender.Send(ctx, email.Message{To: to, Subject: subject, HTML: html})
}

func (s *EmailSink) data(o *domain.Order) email.TemplateData {
	d := email.TemplateData{
		OrderID:      o.ID,
		Name:         o.CustomerName,
		Kind:         strings.ToLower(string(o.Type)),
		Amount:       o.QuotedPrice.String(),
		Currency:     string(o.Currency),
		Hours:        o.DeliveryHours,
		Due:          o.Deadline().UTC().Format(time.RFC1123),
		Title:        o.Title,
		Mood:         o.Mood,
		Instructions: o.Instructions,
		TrackURL:     s.baseURL + "/track/" + o.AccessToken,
	}
	if o.Status.IsPaid() {
		d.Amount = o.PricePaid.String()
		d.Currency = string(o.PaidCurrency)
	}
	if o.PoemContent != nil {
		d.Poem = *o.PoemContent
	}
	return d
}
