package services

import (
	"context"
	"fmt"
	"strings"

	"commission-service/internal/domain"
	"commission-service/internal/infra/payment"
)

type ConfirmResult struct {
	Order *domain.Order
	// AlreadyConfirmed is set when an earlier call with the same reference
	// already marked the order paid and nothing changed this time.
	AlreadyConfirmed bool
}

// ConfirmPayment verifies reference with provider and marks the order PAID.
// Repeating the call with the same reference reports AlreadyConfirmed
// without contacting the provider again. Verification failures leave the
// order untouched and can be retried.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID string, provider domain.PaymentProvider, reference string) (*ConfirmResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: payment reference is required", domain.ErrInvalidInput)
	}
	adapter, err := s.payments.Get(provider)
	if err != nil {
		return nil, err
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if res, err := settled(order, reference); res != nil || err != nil {
		return res, err
	}

	result, err := adapter.Verify(ctx, reference)
	if err != nil {
		s.logger.Warnw("payment verification failed", "orderId", order.ID, "provider", provider, "reference", reference, "error", err)
		return nil, err
	}
	if err := s.checkVerification(ctx, order, adapter, result); err != nil {
		s.logger.Infow("payment not confirmed", "orderId", order.ID, "provider", provider, "reference", reference, "status", result.RawStatus, "error", err)
		return nil, err
	}
	if err := domain.CheckTransition(order.Status, domain.StatusPaid); err != nil {
		return nil, err
	}

	paidAt := s.now().UTC()
	amount := result.AmountPaid
	currency := result.Currency
	if currency == "" {
		currency = adapter.SettlementCurrency(order.Currency)
	}
	patch := domain.OrderPatch{
		Status:          domain.StatusPaid,
		PricePaid:       &amount,
		PaidCurrency:    currency,
		PaymentProvider: provider,
		PaymentID:       reference,
		PaymentStatus:   result.RawStatus,
		PaidAt:          &paidAt,
	}

	applied, err := s.orders.UpdateConditional(ctx, order.ID, domain.StatusPending, patch)
	if err != nil {
		return nil, fmt.Errorf("mark order %s paid: %w", order.ID, err)
	}
	if !applied {
		// Someone else moved the order between the read and the update.
		current, err := s.loadOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if res, err := settled(current, reference); res != nil || err != nil {
			return res, err
		}
		return nil, fmt.Errorf("mark order %s paid: update did not apply in status %s", order.ID, current.Status)
	}

	patch.Apply(order)
	s.logger.Infow("payment confirmed", "orderId", order.ID, "provider", provider, "reference", reference, "amount", amount, "currency", currency)
	s.notify(domain.EventOrderPaid, order, s.sink.PaymentConfirmed)
	return &ConfirmResult{Order: order}, nil
}

// settled classifies an order that can no longer move to PAID. It returns
// nil, nil while the order is still PENDING.
func settled(order *domain.Order, reference string) (*ConfirmResult, error) {
	switch {
	case order.Status == domain.StatusCancelled:
		return nil, domain.ErrOrderNotPayable
	case order.Status.IsPaid() && order.PaymentID == reference:
		return &ConfirmResult{Order: order, AlreadyConfirmed: true}, nil
	case order.Status.IsPaid():
		return nil, domain.ErrOrderAlreadyPaid
	}
	return nil, nil
}

func (s *OrderService) checkVerification(ctx context.Context, order *domain.Order, adapter payment.Provider, result *payment.VerificationResult) error {
	switch result.Status {
	case payment.VerificationSucceeded:
	case payment.VerificationPending:
		return domain.ErrPaymentPending
	case payment.VerificationFailed:
		return fmt.Errorf("%w: provider status %s", domain.ErrProviderRejected, result.RawStatus)
	default:
		return fmt.Errorf("%w: unexpected verification status %q", domain.ErrProviderUnavailable, result.Status)
	}

	if result.OrderRef != "" && result.OrderRef != order.ID {
		return fmt.Errorf("%w: payment belongs to another order", domain.ErrProviderRejected)
	}
	if !result.AmountPaid.IsPositive() {
		return fmt.Errorf("%w: provider reported no amount", domain.ErrProviderRejected)
	}

	// The provider's amount is what gets recorded; a mismatch with the quote
	// is only worth a look from the owner.
	currency := adapter.SettlementCurrency(order.Currency)
	expected, err := s.pricing.Convert(ctx, order.QuotedPrice, order.Currency, currency)
	if err == nil && ((result.Currency != "" && result.Currency != currency) || !result.AmountPaid.Equal(expected)) {
		s.logger.Warnw("paid amount differs from quote", "orderId", order.ID,
			"expected", expected, "expectedCurrency", currency,
			"paid", result.AmountPaid, "paidCurrency", result.Currency)
	}
	return nil
}
