package domain

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidBudget   = errors.New("budget outside allowed range")
	ErrInvalidCurrency = errors.New("unsupported currency")
	ErrInvalidType     = errors.New("unsupported order type")

	ErrRateLimited = errors.New("too many orders, try again later")

	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrProviderRejected    = errors.New("payment rejected by provider")
	ErrPaymentPending      = errors.New("payment not completed yet")

	ErrOrderNotPayable     = errors.New("order can no longer be paid")
	ErrOrderAlreadyPaid    = errors.New("order already paid")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrOrderNotDeliverable = errors.New("order is not awaiting delivery")
	ErrInvalidTransition   = errors.New("invalid order status transition")

	ErrTestimonialNotAllowed = errors.New("testimonials require a delivered order")
	ErrTestimonialExists     = errors.New("order already has a testimonial")

	ErrOrderNotFound       = errors.New("order not found")
	ErrTestimonialNotFound = errors.New("testimonial not found")
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAdmission
	KindProvider
	KindConflict
	KindNotFound
)

func ErrorKind(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidBudget),
		errors.Is(err, ErrInvalidCurrency), errors.Is(err, ErrInvalidType):
		return KindValidation
	case errors.Is(err, ErrRateLimited):
		return KindAdmission
	case errors.Is(err, ErrProviderUnavailable), errors.Is(err, ErrProviderRejected),
		errors.Is(err, ErrPaymentPending):
		return KindProvider
	case errors.Is(err, ErrOrderNotPayable), errors.Is(err, ErrOrderAlreadyPaid),
		errors.Is(err, ErrOrderNotCancellable), errors.Is(err, ErrOrderNotDeliverable),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrTestimonialNotAllowed),
		errors.Is(err, ErrTestimonialExists):
		return KindConflict
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrTestimonialNotFound):
		return KindNotFound
	}
	return KindInternal
}
