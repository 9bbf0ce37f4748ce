package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commission-service/internal/domain"
)

// customerMessages are the only texts shown for non-validation failures.
// Provider responses and store errors stay in the logs.
var customerMessages = map[string]string{
	"rate_limited":          "too many orders from this email, please try again later",
	"payment_pending":       "your payment has not completed yet, please try again shortly",
	"payment_rejected":      "your payment was not accepted, please try another method",
	"provider_unavailable":  "the payment provider is unavailable, please try again later",
	"order_not_payable":     "this order can no longer be paid",
	"order_already_paid":    "this order has already been paid",
	"order_not_cancellable": "this order can no longer be cancelled",
	"order_not_deliverable": "this order cannot be delivered yet",
	"testimonial_conflict":  "a testimonial cannot be added for this order",
	"invalid_transition":    "this order cannot be changed right now",
	"not_found":             "not found",
	"internal":              "something went wrong, please try again",
}

// respondError maps a lifecycle error onto a status code, a stable error code
// and a fixed message. Validation messages are our own and are passed through.
func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	status, code := classify(err)
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		logger.Errorw("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		msg = customerMessages[code]
	case code != "invalid_request":
		if status == http.StatusPaymentRequired || status == http.StatusBadGateway {
			logger.Warnw("payment request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		}
		msg = customerMessages[code]
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: msg})
}

func classify(err error) (int, string) {
	switch domain.ErrorKind(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, "invalid_request"
	case domain.KindAdmission:
		return http.StatusTooManyRequests, "rate_limited"
	case domain.KindProvider:
		switch {
		case errors.Is(err, domain.ErrPaymentPending):
			return http.StatusPaymentRequired, "payment_pending"
		case errors.Is(err, domain.ErrProviderRejected):
			return http.StatusPaymentRequired, "payment_rejected"
		}
		return http.StatusBadGateway, "provider_unavailable"
	case domain.KindConflict:
		switch {
		case errors.Is(err, domain.ErrOrderNotPayable):
			return http.StatusConflict, "order_not_payable"
		case errors.Is(err, domain.ErrOrderAlreadyPaid):
			return http.StatusConflict, "order_already_paid"
		case errors.Is(err, domain.ErrOrderNotCancellable):
			return http.StatusConflict, "order_not_cancellable"
		case errors.Is(err, domain.ErrOrderNotDeliverable):
			return http.StatusConflict, "order_not_deliverable"
		case errors.Is(err, domain.ErrTestimonialNotAllowed), errors.Is(err, domain.ErrTestimonialExists):
			return http.StatusConflict, "testimonial_conflict"
		}
		return http.StatusConflict, "invalid_transition"
	case domain.KindNotFound:
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, "internal"
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
}
