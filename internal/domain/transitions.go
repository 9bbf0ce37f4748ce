package domain

import "fmt"

// validTransitions is the whole order state machine. CANCELLED and
// DELIVERED are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusWriting, StatusDelivered},
	StatusWriting: {StatusDelivered},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SourcesOf lists the statuses an order may be in to move to target.
func SourcesOf(target OrderStatus) []OrderStatus {
	var out []OrderStatus
	for _, from := range AllStatuses {
		if CanTransition(from, target) {
			out = append(out, from)
		}
	}
	return out
}

type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// CheckTransition returns a *TransitionError when from -> to is not allowed.
func CheckTransition(from, to OrderStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}
