package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"commission-service/internal/domain"
)

const (
	maxCommentLength     = 2000
	visibleTestimonials  = 50
	recentOrdersInterval = 24 * time.Hour
)

type Stats struct {
	ByStatus map[domain.OrderStatus]int64 `json:"byStatus"`
	Total    int64                        `json:"total"`
	Last24h  int64                        `json:"last24h"`
}

// StartWriting marks a paid order as being written. It is advisory:
// Deliver works from PAID as well.
func (s *OrderService) StartWriting(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, domain.OrderPatch{Status: domain.StatusWriting}, domain.ErrInvalidTransition)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("order writing started", "orderId", order.ID)
	return order, nil
}

// Deliver attaches the poem and closes the order. It succeeds once per order.
func (s *OrderService) Deliver(ctx context.Context, orderID, content string) (*domain.Order, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: poem content is required", domain.ErrInvalidInput)
	}

	deliveredAt := s.now().UTC()
	patch := domain.OrderPatch{
		Status:      domain.StatusDelivered,
		PoemContent: &content,
		DeliveredAt: &deliveredAt,
	}
	order, err := s.transition(ctx, orderID, patch, domain.ErrOrderNotDeliverable)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("poem delivered", "orderId", order.ID)
	s.notify(domain.EventOrderDelivered, order, s.sink.PoemDelivered)
	return order, nil
}

func (s *OrderService) AddTestimonial(ctx context.Context, orderID string, rating int, comment string) (*domain.Testimonial, error) {
	comment = strings.TrimSpace(comment)
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if len(comment) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment is too long", domain.ErrInvalidInput)
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDelivered {
		return nil, domain.ErrTestimonialNotAllowed
	}

	t := &domain.Testimonial{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Name:      order.CustomerName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.testimonials.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *OrderService) SetTestimonialVisibility(ctx context.Context, id string, visible bool) error {
	found, err := s.testimonials.SetVisibility(ctx, id, visible)
	if err != nil {
		return fmt.Errorf("set testimonial %s visibility: %w", id, err)
	}
	if !found {
		return domain.ErrTestimonialNotFound
	}
	return nil
}

func (s *OrderService) ListVisibleTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	out, err := s.testimonials.ListVisible(ctx, visibleTestimonials)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return out, nil
}

func (s *OrderService) Stats(ctx context.Context) (*Stats, error) {
	var (
		byStatus map[domain.OrderStatus]int64
		recent   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.orders.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.orders.CountCreatedSince(gctx, s.now().UTC().Add(-recentOrdersInterval))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	st := &Stats{ByStatus: byStatus, Last24h: recent}
	for _, n := range byStatus {
		st.Total += n
	}
	return st, nil
}
