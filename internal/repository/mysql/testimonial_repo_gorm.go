package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"commission-service/internal/domain"
	"commission-service/internal/repository"
)

type testimonialRepo struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) repository.TestimonialRepository {
	return &testimonialRepo{db: db}
}

func (r *testimonialRepo) Insert(ctx context.Context, t *domain.Testimonial) error {
	err := r.db.WithContext(ctx).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrTestimonialExists
	}
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	return nil
}

func (r *testimonialRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Testimonial, error) {
	var t domain.Testimonial
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find testimonial: %w", err)
	}
	return &t, nil
}

func (r *testimonialRepo) SetVisibility(ctx context.Context, id string, visible bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Testimonial{}).Where("id = ?", id).Update("visible", visible)
	if res.Error != nil {
		return false, fmt.Errorf("update testimonial %s: %w", id, res.Error)
	}
	// rows are counted as matched, see infra/mysql ClientFoundRows
	return res.RowsAffected > 0, nil
}

func (r *testimonialRepo) ListVisible(ctx context.Context, limit int) ([]domain.Testimonial, error) {
	var out []domain.Testimonial
	q := r.db.WithContext(ctx).Where("visible = ?", true).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return out, nil
}
