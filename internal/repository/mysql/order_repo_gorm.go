package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"commission-service/internal/domain"
	"commission-service/internal/repository"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Insert(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *orderRepo) FindByAccessToken(ctx context.Context, token string) (*domain.Order, error) {
	return r.findOne(ctx, "access_token = ?", token)
}

func (r *orderRepo) findOne(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

func (r *orderRepo) UpdateConditional(ctx context.Context, id string, expected domain.OrderStatus, patch domain.OrderPatch) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(patch.Columns())
	if res.Error != nil {
		return false, fmt.Errorf("update order %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MySQL FIELD() positions follow the enum declaration order.
var (
	statusOrder = fieldOrder("status", domain.AllStatuses)
	typeOrder   = fieldOrder("type", []domain.OrderType{domain.TypeQuick, domain.TypeCustom})
)

const deadlineAsc = "DATE_ADD(COALESCE(paid_at, created_at), INTERVAL delivery_hours HOUR) ASC"

func fieldOrder[T ~string](column string, values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + string(v) + "'"
	}
	return fmt.Sprintf("FIELD(%s, %s)", column, strings.Join(quoted, ", "))
}

func (r *orderRepo) ListAll(ctx context.Context, order domain.ListOrder, kesPerUSD decimal.Decimal) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	switch order {
	case domain.ListNewest:
		q = q.Order("created_at DESC")
	default:
		// KES prices are normalised to USD before comparison.
		price, vars := "quoted_price DESC", []any(nil)
		if kesPerUSD.IsPositive() {
			price = "CASE WHEN currency = ? THEN quoted_price / ? ELSE quoted_price END DESC"
			vars = []any{string(domain.KES), kesPerUSD}
		}
		q = q.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  strings.Join([]string{statusOrder, typeOrder + " DESC", price, deadlineAsc}, ", "),
			Vars: vars,
		}})
	}

	var out []domain.Order
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	var rows []struct {
		Status domain.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}

	counts := make(map[domain.OrderStatus]int64, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *orderRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("created_at >= ?", since).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count recent orders: %w", err)
	}
	return n, nil
}
