package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const newestFirst = `"createdAt" DESC, "id" DESC`

// GormOrderRepository implements the order repository and reader ports using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("order id")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Take(&dto, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update writes the status of an existing order. Only the status column is
// touched: every other column belongs to the storefront.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where(`"id" = ?`, aggregate.ID()).
		Update("status", aggregate.Status().String())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	return nil
}

// Delete removes an order by ID.
func (r *GormOrderRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("order id")
	}

	result := r.db.WithContext(ctx).Where(`"id" = ?`, id).Delete(&OrderDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id)
	}

	return nil
}

// DeleteMany removes all orders whose id is in ids.
func (r *GormOrderRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where(`"id" = ANY(?)`, pq.Array(ids)).Delete(&OrderDTO{})
	return result.RowsAffected, result.Error
}

// UpdateStatusMany sets status on all orders whose id is in ids.
func (r *GormOrderRepository) UpdateStatusMany(ctx context.Context, ids []string, status order.Status) (int64, error) {
	if err := status.Validate(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where(`"id" = ANY(?)`, pq.Array(ids)).
		Update("status", status.String())
	return result.RowsAffected, result.Error
}

// ListRecent returns the newest orders.
func (r *GormOrderRepository) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Order(newestFirst).Limit(limit).Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListByStatus returns the newest orders matching filter.
func (r *GormOrderRepository) ListByStatus(
	ctx context.Context,
	filter order.StatusFilter,
	limit int,
) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Order(newestFirst).Limit(limit)
	if !filter.IsAll() {
		query = query.Where(`"status" = ?`, filter.Status().String())
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// SearchByContact returns orders whose contact email or phone equals query.
func (r *GormOrderRepository) SearchByContact(ctx context.Context, query string) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where(`("contact"->>'email' = ? OR "contact"->>'phone' = ?)`, query, query).
		Order(newestFirst).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListAll returns every order, newest first.
func (r *GormOrderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// Newest returns the most recently created order.
func (r *GormOrderRepository) Newest(ctx context.Context) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).Order(newestFirst).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", "newest")
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListPendingCreatedBefore returns pending orders created before cutoff.
// The column stores UTC wall-clock time without a zone, so cutoff is
// converted to UTC first.
func (r *GormOrderRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where(`"status" = ? AND "createdAt" < ?`, order.Pending.String(), cutoff.UTC()).
		Order(`"createdAt" ASC`).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

type totalsRow struct {
	Count   int64
	Sum     float64
	Average float64
}

// Totals returns count, sum and average of "totalPrice".
func (r *GormOrderRepository) Totals(ctx context.Context) (ports.OrderTotals, error) {
	var row totalsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS count,
			COALESCE(SUM("totalPrice"), 0) AS sum,
			COALESCE(AVG("totalPrice"), 0) AS average
		FROM "Order"
	`).Scan(&row).Error
	if err != nil {
		return ports.OrderTotals{}, err
	}

	return ports.OrderTotals{Count: row.Count, Sum: row.Sum, Average: row.Average}, nil
}

type itemsRow struct {
	Items datatypes.JSON `gorm:"column:items"`
}

// ListItems returns the lines of every order, flattened in no particular order.
func (r *GormOrderRepository) ListItems(ctx context.Context) ([]order.Item, error) {
	var rows []itemsRow
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Select(`"items"`).Scan(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]order.Item, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, decodeItems(row.Items).Lines...)
	}
	return lines, nil
}

type saleRow struct {
	CreatedAt  time.Time `gorm:"column:createdAt"`
	TotalPrice float64   `gorm:"column:totalPrice"`
}

// ListSales returns creation time and total of every order, oldest first.
func (r *GormOrderRepository) ListSales(ctx context.Context) ([]services.Sale, error) {
	var rows []saleRow
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select(`"createdAt", "totalPrice"`).
		Order(`"createdAt" ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sales := make([]services.Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, services.Sale{CreatedAt: row.CreatedAt, TotalPrice: row.TotalPrice})
	}
	return sales, nil
}
