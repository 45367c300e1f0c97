package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/iliyamo/trip-ticket-log/internal/model"
)

// TicketFilter is the where clause of a ticket query.  Empty fields do not
// constrain the result.  From and To are inclusive bounds on trip_date.
type TicketFilter struct {
	Reason string
	From   *time.Time
	To     *time.Time
}

// Order is an ORDER BY clause accepted by FindMany.
type Order string

// NewestFirst orders by creation time with id as a deterministic tie-break.
const NewestFirst Order = "created_at DESC, id DESC"

// TicketRepo encapsulates all database queries related to tickets.  It
// depends on a gorm handle which is opened and closed by the caller.
type TicketRepo struct {
	db *gorm.DB
}

// NewTicketRepo constructs a TicketRepo with the provided DB handle.
func NewTicketRepo(db *gorm.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// Create inserts t.  On success ID and CreatedAt are populated.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return classify(r.db.WithContext(ctx).Create(t).Error)
}

// Count returns the number of tickets matching f.
func (r *TicketRepo) Count(ctx context.Context, f TicketFilter) (int64, error) {
	var n int64
	err := r.scoped(ctx, f).Count(&n).Error
	return n, classify(err)
}

// FindMany returns tickets matching f in the given order.  take <= 0 returns
// every row from skip onward.
func (r *TicketRepo) FindMany(ctx context.Context, f TicketFilter, skip, take int, order Order) ([]model.Ticket, error) {
	q := r.scoped(ctx, f)
	if order != "" {
		q = q.Order(string(order))
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if take > 0 {
		q = q.Limit(take)
	}
	var out []model.Ticket
	if err := q.Find(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// FindByID fetches a single ticket.  It returns ErrTicketNotFound if no row
// has that id.
func (r *TicketRepo) FindByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, classify(err)
	}
	return &t, nil
}

// DeleteByID permanently removes a ticket.  It returns ErrTicketNotFound
// when no row was affected.
func (r *TicketRepo) DeleteByID(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.Ticket{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepo) scoped(ctx context.Context, f TicketFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Ticket{})
	if f.Reason != "" {
		q = q.Where("reason = ?", f.Reason)
	}
	if f.From != nil {
		q = q.Where("trip_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("trip_date <= ?", *f.To)
	}
	return q
}
