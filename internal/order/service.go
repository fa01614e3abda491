// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type Service struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewService(db *sqlx.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CreateOrder places an order in one transaction: the buyer is checked, the
// books are locked, stock is verified for every line before anything is
// written, then the order, its items, the stock decrements and the
// ownership rows are inserted together.
func (s *Service) CreateOrder(
	ctx context.Context,
	req CreateOrderRequest,
) (*Detail, error) {
	ctx, span := core.StartSpan(ctx, "order.create",
		attribute.Int64("order.user_id", req.UserID),
		attribute.Int("order.lines", len(req.Items)),
	)
	defer span.End()

	lines := mergeLines(req.Items)
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("book %d: quantity must be positive: %w", l.BookID, core.ErrInvalidInput)
		}
	}

	payment := strings.TrimSpace(req.PaymentMethod)
	if payment == "" {
		payment = DefaultPaymentMethod
	}

	var detail *Detail
	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		exists, err := repo.UserExists(ctx, req.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		ids := make([]int64, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.BookID)
		}

		books, err := repo.LockBooks(ctx, ids)
		if err != nil {
			return err
		}
		if len(books) != len(lines) {
			return ErrBooksNotFound
		}

		byID := make(map[int64]stockedBook, len(books))
		for _, b := range books {
			byID[b.ID] = b
		}

		total := decimal.Zero
		for _, l := range lines {
			b, ok := byID[l.BookID]
			if !ok {
				return ErrBooksNotFound
			}
			if b.StockQuantity < l.Quantity {
				return &InsufficientStockError{
					BookID:    b.ID,
					Title:     b.Title,
					Requested: l.Quantity,
					Available: b.StockQuantity,
				}
			}
			total = total.Add(lineTotal(b.Price, l.Quantity))
		}

		order := &Order{
			UserID:          req.UserID,
			TotalAmount:     total,
			Status:          StatusCompleted,
			PaymentMethod:   payment,
			ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		}
		if err := repo.Insert(ctx, order); err != nil {
			return err
		}

		items := make([]Item, 0, len(lines))
		for _, l := range lines {
			b := byID[l.BookID]
			item := Item{
				OrderID:    order.ID,
				BookID:     b.ID,
				Quantity:   l.Quantity,
				Price:      b.Price,
				Title:      b.Title,
				Author:     b.Author,
				CoverImage: b.CoverImage,
			}
			if err := repo.InsertItem(ctx, &item); err != nil {
				return err
			}
			if err := repo.AdjustStock(ctx, b.ID, -l.Quantity); err != nil {
				return err
			}
			if err := repo.UpsertOwnership(ctx, req.UserID, b.ID, order.ID); err != nil {
				return err
			}
			items = append(items, item)
		}

		detail = &Detail{Order: *order, Items: items}
		return nil
	})
	if err != nil {
		s.reject(ctx, err)
		return nil, err
	}

	core.OrdersCreated.Inc()
	core.AddSpanEvent(ctx, "order.created",
		attribute.Int64("order.id", detail.ID),
		attribute.String("order.total", detail.TotalAmount.StringFixed(2)),
	)
	s.logger.Info("order created",
		"order_id", detail.ID,
		"user_id", detail.UserID,
		"total", detail.TotalAmount.StringFixed(2),
	)

	return detail, nil
}

func (s *Service) reject(ctx context.Context, err error) {
	var stockErr *InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		core.OrderRejections.WithLabelValues("insufficient_stock").Inc()
		core.AddSpanEvent(ctx, "order.stock_rejected",
			attribute.Int64("book.id", stockErr.BookID),
			attribute.Int("book.requested", stockErr.Requested),
			attribute.Int("book.available", stockErr.Available),
		)
	case errors.Is(err, core.ErrNotFound):
		core.OrderRejections.WithLabelValues("not_found").Inc()
		core.AddSpanEvent(ctx, "order.not_found")
	default:
		core.OrderRejections.WithLabelValues("error").Inc()
		core.SetSpanError(ctx, err)
		s.logger.Error("order transaction failed", "error", err)
	}
}

func (s *Service) ListUserOrders(ctx context.Context, userID int64) ([]Summary, error) {
	return NewRepository(s.db).ListByUser(ctx, userID)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*Detail, error) {
	repo := NewRepository(s.db)

	detail, err := repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	detail.Items, err = repo.Items(ctx, id)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// UpdateStatus moves an order to a new status. Cancelling puts every line's
// quantity back on its book; a cancelled order stays cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var updated *Order
	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		current, err := repo.LockOrder(ctx, id)
		if err != nil {
			return err
		}

		if current.IsCancelled() {
			if status != StatusCancelled {
				return ErrCannotReopen
			}
			updated = current
			return nil
		}

		if status == StatusCancelled {
			if err := restoreStock(ctx, repo, id); err != nil {
				return err
			}
		}

		updated, err = repo.SetStatus(ctx, id, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteOrder removes an order the caller may act for. Stock is restored
// unless the order was already cancelled, which restored it at the time.
func (s *Service) DeleteOrder(
	ctx context.Context,
	id int64,
	canAct func(ownerID int64) bool,
) error {
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		current, err := repo.LockOrder(ctx, id)
		if err != nil {
			return err
		}
		if canAct != nil && !canAct(current.UserID) {
			return core.ErrForbidden
		}

		if !current.IsCancelled() {
			if err := restoreStock(ctx, repo, id); err != nil {
				return err
			}
		}

		return repo.Delete(ctx, id)
	})
}

func restoreStock(ctx context.Context, repo Repository, orderID int64) error {
	lines, err := repo.Lines(ctx, orderID)
	if err != nil {
		return err
	}

	for _, l := range lines {
		if err := repo.AdjustStock(ctx, l.BookID, l.Quantity); err != nil {
			return err
		}
	}

	return nil
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
