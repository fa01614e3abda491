// AngelaMos | 2026
// service.go

package feedback

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
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

type BookFeedback struct {
	Feedback     []View
	Distribution []RatingCount
	Total        int
}

func validRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Submit stores a review and, for a book review, refreshes the book's
// rating and reviews_count in the same transaction.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*View, error) {
	ctx, span := core.StartSpan(ctx, "feedback.submit",
		attribute.Int64("feedback.user_id", req.UserID),
		attribute.Int("feedback.rating", req.Rating),
	)
	defer span.End()

	if !validRating(req.Rating) {
		return nil, ErrInvalidRating
	}

	f := &Feedback{
		UserID:  req.UserID,
		BookID:  req.BookID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		ok, err := repo.UserExists(ctx, f.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		if err := lockBook(ctx, repo, f.BookID); err != nil {
			return err
		}

		if err := repo.Insert(ctx, f); err != nil {
			return err
		}

		return recompute(ctx, repo, f.BookID)
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	kind := "general"
	if f.BookID != nil {
		kind = "book"
	}
	core.FeedbackSubmitted.WithLabelValues(kind).Inc()
	s.logger.Info("feedback submitted", "feedback_id", f.ID, "user_id", f.UserID, "kind", kind)

	v, err := NewRepository(s.db).View(ctx, f.ID)
	if err != nil {
		s.logger.Warn("feedback saved but reload failed", "feedback_id", f.ID, "error", err)
		return &View{Feedback: *f}, nil
	}
	return v, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateRequest,
	canAct func(ownerID int64) bool,
) (*View, error) {
	if req.Rating == nil && req.Comment == nil {
		return nil, ErrNoFields
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		return nil, ErrInvalidRating
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if canAct != nil && !canAct(current.UserID) {
			return core.ErrForbidden
		}
		if err := lockBook(ctx, repo, current.BookID); err != nil {
			return err
		}

		updated, err := repo.Update(ctx, id, req.Rating, req.Comment)
		if err != nil {
			return err
		}

		return recompute(ctx, repo, updated.BookID)
	})
	if err != nil {
		return nil, err
	}

	return NewRepository(s.db).View(ctx, id)
}

func (s *Service) Delete(
	ctx context.Context,
	id int64,
	canAct func(ownerID int64) bool,
) error {
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if canAct != nil && !canAct(current.UserID) {
			return core.ErrForbidden
		}
		if err := lockBook(ctx, repo, current.BookID); err != nil {
			return err
		}

		if err := repo.Delete(ctx, id); err != nil {
			return err
		}

		return recompute(ctx, repo, current.BookID)
	})
}

// lockBook is a no-op for general feedback.
func lockBook(ctx context.Context, repo Repository, bookID *int64) error {
	if bookID == nil {
		return nil
	}
	return repo.LockBook(ctx, *bookID)
}

// recompute is a no-op for general feedback.
func recompute(ctx context.Context, repo Repository, bookID *int64) error {
	if bookID == nil {
		return nil
	}
	return repo.RecomputeBookRating(ctx, *bookID)
}

func (s *Service) ListByBook(ctx context.Context, params ListByBookParams) (*BookFeedback, error) {
	repo := NewRepository(s.db)

	views, total, err := repo.ListByBook(ctx, params)
	if err != nil {
		return nil, err
	}

	dist, err := repo.Distribution(ctx, params.BookID)
	if err != nil {
		return nil, err
	}

	return &BookFeedback{Feedback: views, Distribution: dist, Total: total}, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]View, error) {
	return NewRepository(s.db).ListByUser(ctx, userID)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]View, error) {
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxRecent {
		limit = MaxRecent
	}
	return NewRepository(s.db).Recent(ctx, limit)
}
