// AngelaMos | 2026
// service.go

package membership

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type Service struct {
	db     *sqlx.DB
	now    func() time.Time
	logger *slog.Logger
}

// NewService builds the subscription manager. A nil clock means time.Now.
func NewService(db *sqlx.DB, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{db: db, now: now, logger: logger}
}

type UserMemberships struct {
	Active  *WithUser
	History []WithUser
}

// today is the current UTC calendar date at midnight.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func normalizeDuration(duration int) (int, error) {
	if duration == 0 {
		return DefaultDuration, nil
	}
	if duration < 1 || duration > MaxDuration {
		return 0, ErrInvalidDuration
	}
	return duration, nil
}

// Subscribe starts a plan for the user. An existing active membership is
// replaced once it has run for LockPeriodDays; before that the request is
// refused with a *LockPeriodError.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (*Membership, error) {
	ctx, span := core.StartSpan(ctx, "membership.subscribe",
		attribute.Int64("membership.user_id", req.UserID),
		attribute.String("membership.plan", req.PlanType),
	)
	defer span.End()

	plan, ok := PlanByType(req.PlanType)
	if !ok {
		return nil, ErrInvalidPlan
	}

	duration, err := normalizeDuration(req.Duration)
	if err != nil {
		return nil, err
	}

	today := s.today()

	var created *Membership
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := repo.LockUser(ctx, req.UserID); err != nil {
			return err
		}

		current, err := repo.Active(ctx, req.UserID, today)
		if err != nil {
			return err
		}

		if current != nil {
			elapsed := daysBetween(current.StartDate, today)
			if elapsed < LockPeriodDays {
				core.AddSpanEvent(ctx, "membership.lock_period",
					attribute.Int("days_remaining", LockPeriodDays-elapsed),
				)
				return &LockPeriodError{
					DaysRemaining: LockPeriodDays - elapsed,
					Current:       current,
				}
			}
			if _, err := repo.SetStatus(ctx, current.ID, StatusCancelled); err != nil {
				return err
			}
		}

		created = &Membership{
			UserID:    req.UserID,
			PlanType:  plan.Type,
			Status:    StatusActive,
			StartDate: today,
			EndDate:   today.AddDate(0, 0, duration),
			Price:     plan.Price,
		}
		return repo.Insert(ctx, created)
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		s.recordOutcome(plan.Type, err)
		return nil, err
	}

	s.recordOutcome(plan.Type, nil)
	s.logger.Info("membership subscribed",
		"membership_id", created.ID,
		"user_id", created.UserID,
		"plan", created.PlanType,
	)

	return created, nil
}

func (s *Service) recordOutcome(plan string, err error) {
	var lockErr *LockPeriodError

	outcome := "subscribed"
	switch {
	case err == nil:
	case errors.As(err, &lockErr):
		outcome = "lock_period"
	case errors.Is(err, core.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}

	core.MembershipSubscriptions.WithLabelValues(plan, outcome).Inc()
}

func (s *Service) Cancel(
	ctx context.Context,
	id int64,
	canAct func(ownerID int64) bool,
) (*Membership, error) {
	var cancelled *Membership
	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		m, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if canAct != nil && !canAct(m.UserID) {
			return core.ErrForbidden
		}
		if m.Status != StatusActive {
			return ErrNotActive
		}

		cancelled, err = repo.SetStatus(ctx, id, StatusCancelled)
		return err
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// Renew extends a membership by duration days from its end date, or from
// today when it has already lapsed, and adds the plan price to what the
// membership has cost so far.
func (s *Service) Renew(
	ctx context.Context,
	id int64,
	duration int,
	canAct func(ownerID int64) bool,
) (*Membership, error) {
	duration, err := normalizeDuration(duration)
	if err != nil {
		return nil, err
	}

	today := s.today()

	var renewed *Membership
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		m, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if canAct != nil && !canAct(m.UserID) {
			return core.ErrForbidden
		}

		if err := repo.LockUser(ctx, m.UserID); err != nil {
			return err
		}
		active, err := repo.Active(ctx, m.UserID, today)
		if err != nil {
			return err
		}
		if active != nil && active.ID != m.ID {
			return ErrActiveElsewhere
		}

		plan, ok := PlanByType(m.PlanType)
		if !ok {
			return ErrInvalidPlan
		}

		base := m.EndDate
		if base.Before(today) {
			base = today
		}

		renewed, err = repo.Extend(ctx, id, base.AddDate(0, 0, duration), plan.Price)
		return err
	})
	if err != nil {
		return nil, err
	}

	return renewed, nil
}

func (s *Service) GetUserMemberships(ctx context.Context, userID int64) (*UserMemberships, error) {
	rows, err := NewRepository(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	out := &UserMemberships{History: rows}
	for i := range rows {
		if rows[i].ActiveOn(today) {
			out.Active = &rows[i]
			break
		}
	}

	return out, nil
}

func (s *Service) Delete(
	ctx context.Context,
	id int64,
	canAct func(ownerID int64) bool,
) error {
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		m, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if canAct != nil && !canAct(m.UserID) {
			return core.ErrForbidden
		}

		return repo.Delete(ctx, id)
	})
}
