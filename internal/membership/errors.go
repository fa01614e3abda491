// AngelaMos | 2026
// errors.go

package membership

import (
	"errors"
	"fmt"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

const CodeLockPeriod = "LOCK_PERIOD_ACTIVE"

var (
	ErrMembershipNotFound = fmt.Errorf("membership not found: %w", core.ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", core.ErrNotFound)
	ErrInvalidPlan        = fmt.Errorf("invalid plan type: %w", core.ErrInvalidInput)
	ErrInvalidDuration    = fmt.Errorf("invalid duration: %w", core.ErrInvalidInput)
	ErrActiveElsewhere    = fmt.Errorf("user already has an active membership: %w", core.ErrConflict)
	ErrNotActive          = errors.New("membership is not active")
)

// LockPeriodError rejects a plan change requested before the current
// membership has run for LockPeriodDays.
type LockPeriodError struct {
	DaysRemaining int
	Current       *Membership
}

func (e *LockPeriodError) Error() string {
	return fmt.Sprintf(
		"You can change your subscription after one month. %d days remaining.",
		e.DaysRemaining,
	)
}
