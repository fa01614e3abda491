// AngelaMos | 2026
// errors.go

package feedback

import (
	"fmt"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

var (
	ErrFeedbackNotFound = fmt.Errorf("feedback not found: %w", core.ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user not found: %w", core.ErrNotFound)
	ErrBookNotFound     = fmt.Errorf("book not found: %w", core.ErrNotFound)
	ErrInvalidRating    = fmt.Errorf("rating must be between 1 and 5: %w", core.ErrInvalidInput)
	ErrNoFields         = fmt.Errorf("no fields to update: %w", core.ErrInvalidInput)
)
