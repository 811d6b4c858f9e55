package impl

import (
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrEmptyPassword = errors.New("empty password")
	ErrInvalidToken  = fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
)

// mailFailure maps any mail transport error onto ErrMailDispatchFailed.
func mailFailure(err error) error {
	if errors.Is(err, domain.ErrMailDispatchFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrMailDispatchFailed, err)
}
