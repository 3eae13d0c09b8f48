package order

import "time"

// DefaultConfirmationWindow is how long a buyer has to confirm or dispute a
// delivered order before it completes on its own.
const DefaultConfirmationWindow = 4 * time.Hour

// ShouldAutoConfirm is true iff now is strictly after deadline.
func ShouldAutoConfirm(deadline, now time.Time) bool {
	return now.After(deadline)
}
