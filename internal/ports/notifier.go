package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Side channel for user-facing notices (toasts). Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, sessionID string, n domain.Notice)
}
