package notify

import (
	"context"
	"log"
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// LogNotifier writes notices to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, sessionID string, n domain.Notice) {
	log.Printf("notice session=%s severity=%s msg=%q", sessionID, n.Severity, n.Message)
}

// Collector records notices so a handler can echo them in its response.
type Collector struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (c *Collector) Notify(ctx context.Context, sessionID string, n domain.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

func (c *Collector) Notices() []domain.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notice(nil), c.notices...)
}

// Fanout delivers each notice to every non-nil notifier in order.
type Fanout []ports.Notifier

func (f Fanout) Notify(ctx context.Context, sessionID string, n domain.Notice) {
	for _, nt := range f {
		if nt != nil {
			nt.Notify(ctx, sessionID, n)
		}
	}
}
