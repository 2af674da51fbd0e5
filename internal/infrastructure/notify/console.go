package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Zhima-Mochi/minipay/internal/domain/notification"
	"github.com/Zhima-Mochi/minipay/internal/observability"
	"github.com/Zhima-Mochi/minipay/internal/observability/logctx"
)

// Console prints notifications as "[variant] Title: Description" lines.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	log observability.Logger
}

func NewConsole(w io.Writer, logger observability.Logger) *Console {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Console{w: w, log: logger.With(observability.F("component", "console_notifier"))}
}

func (c *Console) Notify(ctx context.Context, n notification.Notification) {
	c.mu.Lock()
	_, err := fmt.Fprintln(c.w, Format(n))
	c.mu.Unlock()

	logger := logctx.FromOr(ctx, c.log)
	if err != nil {
		logger.Error("notification_write_failed", observability.F("error", err.Error()))
		return
	}
	logger.Debug("notification_shown",
		observability.F("title", n.Title),
		observability.F("variant", string(n.Variant)),
	)
}

func Format(n notification.Notification) string {
	return fmt.Sprintf("[%s] %s: %s", n.Variant, n.Title, n.Description)
}

// Recorder keeps notifications in memory, in order.
type Recorder struct {
	mu   sync.Mutex
	seen []notification.Notification
}

func (r *Recorder) Notify(_ context.Context, n notification.Notification) {
	r.mu.Lock()
	r.seen = append(r.seen, n)
	r.mu.Unlock()
}

func (r *Recorder) All() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Notification, len(r.seen))
	copy(out, r.seen)
	return out
}
