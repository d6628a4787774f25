package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panyaai/panya/internal/line"
)

// replier owns one event's reply token and spends it at most once. Messages
// queued with prepend go out ahead of whatever is sent next, success or
// failure text alike.
type replier struct {
	delivery Delivery
	token    string
	logger   *slog.Logger

	mu      sync.Mutex
	used    bool
	prefix  []line.Message
	prefixQ *line.QuickReply
}

func newReplier(delivery Delivery, token string, log *slog.Logger) *replier {
	return &replier{delivery: delivery, token: token, logger: log}
}

func (r *replier) prepend(quick *line.QuickReply, msgs ...line.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefix = append(r.prefix, msgs...)
	if quick != nil {
		r.prefixQ = quick
	}
}

// send delivers prefix+msgs. The token is considered spent even if delivery
// fails; the platform does not accept a second attempt.
func (r *replier) send(ctx context.Context, quick *line.QuickReply, msgs ...line.Message) error {
	r.mu.Lock()
	if r.used {
		r.mu.Unlock()
		return fmt.Errorf("%w: reply token already used", line.ErrDelivery)
	}
	if r.token == "" {
		r.mu.Unlock()
		return fmt.Errorf("%w: event has no reply token", line.ErrDelivery)
	}
	r.used = true
	all := make([]line.Message, 0, len(r.prefix)+len(msgs))
	all = append(all, r.prefix...)
	all = append(all, msgs...)
	if quick == nil {
		quick = r.prefixQ
	}
	r.mu.Unlock()

	return r.delivery.Reply(ctx, r.token, all, quick)
}

// fail sends a failure text if the token is still unspent.
func (r *replier) fail(ctx context.Context, text, quoteToken string, quick *line.QuickReply) {
	r.mu.Lock()
	spent := r.used || r.token == ""
	r.mu.Unlock()
	if spent {
		return
	}
	if err := r.send(ctx, quick, line.TextMessage(text, quoteToken)); err != nil {
		r.logger.Warn("failure reply not delivered", slog.Any("error", err))
	}
}
