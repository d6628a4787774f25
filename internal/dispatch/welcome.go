package dispatch

import (
	"context"
	"log/slog"

	"github.com/panyaai/panya/internal/line"
	"github.com/panyaai/panya/internal/locale"
)

func (d *Dispatcher) handleFollow(ctx context.Context, log *slog.Logger, r *replier, ev *line.FollowEvent) error {
	profile, err := d.deps.Delivery.Profile(ctx, ev.Source.UserID)
	if err != nil {
		// No card without a profile; the follow itself still succeeded.
		log.Warn("profile lookup failed", slog.Any("error", err))
		return nil
	}
	date := locale.ShortDate(d.now())
	return r.send(ctx, nil, line.ProfileCard(profile, ev.IsUnblocked, date), line.WelcomeSticker())
}

// handleMemberJoined greets joined users in one reply, since the event has a
// single reply token. Users past the platform's per-reply cap are not greeted.
func (d *Dispatcher) handleMemberJoined(ctx context.Context, log *slog.Logger, r *replier, ev *line.MemberJoinedEvent) error {
	var msgs []line.Message
	for _, m := range ev.Members {
		if m.Type != "user" || m.UserID == "" {
			continue
		}
		msgs = append(msgs, line.GroupWelcome(m.UserID))
	}
	if len(msgs) == 0 {
		return nil
	}
	if len(msgs) > line.MaxReplyMessages {
		log.Warn("too many joined members to greet",
			slog.Int("members", len(msgs)),
			slog.Int("dropped", len(msgs)-line.MaxReplyMessages))
		msgs = msgs[:line.MaxReplyMessages]
	}
	return r.send(ctx, nil, msgs...)
}
