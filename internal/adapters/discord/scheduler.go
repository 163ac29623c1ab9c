package discord

import (
	"context"
	"log"
	"time"
)

// Notifier sends a direct message to a chat identity.
type Notifier interface {
	Notify(identity, content string) error
}

// RunScheduledTasks expires fills idle for longer than idle, every interval, until ctx is done.
func (h *Handler) RunScheduledTasks(ctx context.Context, n Notifier, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			h.expireFills(n, now.Add(-idle))
		}
	}
}

func (h *Handler) expireFills(n Notifier, cutoff time.Time) []string {
	expired := h.flow.Expire(cutoff)
	if len(expired) == 0 {
		return nil
	}
	log.Printf("⌛ %d questionnaire(s) expiré(s)", len(expired))
	if n == nil {
		return expired
	}
	msg := h.t.T(h.defaultLocale, "flow.expired", nil)
	for _, identity := range expired {
		if err := n.Notify(identity, msg); err != nil {
			log.Printf("⚠️ Impossible de prévenir %s de l'expiration: %v", identity, err)
		}
	}
	return expired
}
