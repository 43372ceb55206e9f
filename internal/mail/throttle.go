package mail

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/dtroode/musehabit-server/internal/model"
)

var _ model.EmailSender = (*Throttled)(nil)

// Throttled limits the rate at which emails reach the wrapped sender.
type Throttled struct {
	next    model.EmailSender
	limiter *rate.Limiter
}

// NewThrottled allows perSecond sends with the given burst. A non-positive
// perSecond disables limiting.
func NewThrottled(next model.EmailSender, perSecond float64, burst int) *Throttled {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Send waits for a token and forwards email.
func (t *Throttled) Send(ctx context.Context, email model.Email) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.Send(ctx, email)
}
