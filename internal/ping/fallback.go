package ping

import (
	"context"
	"time"

	"go.uber.org/multierr"
)

// FallbackPinger tries the primary pinger and falls back to the secondary
// when the primary lacks the capability to probe (typically raw socket
// permission). Ordinary unreachability never triggers the fallback.
type FallbackPinger struct {
	primary   Pinger
	secondary Pinger
}

// NewFallbackPinger wraps primary with secondary as the capability fallback.
func NewFallbackPinger(primary, secondary Pinger) *FallbackPinger {
	return &FallbackPinger{primary: primary, secondary: secondary}
}

// Ping probes via the primary, switching to the secondary on permission
// errors. Once the secondary has taken over, its verdict stands on its own:
// an unanswered probe through a working fallback is ordinary
// unreachability, and the primary's permission error must not leak into it.
// Only when the secondary is itself unusable are the two causes combined,
// so the operator sees why neither path worked.
func (p *FallbackPinger) Ping(ctx context.Context, addr string, timeout time.Duration) Result {
	result := p.primary.Ping(ctx, addr, timeout)
	if result.Success || !permissionError(result.Err) {
		return result
	}

	fallback := p.secondary.Ping(ctx, addr, timeout)
	if !fallback.Success && Unavailable(fallback.Err) {
		fallback.Err = multierr.Append(result.Err, fallback.Err)
	}
	return fallback
}
