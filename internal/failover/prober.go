package failover

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/seanmcadam/dns-config-changer/internal/ping"
)

// Prober turns bounded ping attempts into a LinkState. The first reply
// wins; exhausting every attempt is an ordinary LinkDown, not an error.
type Prober struct {
	Pinger   ping.Pinger
	Attempts int
	Timeout  time.Duration
	Log      *zap.Logger
}

// Probe checks reachability of target. It returns an error only for a
// malformed target or a missing probing capability; unreachability is the
// normal LinkDown result.
func (p *Prober) Probe(ctx context.Context, target string) (LinkState, error) {
	// Note this catches more than unparseable targets: a well-formed
	// hostname the resolver cannot currently answer for lands here too,
	// since every probe attempt would need that same resolver. IP-literal
	// targets, the default, never resolve transiently.
	if _, err := net.ResolveIPAddr("ip", target); err != nil {
		return LinkDown, &ProbeCapabilityError{Target: target, Err: err}
	}

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		res := p.Pinger.Ping(ctx, target, p.Timeout)
		if res.Success {
			p.Log.Debug("probe replied",
				zap.String("target", target),
				zap.Int("attempt", i),
				zap.Duration("rtt", res.RTT))
			p.Log.Info("target reachable",
				zap.String("target", target),
				zap.Duration("rtt", res.RTT))
			return LinkUp, nil
		}

		if ping.Unavailable(res.Err) {
			return LinkDown, &ProbeCapabilityError{Target: target, Err: res.Err}
		}
		p.Log.Debug("probe unanswered",
			zap.String("target", target),
			zap.Int("attempt", i),
			zap.Error(res.Err))

		if err := ctx.Err(); err != nil {
			return LinkDown, &ProbeCapabilityError{Target: target, Err: err}
		}
	}

	p.Log.Info("target unreachable",
		zap.String("target", target),
		zap.Int("attempts", attempts))
	return LinkDown, nil
}
