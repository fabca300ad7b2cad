package failover

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/seanmcadam/dns-config-changer/internal/config"
	"github.com/seanmcadam/dns-config-changer/internal/ping"
)

// Process exit codes. Everything the original design swallowed into exit 0
// gets a distinct code here so the external scheduler can alert on it.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUsage          = 2
	ExitBadIndirection = 3
	ExitUnknownTarget  = 4
	ExitSwitchFailed   = 5
	ExitNoProbe        = 6
)

// Result summarizes one reconciliation pass.
type Result struct {
	Link     LinkState
	Dns      DnsState
	Action   Action
	Switched bool
}

// Runner wires the prober, the state reader and the switcher into the
// single pass this program performs per invocation.
type Runner struct {
	cfg      config.RunConfig
	prober   *Prober
	switcher *Switcher
	log      *zap.Logger
}

// NewRunner assembles a runner from a validated configuration.
func NewRunner(cfg config.RunConfig, pinger ping.Pinger, reload Reloader, log *zap.Logger) *Runner {
	return &Runner{
		cfg: cfg,
		prober: &Prober{
			Pinger:   pinger,
			Attempts: cfg.ProbeAttempts,
			Timeout:  cfg.ProbeTimeout,
			Log:      log,
		},
		switcher: NewSwitcher(cfg.IndirectionPath(), cfg.DryRun, log, reload),
		log:      log,
	}
}

// Run performs one pass: verify the indirection, probe, read state, decide
// and act. State is re-derived from disk every invocation, so a failed
// switch is simply retried by the next scheduled run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if err := CheckIndirection(r.cfg.IndirectionPath()); err != nil {
		return Result{}, err
	}

	link, err := r.prober.Probe(ctx, r.cfg.Target)
	if err != nil {
		return Result{}, err
	}

	dns, err := ReadDNSState(r.cfg.IndirectionPath(), r.cfg.PrimaryPath(), r.cfg.AlternatePath())
	if err != nil {
		return Result{}, err
	}

	action := Decide(link, dns)
	res := Result{Link: link, Dns: dns, Action: action}

	switch action {
	case NoOpNominal:
		r.log.Info("link up, primary configuration active; nothing to do")
	case NoOpFailoverMode:
		r.log.Info("link down, alternate configuration already active; nothing to do")
	case FailOver:
		r.log.Warn("link down on primary configuration, failing over",
			zap.String("target", r.cfg.AlternatePath()))
		if err := r.switcher.SwitchTo(ctx, r.cfg.AlternatePath()); err != nil {
			return res, err
		}
		res.Switched = !r.cfg.DryRun
	case FailBack:
		r.log.Warn("link restored on alternate configuration, failing back",
			zap.String("target", r.cfg.PrimaryPath()))
		if err := r.switcher.SwitchTo(ctx, r.cfg.PrimaryPath()); err != nil {
			return res, err
		}
		res.Switched = !r.cfg.DryRun
	}

	return res, nil
}

// ExitCode maps a run error onto the process exit status.
func ExitCode(err error) int {
	var unknown *UnknownTargetError
	var noProbe *ProbeCapabilityError

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNotSymlink), errors.Is(err, os.ErrNotExist):
		return ExitBadIndirection
	case errors.As(err, &unknown):
		return ExitUnknownTarget
	case errors.Is(err, ErrRemoveFailed), errors.Is(err, ErrDanglingLink):
		return ExitSwitchFailed
	case errors.As(err, &noProbe):
		return ExitNoProbe
	}
	return ExitFailure
}
