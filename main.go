package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/seanmcadam/dns-config-changer/internal/cli"
	"github.com/seanmcadam/dns-config-changer/internal/config"
	"github.com/seanmcadam/dns-config-changer/internal/failover"
	"github.com/seanmcadam/dns-config-changer/internal/logging"
	"github.com/seanmcadam/dns-config-changer/internal/ping"
)

const (
	progName = "dns-config-changer"
	version  = "1.0.0"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, err := cli.Parse(progName, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return failover.ExitOK
	}
	if err != nil {
		return failover.ExitUsage
	}
	if flags.Version {
		fmt.Fprintf(stdout, "%s version %s\n", progName, version)
		return failover.ExitOK
	}

	cfg := config.Default().WithOverrides(flags.Overrides())
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		return failover.ExitUsage
	}

	logger, err := logging.New(logging.Options{
		Debug:    cfg.Debug,
		Stdout:   cfg.LogToStdout,
		FilePath: cfg.LogFile,
		Tag:      progName,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%s: logger setup: %v\n", progName, err)
		return failover.ExitFailure
	}
	defer logger.Close()

	pinger, err := buildPinger()
	if err != nil {
		logger.Error("probe setup failed", zap.Error(err))
		return failover.ExitNoProbe
	}
	reload := &failover.ExecReloader{Command: cfg.ReloadCommand, Log: logger.Logger}

	runner := failover.NewRunner(cfg, pinger, reload, logger.Logger)
	result, err := runner.Run(context.Background())
	if err != nil {
		logger.Error("run aborted", zap.Error(err))
		return failover.ExitCode(err)
	}

	logger.Info("run complete",
		zap.Stringer("link", result.Link),
		zap.Stringer("dns", result.Dns),
		zap.Stringer("action", result.Action),
		zap.Bool("switched", result.Switched),
		zap.Bool("dry_run", cfg.DryRun))
	return failover.ExitOK
}

// buildPinger prefers raw ICMP sockets and falls back to the system ping
// binary when the process lacks the capability for them.
func buildPinger() (ping.Pinger, error) {
	icmpPinger, err := ping.NewICMPPinger()
	if err != nil {
		return nil, err
	}
	return ping.NewFallbackPinger(icmpPinger, ping.NewExternalPinger()), nil
}
