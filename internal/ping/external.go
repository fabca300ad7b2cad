package ping

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

var rttPattern = regexp.MustCompile(`time=([0-9.]+)\s*ms`)

// ExternalPinger shells out to the system ping binary, which carries its
// own ICMP capability. This is the probe of last resort for processes
// without raw socket rights.
type ExternalPinger struct {
	binary string
}

// NewExternalPinger returns a pinger that invokes the system ping command.
func NewExternalPinger() *ExternalPinger {
	return &ExternalPinger{binary: "ping"}
}

// Ping runs one ping and parses the RTT from its output. A non-zero exit
// from ping means the target did not answer, not that probing is broken.
func (p *ExternalPinger) Ping(ctx context.Context, addr string, timeout time.Duration) Result {
	start := time.Now()
	cmd := exec.CommandContext(ctx, p.binary, pingArgs(addr, timeout)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if _, exited := err.(*exec.ExitError); exited {
			return Result{Err: fmt.Errorf("no reply from %s: %w", addr, err)}
		}
		return Result{Err: fmt.Errorf("external ping failed: %w", err)}
	}

	rtt := parseRTT(out)
	if rtt == 0 {
		rtt = time.Since(start)
	}
	return Result{Success: true, RTT: rtt}
}

func pingArgs(addr string, timeout time.Duration) []string {
	if runtime.GOOS == "darwin" {
		// BSD ping takes -W in milliseconds.
		ms := int(timeout.Milliseconds())
		if ms < 100 {
			ms = 100
		}
		return []string{"-n", "-c", "1", "-W", strconv.Itoa(ms), addr}
	}
	sec := int(timeout.Seconds() + 0.5)
	if sec < 1 {
		sec = 1
	}
	return []string{"-n", "-c", "1", "-W", strconv.Itoa(sec), addr}
}

func parseRTT(output []byte) time.Duration {
	m := rttPattern.FindSubmatch(output)
	if len(m) < 2 {
		return 0
	}
	ms, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}
