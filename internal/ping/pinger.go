package ping

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Result captures a single probe attempt. An unanswered probe is not an
// error condition for callers; they inspect Success and move on.
type Result struct {
	RTT     time.Duration
	Success bool
	Err     error
}

// Pinger sends a single reachability probe and reports the outcome.
type Pinger interface {
	Ping(ctx context.Context, addr string, timeout time.Duration) Result
}

// Unavailable reports whether err means this host has no way to probe at
// all (raw ICMP sockets denied and no usable ping binary), as opposed to
// the target simply not answering.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	if permissionError(err) || errors.Is(err, exec.ErrNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "executable file not found")
}

func permissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "operation not permitted") ||
		strings.Contains(msg, "permission denied")
}
