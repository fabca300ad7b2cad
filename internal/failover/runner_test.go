package failover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seanmcadam/dns-config-changer/internal/config"
	"github.com/seanmcadam/dns-config-changer/internal/ping"
)

// fixedPinger always answers with the same reachability verdict.
type fixedPinger struct {
	up  bool
	err error
}

func (f *fixedPinger) Ping(ctx context.Context, addr string, timeout time.Duration) ping.Result {
	if f.up {
		return ping.Result{Success: true, RTT: time.Millisecond}
	}
	return ping.Result{Err: f.err}
}

func upPinger() *fixedPinger {
	return &fixedPinger{up: true}
}

func downPinger() *fixedPinger {
	return &fixedPinger{err: errors.New("probe timeout")}
}

// newRunFixture builds a complete on-disk layout plus a matching RunConfig.
// linkTo selects the initial indirection target ("primary", "alternate",
// or a literal path).
func newRunFixture(t *testing.T, linkTo string) config.RunConfig {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.BaseDir = dir
	cfg.Target = "127.0.0.1"
	cfg.ProbeAttempts = 1
	cfg.ProbeTimeout = 100 * time.Millisecond

	for _, path := range []string{cfg.PrimaryPath(), cfg.AlternatePath()} {
		if err := os.WriteFile(path, []byte("// named config\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	target := linkTo
	switch linkTo {
	case "primary":
		target = cfg.PrimaryPath()
	case "alternate":
		target = cfg.AlternatePath()
	}
	if err := os.Symlink(target, cfg.IndirectionPath()); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	return cfg
}

func runOnce(t *testing.T, cfg config.RunConfig, pinger ping.Pinger, reload Reloader) (Result, error) {
	t.Helper()
	return NewRunner(cfg, pinger, reload, zap.NewNop()).Run(context.Background())
}

func resolvedTarget(t *testing.T, cfg config.RunConfig) string {
	t.Helper()
	resolved, err := os.Readlink(cfg.IndirectionPath())
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	return resolved
}

func TestRunNominalNoChange(t *testing.T) {
	cfg := newRunFixture(t, "primary")
	reload := &recordingReloader{}

	res, err := runOnce(t, cfg, upPinger(), reload)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Action != NoOpNominal {
		t.Fatalf("expected NoOpNominal, got %v", res.Action)
	}
	if res.Switched {
		t.Fatalf("nominal run must not switch")
	}
	if reload.calls != 0 {
		t.Fatalf("nominal run invoked reload")
	}
	if got := resolvedTarget(t, cfg); got != cfg.PrimaryPath() {
		t.Fatalf("indirection moved to %q", got)
	}
}

func TestRunAlreadyFailedOverNoChange(t *testing.T) {
	cfg := newRunFixture(t, "alternate")
	reload := &recordingReloader{}

	res, err := runOnce(t, cfg, downPinger(), reload)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Action != NoOpFailoverMode {
		t.Fatalf("expected NoOpFailoverMode, got %v", res.Action)
	}
	if res.Switched || reload.calls != 0 {
		t.Fatalf("failed-over no-op must not mutate or reload")
	}
	if got := resolvedTarget(t, cfg); got != cfg.AlternatePath() {
		t.Fatalf("indirection moved to %q", got)
	}
}

func TestRunFailOver(t *testing.T) {
	cfg := newRunFixture(t, "primary")
	reload := &recordingReloader{}

	res, err := runOnce(t, cfg, downPinger(), reload)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Action != FailOver || !res.Switched {
		t.Fatalf("expected executed FailOver, got %+v", res)
	}
	if got := resolvedTarget(t, cfg); got != cfg.AlternatePath() {
		t.Fatalf("indirection resolves to %q, want alternate", got)
	}
	if reload.calls != 1 {
		t.Fatalf("expected 1 reload, got %d", reload.calls)
	}
}

func TestRunFailBack(t *testing.T) {
	cfg := newRunFixture(t, "alternate")
	reload := &recordingReloader{}

	res, err := runOnce(t, cfg, upPinger(), reload)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Action != FailBack || !res.Switched {
		t.Fatalf("expected executed FailBack, got %+v", res)
	}
	if got := resolvedTarget(t, cfg); got != cfg.PrimaryPath() {
		t.Fatalf("indirection resolves to %q, want primary", got)
	}
	if reload.calls != 1 {
		t.Fatalf("expected 1 reload, got %d", reload.calls)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := newRunFixture(t, "primary")
	reload := &recordingReloader{}

	first, err := runOnce(t, cfg, downPinger(), reload)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Action != FailOver {
		t.Fatalf("expected FailOver first, got %v", first.Action)
	}

	second, err := runOnce(t, cfg, downPinger(), reload)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Action != NoOpFailoverMode || second.Switched {
		t.Fatalf("second run must be a no-op, got %+v", second)
	}
	if reload.calls != 1 {
		t.Fatalf("expected 1 reload across both runs, got %d", reload.calls)
	}
}

func TestRunRoundTripRestoresPrimary(t *testing.T) {
	cfg := newRunFixture(t, "primary")
	before := resolvedTarget(t, cfg)
	reload := &recordingReloader{}

	if _, err := runOnce(t, cfg, downPinger(), reload); err != nil {
		t.Fatalf("failover run: %v", err)
	}
	if _, err := runOnce(t, cfg, upPinger(), reload); err != nil {
		t.Fatalf("failback run: %v", err)
	}

	if got := resolvedTarget(t, cfg); got != before {
		t.Fatalf("round trip ended at %q, want %q", got, before)
	}
	if reload.calls != 2 {
		t.Fatalf("expected 2 reloads, got %d", reload.calls)
	}
}

func TestRunDryRunFailOver(t *testing.T) {
	cfg := newRunFixture(t, "primary")
	cfg.DryRun = true
	reload := &recordingReloader{}

	res, err := runOnce(t, cfg, downPinger(), reload)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Action != FailOver {
		t.Fatalf("dry run still decides FailOver, got %v", res.Action)
	}
	if res.Switched {
		t.Fatalf("dry run reported a switch")
	}
	if got := resolvedTarget(t, cfg); got != cfg.PrimaryPath() {
		t.Fatalf("dry run mutated the indirection: %q", got)
	}
	if reload.calls != 0 {
		t.Fatalf("dry run invoked reload")
	}
}

func TestRunAbortsOnUnknownTarget(t *testing.T) {
	cfg := newRunFixture(t, "/etc/named.other.conf")
	reload := &recordingReloader{}

	_, err := runOnce(t, cfg, upPinger(), reload)
	var unknown *UnknownTargetError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTargetError, got %v", err)
	}
	if reload.calls != 0 {
		t.Fatalf("aborted run invoked reload")
	}
	if got := resolvedTarget(t, cfg); got != "/etc/named.other.conf" {
		t.Fatalf("aborted run mutated the indirection: %q", got)
	}
}

func TestRunAbortsWhenIndirectionMissing(t *testing.T) {
	cfg := config.Default()
	cfg.BaseDir = t.TempDir()
	cfg.Target = "127.0.0.1"

	_, err := runOnce(t, cfg, upPinger(), &recordingReloader{})
	if !errors.Is(err, ErrNotSymlink) {
		t.Fatalf("expected ErrNotSymlink, got %v", err)
	}
}

func TestRunAbortsWhenIndirectionIsRegularFile(t *testing.T) {
	cfg := config.Default()
	cfg.BaseDir = t.TempDir()
	cfg.Target = "127.0.0.1"
	if err := os.WriteFile(cfg.IndirectionPath(), []byte("plain file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := runOnce(t, cfg, upPinger(), &recordingReloader{})
	if !errors.Is(err, ErrNotSymlink) {
		t.Fatalf("expected ErrNotSymlink, got %v", err)
	}
}

func TestRunAbortsOnProbeCapabilityError(t *testing.T) {
	cfg := newRunFixture(t, "primary")
	pinger := &fixedPinger{err: os.ErrPermission}

	_, err := runOnce(t, cfg, pinger, &recordingReloader{})
	var capErr *ProbeCapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected ProbeCapabilityError, got %v", err)
	}
}

func TestExitCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("%w: /etc/named.conf", ErrNotSymlink), ExitBadIndirection},
		{&UnknownTargetError{Resolved: "/etc/x"}, ExitUnknownTarget},
		{fmt.Errorf("%w: %w", ErrRemoveFailed, os.ErrPermission), ExitSwitchFailed},
		{fmt.Errorf("%w: disk gone", ErrDanglingLink), ExitSwitchFailed},
		{&ProbeCapabilityError{Target: "x", Err: os.ErrPermission}, ExitNoProbe},
		{os.ErrNotExist, ExitBadIndirection},
		{errors.New("anything else"), ExitFailure},
	}

	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRunnerWithFilesystemPathsOnly(t *testing.T) {
	// ConfDir may hold the indirection away from the target files.
	base := t.TempDir()
	conf := t.TempDir()

	cfg := config.Default()
	cfg.BaseDir = base
	cfg.ConfDir = conf
	cfg.Target = "127.0.0.1"
	cfg.ProbeAttempts = 1

	for _, path := range []string{cfg.PrimaryPath(), cfg.AlternatePath()} {
		if err := os.WriteFile(path, []byte("// named config\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	if err := os.Symlink(cfg.PrimaryPath(), cfg.IndirectionPath()); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	reload := &recordingReloader{}
	res, err := runOnce(t, cfg, downPinger(), reload)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Action != FailOver {
		t.Fatalf("expected FailOver, got %v", res.Action)
	}
	if got := resolvedTarget(t, cfg); got != filepath.Join(base, "named.alternate.conf") {
		t.Fatalf("indirection resolves to %q", got)
	}
}
