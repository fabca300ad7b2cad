package failover

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Reloader asks the name server to pick up the switched configuration.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ExecReloader runs a fixed reload command line, typically "rndc reload".
// No element of the command line derives from program input.
type ExecReloader struct {
	Command []string
	Log     *zap.Logger
}

// Reload invokes the command. A non-zero exit is logged and returned; the
// switch on disk has already happened by the time this runs.
func (r *ExecReloader) Reload(ctx context.Context) error {
	r.Log.Warn("reloading name server",
		zap.String("command", strings.Join(r.Command, " ")))

	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.Log.Warn("reload command failed",
			zap.Error(err),
			zap.String("output", strings.TrimSpace(string(out))))
		return fmt.Errorf("reload command: %w", err)
	}
	return nil
}
