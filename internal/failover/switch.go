package failover

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Switcher repoints the named.conf indirection between the two target
// files. The sequence is unlink then symlink; the link is briefly absent,
// so the two failure halves are reported distinctly.
type Switcher struct {
	Indirection string
	DryRun      bool
	Log         *zap.Logger
	Reload      Reloader

	remove  func(string) error
	symlink func(oldname, newname string) error
}

// NewSwitcher builds a switcher operating on the real filesystem.
func NewSwitcher(indirection string, dryRun bool, log *zap.Logger, reload Reloader) *Switcher {
	return &Switcher{
		Indirection: indirection,
		DryRun:      dryRun,
		Log:         log,
		Reload:      reload,
		remove:      os.Remove,
		symlink:     os.Symlink,
	}
}

// SwitchTo repoints the indirection at target and triggers the reload.
// In dry-run mode it logs what would happen and touches nothing.
func (s *Switcher) SwitchTo(ctx context.Context, target string) error {
	if s.DryRun {
		s.Log.Warn("dry run: would repoint indirection",
			zap.String("indirection", s.Indirection),
			zap.String("target", target))
		return nil
	}

	if err := s.remove(s.Indirection); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoveFailed, err)
	}
	if err := s.symlink(target, s.Indirection); err != nil {
		// The old link is gone and the new one does not exist.
		return fmt.Errorf("%w: %w", ErrDanglingLink, err)
	}

	s.Log.Info("indirection repointed",
		zap.String("indirection", s.Indirection),
		zap.String("target", target))

	if err := s.Reload.Reload(ctx); err != nil {
		// Logged by the reloader; the switch itself succeeded.
		s.Log.Warn("continuing despite reload failure", zap.Error(err))
	}
	return nil
}
