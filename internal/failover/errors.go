package failover

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSymlink aborts the run before any state evaluation: the
	// indirection path is missing or is a regular file.
	ErrNotSymlink = errors.New("indirection path is not a symbolic link")

	// ErrRemoveFailed means the old indirection link could not be removed;
	// the configuration on disk is unchanged.
	ErrRemoveFailed = errors.New("removing indirection link failed")

	// ErrDanglingLink means the old link was removed but the new one could
	// not be created. The name server now has no configuration link at all,
	// which is why this is kept distinct from ErrRemoveFailed.
	ErrDanglingLink = errors.New("indirection link removed but not recreated")
)

// UnknownTargetError reports configuration drift: the indirection resolves
// to something other than the two known target files. The run aborts
// rather than guessing; both expected paths are reported for diagnosis.
type UnknownTargetError struct {
	Resolved  string
	Primary   string
	Alternate string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("indirection resolves to unknown target %q (expected %q or %q)",
		e.Resolved, e.Primary, e.Alternate)
}

// ProbeCapabilityError means the run could not probe at all: the target is
// malformed or the host has no usable ICMP capability. Distinct from an
// unreachable target, which is a normal LinkDown result.
type ProbeCapabilityError struct {
	Target string
	Err    error
}

func (e *ProbeCapabilityError) Error() string {
	return fmt.Sprintf("cannot probe %q: %v", e.Target, e.Err)
}

func (e *ProbeCapabilityError) Unwrap() error {
	return e.Err
}
