package failover

import (
	"fmt"
	"os"
)

// CheckIndirection verifies the indirection path exists and is a symbolic
// link. Anything else aborts the run before any state is evaluated.
func CheckIndirection(indirection string) error {
	info, err := os.Lstat(indirection)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotSymlink, indirection, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%w: %s", ErrNotSymlink, indirection)
	}
	return nil
}

// ReadDNSState resolves exactly one level of the indirection symlink and
// compares the recorded target string byte-for-byte against the two known
// files. No realpath resolution: the link's own target string is the state.
func ReadDNSState(indirection, primary, alternate string) (DnsState, error) {
	resolved, err := os.Readlink(indirection)
	if err != nil {
		return DnsPrimary, fmt.Errorf("read indirection %s: %w", indirection, err)
	}

	switch resolved {
	case primary:
		return DnsPrimary, nil
	case alternate:
		return DnsAlternate, nil
	}
	return DnsPrimary, &UnknownTargetError{
		Resolved:  resolved,
		Primary:   primary,
		Alternate: alternate,
	}
}
