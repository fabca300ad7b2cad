package failover

// LinkState is the reachability verdict for the probe target, produced
// fresh on every run and never persisted.
type LinkState int

const (
	LinkDown LinkState = iota
	LinkUp
)

func (s LinkState) String() string {
	if s == LinkUp {
		return "up"
	}
	return "down"
}

// DnsState tells which of the two target files the named.conf indirection
// currently resolves to. It is read from the filesystem each run; the
// symlink itself is the only durable state this program has.
type DnsState int

const (
	DnsPrimary DnsState = iota
	DnsAlternate
)

func (s DnsState) String() string {
	if s == DnsAlternate {
		return "alternate"
	}
	return "primary"
}

// Action is the single decision a run makes from the two state signals.
type Action int

const (
	// NoOpNominal: target reachable, primary configuration active.
	NoOpNominal Action = iota

	// NoOpFailoverMode: target unreachable, already on the alternate.
	NoOpFailoverMode

	// FailOver repoints the indirection from primary to alternate.
	FailOver

	// FailBack repoints the indirection from alternate back to primary.
	FailBack
)

func (a Action) String() string {
	switch a {
	case NoOpNominal:
		return "noop-nominal"
	case NoOpFailoverMode:
		return "noop-failover-mode"
	case FailOver:
		return "failover"
	case FailBack:
		return "failback"
	}
	return "unknown"
}
