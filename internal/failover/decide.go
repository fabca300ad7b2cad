package failover

// Decide reconciles link reachability with the current indirection target.
// Pure and total: the four combinations of the two signals map onto the
// four actions, so no other case can arise.
//
//	link  dns        action
//	up    primary    NoOpNominal
//	down  alternate  NoOpFailoverMode
//	down  primary    FailOver
//	up    alternate  FailBack
func Decide(link LinkState, dns DnsState) Action {
	switch {
	case link == LinkUp && dns == DnsPrimary:
		return NoOpNominal
	case link == LinkDown && dns == DnsAlternate:
		return NoOpFailoverMode
	case link == LinkDown && dns == DnsPrimary:
		return FailOver
	default: // LinkUp && DnsAlternate
		return FailBack
	}
}
