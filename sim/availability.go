package sim

// IsAvailable evaluates the system-level availability predicate.
//
// The system is up iff A is serving, and each of B and C is either serving or
// has a warm cache to fall back on. A has no fallback.
func IsAvailable(aOutage, bOutage, cOutage, bCacheCold, cCacheCold Timer) bool {
	return !aOutage.Active() &&
		(!bOutage.Active() || !bCacheCold.Active()) &&
		(!cOutage.Active() || !cCacheCold.Active())
}
