package quorum

// Threshold returns the minimum number of valid signatures by distinct members
// of an authority set of the given size that witness an event. It is the
// Byzantine quorum floor(2*(n-1)/3) + 1, tolerating floor((n-1)/3) faulty
// signers. An empty authority set yields 0, which Verify treats as
// unsatisfiable.
func Threshold(authorities int) int {
	if authorities < 1 {
		return 0
	}
	return 2*(authorities-1)/3 + 1
}
