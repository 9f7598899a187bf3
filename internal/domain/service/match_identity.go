package service

// CanonicalMatchID derives the order-independent match document id for a pair
// of users: min(a,b) + "_" + max(a,b). Both orderings of a mutual like resolve
// to the same key, so concurrent creation collapses onto one document instead
// of racing to create two.
func CanonicalMatchID(a, b string) string {
	u1, u2 := MatchRoles(a, b)
	return u1 + "_" + u2
}

// MatchRoles assigns the stable user1/user2 roles: user1 is the
// lexicographically smaller id.
func MatchRoles(a, b string) (user1, user2 string) {
	if a < b {
		return a, b
	}
	return b, a
}

// SwapCompleted reports whether a swap order's receiving map marks every
// participant as having received. Computed from the post-write map so the
// final RECEIVE flips completion in the same transaction, not one step late.
func SwapCompleted(receiving map[string]bool) bool {
	if len(receiving) == 0 {
		return false
	}
	for _, received := range receiving {
		if !received {
			return false
		}
	}
	return true
}
