package service

import "sort"

// orderByKeys re-sorts records to match the caller's key sequence. Resolvers
// return a mix of pre-existing and freshly created rows; callers zip the
// result against their original list by position, so this re-ordering is a
// contract, not cosmetics. Records whose key does not appear in keys sink to
// the end (which should not happen for resolver output).
func orderByKeys[M any, K comparable](records []M, keys []K, keyOf func(M) K) []M {
	pos := make(map[K]int, len(keys))
	for i, k := range keys {
		if _, ok := pos[k]; !ok {
			pos[k] = i
		}
	}
	out := make([]M, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		pi, ok := pos[keyOf(out[i])]
		if !ok {
			pi = len(keys)
		}
		pj, ok := pos[keyOf(out[j])]
		if !ok {
			pj = len(keys)
		}
		return pi < pj
	})
	return out
}
