package dagcbor

import "sort"

// keyLess implements DAG-CBOR's canonical map-key order: shorter UTF-8
// byte-length sorts first; ties are broken by bytewise comparison of the
// UTF-8 bytes themselves. This must never be confused with code-point
// (rune) order — the two differ for any key containing bytes outside the
// ASCII range.
func keyLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// CanonicalOrder returns a copy of keys sorted by DAG-CBOR's canonical map
// key order. It does not deduplicate.
func CanonicalOrder(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i], out[j]) })
	return out
}

// isCanonicallySorted reports whether entries are already in strictly
// increasing canonical key order with no duplicates, so the encoder can
// skip a sort (and the allocation it implies) on the common path where
// callers already built their Map in order.
func isCanonicallySorted(entries []MapEntry) bool {
	for i := 1; i < len(entries); i++ {
		if !keyLess(entries[i-1].Key, entries[i].Key) {
			return false
		}
	}
	return true
}

// CheckKeyCompliance reports an error if keys contains a duplicate. Map
// values built through the Map constructor are not required to call this
// themselves; the encoder performs the equivalent check as part of
// canonicalising a map's entries.
func CheckKeyCompliance(keys []string) error {
	sorted := CanonicalOrder(keys)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] == sorted[i] {
			return encodeErr(ErrDuplicateMapKey, "", "duplicate map key %q", sorted[i])
		}
	}
	return nil
}

// sortedEntryIndices returns, for entries in canonical key order, the
// permutation of original indices that realises that order, and an error
// if two entries have equal keys under the canonical comparator.
func sortedEntryIndices(entries []MapEntry) ([]int, error) {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return keyLess(entries[idx[i]].Key, entries[idx[j]].Key) })
	for i := 1; i < len(idx); i++ {
		if entries[idx[i-1]].Key == entries[idx[i]].Key {
			return nil, encodeErr(ErrDuplicateMapKey, "", "duplicate map key %q", entries[idx[i]].Key)
		}
	}
	return idx, nil
}
