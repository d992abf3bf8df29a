// Package codec holds the small generic helper the RLP encoders in
// pkg/account and pkg/orderbook use to flatten a Go map into a canonically
// sorted wire order: map iteration order is not
// deterministic, and two replicas must encode byte-identical state.
package codec

import "sort"

// SortedKeys returns m's keys in ascending order.
func SortedKeys[K ~uint8 | ~uint64, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
