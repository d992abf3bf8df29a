package codec

import "testing"

func TestSortedKeysOrdersUint8Keys(t *testing.T) {
	m := map[uint8]string{2: "b", 0: "a", 1: "c"}
	got := SortedKeys(m)
	want := []uint8{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSortedKeysOrdersUint64Keys(t *testing.T) {
	m := map[uint64]struct{}{300: {}, 1: {}, 42: {}}
	got := SortedKeys(m)
	want := []uint64{1, 42, 300}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSortedKeysEmptyMap(t *testing.T) {
	if got := SortedKeys(map[uint64]int{}); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
