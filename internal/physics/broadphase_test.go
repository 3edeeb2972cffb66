package physics

import "testing"

func TestBroadphasePairsAreCanonicalAndSorted(t *testing.T) {
	bp := NewBroadphase(0.1)
	bp.Sync([]Proxy{
		{UID: 9, Bounds: boxAt(0, 0, 0, 1), Moving: true},
		{UID: 3, Bounds: boxAt(1, 0, 0, 1), Moving: true},
		{UID: 5, Bounds: boxAt(0.5, 0.5, 0, 1), Moving: true},
	})
	pairs := bp.FindPairs()

	want := []Pair{{3, 5}, {3, 9}, {5, 9}}
	if len(pairs) != len(want) {
		t.Fatalf("Expected %d pairs, got %v", len(want), pairs)
	}
	for i, p := range pairs {
		if p != want[i] {
			t.Errorf("Expected pair %v at %d, got %v", want[i], i, p)
		}
	}
}

func TestBroadphaseSkipsStaticStatic(t *testing.T) {
	bp := NewBroadphase(0.1)
	bp.Sync([]Proxy{
		{UID: 1, Bounds: boxAt(0, 0, 0, 1)},
		{UID: 2, Bounds: boxAt(0.5, 0, 0, 1)},
		{UID: 3, Bounds: boxAt(0, 0.5, 0, 1), Moving: true},
	})
	for _, p := range bp.FindPairs() {
		if p == (Pair{1, 2}) {
			t.Error("Static-static pair should be filtered out")
		}
	}
	if n := len(bp.FindPairs()); n != 2 {
		t.Errorf("Expected 2 pairs with the moving body, got %d", n)
	}
}

func TestBroadphaseDropsMissingProxies(t *testing.T) {
	bp := NewBroadphase(0.1)
	bp.Sync([]Proxy{
		{UID: 1, Bounds: boxAt(0, 0, 0, 1), Moving: true},
		{UID: 2, Bounds: boxAt(0.5, 0, 0, 1), Moving: true},
	})
	bp.Sync([]Proxy{{UID: 1, Bounds: boxAt(0, 0, 0, 1), Moving: true}})

	if bp.Len() != 1 {
		t.Errorf("Expected 1 leaf after entity 2 vanished, got %d", bp.Len())
	}
	if _, ok := bp.Bounds(2); ok {
		t.Error("Bounds cache should drop entity 2")
	}
	if len(bp.FindPairs()) != 0 {
		t.Error("Expected no pairs with a single body")
	}
	if err := bp.Tree().Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}
