package physics

import (
	"math/rand"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func boxAt(x, y, z, half float32) AABB {
	return NewAABBFromHalf(rl.Vector3{X: x, Y: y, Z: z}, rl.Vector3{X: half, Y: half, Z: half})
}

func TestTreeInsertFattensLeaf(t *testing.T) {
	tree := NewDynamicTree(0.1)
	id := tree.Insert(7, boxAt(0, 0, 0, 1))

	fat := tree.FatAABB(id)
	if !approx(fat.Min.X, -1.1, 1e-5) || !approx(fat.Max.Y, 1.1, 1e-5) {
		t.Errorf("Expected fat box padded by 0.1, got %v", fat)
	}
	if tree.Entity(id) != 7 {
		t.Errorf("Expected entity 7, got %d", tree.Entity(id))
	}
	if tree.Len() != 1 || tree.Height() != 0 {
		t.Errorf("Expected 1 leaf at height 0, got %d leaves height %d", tree.Len(), tree.Height())
	}
}

func TestTreeUpdateInsideFatBoxIsNoop(t *testing.T) {
	tree := NewDynamicTree(0.1)
	id := tree.Insert(1, boxAt(0, 0, 0, 1))

	if tree.Update(id, boxAt(0.05, 0, 0, 1)) {
		t.Error("Update within the margin should not reinsert")
	}
	if !tree.Update(id, boxAt(0.5, 0, 0, 1)) {
		t.Error("Update beyond the margin should reinsert")
	}
	if !tree.FatAABB(id).Contains(boxAt(0.5, 0, 0, 1)) {
		t.Error("Reinserted fat box should contain the new tight box")
	}
}

func TestTreeRandomOperationsStayValid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := NewDynamicTree(DefaultFatMargin)
	live := map[uint64]NodeID{}
	tight := map[uint64]AABB{}
	next := uint64(1)

	randBox := func() AABB {
		return boxAt(rng.Float32()*100, rng.Float32()*100, rng.Float32()*100, 0.2+rng.Float32()*2)
	}

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(4); {
		case op < 2 || len(live) == 0:
			box := randBox()
			live[next] = tree.Insert(next, box)
			tight[next] = box
			next++
		case op == 2:
			for e, id := range live {
				tree.Remove(id)
				delete(live, e)
				delete(tight, e)
				break
			}
		default:
			for e, id := range live {
				box := randBox()
				tree.Update(id, box)
				tight[e] = box
				break
			}
		}
		if step%100 == 0 {
			if err := tree.Validate(); err != nil {
				t.Fatalf("Validate failed at step %d: %v", step, err)
			}
		}
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if tree.Len() != len(live) {
		t.Errorf("Expected %d leaves, got %d", len(live), tree.Len())
	}
	for e, id := range live {
		if !tree.FatAABB(id).Contains(tight[e]) {
			t.Errorf("Expected fat box of %d to contain its tight box", e)
		}
		found := false
		for _, hit := range tree.QueryOverlaps(tight[e]) {
			if hit == e {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected query of %d's own box to report it", e)
		}
	}
}

func TestTreeRemoveReinsertRoundTrip(t *testing.T) {
	tree := NewDynamicTree(0.1)
	ids := make([]NodeID, 0, 16)
	for i := 0; i < 16; i++ {
		ids = append(ids, tree.Insert(uint64(i+1), boxAt(float32(i)*3, 0, 0, 1)))
	}
	query := boxAt(15, 0, 0, 0.5)
	before := tree.QueryOverlaps(query)

	tree.Remove(ids[5])
	ids[5] = tree.Insert(6, boxAt(15, 0, 0, 1))
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	after := tree.QueryOverlaps(query)
	if len(before) != len(after) {
		t.Errorf("Expected %d overlaps after round trip, got %d", len(before), len(after))
	}
	if len(tree.nodes) != 31 {
		t.Errorf("Expected freed nodes to be reused (31 slots), got %d", len(tree.nodes))
	}
}

func TestTreeQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := NewDynamicTree(0)
	boxes := map[uint64]AABB{}
	for i := uint64(1); i <= 300; i++ {
		b := boxAt(rng.Float32()*50, rng.Float32()*50, rng.Float32()*50, 0.5+rng.Float32())
		boxes[i] = b
		tree.Insert(i, b)
	}
	query := boxAt(25, 25, 25, 6)

	want := 0
	for _, b := range boxes {
		if b.Intersects(query) {
			want++
		}
	}
	got := tree.QueryOverlaps(query)
	if len(got) != want {
		t.Errorf("Expected %d overlaps, got %d", want, len(got))
	}
	for _, e := range got {
		if !boxes[e].Intersects(query) {
			t.Errorf("Entity %d reported but does not overlap", e)
		}
	}
}

func TestTreeStaysShallow(t *testing.T) {
	tree := NewDynamicTree(0.1)
	for i := 0; i < 1024; i++ {
		tree.Insert(uint64(i+1), boxAt(float32(i), 0, 0, 0.4))
	}
	// A balanced tree over 1024 leaves has height 10; AVL rotations keep it
	// within a small factor.
	if h := tree.Height(); h > 20 {
		t.Errorf("Expected height <= 20 for sorted inserts, got %d", h)
	}
}

func TestTreeRayCastFindsLeaf(t *testing.T) {
	tree := NewDynamicTree(0.1)
	tree.Insert(1, boxAt(10, 0, 0, 1))
	tree.Insert(2, boxAt(0, 10, 0, 1))

	var seen []uint64
	tree.RayCast(rl.Vector3{}, rl.Vector3{X: 1}, 100, func(id NodeID, maxDist float32) float32 {
		seen = append(seen, tree.Entity(id))
		return maxDist
	})
	if len(seen) != 1 || seen[0] != 1 {
		t.Errorf("Expected only entity 1 on the +X ray, got %v", seen)
	}
}
