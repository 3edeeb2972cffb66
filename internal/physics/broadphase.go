package physics

import (
	"slices"
)

// Proxy is one body as seen by the broadphase for a tick.
type Proxy struct {
	UID    uint64
	Bounds AABB // tight world box
	Moving bool // dynamic or kinematic
}

// Broadphase keeps a DynamicTree in sync with the set of collidable bodies
// and produces candidate pairs.
type Broadphase struct {
	tree   *DynamicTree
	nodes  map[uint64]NodeID
	bounds map[uint64]AABB
	moving map[uint64]bool

	stamp     uint32
	seen      map[uint64]uint32
	pairs     []Pair
	reinserts int
}

func NewBroadphase(margin float32) *Broadphase {
	return &Broadphase{
		tree:   NewDynamicTree(margin),
		nodes:  make(map[uint64]NodeID),
		bounds: make(map[uint64]AABB),
		moving: make(map[uint64]bool),
		seen:   make(map[uint64]uint32),
	}
}

// Sync inserts new proxies, refits existing ones and drops leaves of every
// entity absent from proxies.
func (b *Broadphase) Sync(proxies []Proxy) {
	b.stamp++
	b.reinserts = 0
	for _, p := range proxies {
		b.seen[p.UID] = b.stamp
		b.bounds[p.UID] = p.Bounds
		b.moving[p.UID] = p.Moving
		if id, ok := b.nodes[p.UID]; ok {
			if b.tree.Update(id, p.Bounds) {
				b.reinserts++
			}
			continue
		}
		b.nodes[p.UID] = b.tree.Insert(p.UID, p.Bounds)
	}
	for uid := range b.nodes {
		if b.seen[uid] != b.stamp {
			b.Remove(uid)
		}
	}
}

// Remove drops uid's leaf if it has one.
func (b *Broadphase) Remove(uid uint64) {
	id, ok := b.nodes[uid]
	if !ok {
		return
	}
	b.tree.Remove(id)
	delete(b.nodes, uid)
	delete(b.bounds, uid)
	delete(b.moving, uid)
	delete(b.seen, uid)
}

// FindPairs self-queries the tree from every moving leaf and returns the
// sorted, deduplicated candidate pairs. Pairs of two non-moving bodies are
// never produced. The slice is reused by the next call.
func (b *Broadphase) FindPairs() []Pair {
	b.pairs = b.pairs[:0]
	for uid, id := range b.nodes {
		if !b.moving[uid] {
			continue
		}
		b.tree.Query(b.tree.FatAABB(id), func(other NodeID) bool {
			if other == id {
				return true
			}
			b.pairs = append(b.pairs, MakePair(uid, b.tree.Entity(other)))
			return true
		})
	}
	slices.SortFunc(b.pairs, func(x, y Pair) int {
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		}
		return 0
	})
	b.pairs = slices.Compact(b.pairs)
	return b.pairs
}

// Bounds returns the cached tight box of uid.
func (b *Broadphase) Bounds(uid uint64) (AABB, bool) {
	box, ok := b.bounds[uid]
	return box, ok
}

// Node returns the tree leaf of uid.
func (b *Broadphase) Node(uid uint64) (NodeID, bool) {
	id, ok := b.nodes[uid]
	return id, ok
}

func (b *Broadphase) Tree() *DynamicTree {
	return b.tree
}

func (b *Broadphase) Len() int {
	return len(b.nodes)
}

// Reinserts is the number of leaves reinserted by the last Sync.
func (b *Broadphase) Reinserts() int {
	return b.reinserts
}
