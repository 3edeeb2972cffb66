package physics

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// NodeID is a stable handle to a tree node. Ids of removed leaves are
// recycled through the free list.
type NodeID int32

const nullNode NodeID = -1

// DefaultFatMargin pads leaf boxes so small motions don't force reinsertion.
const DefaultFatMargin = 0.1

type treeNode struct {
	aabb   AABB
	parent NodeID // doubles as next-free link for free nodes
	left   NodeID
	right  NodeID
	height int32 // 0 for leaves, -1 for free nodes
	entity uint64
}

func (n *treeNode) isLeaf() bool {
	return n.left == nullNode
}

// DynamicTree is a bounding volume hierarchy over fat AABBs. Leaves hold
// entity ids; internal nodes hold the union of their children. Nodes live in
// a single slice and are addressed by index.
type DynamicTree struct {
	nodes    []treeNode
	root     NodeID
	freeList NodeID
	leaves   int
	margin   float32
	stack    []NodeID
}

func NewDynamicTree(margin float32) *DynamicTree {
	if margin < 0 {
		margin = 0
	}
	return &DynamicTree{
		nodes:    make([]treeNode, 0, 16),
		root:     nullNode,
		freeList: nullNode,
		margin:   margin,
	}
}

func (t *DynamicTree) allocate() NodeID {
	if t.freeList != nullNode {
		id := t.freeList
		n := &t.nodes[id]
		t.freeList = n.parent
		*n = treeNode{parent: nullNode, left: nullNode, right: nullNode}
		return id
	}
	t.nodes = append(t.nodes, treeNode{parent: nullNode, left: nullNode, right: nullNode})
	return NodeID(len(t.nodes) - 1)
}

func (t *DynamicTree) free(id NodeID) {
	t.nodes[id] = treeNode{parent: t.freeList, left: nullNode, right: nullNode, height: -1}
	t.freeList = id
}

// Insert adds a leaf for entity with the given tight box.
func (t *DynamicTree) Insert(entity uint64, tight AABB) NodeID {
	id := t.allocate()
	n := &t.nodes[id]
	n.aabb = tight.Fatten(t.margin)
	n.entity = entity
	t.insertLeaf(id)
	t.leaves++
	return id
}

// Remove deletes a leaf. Removing a non-leaf id panics.
func (t *DynamicTree) Remove(id NodeID) {
	if !t.validLeaf(id) {
		panic(fmt.Sprintf("physics: remove of invalid tree leaf %d", id))
	}
	t.removeLeaf(id)
	t.free(id)
	t.leaves--
}

// Update refits a leaf to a new tight box. It returns false when the stored
// fat box still contains tight and nothing changed; otherwise the leaf is
// reinserted with a freshly fattened box and true is returned.
func (t *DynamicTree) Update(id NodeID, tight AABB) bool {
	if !t.validLeaf(id) {
		panic(fmt.Sprintf("physics: update of invalid tree leaf %d", id))
	}
	if t.nodes[id].aabb.Contains(tight) {
		return false
	}
	t.removeLeaf(id)
	t.nodes[id].aabb = tight.Fatten(t.margin)
	t.insertLeaf(id)
	return true
}

func (t *DynamicTree) validLeaf(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].height == 0
}

func (t *DynamicTree) FatAABB(id NodeID) AABB {
	return t.nodes[id].aabb
}

func (t *DynamicTree) Entity(id NodeID) uint64 {
	return t.nodes[id].entity
}

// Height of the root; 0 for a single leaf or an empty tree.
func (t *DynamicTree) Height() int {
	if t.root == nullNode {
		return 0
	}
	return int(t.nodes[t.root].height)
}

// Len is the number of leaves.
func (t *DynamicTree) Len() int {
	return t.leaves
}

func (t *DynamicTree) insertLeaf(leaf NodeID) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	leafAABB := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		n := &t.nodes[index]
		left, right := n.left, n.right

		area := n.aabb.Area()
		combinedArea := n.aabb.Union(leafAABB).Area()

		// Cost of making a new parent for this node and the new leaf.
		cost := 2 * combinedArea
		// Minimum cost of pushing the leaf further down.
		inheritance := 2 * (combinedArea - area)

		costLeft := t.descendCost(left, leafAABB) + inheritance
		costRight := t.descendCost(right, leafAABB) + inheritance

		// Stopping above height 1 would hang the leaf beside a deep subtree
		// and break the height balance.
		if n.height <= 1 && cost < costLeft && cost < costRight {
			break
		}
		if costLeft <= costRight {
			index = left
		} else {
			index = right
		}
	}
	sibling := index

	oldParent := t.nodes[sibling].parent
	newParent := t.allocate()
	np := &t.nodes[newParent]
	np.parent = oldParent
	np.aabb = leafAABB.Union(t.nodes[sibling].aabb)
	np.height = t.nodes[sibling].height + 1
	np.left = sibling
	np.right = leaf

	if oldParent != nullNode {
		if t.nodes[oldParent].left == sibling {
			t.nodes[oldParent].left = newParent
		} else {
			t.nodes[oldParent].right = newParent
		}
	} else {
		t.root = newParent
	}
	t.nodes[sibling].parent = newParent
	t.nodes[leaf].parent = newParent

	t.refit(t.nodes[leaf].parent)
}

func (t *DynamicTree) descendCost(child NodeID, leafAABB AABB) float32 {
	c := &t.nodes[child]
	union := leafAABB.Union(c.aabb).Area()
	if c.isLeaf() {
		return union
	}
	return union - c.aabb.Area()
}

func (t *DynamicTree) removeLeaf(leaf NodeID) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	sibling := t.nodes[parent].left
	if sibling == leaf {
		sibling = t.nodes[parent].right
	}

	if grandParent == nullNode {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.free(parent)
		t.nodes[leaf].parent = nullNode
		return
	}

	if t.nodes[grandParent].left == parent {
		t.nodes[grandParent].left = sibling
	} else {
		t.nodes[grandParent].right = sibling
	}
	t.nodes[sibling].parent = grandParent
	t.free(parent)
	t.nodes[leaf].parent = nullNode

	t.refit(grandParent)
}

// refit walks from index to the root, rebalancing and recomputing heights
// and boxes.
func (t *DynamicTree) refit(index NodeID) {
	for index != nullNode {
		index = t.balance(index)

		n := &t.nodes[index]
		l, r := &t.nodes[n.left], &t.nodes[n.right]
		n.height = 1 + max(l.height, r.height)
		n.aabb = l.aabb.Union(r.aabb)

		index = n.parent
	}
}

// balance performs a left or right rotation if node a is imbalanced and
// returns the new subtree root.
func (t *DynamicTree) balance(iA NodeID) NodeID {
	A := &t.nodes[iA]
	if A.isLeaf() {
		return iA
	}

	iB, iC := A.left, A.right
	B, C := &t.nodes[iB], &t.nodes[iC]
	diff := C.height - B.height

	if diff > 1 {
		return t.rotateUp(iA, iC, iB, true)
	}
	if diff < -1 {
		return t.rotateUp(iA, iB, iC, false)
	}
	return iA
}

// rotateUp promotes child iUp (the taller child of iA) into iA's place.
// iOther is iA's remaining child. upIsRight says which side iUp was on.
func (t *DynamicTree) rotateUp(iA, iUp, iOther NodeID, upIsRight bool) NodeID {
	A := &t.nodes[iA]
	Up := &t.nodes[iUp]
	iF, iG := Up.left, Up.right
	F, G := &t.nodes[iF], &t.nodes[iG]

	Up.left = iA
	Up.parent = A.parent
	A.parent = iUp

	if Up.parent != nullNode {
		p := &t.nodes[Up.parent]
		if p.left == iA {
			p.left = iUp
		} else {
			p.right = iUp
		}
	} else {
		t.root = iUp
	}

	other := &t.nodes[iOther]
	// Keep the taller grandchild under Up, hand the shorter one to A.
	keep, give := iF, iG
	if F.height < G.height {
		keep, give = iG, iF
	}
	Up.right = keep
	if upIsRight {
		A.right = give
	} else {
		A.left = give
	}
	t.nodes[give].parent = iA

	if upIsRight {
		A.aabb = other.aabb.Union(t.nodes[give].aabb)
	} else {
		A.aabb = t.nodes[give].aabb.Union(other.aabb)
	}
	A.height = 1 + max(other.height, t.nodes[give].height)
	Up.aabb = A.aabb.Union(t.nodes[keep].aabb)
	Up.height = 1 + max(A.height, t.nodes[keep].height)

	return iUp
}

// Query calls fn for every leaf whose fat box overlaps box. Returning false
// from fn stops the query.
func (t *DynamicTree) Query(box AABB, fn func(id NodeID) bool) {
	if t.root == nullNode {
		return
	}
	stack := append(t.stack[:0], t.root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if !n.aabb.Intersects(box) {
			continue
		}
		if n.isLeaf() {
			if !fn(id) {
				break
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
	t.stack = stack[:0]
}

// QueryOverlaps returns the entities of all leaves overlapping box.
func (t *DynamicTree) QueryOverlaps(box AABB) []uint64 {
	var out []uint64
	t.Query(box, func(id NodeID) bool {
		out = append(out, t.nodes[id].entity)
		return true
	})
	return out
}

// RayCast visits leaves whose fat box is hit by the ray within maxDist. fn
// returns the distance to clip the ray to (return the current maxDist to
// keep going unchanged, 0 to stop).
func (t *DynamicTree) RayCast(origin, dir rl.Vector3, maxDist float32, fn func(id NodeID, maxDist float32) float32) {
	if t.root == nullNode {
		return
	}
	inv := rl.Vector3{X: 1 / dir.X, Y: 1 / dir.Y, Z: 1 / dir.Z}
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if _, ok := n.aabb.RayIntersect(origin, inv, maxDist); !ok {
			continue
		}
		if n.isLeaf() {
			maxDist = fn(id, maxDist)
			if maxDist <= 0 {
				return
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
}

// Validate checks the structural invariants of the tree.
func (t *DynamicTree) Validate() error {
	if t.root != nullNode && t.nodes[t.root].parent != nullNode {
		return fmt.Errorf("root %d has parent %d", t.root, t.nodes[t.root].parent)
	}
	leaves, reached, err := t.validateNode(t.root)
	if err != nil {
		return err
	}
	if leaves != t.leaves {
		return fmt.Errorf("leaf count %d, reachable %d", t.leaves, leaves)
	}
	free := 0
	for id := t.freeList; id != nullNode; id = t.nodes[id].parent {
		free++
		if free > len(t.nodes) {
			return fmt.Errorf("free list cycle")
		}
	}
	if reached+free != len(t.nodes) {
		return fmt.Errorf("%d reachable + %d free != %d nodes", reached, free, len(t.nodes))
	}
	return nil
}

func (t *DynamicTree) validateNode(id NodeID) (leaves, reached int, err error) {
	if id == nullNode {
		return 0, 0, nil
	}
	n := &t.nodes[id]
	if n.isLeaf() {
		if n.right != nullNode {
			return 0, 0, fmt.Errorf("leaf %d has right child", id)
		}
		if n.height != 0 {
			return 0, 0, fmt.Errorf("leaf %d has height %d", id, n.height)
		}
		return 1, 1, nil
	}
	for _, c := range [2]NodeID{n.left, n.right} {
		if t.nodes[c].parent != id {
			return 0, 0, fmt.Errorf("child %d of %d has parent %d", c, id, t.nodes[c].parent)
		}
		if !n.aabb.Contains(t.nodes[c].aabb) {
			return 0, 0, fmt.Errorf("node %d does not contain child %d", id, c)
		}
	}
	hl, hr := t.nodes[n.left].height, t.nodes[n.right].height
	if n.height != 1+max(hl, hr) {
		return 0, 0, fmt.Errorf("node %d height %d, children %d/%d", id, n.height, hl, hr)
	}
	if hl-hr > 1 || hr-hl > 1 {
		return 0, 0, fmt.Errorf("node %d unbalanced: %d/%d", id, hl, hr)
	}
	ll, lr, err := t.validateNode(n.left)
	if err != nil {
		return 0, 0, err
	}
	rLeaves, rr, err := t.validateNode(n.right)
	if err != nil {
		return 0, 0, err
	}
	return ll + rLeaves, lr + rr + 1, nil
}
