package physics

import (
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pair is a canonical candidate pair: A < B.
type Pair struct {
	A, B uint64
}

// MakePair orders two entity ids.
func MakePair(a, b uint64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (p Pair) Less(o Pair) bool {
	if p.A != o.A {
		return p.A < o.A
	}
	return p.B < o.B
}

// Manifold is the set of contacts between one pair in one tick.
type Manifold struct {
	Pair
	Points [MaxContacts]Contact
	Count  int
	Normal rl.Vector3

	RelativeNormalSpeed float32
	ImpactImpulse       float32
	ImpactEnergy        float32

	objA, objB *engine.GameObject
}

func (m *Manifold) Contacts() []Contact {
	return m.Points[:m.Count]
}

// Deepest returns the contact with the largest penetration.
func (m *Manifold) Deepest() Contact {
	best := m.Points[0]
	for _, c := range m.Points[1:m.Count] {
		if c.Penetration > best.Penetration {
			best = c
		}
	}
	return best
}

func (m *Manifold) MaxPenetration() float32 {
	return m.Deepest().Penetration
}

// setContacts copies contacts and derives the penetration-weighted normal.
func (m *Manifold) setContacts(cs []Contact) {
	m.Count = copy(m.Points[:], cs)
	var sum rl.Vector3
	var weight float32
	for _, c := range m.Contacts() {
		w := c.Penetration
		if w <= 0 {
			w = 1e-6
		}
		sum = rl.Vector3Add(sum, rl.Vector3Scale(c.Normal, w))
		weight += w
	}
	if l := rl.Vector3Length(sum); l > 1e-9 {
		m.Normal = rl.Vector3Scale(sum, 1/l)
	} else {
		m.Normal = m.Points[0].Normal
	}
}

// ManifoldSet holds one tick's manifolds with lookup by pair. The slice is
// kept across ticks to avoid reallocating.
type ManifoldSet struct {
	list  []Manifold
	index map[Pair]int
}

func NewManifoldSet() *ManifoldSet {
	return &ManifoldSet{index: make(map[Pair]int)}
}

func (s *ManifoldSet) Reset() {
	s.list = s.list[:0]
	clear(s.index)
}

// Add stores m, replacing any manifold already recorded for its pair.
func (s *ManifoldSet) Add(m Manifold) {
	if i, ok := s.index[m.Pair]; ok {
		s.list[i] = m
		return
	}
	s.index[m.Pair] = len(s.list)
	s.list = append(s.list, m)
}

func (s *ManifoldSet) Get(p Pair) (*Manifold, bool) {
	i, ok := s.index[p]
	if !ok {
		return nil, false
	}
	return &s.list[i], true
}

func (s *ManifoldSet) Has(p Pair) bool {
	_, ok := s.index[p]
	return ok
}

func (s *ManifoldSet) Len() int {
	return len(s.list)
}

// All returns the manifolds in insertion order. The slice is only valid
// until the next Reset.
func (s *ManifoldSet) All() []Manifold {
	return s.list
}

// manifoldHistory is the double buffer of current and previous manifolds.
type manifoldHistory struct {
	current  *ManifoldSet
	previous *ManifoldSet
}

func newManifoldHistory() manifoldHistory {
	return manifoldHistory{current: NewManifoldSet(), previous: NewManifoldSet()}
}

// Rotate makes the current set the previous one and clears current.
func (h *manifoldHistory) Rotate() {
	h.current, h.previous = h.previous, h.current
	h.current.Reset()
}
