// Package assoc keeps bidirectional relationships between entities.
//
// A Graph links values of a left kind (an entry, a view) to values of a right
// kind (an attachment, a row). Every edge is stored twice, once in each
// direction, so either side can be queried without scanning the other.
package assoc

import (
	"fmt"
)

// set is an insertion-ordered set.
type set[T comparable] struct {
	items []T
	index map[T]int
}

func newSet[T comparable]() *set[T] {
	return &set[T]{index: make(map[T]int)}
}

func (s *set[T]) add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

func (s *set[T]) remove(v T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, v)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

func (s *set[T]) has(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *set[T]) slice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Graph is a many-to-many relationship store with paired forward and back
// edges. The zero value is not usable; call New.
//
// Graph does no locking of its own.
type Graph[L, R comparable] struct {
	fwd  map[L]*set[R]
	back map[R]*set[L]
}

// New creates an empty graph
func New[L, R comparable]() *Graph[L, R] {
	return &Graph[L, R]{
		fwd:  make(map[L]*set[R]),
		back: make(map[R]*set[L]),
	}
}

// Link adds the edge l-r in both directions. It reports whether the edge is new.
func (g *Graph[L, R]) Link(l L, r R) bool {
	fs, ok := g.fwd[l]
	if !ok {
		fs = newSet[R]()
		g.fwd[l] = fs
	}
	if !fs.add(r) {
		return false
	}

	bs, ok := g.back[r]
	if !ok {
		bs = newSet[L]()
		g.back[r] = bs
	}
	bs.add(l)
	return true
}

// Unlink removes the edge l-r. It reports whether the edge existed.
func (g *Graph[L, R]) Unlink(l L, r R) bool {
	fs, ok := g.fwd[l]
	if !ok || !fs.remove(r) {
		return false
	}
	if len(fs.items) == 0 {
		delete(g.fwd, l)
	}

	if bs, ok := g.back[r]; ok {
		bs.remove(l)
		if len(bs.items) == 0 {
			delete(g.back, r)
		}
	}
	return true
}

// Linked reports whether the edge l-r exists
func (g *Graph[L, R]) Linked(l L, r R) bool {
	fs, ok := g.fwd[l]
	return ok && fs.has(r)
}

// Right returns the right-side values linked to l, in link order.
// The result is empty, not nil-with-error, when l has no edges.
func (g *Graph[L, R]) Right(l L) []R {
	fs, ok := g.fwd[l]
	if !ok {
		return []R{}
	}
	return fs.slice()
}

// Left returns the left-side values linked to r, in link order.
func (g *Graph[L, R]) Left(r R) []L {
	bs, ok := g.back[r]
	if !ok {
		return []L{}
	}
	return bs.slice()
}

// CountRight returns the number of edges leaving l.
func (g *Graph[L, R]) CountRight(l L) int {
	if fs, ok := g.fwd[l]; ok {
		return len(fs.items)
	}
	return 0
}

// CountLeft returns the number of edges arriving at r.
func (g *Graph[L, R]) CountLeft(r R) int {
	if bs, ok := g.back[r]; ok {
		return len(bs.items)
	}
	return 0
}

// RemoveLeft drops l and every edge touching it, returning its former neighbours.
func (g *Graph[L, R]) RemoveLeft(l L) []R {
	fs, ok := g.fwd[l]
	if !ok {
		return []R{}
	}
	delete(g.fwd, l)

	for _, r := range fs.items {
		if bs, ok := g.back[r]; ok {
			bs.remove(l)
			if len(bs.items) == 0 {
				delete(g.back, r)
			}
		}
	}
	return fs.items
}

// RemoveRight drops r and every edge touching it, returning its former neighbours.
func (g *Graph[L, R]) RemoveRight(r R) []L {
	bs, ok := g.back[r]
	if !ok {
		return []L{}
	}
	delete(g.back, r)

	for _, l := range bs.items {
		if fs, ok := g.fwd[l]; ok {
			fs.remove(r)
			if len(fs.items) == 0 {
				delete(g.fwd, l)
			}
		}
	}
	return bs.items
}

// Lefts returns every left value that has at least one edge.
func (g *Graph[L, R]) Lefts() []L {
	out := make([]L, 0, len(g.fwd))
	for l := range g.fwd {
		out = append(out, l)
	}
	return out
}

// Rights returns every right value that has at least one edge.
func (g *Graph[L, R]) Rights() []R {
	out := make([]R, 0, len(g.back))
	for r := range g.back {
		out = append(out, r)
	}
	return out
}

// Len returns the number of edges.
func (g *Graph[L, R]) Len() int {
	n := 0
	for _, fs := range g.fwd {
		n += len(fs.items)
	}
	return n
}

// Check verifies that every forward edge has its back edge and vice versa.
func (g *Graph[L, R]) Check() error {
	n := 0
	for l, fs := range g.fwd {
		if len(fs.items) == 0 {
			return fmt.Errorf("assoc: empty forward set left for %v", l)
		}
		for _, r := range fs.items {
			bs, ok := g.back[r]
			if !ok || !bs.has(l) {
				return fmt.Errorf("assoc: edge %v->%v has no back edge", l, r)
			}
			n++
		}
	}
	m := 0
	for r, bs := range g.back {
		if len(bs.items) == 0 {
			return fmt.Errorf("assoc: empty back set left for %v", r)
		}
		for _, l := range bs.items {
			fs, ok := g.fwd[l]
			if !ok || !fs.has(r) {
				return fmt.Errorf("assoc: edge %v<-%v has no forward edge", r, l)
			}
			m++
		}
	}
	if n != m {
		return fmt.Errorf("assoc: %d forward edges but %d back edges", n, m)
	}
	return nil
}
