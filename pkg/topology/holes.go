package topology

// FindHoles reconstructs the mesh's boundary loops: each hole is an
// ordered vertex sequence tracing a connected run of boundary edges.
// A watertight mesh returns no holes.
//
// The walk consumes every boundary edge exactly once. Seeds and
// tie-breaks follow edge first-seen order, so output is deterministic
// for a given face ordering. Where a boundary vertex has three or more
// incident boundary edges (non-manifold boundary junction) the walk
// takes the lowest-index unused edge; the resulting partition into
// loops is one of several valid traversals, not a canonical one.
//
// Dangling boundary runs that do not close into a cycle are emitted as
// open paths: the walk simply stops when no unused incident edge
// remains. That is valid output, not an error.
func (a *Analyzer) FindHoles() [][]int {
	// Collect boundary edges (buckets of exactly one face) in
	// first-seen order.
	var boundary []Edge
	for _, e := range a.edgeOrder {
		if len(a.edgeFaces[e]) == 1 {
			boundary = append(boundary, e)
		}
	}
	if len(boundary) == 0 {
		return nil
	}

	// Vertex-indexed adjacency over the boundary edges, replacing the
	// linear scan-per-step with an O(1) next-edge lookup. Entries are
	// ascending edge indices, which gives the lowest-index tie-break
	// for free.
	incident := make(map[int][]int)
	for i, e := range boundary {
		incident[e.A] = append(incident[e.A], i)
		if e.B != e.A {
			incident[e.B] = append(incident[e.B], i)
		}
	}

	used := make([]bool, len(boundary))
	var holes [][]int

	for start := range boundary {
		if used[start] {
			continue
		}
		// Seed a new loop with both endpoints of the first remaining
		// edge, in canonical order; walk from the second endpoint.
		used[start] = true
		seed := boundary[start]
		loop := []int{seed.A, seed.B}
		cursor := seed.B

		for {
			next := -1
			for _, ei := range incident[cursor] {
				if !used[ei] {
					next = ei
					break
				}
			}
			if next == -1 {
				break // loop closed or dangling end: walk terminates
			}
			used[next] = true

			other := boundary[next].A
			if other == cursor {
				other = boundary[next].B
			}
			if other == loop[0] {
				// Closing edge back to the seed vertex: the loop is
				// complete. The start vertex is not repeated.
				break
			}
			loop = append(loop, other)
			cursor = other
		}
		holes = append(holes, loop)
	}
	return holes
}
