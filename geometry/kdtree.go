package geometry

import (
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

const (
	maxTreeDepth     = 64
	trianglesPerLeaf = 20
)

// kdNode is either a leaf carrying an owned list of triangle indices, or an
// internal node split on an axis at a real-valued position, owning two
// children. Indices repeat across leaves whose cells overlap a straddling
// triangle — they are duplicated, never dropped.
type kdNode struct {
	leaf     bool
	indices  []int
	axis     vec3.Axis
	splitPos float64
	left     *kdNode
	right    *kdNode
}

// buildKDTree recursively partitions indices (into the mesh's Triangles
// slice) within bbox, splitting on depth mod 3 at the bbox midpoint. Surface
// area heuristic splits are an admissible improvement but not required to
// match behavior (spec.md §4.2).
func buildKDTree(tris []Triangle, indices []int, bbox BBox, depth int) *kdNode {
	if depth >= maxTreeDepth || len(indices) < trianglesPerLeaf {
		return &kdNode{leaf: true, indices: indices}
	}

	axis := vec3.Axis(depth % 3)
	splitPos := (bbox.Min.Get(axis) + bbox.Max.Get(axis)) / 2
	leftBox, rightBox := bbox.Split(axis, splitPos)

	var leftIdx, rightIdx []int
	for _, idx := range indices {
		tr := tris[idx]
		if leftBox.IntersectTriangle(tr.A, tr.B, tr.C) {
			leftIdx = append(leftIdx, idx)
		}
		if rightBox.IntersectTriangle(tr.A, tr.B, tr.C) {
			rightIdx = append(rightIdx, idx)
		}
	}

	// If the split failed to make progress (e.g. every triangle straddles),
	// stop recursing rather than infinite-looping on an unchanged set.
	if len(leftIdx) == len(indices) && len(rightIdx) == len(indices) {
		return &kdNode{leaf: true, indices: indices}
	}

	return &kdNode{
		leaf:     false,
		axis:     axis,
		splitPos: splitPos,
		left:     buildKDTree(tris, leftIdx, leftBox, depth+1),
		right:    buildKDTree(tris, rightIdx, rightBox, depth+1),
	}
}

// traverse walks the tree for the nearest triangle hit. At a leaf, a hit is
// accepted only if it lies within the leaf's bbox, to avoid double-counting
// hits from triangles duplicated into neighboring leaves. At an interior
// node, the nearer child (by comparing ray.Start[axis] to splitPos) is
// visited first; if the ray crosses the splitting wall within bbox, the
// farther child is visited too.
func (n *kdNode) traverse(tris []Triangle, bbox BBox, r ray.Ray, faceted, backfaceCulling bool, hit *ray.Hit) bool {
	if n == nil {
		return false
	}
	if n.leaf {
		found := false
		for _, idx := range n.indices {
			saved := *hit
			if tris[idx].Intersect(r, hit, faceted, backfaceCulling) {
				if bbox.Inside(hit.IP) {
					found = true
				} else {
					*hit = saved
				}
			}
		}
		return found
	}

	leftBox, rightBox := bbox.Split(n.axis, n.splitPos)
	nearNode, farNode := n.left, n.right
	nearBox, farBox := leftBox, rightBox
	if r.Start.Get(n.axis) > n.splitPos {
		nearNode, farNode = n.right, n.left
		nearBox, farBox = rightBox, leftBox
	}

	found := nearNode.traverse(tris, nearBox, r, faceted, backfaceCulling, hit)
	if bbox.IntersectWall(n.axis, n.splitPos, r) || !found {
		if farNode.traverse(tris, farBox, r, faceted, backfaceCulling, hit) {
			found = true
		}
	}
	return found
}
