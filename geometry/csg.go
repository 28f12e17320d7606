package geometry

import (
	"math"
	"sort"

	"github.com/nthery/qdtracer/ray"
)

// CSGOp selects the boolean combination a CSG node applies to its operands.
type CSGOp int

const (
	CSGAnd   CSGOp = iota // intersection: inA && inB
	CSGOr                 // union: inA || inB
	CSGMinus              // subtraction: inA && !inB
)

func (op CSGOp) apply(inA, inB bool) bool {
	switch op {
	case CSGAnd:
		return inA && inB
	case CSGOr:
		return inA || inB
	default:
		return inA && !inB
	}
}

// maxCSGIterations caps the number of successive intersections enumerated
// per operand, a safety net against pathological ray/surface tangencies
// (spec.md §9 — preserved verbatim).
const maxCSGIterations = 30

// csgEpsilon offsets the next probe ray just past the previous hit so the
// same surface point is not re-discovered.
const csgEpsilon = 1e-6

// CSG combines two sub-geometries with a boolean operator. Ray origins are
// assumed to start outside both operands, the conventional simplifying
// assumption for this kind of surface-crossing walk.
type CSG struct {
	Left, Right Geometry
	Op          CSGOp
}

type csgCrossing struct {
	hit  ray.Hit
	side bool // true == belongs to Left (A)
}

// enumerateHits repeatedly intersects g along r, each time restarting just
// past the previous hit, up to maxCSGIterations times. The returned hits'
// Dist fields are cumulative offsets from the original ray origin r.Start —
// preserved verbatim per spec.md §9 Open Question 5 (this misreports true
// distance under compounding float error across iterations; it is kept
// as-is rather than "fixed", since sorting is all the CSG walk needs it for).
func enumerateHits(g Geometry, r ray.Ray) []ray.Hit {
	var hits []ray.Hit
	cur := r
	cumulative := 0.0
	for i := 0; i < maxCSGIterations; i++ {
		h := ray.Hit{Dist: math.Inf(1)}
		if !g.Intersect(cur, &h) {
			break
		}
		out := h
		out.Dist = cumulative + h.Dist
		hits = append(hits, out)

		cumulative += h.Dist + csgEpsilon
		cur = ray.Ray{
			Start: cur.At(h.Dist).Add(cur.Dir.Scale(csgEpsilon)),
			Dir:   cur.Dir,
			Depth: r.Depth,
			Flags: r.Flags,
		}
	}
	return hits
}

func (c CSG) Intersect(r ray.Ray, hit *ray.Hit) bool {
	leftHits := enumerateHits(c.Left, r)
	rightHits := enumerateHits(c.Right, r)

	crossings := make([]csgCrossing, 0, len(leftHits)+len(rightHits))
	for _, h := range leftHits {
		crossings = append(crossings, csgCrossing{h, true})
	}
	for _, h := range rightHits {
		crossings = append(crossings, csgCrossing{h, false})
	}
	sort.Slice(crossings, func(i, j int) bool { return crossings[i].hit.Dist < crossings[j].hit.Dist })

	inA, inB := false, false
	prev := c.Op.apply(inA, inB)
	for _, x := range crossings {
		if x.hit.Dist >= hit.Dist {
			break
		}
		if x.side {
			inA = !inA
		} else {
			inB = !inB
		}
		cur := c.Op.apply(inA, inB)
		if cur != prev {
			*hit = x.hit
			return true
		}
		prev = cur
	}
	return false
}
