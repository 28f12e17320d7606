package geometry

import (
	"math"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// BBox is an axis-aligned min/max pair. The zero value is a box collapsed
// onto the origin, not an empty one; EmptyBBox is the Add accumulator.
type BBox struct {
	Min, Max vec3.Vec3
}

// EmptyBBox returns a degenerate box ready to be grown with Add.
func EmptyBBox() BBox {
	inf := math.Inf(1)
	return BBox{Min: vec3.Vec3{X: inf, Y: inf, Z: inf}, Max: vec3.Vec3{X: -inf, Y: -inf, Z: -inf}}
}

// Add grows the box to include p.
func (b *BBox) Add(p vec3.Vec3) {
	b.Min = vec3.Min(b.Min, p)
	b.Max = vec3.Max(b.Max, p)
}

// Split cuts the box into two halves at pos along axis.
func (b BBox) Split(axis vec3.Axis, pos float64) (left, right BBox) {
	left, right = b, b
	left.Max.Set(axis, pos)
	right.Min.Set(axis, pos)
	return left, right
}

// Inside reports whether p lies within the box (inclusive).
func (b BBox) Inside(p vec3.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// TestIntersect is the classic slab test: does r enter the box at all
// (within [0, +inf))?
func (b BBox) TestIntersect(r ray.Ray) bool {
	tmin, tmax := 0.0, math.Inf(1)
	for axis := vec3.AxisX; axis <= vec3.AxisZ; axis++ {
		d := r.Dir.Get(axis)
		o := r.Start.Get(axis)
		lo, hi := b.Min.Get(axis), b.Max.Get(axis)
		if math.Abs(d) < 1e-15 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return false
		}
	}
	return true
}

// IntersectWall reports whether r crosses the splitting plane (axis, pos)
// at a parameter that lies within the box's extent on the ray's path, i.e.
// whether the ray genuinely straddles both children rather than living
// entirely in one of them.
func (b BBox) IntersectWall(axis vec3.Axis, pos float64, r ray.Ray) bool {
	d := r.Dir.Get(axis)
	if math.Abs(d) < 1e-15 {
		return false
	}
	t := (pos - r.Start.Get(axis)) / d
	if t < 0 {
		return false
	}
	p := r.At(t)
	return b.Inside(p)
}

// IntersectTriangle reports whether the triangle (A,B,C) overlaps the box,
// via separating-axis tests (Akenine-Moller): the triangle's own AABB
// against the box, then the nine edge-cross-axis tests, then the triangle
// plane against the box. Used by KD-tree construction to decide which
// child cell(s) a triangle belongs to; straddling triangles are kept in
// both (duplicated), never dropped.
func (b BBox) IntersectTriangle(a, c, d vec3.Vec3) bool {
	boxHalf := b.Max.Sub(b.Min).Scale(0.5)
	boxCenter := b.Min.Add(boxHalf)

	v0 := a.Sub(boxCenter)
	v1 := c.Sub(boxCenter)
	v2 := d.Sub(boxCenter)

	// Triangle AABB vs box AABB (cheap reject).
	triMin := vec3.Min(vec3.Min(v0, v1), v2)
	triMax := vec3.Max(vec3.Max(v0, v1), v2)
	for axis := vec3.AxisX; axis <= vec3.AxisZ; axis++ {
		if triMin.Get(axis) > boxHalf.Get(axis) || triMax.Get(axis) < -boxHalf.Get(axis) {
			return false
		}
	}

	e0 := v1.Sub(v0)
	e1 := v2.Sub(v1)
	e2 := v0.Sub(v2)

	axes := []vec3.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	edges := []vec3.Vec3{e0, e1, e2}
	for _, axVec := range axes {
		for _, e := range edges {
			axis := axVec.Cross(e)
			if axis.LengthSqr() < 1e-20 {
				continue
			}
			p0 := v0.Dot(axis)
			p1 := v1.Dot(axis)
			p2 := v2.Dot(axis)
			rad := boxHalf.X*math.Abs(axis.X) + boxHalf.Y*math.Abs(axis.Y) + boxHalf.Z*math.Abs(axis.Z)
			mn := math.Min(p0, math.Min(p1, p2))
			mx := math.Max(p0, math.Max(p1, p2))
			if mn > rad || mx < -rad {
				return false
			}
		}
	}

	// Plane vs box test.
	normal := e0.Cross(e1)
	if normal.LengthSqr() < 1e-20 {
		// Degenerate (zero-area) triangle: treat as non-overlapping.
		return false
	}
	dist := normal.Dot(v0)
	rad := boxHalf.X*math.Abs(normal.X) + boxHalf.Y*math.Abs(normal.Y) + boxHalf.Z*math.Abs(normal.Z)
	if dist > rad || dist < -rad {
		return false
	}

	return true
}
