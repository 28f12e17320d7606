package geometry

import (
	"math"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// UV is a 2D texture coordinate pair.
type UV struct{ U, V float64 }

// Triangle is a mesh primitive, never exposed directly as a Geometry — only
// Mesh intersects against its Triangles. Every field below is precomputed
// once at mesh build time so the per-ray hot path does no vertex-array
// indirection.
type Triangle struct {
	A, B, C       vec3.Vec3
	AB, AC, ABxAC vec3.Vec3
	GNormal       vec3.Vec3 // unit geometric normal; GNormal == normalize(AB x AC)
	NA, NB, NC    vec3.Vec3 // per-vertex shading normals (ignored when Mesh.Faceted)
	UVA, UVB, UVC UV
	DNdx, DNdy    vec3.Vec3 // tangent-plane normal derivatives, for bump textures
}

// NewTriangle precomputes the derived fields from three vertex positions,
// their shading normals and UVs.
func NewTriangle(a, b, c vec3.Vec3, na, nb, nc vec3.Vec3, uva, uvb, uvc UV) Triangle {
	ab := b.Sub(a)
	ac := c.Sub(a)
	abXac := ab.Cross(ac)
	gn := abXac.Normalize()

	t := Triangle{
		A: a, B: b, C: c,
		AB: ab, AC: ac, ABxAC: abXac,
		GNormal: gn,
		NA:      na, NB: nb, NC: nc,
		UVA: uva, UVB: uvb, UVC: uvc,
	}
	t.DNdx, t.DNdy = computeTangentDerivatives(t)
	return t
}

// computeTangentDerivatives solves for the world-space directions dP/du and
// dP/dv from the triangle's edge vectors and UV deltas, which the bump
// texture stage perturbs the normal along.
func computeTangentDerivatives(t Triangle) (dndx, dndy vec3.Vec3) {
	du1, dv1 := t.UVB.U-t.UVA.U, t.UVB.V-t.UVA.V
	du2, dv2 := t.UVC.U-t.UVA.U, t.UVC.V-t.UVA.V
	det := du1*dv2 - du2*dv1
	if math.Abs(det) < 1e-12 {
		return vec3.Zero, vec3.Zero
	}
	invDet := 1 / det
	dndx = t.AB.Scale(dv2 * invDet).Sub(t.AC.Scale(dv1 * invDet))
	dndy = t.AC.Scale(du1 * invDet).Sub(t.AB.Scale(du2 * invDet))
	return dndx, dndy
}

// Intersect runs a Moller-Trumbore-style solve against this triangle.
// faceted disables shading-normal interpolation (uses GNormal for every
// point on the face); backfaceCulling rejects hits where the ray travels
// with the geometric normal instead of against it. Per spec.md §4.1, hit is
// only written once the intersection is accepted AND strictly closer than
// hit.Dist on entry.
func (t Triangle) Intersect(r ray.Ray, hit *ray.Hit, faceted, backfaceCulling bool) bool {
	pvec := r.Dir.Cross(t.AC)
	det := t.AB.Dot(pvec) // det == -(ABxAC . dir) up to sign convention
	if math.Abs(det) < 1e-12 {
		return false
	}
	invDet := 1 / det

	tvec := r.Start.Sub(t.A)
	lambda2 := tvec.Dot(pvec) * invDet
	if lambda2 < 0 || lambda2 > 1 {
		return false
	}

	qvec := tvec.Cross(t.AB)
	lambda3 := r.Dir.Dot(qvec) * invDet
	if lambda3 < 0 || lambda2+lambda3 > 1 {
		return false
	}

	dist := t.AC.Dot(qvec) * invDet
	if dist <= 1e-9 || dist >= hit.Dist {
		return false
	}

	if backfaceCulling && r.Dir.Dot(t.GNormal) > 0 {
		return false
	}

	lambda1 := 1 - lambda2 - lambda3

	hit.Dist = dist
	hit.IP = r.At(dist)
	if faceted {
		hit.Normal = t.GNormal
	} else {
		n := t.NA.Scale(lambda1).Add(t.NB.Scale(lambda2)).Add(t.NC.Scale(lambda3))
		hit.Normal = n.Normalize()
	}
	hit.U = t.UVA.U*lambda1 + t.UVB.U*lambda2 + t.UVC.U*lambda3
	hit.V = t.UVA.V*lambda1 + t.UVB.V*lambda2 + t.UVC.V*lambda3
	hit.DNdx = t.DNdx
	hit.DNdy = t.DNdy
	return true
}

// AABB returns the triangle's own bounding box, used by KD-tree construction.
func (t Triangle) AABB() BBox {
	b := EmptyBBox()
	b.Add(t.A)
	b.Add(t.B)
	b.Add(t.C)
	return b
}
