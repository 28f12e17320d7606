package geometry

import (
	"fmt"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// Mesh is a triangle mesh with an optional KD-tree acceleration structure.
// Faceted disables shading-normal interpolation (every point on a triangle
// shades with the triangle's geometric normal). BackfaceCulling rejects
// hits where the ray travels with the surface instead of against it.
type Mesh struct {
	Triangles       []Triangle
	BBox            BBox
	Faceted         bool
	BackfaceCulling bool
	UseKDTree       bool

	kdRoot *kdNode
}

// MeshVertex bundles the raw face-vertex data a mesh loader hands in before
// per-triangle precomputation.
type MeshVertex struct {
	Pos    [3]float64
	Normal [3]float64
	UV     [2]float64
}

// NewMesh builds a mesh from OBJ-style flat vertex/normal/uv arrays plus a
// triangle index list (three vertex-array indices per triangle; normals and
// uvs are looked up at the same indices, matching per-vertex attribute
// layout after a loader has already deduplicated/expanded faces).
func NewMesh(vertices []MeshVertex, triIndices [][3]int, faceted, backfaceCulling, useKDTree bool) (*Mesh, error) {
	m := &Mesh{Faceted: faceted, BackfaceCulling: backfaceCulling, UseKDTree: useKDTree}
	m.BBox = EmptyBBox()

	for _, idx := range triIndices {
		for _, vi := range idx {
			if vi < 0 || vi >= len(vertices) {
				return nil, fmt.Errorf("mesh triangle references out-of-range vertex %d (have %d)", vi, len(vertices))
			}
		}
		va, vb, vc := vertices[idx[0]], vertices[idx[1]], vertices[idx[2]]
		a := vec3From(va.Pos)
		b := vec3From(vb.Pos)
		c := vec3From(vc.Pos)
		na := vec3From(va.Normal)
		nb := vec3From(vb.Normal)
		nc := vec3From(vc.Normal)
		uva := UV{va.UV[0], va.UV[1]}
		uvb := UV{vb.UV[0], vb.UV[1]}
		uvc := UV{vc.UV[0], vc.UV[1]}

		tri := NewTriangle(a, b, c, na, nb, nc, uva, uvb, uvc)
		m.Triangles = append(m.Triangles, tri)
		m.BBox.Add(a)
		m.BBox.Add(b)
		m.BBox.Add(c)
	}

	return m, nil
}

// BeginRender builds the KD-tree if requested. Called once during scene
// preparation, per spec.md §3 lifecycle.
func (m *Mesh) BeginRender() {
	if !m.UseKDTree || m.kdRoot != nil {
		return
	}
	indices := make([]int, len(m.Triangles))
	for i := range indices {
		indices[i] = i
	}
	m.kdRoot = buildKDTree(m.Triangles, indices, m.BBox, 0)
}

func (m *Mesh) Intersect(r ray.Ray, hit *ray.Hit) bool {
	if m.UseKDTree && m.kdRoot != nil {
		if !m.BBox.TestIntersect(r) {
			return false
		}
		return m.kdRoot.traverse(m.Triangles, m.BBox, r, m.Faceted, m.BackfaceCulling, hit)
	}
	found := false
	for i := range m.Triangles {
		if m.Triangles[i].Intersect(r, hit, m.Faceted, m.BackfaceCulling) {
			found = true
		}
	}
	return found
}

func vec3From(a [3]float64) vec3.Vec3 {
	return vec3.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
