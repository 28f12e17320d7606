package meshio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/nthery/qdtracer/geometry"
)

// LoadGLTF decodes every mesh primitive of every mesh in path (.gltf or
// .glb) through github.com/qmuntal/gltf, reading POSITION/NORMAL/TEXCOORD_0
// accessors via its modeler helpers. Primitives using a topology other than
// triangles are skipped, since this engine has no polyline/point renderer.
func LoadGLTF(path string) ([]geometry.MeshVertex, [][3]int, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("meshio: opening gltf %s: %w", path, err)
	}

	var verts []geometry.MeshVertex
	var tris [][3]int

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}

			posAccessor, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("meshio: reading gltf positions: %w", err)
			}

			var normals [][3]float32
			if normAccessor, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = modeler.ReadNormal(doc, doc.Accessors[normAccessor], nil)
				if err != nil {
					return nil, nil, fmt.Errorf("meshio: reading gltf normals: %w", err)
				}
			}

			var uvs [][2]float32
			if uvAccessor, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvAccessor], nil)
				if err != nil {
					return nil, nil, fmt.Errorf("meshio: reading gltf uvs: %w", err)
				}
			}

			base := len(verts)
			for i, p := range positions {
				v := geometry.MeshVertex{Pos: [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}}
				if i < len(normals) {
					n := normals[i]
					v.Normal = [3]float64{float64(n[0]), float64(n[1]), float64(n[2])}
				}
				if i < len(uvs) {
					uv := uvs[i]
					v.UV = [2]float64{float64(uv[0]), float64(uv[1])}
				}
				verts = append(verts, v)
			}

			if prim.Indices == nil {
				for i := 0; i+2 < len(positions); i += 3 {
					tris = append(tris, [3]int{base + i, base + i + 1, base + i + 2})
				}
				continue
			}
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, nil, fmt.Errorf("meshio: reading gltf indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				tris = append(tris, [3]int{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				})
			}
		}
	}
	return verts, tris, nil
}
