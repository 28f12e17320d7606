// Package meshio loads triangle meshes from external files into the
// geometry.MeshVertex/index-triple shape geometry.NewMesh expects. Wavefront
// OBJ has no third-party decoder anywhere in the example corpus, so it is
// parsed with the standard library's bufio/strconv, the way the teacher's
// own JSON scene format is decoded with the standard library rather than a
// third-party schema validator; glTF, in contrast, is decoded through
// github.com/qmuntal/gltf (see gltf.go) since the pack supplies it.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nthery/qdtracer/geometry"
)

// LoadOBJ parses a (very small subset of) Wavefront OBJ: v/vn/vt records and
// f records with 3 or more vertices (polygons are fan-triangulated). Faces may use
// bare vertex indices ("f 1 2 3") or the full "v/vt/vn" form; missing
// normals/uvs are left zero, matching the original engine's OBJ loader,
// which likewise tolerated meshes without per-vertex normals by falling
// back to the triangle's geometric normal (geometry.Mesh.Faceted serves the
// same purpose here).
func LoadOBJ(r io.Reader) ([]geometry.MeshVertex, [][3]int, error) {
	var positions, normals [][3]float64
	var uvs [][2]float64
	var verts []geometry.MeshVertex
	seen := map[[3]int]int{}
	var tris [][3]int

	resolve := func(key [3]int) int {
		if idx, ok := seen[key]; ok {
			return idx
		}
		v := geometry.MeshVertex{}
		if key[0] > 0 && key[0] <= len(positions) {
			v.Pos = positions[key[0]-1]
		}
		if key[1] > 0 && key[1] <= len(uvs) {
			v.UV = uvs[key[1]-1]
		}
		if key[2] > 0 && key[2] <= len(normals) {
			v.Normal = normals[key[2]-1]
		}
		idx := len(verts)
		verts = append(verts, v)
		seen[key] = idx
		return idx
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseFloat3(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("meshio: obj line %d: %w", lineNo, err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseFloat3(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("meshio: obj line %d: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "vt":
			if len(fields) < 3 {
				return nil, nil, fmt.Errorf("meshio: obj line %d: vt needs 2 components", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, nil, fmt.Errorf("meshio: obj line %d: invalid vt", lineNo)
			}
			uvs = append(uvs, [2]float64{u, v})
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("meshio: obj line %d: face needs at least 3 vertices", lineNo)
			}
			idxs := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				key, err := parseFaceVertex(f)
				if err != nil {
					return nil, nil, fmt.Errorf("meshio: obj line %d: %w", lineNo, err)
				}
				idxs = append(idxs, resolve(key))
			}
			for i := 1; i+1 < len(idxs); i++ {
				tris = append(tris, [3]int{idxs[0], idxs[i], idxs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("meshio: reading obj: %w", err)
	}
	return verts, tris, nil
}

func parseFloat3(fields []string) ([3]float64, error) {
	var out [3]float64
	if len(fields) < 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFaceVertex parses one OBJ face-vertex token ("v", "v/vt", "v//vn" or
// "v/vt/vn") into a (posIdx, uvIdx, normalIdx) key, 1-based as OBJ stores
// them (0 means absent).
func parseFaceVertex(tok string) ([3]int, error) {
	var key [3]int
	parts := strings.Split(tok, "/")
	for i, p := range parts {
		if i > 2 || p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return key, fmt.Errorf("invalid face index %q", tok)
		}
		key[i] = v
	}
	return key, nil
}
