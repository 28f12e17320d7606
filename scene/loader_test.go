package scene

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nthery/qdtracer/geometry"
	"github.com/nthery/qdtracer/texture"
)

// writeTestPNG writes a tiny solid-color PNG to dir/name and returns its path.
func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 64, B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
	return path
}

// writeTestOBJ writes a minimal single-triangle OBJ to dir/name and returns
// its path.
func writeTestOBJ(t *testing.T, dir, name string) string {
	t.Helper()
	const obj = `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

const testSceneJSON = `
{
  "settings": {
    "frameWidth": 64, "frameHeight": 48,
    "numThreads": 2, "maxRayDepth": 4,
    "backgroundColor": [0, 0, 0],
    "ambientLight": [0.05, 0.05, 0.05],
    "gamma": 2.2
  },
  "camera": {
    "position": [0, 0, 0],
    "fov": 60,
    "aspectRatio": 1.33
  },
  "lights": [
    { "type": "point", "position": [0, 5, 0], "color": [1, 1, 1], "power": 80 }
  ],
  "nodes": [
    {
      "name": "ball",
      "geometry": { "type": "sphere", "origin": [0, 0, 5], "radius": 2 },
      "shader": {
        "type": "phong",
        "color": [0.8, 0.2, 0.2],
        "specularExponent": 30,
        "specularMultiplier": 0.4,
        "texture": { "type": "checker", "color1": [0, 0, 0], "color2": [1, 1, 1], "scaling": 2 }
      },
      "transform": { "offset": [0, 0, 0] }
    },
    {
      "name": "carved",
      "geometry": {
        "type": "csgMinus",
        "left": { "type": "cube", "origin": [0, 0, 0], "halfSide": 2 },
        "right": { "type": "sphere", "origin": [0, 0, 0], "radius": 2.2 }
      },
      "shader": { "type": "refl", "multiplier": 0.9, "glossiness": 1 },
      "transform": { "offset": [3, 0, 5] }
    }
  ]
}
`

func TestLoadParsesCompleteScene(t *testing.T) {
	sc, err := Load([]byte(testSceneJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Settings.FrameWidth != 64 || sc.Settings.FrameHeight != 48 {
		t.Errorf("unexpected frame size %dx%d", sc.Settings.FrameWidth, sc.Settings.FrameHeight)
	}
	if len(sc.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(sc.Lights))
	}
	if len(sc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(sc.Nodes))
	}
	if sc.Nodes[0].Shader == nil {
		t.Errorf("expected node 0 shader to be parsed")
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("expected loaded scene to validate, got %v", err)
	}
}

func TestLoadRejectsUnknownGeometryType(t *testing.T) {
	const bad = `{"settings":{"frameWidth":1,"frameHeight":1,"numThreads":1,"maxRayDepth":1,"gamma":1},
	"camera":{"fov":60,"aspectRatio":1},
	"nodes":[{"name":"x","geometry":{"type":"torus"},"shader":{"type":"lambert"}}]}`
	if _, err := Load([]byte(bad)); err == nil {
		t.Errorf("expected error for unknown geometry type")
	}
}

func TestLoadRejectsMissingRequiredProperty(t *testing.T) {
	const bad = `{"settings":{"frameWidth":1,"frameHeight":1,"numThreads":1,"maxRayDepth":1,"gamma":1},
	"camera":{"fov":60,"aspectRatio":1},
	"nodes":[{"name":"x","geometry":{"type":"sphere","origin":[0,0,0]},"shader":{"type":"lambert"}}]}`
	if _, err := Load([]byte(bad)); err == nil {
		t.Errorf("expected error for sphere missing radius")
	}
}

func TestLoadParsesMeshNode(t *testing.T) {
	dir := t.TempDir()
	objPath := writeTestOBJ(t, dir, "tri.obj")

	doc := `{"settings":{"frameWidth":1,"frameHeight":1,"numThreads":1,"maxRayDepth":1,"gamma":1},
	"camera":{"fov":60,"aspectRatio":1},
	"nodes":[{"name":"tri","geometry":{"type":"mesh","file":` + jsonString(objPath) + `},"shader":{"type":"lambert"}}]}`

	sc, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sc.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(sc.Nodes))
	}
	if _, ok := sc.Nodes[0].Geometry.(*geometry.Mesh); !ok {
		t.Errorf("expected node geometry to be *geometry.Mesh, got %T", sc.Nodes[0].Geometry)
	}
}

func TestLoadParsesBumpAndBumpsTexture(t *testing.T) {
	dir := t.TempDir()
	bmpPath := writeTestPNG(t, dir, "bump.png")

	doc := `{"settings":{"frameWidth":1,"frameHeight":1,"numThreads":1,"maxRayDepth":1,"gamma":1},
	"camera":{"fov":60,"aspectRatio":1},
	"nodes":[
	  {"name":"a","geometry":{"type":"sphere","origin":[0,0,0],"radius":1},"shader":{"type":"lambert"},
	   "bump":{"type":"bump","file":` + jsonString(bmpPath) + `,"strength":0.5}},
	  {"name":"b","geometry":{"type":"sphere","origin":[2,0,0],"radius":1},"shader":{"type":"lambert"},
	   "bump":{"type":"bumps","strength":0.3}}
	]}`

	sc, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(sc.Nodes))
	}
	if _, ok := sc.Nodes[0].Bump.(*texture.BumpTexture); !ok {
		t.Errorf("expected node 0 bump to be *texture.BumpTexture, got %T", sc.Nodes[0].Bump)
	}
	if _, ok := sc.Nodes[1].Bump.(texture.Bumps); !ok {
		t.Errorf("expected node 1 bump to be texture.Bumps, got %T", sc.Nodes[1].Bump)
	}
}

func TestLoadParsesEnvironment(t *testing.T) {
	dir := t.TempDir()
	envPath := writeTestPNG(t, dir, "env.png")

	doc := `{"settings":{"frameWidth":1,"frameHeight":1,"numThreads":1,"maxRayDepth":1,"gamma":1},
	"camera":{"fov":60,"aspectRatio":1},
	"environment":{"file":` + jsonString(envPath) + `},
	"nodes":[]}`

	sc, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Environment == nil {
		t.Fatal("expected scene Environment to be set")
	}
	if err := sc.Environment.Validate(); err != nil {
		t.Errorf("expected environment to validate, got %v", err)
	}
}

// jsonString quotes s as a JSON string literal for inline test documents.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
