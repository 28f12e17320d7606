package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nthery/qdtracer/camera"
	"github.com/nthery/qdtracer/geometry"
	"github.com/nthery/qdtracer/light"
	"github.com/nthery/qdtracer/meshio"
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/shading"
	"github.com/nthery/qdtracer/texture"
	"github.com/nthery/qdtracer/vec3"
	"github.com/nthery/qdtracer/xform"
)

// taggedBlock is the common envelope every geometry/shader/texture/light
// JSON block carries: a "type" discriminator plus whatever properties that
// type defines, read out through a ParsedBlock rather than unmarshaled
// straight into a concrete struct — so an element with an unknown or
// missing property fails the same tolerant way the original scene parser
// did (spec.md §4.8), instead of a silent zero value from json.Unmarshal.
type taggedBlock struct {
	Type string                     `json:"type"`
	Rest map[string]json.RawMessage `json:"-"`
}

func (t *taggedBlock) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if typ, ok := m["type"]; ok {
		if err := json.Unmarshal(typ, &t.Type); err != nil {
			return err
		}
	}
	t.Rest = m
	return nil
}

func (t *taggedBlock) block(element string) *jsonBlock { return newJSONBlock(element, t.Rest) }

type transformDoc struct {
	Offset *[3]float64 `json:"offset"`
	Scale  *[3]float64 `json:"scale"`
	Yaw    float64     `json:"yaw"`
	Pitch  float64     `json:"pitch"`
	Roll   float64     `json:"roll"`
}

func (d transformDoc) toTransform() xform.Transform {
	t := xform.NewTransform()
	if d.Offset != nil {
		t.Offset = vec3.New(d.Offset[0], d.Offset[1], d.Offset[2])
	}
	if d.Scale != nil {
		t.Scale = vec3.New(d.Scale[0], d.Scale[1], d.Scale[2])
	}
	t.Rotation = xform.EulerZXY(deg2rad(d.Yaw), deg2rad(d.Pitch), deg2rad(d.Roll))
	return t
}

func deg2rad(d float64) float64 { return d * 3.14159265358979323846 / 180 }

type nodeDoc struct {
	Name      string          `json:"name"`
	Geometry  json.RawMessage `json:"geometry"`
	Shader    json.RawMessage `json:"shader"`
	Bump      json.RawMessage `json:"bump"`
	Transform transformDoc    `json:"transform"`
}

type sceneDoc struct {
	Settings    Settings        `json:"settings"`
	Camera      cameraDoc       `json:"camera"`
	Lights      []taggedBlock   `json:"lights"`
	Nodes       []nodeDoc       `json:"nodes"`
	Environment json.RawMessage `json:"environment"`
}

type cameraDoc struct {
	Position    [3]float64 `json:"position"`
	Yaw         float64    `json:"yaw"`
	Pitch       float64    `json:"pitch"`
	Roll        float64    `json:"roll"`
	FOV         float64    `json:"fov"`
	AspectRatio      float64    `json:"aspectRatio"`
	DOF              bool       `json:"dof"`
	FNumber          float64    `json:"fNumber"`
	FocalPlaneDist   float64    `json:"focalPlaneDist"`
	NumSamples       int        `json:"numSamples"`
	Autofocus        bool       `json:"autofocus"`
	StereoSeparation float64    `json:"stereoSeparation"`
}

func (d cameraDoc) toCamera() *camera.Camera {
	return &camera.Camera{
		Position:         vec3.New(d.Position[0], d.Position[1], d.Position[2]),
		Yaw:              d.Yaw,
		Pitch:            d.Pitch,
		Roll:             d.Roll,
		FOV:              d.FOV,
		AspectRatio:      d.AspectRatio,
		DOF:              d.DOF,
		FNumber:          d.FNumber,
		FocalPlaneDist:   d.FocalPlaneDist,
		NumSamples:       d.NumSamples,
		Autofocus:        d.Autofocus,
		StereoSeparation: d.StereoSeparation,
	}
}

// Load decodes a JSON scene document, the way the teacher's goray CLI
// decodes its JSON-encoded raytracer.Scene, generalized to dispatch each
// node's geometry/shader/texture on a "type" tag through ParsedBlock rather
// than fixed struct fields.
func Load(data []byte) (*Scene, error) {
	var doc sceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parsing json: %w", err)
	}

	sc := &Scene{
		Settings: doc.Settings,
		Camera:   doc.Camera.toCamera(),
	}

	for i := range doc.Lights {
		l, err := parseLight(&doc.Lights[i])
		if err != nil {
			return nil, err
		}
		sc.Lights = append(sc.Lights, l)
	}

	for _, nd := range doc.Nodes {
		node, err := parseNode(nd)
		if err != nil {
			return nil, err
		}
		sc.Nodes = append(sc.Nodes, node)
	}

	if len(doc.Environment) > 0 {
		env, err := parseEnvironment(doc.Environment)
		if err != nil {
			return nil, err
		}
		sc.Environment = env
	}

	return sc, nil
}

// parseEnvironment loads the bitmap backing an equirectangular environment
// lookup, the way parseTexture's "bitmap" case loads a surface texture's
// bitmap.
func parseEnvironment(raw json.RawMessage) (*texture.Environment, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, newSceneError("environment", "", err)
	}
	b := newJSONBlock("environment", m)
	var path string
	if !b.GetStringProp("file", &path) {
		return nil, b.RequiredProp("file")
	}
	bmp, err := texture.LoadBitmap(path)
	if err != nil {
		return nil, newSceneError("environment", "file", err)
	}
	return &texture.Environment{Bitmap: bmp}, nil
}

func parseNode(nd nodeDoc) (*Node, error) {
	geom, err := parseGeometry(nd.Geometry, nd.Name)
	if err != nil {
		return nil, err
	}
	shader, err := parseShader(nd.Shader, nd.Name)
	if err != nil {
		return nil, err
	}
	var bump texture.Texture
	if len(nd.Bump) > 0 {
		bump, err = parseTexture(nd.Bump, nd.Name)
		if err != nil {
			return nil, err
		}
	}
	return &Node{
		Name:      nd.Name,
		Geometry:  geom,
		Shader:    shader,
		Bump:      bump,
		Transform: nd.Transform.toTransform(),
	}, nil
}

func decodeTag(raw json.RawMessage, element string) (*taggedBlock, error) {
	var tb taggedBlock
	if err := json.Unmarshal(raw, &tb); err != nil {
		return nil, newSceneError(element, "", err)
	}
	return &tb, nil
}

func parseGeometry(raw json.RawMessage, element string) (geometry.Geometry, error) {
	tb, err := decodeTag(raw, element)
	if err != nil {
		return nil, err
	}
	b := tb.block(element)

	switch tb.Type {
	case "sphere":
		var o vec3.Vec3
		var r float64
		b.GetVectorProp("origin", &o)
		if !b.GetDoubleProp("radius", &r) {
			return nil, b.RequiredProp("radius")
		}
		return geometry.Sphere{O: o, R: r}, nil
	case "plane":
		var y, limit float64
		b.GetDoubleProp("y", &y)
		b.GetDoubleProp("limit", &limit)
		return geometry.Plane{Y: y, Limit: limit}, nil
	case "cube":
		var o vec3.Vec3
		var half float64
		b.GetVectorProp("origin", &o)
		if !b.GetDoubleProp("halfSide", &half) {
			return nil, b.RequiredProp("halfSide")
		}
		return geometry.Cube{O: o, HalfSide: half}, nil
	case "mesh":
		var path string
		var faceted, backfaceCulling, useKDTree bool
		backfaceCulling = true
		useKDTree = true
		if !b.GetStringProp("file", &path) {
			return nil, b.RequiredProp("file")
		}
		b.GetBoolProp("faceted", &faceted)
		b.GetBoolProp("backfaceCulling", &backfaceCulling)
		b.GetBoolProp("useKDTree", &useKDTree)
		verts, tris, err := loadMeshFile(path)
		if err != nil {
			return nil, newSceneError(element, "file", err)
		}
		mesh, err := geometry.NewMesh(verts, tris, faceted, backfaceCulling, useKDTree)
		if err != nil {
			return nil, newSceneError(element, "file", err)
		}
		return mesh, nil
	case "csgAnd", "csgOr", "csgMinus":
		left, leftOK := tb.Rest["left"]
		right, rightOK := tb.Rest["right"]
		if !leftOK || !rightOK {
			return nil, newSceneError(element, "left/right", fmt.Errorf("csg node needs both operands"))
		}
		lg, err := parseGeometry(left, element+".left")
		if err != nil {
			return nil, err
		}
		rg, err := parseGeometry(right, element+".right")
		if err != nil {
			return nil, err
		}
		op := map[string]geometry.CSGOp{
			"csgAnd": geometry.CSGAnd, "csgOr": geometry.CSGOr, "csgMinus": geometry.CSGMinus,
		}[tb.Type]
		return geometry.CSG{Left: lg, Right: rg, Op: op}, nil
	default:
		return nil, newSceneError(element, "geometry.type", fmt.Errorf("unknown geometry type %q", tb.Type))
	}
}

// loadMeshFile dispatches to the OBJ or glTF reader by file extension, the
// way the teacher's CLI picks a decoder off a file's suffix rather than
// sniffing content.
func loadMeshFile(path string) ([]geometry.MeshVertex, [][3]int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return meshio.LoadOBJ(f)
	case ".gltf", ".glb":
		return meshio.LoadGLTF(path)
	default:
		return nil, nil, fmt.Errorf("mesh: unrecognized file extension %q", filepath.Ext(path))
	}
}

func parseShader(raw json.RawMessage, element string) (shading.Shader, error) {
	tb, err := decodeTag(raw, element)
	if err != nil {
		return nil, err
	}
	b := tb.block(element)

	tex, err := parseOptionalTexture(tb, element)
	if err != nil {
		return nil, err
	}

	switch tb.Type {
	case "lambert":
		var c radiance.Color
		b.GetColorProp("color", &c)
		return shading.Lambert{Color: c, Texture: tex}, nil
	case "phong":
		var c radiance.Color
		var exp, mul float64
		b.GetColorProp("color", &c)
		b.GetDoubleProp("specularExponent", &exp)
		b.GetDoubleProp("specularMultiplier", &mul)
		return shading.Phong{Color: c, SpecularExponent: exp, SpecularMultiplier: mul, Texture: tex}, nil
	case "refl":
		var mul, gloss float64
		var n int
		mul = 1
		gloss = 1
		b.GetDoubleProp("multiplier", &mul)
		b.GetDoubleProp("glossiness", &gloss)
		b.GetIntProp("numSamples", &n)
		if n == 0 {
			n = 1
		}
		return shading.Refl{Multiplier: mul, Glossiness: gloss, NumSamples: n}, nil
	case "refr":
		var ior, mul float64
		mul = 1
		b.GetDoubleProp("ior", &ior)
		b.GetDoubleProp("multiplier", &mul)
		return shading.Refr{IOR: ior, Multiplier: mul}, nil
	case "const":
		var c radiance.Color
		b.GetColorProp("color", &c)
		return shading.Const{Color: c}, nil
	case "layered":
		layersRaw, ok := tb.Rest["layers"]
		if !ok {
			return nil, b.RequiredProp("layers")
		}
		var rawLayers []struct {
			Shader  json.RawMessage `json:"shader"`
			Blend   [3]float64      `json:"blend"`
			Texture json.RawMessage `json:"texture"`
		}
		if err := json.Unmarshal(layersRaw, &rawLayers); err != nil {
			return nil, newSceneError(element, "layers", err)
		}
		layered := shading.Layered{}
		for i, rl := range rawLayers {
			sub, err := parseShader(rl.Shader, fmt.Sprintf("%s.layers[%d]", element, i))
			if err != nil {
				return nil, err
			}
			entry := shading.LayeredEntry{
				Shader: sub,
				Blend:  radiance.Color{R: rl.Blend[0], G: rl.Blend[1], B: rl.Blend[2]},
			}
			if len(rl.Texture) > 0 {
				entry.Texture, err = parseTexture(rl.Texture, fmt.Sprintf("%s.layers[%d].texture", element, i))
				if err != nil {
					return nil, err
				}
			}
			layered.Layers = append(layered.Layers, entry)
		}
		return layered, nil
	default:
		return nil, newSceneError(element, "shader.type", fmt.Errorf("unknown shader type %q", tb.Type))
	}
}

func parseOptionalTexture(tb *taggedBlock, element string) (texture.Texture, error) {
	raw, ok := tb.Rest["texture"]
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	return parseTexture(raw, element+".texture")
}

func parseTexture(raw json.RawMessage, element string) (texture.Texture, error) {
	tb, err := decodeTag(raw, element)
	if err != nil {
		return nil, err
	}
	b := tb.block(element)

	switch tb.Type {
	case "checker":
		var c1, c2 radiance.Color
		var scaling float64
		scaling = 1
		b.GetColorProp("color1", &c1)
		b.GetColorProp("color2", &c2)
		b.GetDoubleProp("scaling", &scaling)
		return &texture.CheckerTexture{Color1: c1, Color2: c2, Scaling: scaling}, nil
	case "bitmap":
		var path string
		var scaling float64
		scaling = 1
		if !b.GetStringProp("file", &path) {
			return nil, b.RequiredProp("file")
		}
		b.GetDoubleProp("scaling", &scaling)
		bmp, err := texture.LoadBitmap(path)
		if err != nil {
			return nil, newSceneError(element, "file", err)
		}
		return &texture.BitmapTexture{Bitmap: bmp, Scaling: scaling}, nil
	case "fresnel":
		var ior float64
		ior = 1.33
		b.GetDoubleProp("ior", &ior)
		return &texture.Fresnel{IOR: ior}, nil
	case "bump":
		var path string
		var strength, scaling float64
		scaling = 1
		if !b.GetStringProp("file", &path) {
			return nil, b.RequiredProp("file")
		}
		b.GetDoubleProp("strength", &strength)
		b.GetDoubleProp("scaling", &scaling)
		bmp, err := texture.LoadBitmap(path)
		if err != nil {
			return nil, newSceneError(element, "file", err)
		}
		return &texture.BumpTexture{Bitmap: bmp, Strength: strength, Scaling: scaling}, nil
	case "bumps":
		var strength float64
		b.GetDoubleProp("strength", &strength)
		return texture.Bumps{Strength: strength}, nil
	default:
		return nil, newSceneError(element, "texture.type", fmt.Errorf("unknown texture type %q", tb.Type))
	}
}

func parseLight(tb *taggedBlock) (light.Light, error) {
	b := tb.block("light")
	switch tb.Type {
	case "point":
		var pos vec3.Vec3
		var c radiance.Color
		var power float64
		b.GetVectorProp("position", &pos)
		b.GetColorProp("color", &c)
		b.GetDoubleProp("power", &power)
		return &light.PointLight{Pos: pos, Color: c, Power: power}, nil
	case "rect":
		var c radiance.Color
		var power float64
		var xsubd, ysubd int
		xsubd, ysubd = 1, 1
		b.GetColorProp("color", &c)
		b.GetDoubleProp("power", &power)
		b.GetIntProp("xSubd", &xsubd)
		b.GetIntProp("ySubd", &ysubd)
		var td transformDoc
		if raw, ok := tb.Rest["transform"]; ok {
			if err := json.Unmarshal(raw, &td); err != nil {
				return nil, newSceneError("light", "transform", err)
			}
		}
		return &light.RectLight{
			Color: c, Power: power, XSubd: xsubd, YSubd: ysubd,
			Transform: td.toTransform(),
		}, nil
	default:
		return nil, newSceneError("light", "type", fmt.Errorf("unknown light type %q", tb.Type))
	}
}
