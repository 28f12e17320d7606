// Package scene ties geometry, shaders, lights and the camera into the
// renderable graph the integrator walks: a flat list of transformed nodes,
// a light list, and the settings that govern a render pass.
package scene

import (
	"fmt"

	"github.com/nthery/qdtracer/camera"
	"github.com/nthery/qdtracer/geometry"
	"github.com/nthery/qdtracer/light"
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/shading"
	"github.com/nthery/qdtracer/texture"
	"github.com/nthery/qdtracer/vec3"
	"github.com/nthery/qdtracer/xform"
)

// Node couples a local-space Geometry with the Shader that colors it, the
// Transform that places it in world space, and an optional bump texture
// applied after the shader's own normal (if any) is resolved.
type Node struct {
	Name      string
	Geometry  geometry.Geometry
	Shader    shading.Shader
	Transform xform.Transform
	Bump      texture.Texture
}

func (n *Node) Validate() error {
	if n.Geometry == nil {
		return newSceneError(n.Name, "geometry", fmt.Errorf("node has no geometry"))
	}
	if n.Shader == nil {
		return newSceneError(n.Name, "shader", fmt.Errorf("node has no shader"))
	}
	if err := n.Shader.Validate(); err != nil {
		return newSceneError(n.Name, "shader", err)
	}
	if n.Bump != nil {
		if err := n.Bump.Validate(); err != nil {
			return newSceneError(n.Name, "bump", err)
		}
	}
	return nil
}

// Intersect transforms r into the node's local space, intersects its
// geometry, and transforms the result back into world space. A successful
// hit has its shading normal touched by the node's bump texture, if any.
func (n *Node) Intersect(r ray.Ray, hit *ray.Hit) bool {
	localStart := n.Transform.UndoPoint(r.Start)
	localDir := n.Transform.UndoVector(r.Dir)
	localRay := ray.Ray{Start: localStart, Dir: localDir, Depth: r.Depth, Flags: r.Flags}

	localHit := ray.Hit{Dist: hit.Dist}
	if !n.Geometry.Intersect(localRay, &localHit) {
		return false
	}

	hit.Dist = localHit.Dist
	hit.IP = n.Transform.Point(localHit.IP)
	hit.Normal = n.Transform.Normal(localHit.Normal)
	hit.U, hit.V = localHit.U, localHit.V
	hit.RayDir = r.Dir
	hit.DNdx = n.Transform.Vector(localHit.DNdx)
	hit.DNdy = n.Transform.Vector(localHit.DNdy)

	if n.Bump != nil {
		n.Bump.ModifyNormal(hit)
	}
	return true
}

// Settings governs a single render pass: frame dimensions, worker count, the
// AA refinement threshold, and the top-level integrator switch.
type Settings struct {
	FrameWidth, FrameHeight int
	NumThreads              int
	MaxRayDepth             int
	AAThreshold             float64 // §4.7 "8-neighbour > 0.1 channel delta" heuristic
	Pathtracing             bool
	PathtracingSamples      int
	AmbientLight            radiance.Color
	BackgroundColor         radiance.Color
	Gamma                   float64
	Saturation              float64
}

func (s Settings) Validate() error {
	if s.FrameWidth <= 0 || s.FrameHeight <= 0 {
		return fmt.Errorf("settings: frame dimensions must be positive, got %dx%d", s.FrameWidth, s.FrameHeight)
	}
	if s.NumThreads <= 0 {
		return fmt.Errorf("settings: numThreads must be positive, got %d", s.NumThreads)
	}
	if s.MaxRayDepth <= 0 {
		return fmt.Errorf("settings: maxRayDepth must be positive, got %d", s.MaxRayDepth)
	}
	if s.Gamma <= 0 {
		return fmt.Errorf("settings: gamma must be positive, got %g", s.Gamma)
	}
	return nil
}

// Scene is the complete renderable graph for one frame.
type Scene struct {
	Nodes       []*Node
	Lights      []light.Light
	Camera      *camera.Camera
	Settings    Settings
	Environment *texture.Environment
}

func (s *Scene) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return err
	}
	if s.Camera == nil {
		return fmt.Errorf("scene: no camera")
	}
	if err := s.Camera.Validate(); err != nil {
		return err
	}
	for _, n := range s.Nodes {
		if err := n.Validate(); err != nil {
			return err
		}
	}
	for _, l := range s.Lights {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	if s.Environment != nil {
		if err := s.Environment.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BeginRender prepares per-scene, per-render (not per-frame) acceleration
// state: any Mesh node's KD-tree and any bump texture's differentiated
// bitmap. Called once before the first frame.
func (s *Scene) BeginRender() {
	for _, n := range s.Nodes {
		if m, ok := n.Geometry.(beginRenderer); ok {
			m.BeginRender()
		}
		if bt, ok := n.Bump.(beginRenderer); ok {
			bt.BeginRender()
		}
	}
}

type beginRenderer interface{ BeginRender() }

// BeginFrame refreshes per-frame state: light area/center caches and the
// camera's screen-plane corners (including autofocus, probed against this
// scene's own Intersect).
func (s *Scene) BeginFrame() {
	for _, l := range s.Lights {
		l.BeginFrame()
	}
	s.Camera.BeginFrame(s.Settings.FrameWidth, s.Settings.FrameHeight, func(r ray.Ray) (float64, bool) {
		_, hit, ok := s.Intersect(r)
		return hit.Dist, ok
	})
}

// Intersect finds the closest node hit along r, iterating every node (the
// spec's scope for whole-scene traversal is a flat node list, not a
// second-level BVH over nodes — only meshes get a KD-tree internally).
func (s *Scene) Intersect(r ray.Ray) (*Node, ray.Hit, bool) {
	hit := ray.Hit{Dist: maxDist}
	var closest *Node
	found := false
	for _, n := range s.Nodes {
		if n.Intersect(r, &hit) {
			closest = n
			found = true
		}
	}
	return closest, hit, found
}

const maxDist = 1e30
const shadowEpsilon = 1e-4

// IntersectLights tests every scene light's own emitting surface against r,
// keeping whichever improves on *dist (spec.md §4.5's "for every light, test
// light.intersect(ray, currentNearest)" check, run by the caller after its
// own node pass so a light sitting behind closer geometry never wins).
func (s *Scene) IntersectLights(r ray.Ray, dist *float64) (radiance.Color, bool) {
	var color radiance.Color
	found := false
	for _, l := range s.Lights {
		if l.Intersect(r, dist) {
			color = l.EmissionColor()
			found = true
		}
	}
	return color, found
}

// EnvironmentColor samples the optional environment map along dir; ok is
// false if the scene has no environment, in which case the caller should
// fall back to Settings.BackgroundColor.
func (s *Scene) EnvironmentColor(dir vec3.Vec3) (radiance.Color, bool) {
	if s.Environment == nil {
		return radiance.Black, false
	}
	return s.Environment.Sample(dir), true
}

// Visible is the shadow-ray test shaders use through shading.TraceContext:
// true if no node occludes the segment from 'from' to 'to'.
func (s *Scene) Visible(from, to vec3.Vec3) bool {
	dir := to.Sub(from)
	dist := dir.Length()
	if dist <= shadowEpsilon {
		return true
	}
	dir = dir.Scale(1 / dist)
	r := ray.Ray{Start: from, Dir: dir}
	_, hit, found := s.Intersect(r)
	return !found || hit.Dist >= dist-shadowEpsilon
}

// ShadingLights exposes the scene's lights as the narrower shading.Light view.
func (s *Scene) ShadingLights() []shading.Light {
	out := make([]shading.Light, len(s.Lights))
	for i, l := range s.Lights {
		out[i] = l
	}
	return out
}
