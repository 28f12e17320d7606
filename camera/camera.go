// Package camera implements the pinhole/thin-lens camera model: screen-space
// to world-space ray generation, stereo offset, depth of field, and
// autofocus.
package camera

import (
	"fmt"
	"math"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/vec3"
	"github.com/nthery/qdtracer/xform"
)

// Eye selects which of a stereo pair's viewpoints a screen ray is cast from.
type Eye int

const (
	Central Eye = iota
	Left
	Right
)

// Camera is a perspective camera with optional thin-lens depth of field and
// horizontal stereo separation.
type Camera struct {
	Position vec3.Vec3
	// Yaw, Pitch, Roll are in degrees, matching the scene file convention.
	Yaw, Pitch, Roll float64
	AspectRatio      float64
	FOV              float64 // degrees
	DOF              bool
	FNumber          float64
	FocalPlaneDist   float64
	NumSamples       int
	Autofocus        bool
	StereoSeparation float64

	topLeft, topRight, bottomLeft vec3.Vec3
	frontDir, upDir, rightDir     vec3.Vec3
	apertureSize                  float64
	frameWidth, frameHeight       int
}

// SceneProbe lets BeginFrame ask the scene for the closest intersection
// along a ray, for autofocus, without the camera package importing scene
// (which would otherwise cycle back through the node/shader graph).
type SceneProbe func(r ray.Ray) (dist float64, hit bool)

// BeginFrame recomputes the screen-plane corners and camera basis vectors
// for a frameWidth x frameHeight render, and resolves autofocus if enabled.
func (c *Camera) BeginFrame(frameWidth, frameHeight int, probe SceneProbe) {
	c.frameWidth, c.frameHeight = frameWidth, frameHeight
	c.apertureSize = 4.5 / c.FNumber

	x2d, y2d := c.AspectRatio, 1.0
	wantedAngle := toRadians(c.FOV / 2)
	wantedLength := math.Tan(wantedAngle)
	hypotLength := math.Sqrt(c.AspectRatio*c.AspectRatio + 1)
	scaleFactor := wantedLength / hypotLength
	x2d *= scaleFactor
	y2d *= scaleFactor

	topLeft := vec3.New(-x2d, y2d, 1)
	topRight := vec3.New(x2d, y2d, 1)
	bottomLeft := vec3.New(-x2d, -y2d, 1)

	rotation := xform.EulerZXY(toRadians(c.Yaw), toRadians(c.Pitch), toRadians(c.Roll))

	c.topLeft = rotation.MulVec(topLeft).Add(c.Position)
	c.topRight = rotation.MulVec(topRight).Add(c.Position)
	c.bottomLeft = rotation.MulVec(bottomLeft).Add(c.Position)

	c.frontDir = rotation.MulVec(vec3.New(0, 0, 1))
	c.upDir = rotation.MulVec(vec3.New(0, 1, 0))
	c.rightDir = rotation.MulVec(vec3.New(1, 0, 0))

	if c.Autofocus && probe != nil {
		centerRay := c.GetScreenRay(float64(frameWidth)/2, float64(frameHeight)/2, Central)
		if dist, ok := probe(centerRay); ok {
			c.FocalPlaneDist = dist
		}
	}
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// GetScreenRay casts a ray from the camera through screen-space pixel
// coordinates (xScreen, yScreen), offset sideways for a stereo eye.
func (c *Camera) GetScreenRay(xScreen, yScreen float64, eye Eye) ray.Ray {
	throughPoint := c.topLeft.
		Add(c.topRight.Sub(c.topLeft).Scale(xScreen / float64(c.frameWidth))).
		Add(c.bottomLeft.Sub(c.topLeft).Scale(yScreen / float64(c.frameHeight)))

	start := c.Position
	switch eye {
	case Left:
		start = start.Add(c.rightDir.Scale(-c.StereoSeparation))
	case Right:
		start = start.Add(c.rightDir.Scale(c.StereoSeparation))
	}

	return ray.Ray{
		Start: start,
		Dir:   throughPoint.Sub(c.Position).Normalize(),
	}
}

// GetDOFRay casts a thin-lens depth-of-field ray: the screen ray's target on
// the focal plane stays fixed, but its origin is jittered across a disc of
// radius apertureSize in the camera's image plane.
func (c *Camera) GetDOFRay(xScreen, yScreen float64, eye Eye, rnd *sampling.Source) ray.Ray {
	r := c.GetScreenRay(xScreen, yScreen, eye)
	cosTheta := r.Dir.Dot(c.frontDir)
	m := c.FocalPlaneDist / cosTheta
	target := r.Start.Add(r.Dir.Scale(m))

	u, v := rnd.UnitDisc()
	u *= c.apertureSize
	v *= c.apertureSize

	newStart := r.Start.Add(c.upDir.Scale(u)).Add(c.rightDir.Scale(v))
	return ray.Ray{
		Start: newStart,
		Dir:   target.Sub(newStart).Normalize(),
	}
}

func (c *Camera) Validate() error {
	if c.AspectRatio <= 0 {
		return fmt.Errorf("camera: aspectRatio must be positive, got %g", c.AspectRatio)
	}
	if c.FOV <= 0 || c.FOV >= 179 {
		return fmt.Errorf("camera: fov must be in (0,179), got %g", c.FOV)
	}
	if c.DOF && c.FNumber <= 0 {
		return fmt.Errorf("camera: fNumber must be positive when dof is enabled")
	}
	if c.DOF && c.NumSamples < 1 {
		return fmt.Errorf("camera: numSamples must be positive when dof is enabled")
	}
	return nil
}
