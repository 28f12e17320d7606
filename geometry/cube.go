package geometry

import (
	"math"

	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/vec3"
)

// Cube is an axis-aligned cube centered at O with half-side HalfSide.
type Cube struct {
	O        vec3.Vec3
	HalfSide float64
}

type cubeSide struct {
	axis   vec3.Axis
	sign   float64
	normal vec3.Vec3
}

var cubeSides = [6]cubeSide{
	{vec3.AxisX, 1, vec3.Vec3{X: 1}},
	{vec3.AxisX, -1, vec3.Vec3{X: -1}},
	{vec3.AxisY, 1, vec3.Vec3{Y: 1}},
	{vec3.AxisY, -1, vec3.Vec3{Y: -1}},
	{vec3.AxisZ, 1, vec3.Vec3{Z: 1}},
	{vec3.AxisZ, -1, vec3.Vec3{Z: -1}},
}

const cubeTolerance = 1e-6

func (cu Cube) Intersect(r ray.Ray, hit *ray.Hit) bool {
	found := false
	for _, side := range cubeSides {
		d := r.Dir.Get(side.axis)
		if math.Abs(d) < 1e-15 {
			continue
		}
		planePos := cu.O.Get(side.axis) + side.sign*cu.HalfSide
		t := (planePos - r.Start.Get(side.axis)) / d
		if t <= 0 || t >= hit.Dist {
			continue
		}
		ip := r.At(t)
		// The two axes orthogonal to this slab must lie within the cube.
		ok := true
		for a := vec3.AxisX; a <= vec3.AxisZ; a++ {
			if a == side.axis {
				continue
			}
			lo := cu.O.Get(a) - cu.HalfSide - cubeTolerance
			hi := cu.O.Get(a) + cu.HalfSide + cubeTolerance
			v := ip.Get(a)
			if v < lo || v > hi {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		hit.Dist = t
		hit.IP = ip
		hit.Normal = side.normal
		hit.U = ip.X + ip.Z
		hit.V = ip.Y
		found = true
	}
	return found
}
