// Package sampling implements the thread-local random streams and the
// hemisphere/disc/stratified samplers the integrator and camera draw from.
// Every worker owns its own *Source (wrapping a *rand.Rand); none of the
// functions here touch shared state, so callers never need to synchronize.
package sampling

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/nthery/qdtracer/vec3"
)

// globalSeed is the deterministic base seed set once at start-up
// (initRandom(42) in the original). Each worker derives its own stream from
// it so that, for a fixed thread count, the sequence of random numbers drawn
// by a given worker is reproducible run to run.
var globalSeed int64 = 42
var seedCounter int64

// InitRandom sets the deterministic base seed. Call once at start-up before
// any worker streams are created.
func InitRandom(seed int64) {
	atomic.StoreInt64(&globalSeed, seed)
	atomic.StoreInt64(&seedCounter, 0)
}

// Source is a per-worker random stream. Never share one across goroutines.
type Source struct {
	rnd *rand.Rand
}

// NewSource derives the next deterministic per-worker stream from the global
// seed. Workers should call this once at pool start-up, in worker-index
// order, to keep run-to-run determinism for a fixed thread count (§8
// testable property 10).
func NewSource() *Source {
	n := atomic.AddInt64(&seedCounter, 1)
	return &Source{rnd: rand.New(rand.NewSource(globalSeed*1000003 + n))}
}

// NewSourceFromSeed builds a stream from an explicit seed, bypassing the
// global counter. Used by tests that need a fixed, repeatable stream.
func NewSourceFromSeed(seed int64) *Source {
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

func (s *Source) Float64() float64 { return s.rnd.Float64() }

// Intn returns a uniform integer in [0, n), used to pick a light or a light
// sample index uniformly at random for next-event estimation.
func (s *Source) Intn(n int) int { return s.rnd.Intn(n) }

// Float64In returns a uniform sample in [lo, hi).
func (s *Source) Float64In(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// UnitDisc returns a uniformly distributed point on the unit disc via
// rejection sampling from the enclosing [-1,1]^2 square, matching the pattern used
// for DOF aperture and glossy-reflection lobe sampling.
func (s *Source) UnitDisc() (x, y float64) {
	for {
		x = s.Float64In(-1, 1)
		y = s.Float64In(-1, 1)
		if x*x+y*y <= 1 {
			return x, y
		}
	}
}

// HemisphereSample draws a direction uniformly over the full sphere and
// flips it to the hemisphere above n if it landed below the horizon — the
// "uniform over the sphere, then flipped" scheme spec.md §4.4 specifies for
// Lambert.spawnRay. Returns the sampled direction; pdf is always 1/(2*pi)
// for this scheme.
func (s *Source) HemisphereSample(n vec3.Vec3) (dir vec3.Vec3, pdf float64) {
	for {
		x := s.Float64In(-1, 1)
		y := s.Float64In(-1, 1)
		z := s.Float64In(-1, 1)
		d := vec3.Vec3{X: x, Y: y, Z: z}
		l2 := d.LengthSqr()
		if l2 > 1e-12 && l2 <= 1 {
			d = d.Normalize()
			if d.Dot(n) < 0 {
				d = d.Negate()
			}
			return d, 1 / (2 * math.Pi)
		}
	}
}

// CosineWeightedHemisphere draws a direction with probability proportional
// to cos(theta) about n, used where the caller wants pdf = cos(theta)/pi
// directly rather than the uniform 1/(2*pi) scheme above.
func (s *Source) CosineWeightedHemisphere(n vec3.Vec3) (dir vec3.Vec3, pdf float64) {
	u, v := s.UnitDisc()
	z := math.Sqrt(math.Max(0, 1-u*u-v*v))

	// Build an orthonormal frame around n.
	var a vec3.Vec3
	if math.Abs(n.X) > 0.9 {
		a = vec3.Vec3{X: 0, Y: 1, Z: 0}
	} else {
		a = vec3.Vec3{X: 1, Y: 0, Z: 0}
	}
	t := a.Cross(n).Normalize()
	b := n.Cross(t)

	d := t.Scale(u).Add(b.Scale(v)).Add(n.Scale(z))
	return d.Normalize(), z / math.Pi
}

// Stratified2D partitions [0,1)^2 into an nx*ny grid and returns the jittered
// sample for cell index i, matching RectLight's stratification:
// x = (i % nx + rnd) / nx, y = (i / nx + rnd) / ny.
func (s *Source) Stratified2D(i, nx, ny int) (x, y float64) {
	x = (float64(i%nx) + s.Float64()) / float64(nx)
	y = (float64(i/nx) + s.Float64()) / float64(ny)
	return x, y
}
