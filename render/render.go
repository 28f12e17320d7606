package render

import (
	"sync"
	"sync/atomic"

	"github.com/nthery/qdtracer/camera"
	"github.com/nthery/qdtracer/integrator"
	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/ray"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/scene"
)

// aaKernel is the five-tap subpixel offset pattern used to refine pixels
// flagged by the antialiasing heuristic, preserved verbatim from the
// original renderer's supersampling kernel.
var aaKernel = [5][2]float64{
	{0.0, 0.0},
	{0.6, 0.0},
	{0.0, 0.6},
	{0.3, 0.3},
	{0.6, 0.6},
}

// defaultAAThreshold is used when Settings.AAThreshold is left at its zero
// value, matching the "> 0.1 channel delta" heuristic.
const defaultAAThreshold = 0.1

// Progress is called after each bucket completes its coarse prepass (done
// one block at a time) and again after it completes its final pass, so an
// interactive display can show an incrementally sharpening image.
// x0,y0,x1,y1 is the region just updated.
type Progress func(result *Result, x0, y0, x1, y1 int)

// Options controls a single render pass; the zero value renders with the
// scene's Settings.NumThreads workers (one if that is unset too) and no
// progress callback.
type Options struct {
	NumThreads int
	OnProgress Progress
	// Abort, if non-nil, is polled between buckets; once it reports true no
	// worker claims another bucket, so buckets not yet claimed stay black
	// (the coarse prepass runs per claimed bucket only).
	Abort func() bool
}

// Render traces every pixel of sc through its configured integrator
// (Raytrace or Pathtrace, per Settings.Pathtracing), splitting the frame
// into buckets processed by a worker pool, each bucket going through a
// coarse single-sample prepass, a full single-sample pass, and a final
// antialiasing refinement of pixels that disagree sharply with their
// neighbours.
func Render(sc *scene.Scene, opts Options) *Result {
	w, h := sc.Settings.FrameWidth, sc.Settings.FrameHeight
	result := newResult(w, h)

	buckets := splitBuckets(w, h)
	nthreads := opts.NumThreads
	if nthreads < 1 {
		nthreads = sc.Settings.NumThreads
	}
	if nthreads < 1 {
		nthreads = 1
	}

	threshold := sc.Settings.AAThreshold
	if threshold <= 0 {
		threshold = defaultAAThreshold
	}

	var nextBucket int64 = -1
	var wg sync.WaitGroup
	for worker := 0; worker < nthreads; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rnd := sampling.NewSource()
			for {
				if opts.Abort != nil && opts.Abort() {
					return
				}
				i := atomic.AddInt64(&nextBucket, 1)
				if int(i) >= len(buckets) {
					return
				}
				b := buckets[i]
				renderBucket(sc, result, b, rnd, threshold, opts.OnProgress)
			}
		}()
	}
	wg.Wait()
	return result
}

func renderBucket(sc *scene.Scene, result *Result, b bucket, rnd *sampling.Source, threshold float64, progress Progress) {
	prepassBucket(sc, result, b, rnd)
	if progress != nil {
		progress(result, b.X0, b.Y0, b.X1, b.Y1)
	}

	for y := b.Y0; y < b.Y1; y++ {
		for x := b.X0; x < b.X1; x++ {
			result.set(x, y, renderPixel(sc, float64(x)+0.5, float64(y)+0.5, rnd))
		}
	}

	refineAA(sc, result, b, rnd, threshold)
	if progress != nil {
		progress(result, b.X0, b.Y0, b.X1, b.Y1)
	}
}

// prepassBucket fills b one prepassBlock x prepassBlock block at a time,
// sampling only the block's center pixel, giving a fast low-resolution
// preview before the full per-pixel pass overwrites it.
func prepassBucket(sc *scene.Scene, result *Result, b bucket, rnd *sampling.Source) {
	for by := b.Y0; by < b.Y1; by += prepassBlock {
		for bx := b.X0; bx < b.X1; bx += prepassBlock {
			x1 := min(bx+prepassBlock, b.X1)
			y1 := min(by+prepassBlock, b.Y1)
			cx := float64(bx+x1) / 2
			cy := float64(by+y1) / 2
			c := renderPixel(sc, cx, cy, rnd)
			for y := by; y < y1; y++ {
				for x := bx; x < x1; x++ {
					result.set(x, y, c)
				}
			}
		}
	}
}

// refineAA re-renders, with the five-tap kernel, any pixel in b whose
// single-sample color disagrees with one of its 8 neighbours by more than
// threshold in any channel.
func refineAA(sc *scene.Scene, result *Result, b bucket, rnd *sampling.Source, threshold float64) {
	type coord struct{ x, y int }
	var dirty []coord
	for y := b.Y0; y < b.Y1; y++ {
		for x := b.X0; x < b.X1; x++ {
			if needsAA(result, x, y, threshold) {
				dirty = append(dirty, coord{x, y})
			}
		}
	}
	for _, d := range dirty {
		result.set(d.x, d.y, renderPixelAA(sc, d.x, d.y, rnd))
	}
}

func needsAA(result *Result, x, y int, threshold float64) bool {
	c := result.at(x, y)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= result.Width || ny >= result.Height {
				continue
			}
			n := result.at(nx, ny)
			if diff(c.R, n.R) > threshold || diff(c.G, n.G) > threshold || diff(c.B, n.B) > threshold {
				return true
			}
		}
	}
	return false
}

func diff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}

func renderPixel(sc *scene.Scene, x, y float64, rnd *sampling.Source) radiance.Color {
	return trace(sc, screenRay(sc, x, y, rnd), rnd)
}

func renderPixelAA(sc *scene.Scene, px, py int, rnd *sampling.Source) radiance.Color {
	sum := radiance.Black
	for _, k := range aaKernel {
		sum = sum.Add(renderPixel(sc, float64(px)+k[0], float64(py)+k[1], rnd))
	}
	return sum.Scale(1 / float64(len(aaKernel)))
}

func screenRay(sc *scene.Scene, x, y float64, rnd *sampling.Source) ray.Ray {
	cam := sc.Camera
	if cam.DOF {
		return cam.GetDOFRay(x, y, camera.Central, rnd)
	}
	return cam.GetScreenRay(x, y, camera.Central)
}

func trace(sc *scene.Scene, r ray.Ray, rnd *sampling.Source) radiance.Color {
	if sc.Settings.Pathtracing {
		return integrator.Pathtrace(sc, r, rnd)
	}
	return integrator.Raytrace(sc, r, rnd)
}
