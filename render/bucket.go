// Package render drives a scene through the integrator functions across a
// worker pool, generalizing the teacher's Scene.Render (which split a frame
// into nstripes horizontal bands processed by nstripes goroutines) into a
// bucket-queue pool plus a coarse prepass and an adaptive antialiasing pass.
package render

import (
	"golang.org/x/exp/constraints"
)

// bucketSize is the edge length of a render bucket, matching the tile size
// production bucket renderers (and the original engine's render buckets)
// converge on as a balance between scheduling granularity and per-bucket
// overhead.
const bucketSize = 64

// prepassBlock is the edge length of the coarse single-sample block used for
// the fast low-resolution preview pass before the full per-pixel pass.
const prepassBlock = 16

// bucket is a rectangular, half-open pixel region: [X0,X1) x [Y0,Y1).
type bucket struct {
	X0, Y0, X1, Y1 int
}

func (b bucket) width() int  { return b.X1 - b.X0 }
func (b bucket) height() int { return b.Y1 - b.Y0 }

// splitBuckets partitions a w x h frame into bucketSize x bucketSize tiles,
// clamping the final row/column to the frame edge.
func splitBuckets(w, h int) []bucket {
	var out []bucket
	for y := 0; y < h; y += bucketSize {
		for x := 0; x < w; x += bucketSize {
			out = append(out, bucket{
				X0: x, Y0: y,
				X1: min(x+bucketSize, w),
				Y1: min(y+bucketSize, h),
			})
		}
	}
	return out
}

func min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// clamp restricts v to [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
