// Package display turns a render.Result into user-visible output: a PNG
// file (the only output format the teacher's goray CLI wrote) or a live
// ANSI terminal preview shown while buckets are still being filled in.
package display

import (
	"fmt"
	"image/png"
	"io"

	"github.com/nthery/qdtracer/render"
)

// VFB (virtual frame buffer) is the display-side contract a render pass
// writes into: an optional live preview sink plus the final output step.
// Named after the original engine's vfb[][] global and its displayVFB/
// setWindowCaption/waitForUserExit entry points, generalized into an
// interface so a batch PNG run and an interactive terminal run share one
// call site in cmd/qdtracer.
type VFB interface {
	// MarkRegion is called by render.Progress every time a bucket's pixels
	// change (coarse prepass, then final AA pass), letting the sink redraw
	// just that rectangle.
	MarkRegion(result *render.Result, x0, y0, x1, y1 int)
	// SetCaption reports a short status line (e.g. elapsed render time).
	SetCaption(msg string)
	// Finish writes out the completed frame: a PNG writer encodes it, a
	// terminal preview draws it one last time.
	Finish(result *render.Result, gamma, saturation float64) error
}

// PNGWriter is a batch VFB: it ignores MarkRegion and SetCaption and writes
// the final frame as a PNG on Finish, mirroring goray's png.Encode(fout,
// img) call.
type PNGWriter struct {
	Out io.Writer
}

func (w *PNGWriter) MarkRegion(*render.Result, int, int, int, int) {}

func (w *PNGWriter) SetCaption(string) {}

func (w *PNGWriter) Finish(result *render.Result, gamma, saturation float64) error {
	img := result.ToImage(gamma, saturation)
	if err := png.Encode(w.Out, img); err != nil {
		return fmt.Errorf("display: encoding PNG: %w", err)
	}
	return nil
}
