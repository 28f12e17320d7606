/*
 Command qdtracer renders a JSON-described scene to a PNG file, generalizing
 the teacher's goray: parse a scene, render it across -j worker threads, and
 write the result out. -config applies a YAML settings profile on top of the
 scene's own settings, and a nonzero -j overrides both; -interactive shows a live
 terminal preview while the frame renders and lets the user abort early with
 'q'.
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/nthery/qdtracer/config"
	"github.com/nthery/qdtracer/display"
	"github.com/nthery/qdtracer/render"
	"github.com/nthery/qdtracer/sampling"
	"github.com/nthery/qdtracer/scene"
)

var (
	infile      = flag.String("i", "data/smallpt.qdmg", "input scene file (JSON)")
	outfile     = flag.String("o", "out.png", "output PNG file")
	configFile  = flag.String("config", "", "optional YAML renderer profile")
	njobs       = flag.Int("j", 0, "worker thread override (0 = use scene settings)")
	interactive = flag.Bool("interactive", false, "show a live terminal preview; press q to abort")
	seed        = flag.Int64("seed", 42, "deterministic base RNG seed")
	cpuprofile  = flag.String("cpuprofile", "", "write a CPU profile to this file")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the process exit code, keeping main itself free of early
// os.Exit calls so deferred cleanup (profiler stop, terminal restore) always
// fires.
func run() int {
	sc, err := loadScene(*infile, *configFile)
	if err != nil {
		log.Printf("qdtracer: %v", err)
		return 1
	}
	if *njobs > 0 {
		sc.Settings.NumThreads = *njobs
	}
	if err := sc.Validate(); err != nil {
		log.Printf("qdtracer: invalid scene: %v", err)
		return 1
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Printf("qdtracer: creating profile file: %v", err)
			return 1
		}
		defer f.Close()
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	sampling.InitRandom(*seed)
	sc.BeginRender()
	sc.BeginFrame()

	fout, err := os.Create(*outfile)
	if err != nil {
		log.Printf("qdtracer: creating output file: %v", err)
		return 1
	}
	defer fout.Close()

	vfb, cleanup, aborted := setUpDisplay(fout)
	defer cleanup()

	opts := render.Options{NumThreads: sc.Settings.NumThreads}
	if aborted != nil {
		opts.Abort = aborted
		opts.OnProgress = func(result *render.Result, x0, y0, x1, y1 int) {
			vfb.MarkRegion(result, x0, y0, x1, y1)
		}
	}

	start := time.Now()
	result := render.Render(sc, opts)
	elapsed := time.Since(start)
	vfb.SetCaption(fmt.Sprintf("qdtracer - %.2fs", elapsed.Seconds()))

	if err := vfb.Finish(result, sc.Settings.Gamma, orOne(sc.Settings.Saturation)); err != nil {
		log.Printf("qdtracer: %v", err)
		return 1
	}
	log.Printf("qdtracer: rendered %s in %.2fs", *outfile, elapsed.Seconds())
	return 0
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func loadScene(path, configPath string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	sc, err := scene.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}

	if configPath != "" {
		cf, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("opening config profile: %w", err)
		}
		defer cf.Close()
		profile, err := config.Load(cf)
		if err != nil {
			return nil, err
		}
		profile.ApplyTo(config.Setters{
			NumThreads:         func(v int) { sc.Settings.NumThreads = v },
			MaxRayDepth:        func(v int) { sc.Settings.MaxRayDepth = v },
			AAThreshold:        func(v float64) { sc.Settings.AAThreshold = v },
			Pathtracing:        func(v bool) { sc.Settings.Pathtracing = v },
			PathtracingSamples: func(v int) { sc.Settings.PathtracingSamples = v },
			Gamma:              func(v float64) { sc.Settings.Gamma = v },
			Saturation:         func(v float64) { sc.Settings.Saturation = v },
		})
	}
	return sc, nil
}

// setUpDisplay picks the PNG-only batch sink or the interactive terminal
// preview (plus its quit watcher) depending on -interactive. The returned
// abort func is nil in batch mode.
func setUpDisplay(fout *os.File) (vfb display.VFB, cleanup func(), abort func() bool) {
	if !*interactive {
		return &display.PNGWriter{Out: fout}, func() {}, nil
	}

	preview := display.NewTerminalPreview(os.Stdout)
	watcher, err := render.NewQuitWatcher()
	if err != nil {
		log.Printf("qdtracer: could not watch for abort key, running non-interactively: %v", err)
		return &display.PNGWriter{Out: fout}, func() {}, nil
	}
	combined := &pngAndPreview{png: &display.PNGWriter{Out: fout}, preview: preview}
	return combined, func() { watcher.Close() }, watcher.Abort
}

// pngAndPreview fans MarkRegion out to the live terminal preview while still
// writing the final frame to disk as a PNG on Finish.
type pngAndPreview struct {
	png     *display.PNGWriter
	preview *display.TerminalPreview
}

func (p *pngAndPreview) MarkRegion(result *render.Result, x0, y0, x1, y1 int) {
	p.preview.MarkRegion(result, x0, y0, x1, y1)
}

func (p *pngAndPreview) SetCaption(msg string) {
	p.preview.SetCaption(msg)
}

func (p *pngAndPreview) Finish(result *render.Result, gamma, saturation float64) error {
	if err := p.preview.Finish(result, gamma, saturation); err != nil {
		return err
	}
	return p.png.Finish(result, gamma, saturation)
}
