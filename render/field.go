package render

import (
	"image"
	"log"
	"runtime"
	"sync"
	"time"

	mandel "github.com/justinthompson593/Mandelbrot"
)

// Field holds one escape count per pixel, row major.
type Field struct {
	W, H    int
	MaxIter int
	Counts  []int
}

func NewField(w, h, maxIter int) *Field {
	return &Field{W: w, H: h, MaxIter: maxIter, Counts: make([]int, w*h)}
}

func (f *Field) At(x, y int) int {
	return f.Counts[y*f.W+x]
}

// Inside reports whether the pixel is a presumed set member.
func (f *Field) Inside(x, y int) bool {
	return f.At(x, y) == f.MaxIter
}

// Options controls a field computation.
type Options struct {
	MaxIter      int
	EscapeRadius float64
	Workers      int // <= 0 means runtime.NumCPU()
	BandHeight   int // rows per unit of work; <= 0 picks a default
	Logger       *log.Logger
}

func OptionsFrom(c mandel.Config) Options {
	return Options{MaxIter: c.MaxIter, EscapeRadius: c.EscapeRadius, Workers: c.Workers}
}

// Compute evaluates every pixel of p and returns a fresh field.
func Compute(p mandel.Plane, opts Options) *Field {
	return NewJob(p, opts).Run()
}

// Job is one field computation. Rows are split into bands which workers
// pop until none are left; each band is written only by the worker that
// popped it.
type Job struct {
	plane mandel.Plane
	opts  Options
	field *Field

	totalPixels    int
	finishedPixels int

	unstarted map[image.Rectangle]struct{}
	m         sync.Mutex
}

func NewJob(p mandel.Plane, opts Options) *Job {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.BandHeight <= 0 {
		opts.BandHeight = 8
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	bounds := image.Rect(0, 0, p.Grid.W, p.Grid.H)
	bands := splitRows(bounds, opts.BandHeight)
	unstarted := make(map[image.Rectangle]struct{}, len(bands))
	for _, b := range bands {
		unstarted[b] = struct{}{}
	}

	return &Job{
		plane:       p,
		opts:        opts,
		field:       NewField(p.Grid.W, p.Grid.H, opts.MaxIter),
		totalPixels: p.Grid.Pixels(),
		unstarted:   unstarted,
	}
}

// Run blocks until every band is computed.
func (j *Job) Run() *Field {
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < j.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.work()
		}()
	}
	wg.Wait()

	j.opts.Logger.Printf("computed %dx%d field with %d workers in %s",
		j.field.W, j.field.H, j.opts.Workers, time.Since(start).Round(time.Millisecond))
	return j.field
}

// Finished returns the fraction of pixels done, in [0,1].
func (j *Job) Finished() float32 {
	j.m.Lock()
	defer j.m.Unlock()
	if j.totalPixels == 0 {
		return 1
	}
	return float32(j.finishedPixels) / float32(j.totalPixels)
}

func (j *Job) popBand() (band image.Rectangle, found bool) {
	j.m.Lock()
	defer j.m.Unlock()

	for band = range j.unstarted {
		delete(j.unstarted, band)
		return band, true
	}
	return image.Rectangle{}, false
}

func (j *Job) bandFinished(band image.Rectangle) {
	j.m.Lock()
	j.finishedPixels += band.Dx() * band.Dy()
	j.m.Unlock()
}

// can be called from multiple goroutines in parallel
func (j *Job) work() {
	for {
		band, found := j.popBand()
		if !found {
			return
		}
		j.computeBand(band)
		j.bandFinished(band)
	}
}

func (j *Job) computeBand(band image.Rectangle) {
	f := j.field
	for py := band.Min.Y; py < band.Max.Y; py++ {
		row := f.Counts[py*f.W : (py+1)*f.W]
		for px := band.Min.X; px < band.Max.X; px++ {
			row[px] = Escape(j.plane.PixelToComplex(px, py), j.opts.MaxIter, j.opts.EscapeRadius)
		}
	}
}

// splitRows splits r into full-width bands of bandH rows.
// The bottom band is shorter if r is not divisible.
func splitRows(r image.Rectangle, bandH int) []image.Rectangle {
	if bandH <= 0 {
		panic("band height must be positive")
	}

	var bands []image.Rectangle
	for oy := r.Min.Y; oy < r.Max.Y; oy += bandH {
		bands = append(bands, image.Rect(r.Min.X, oy, r.Max.X, min(oy+bandH, r.Max.Y)))
	}
	return bands
}
