// mandelbrot is an interactive Mandelbrot set viewer.
//
// By default it opens a window. With -web it serves the viewer to browsers
// instead. Drag a rectangle to zoom, press b to toggle black/white
// membership coloring, c to cycle colormaps, r to reset, 1-6 to jump to
// landmarks, Esc or q to quit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	mandel "github.com/justinthompson593/Mandelbrot"
	"github.com/justinthompson593/Mandelbrot/explore"
	"github.com/justinthompson593/Mandelbrot/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("run: %v", err)
	}
}

type options struct {
	cfg     mandel.Config
	webAddr string
}

func parseFlags(args []string) (options, error) {
	opts := options{cfg: mandel.DefaultConfig()}
	cfg := &opts.cfg

	fs := flag.NewFlagSet("mandelbrot", flag.ContinueOnError)
	fs.IntVar(&cfg.Width, "width", cfg.Width, "window width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "window height in pixels")
	fs.IntVar(&cfg.MaxIter, "iter", cfg.MaxIter, "maximum iterations per point")
	fs.Float64Var(&cfg.EscapeRadius, "radius", cfg.EscapeRadius, "escape radius")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "goroutines computing the field")
	fs.Var(&cfg.Region, "region", "start region as xmin,xmax,ymin,ymax")
	landmark := fs.String("landmark", "", "start at a named region: "+strings.Join(mandel.LandmarkNames(), ", "))
	fs.StringVar(&opts.webAddr, "web", "", "serve the viewer to browsers on this address instead of opening a window")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *landmark != "" {
		regionSet := false
		fs.Visit(func(f *flag.Flag) { regionSet = regionSet || f.Name == "region" })
		if regionSet {
			return options{}, fmt.Errorf("-region and -landmark are mutually exclusive: %w", mandel.ErrInvalidConfig)
		}
		r, ok := mandel.Landmark(*landmark)
		if !ok {
			return options{}, fmt.Errorf("unknown landmark %q: %w", *landmark, mandel.ErrInvalidConfig)
		}
		cfg.Region = r
	}

	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.webAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return web.NewServer(opts.cfg, opts.webAddr, nil).ListenAndServe(ctx)
	}

	log.Printf("computing %dx%d field...", opts.cfg.Width, opts.cfg.Height)
	ctl, err := explore.New(opts.cfg, nil)
	if err != nil {
		return fmt.Errorf("explore.New: %w", err)
	}
	return runWindow(ctl)
}
