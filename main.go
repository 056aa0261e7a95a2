package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"plotter/app"
	"plotter/hal"
	"plotter/internal/buildinfo"
	"plotter/internal/observability"
	"plotter/internal/plot"
	"plotter/internal/scene"
)

type options struct {
	headless    hal.HeadlessConfig
	scenePath   string
	snapshot    string
	metricsAddr string
	scale       int
	version     bool
}

func main() {
	var o options
	flag.BoolVar(&o.headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&o.headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&o.headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run until interrupted).")
	flag.StringVar(&o.scenePath, "scene", "", "Scene file (.toml, .yaml or .yml). Empty runs the built-in demo.")
	flag.StringVar(&o.snapshot, "snapshot", "", "Write the last frame to this PNG file on exit.")
	flag.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090.")
	flag.IntVar(&o.scale, "scale", 1, "Window scale factor.")
	flag.BoolVar(&o.version, "version", false, "Print the build version and exit.")
	flag.Parse()

	if o.version {
		fmt.Println(buildinfo.Short())
		return
	}
	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(o options) error {
	sc, err := loadScene(o.scenePath)
	if err != nil {
		return err
	}

	var rec plot.Recorder
	if o.metricsAddr != "" {
		c, err := observability.NewPlotCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		srv := serveMetrics(o.metricsAddr, c.Handler())
		defer srv.Close()
		rec = c
	}

	cfg := hal.Config{Title: sc.Title, Width: sc.Width, Height: sc.Height, Scale: o.scale}
	var fb hal.Framebuffer
	newApp := func(h hal.HAL) func() error {
		fb = h.Display().Framebuffer()
		return app.NewStep(h, app.Config{Scene: sc, Metrics: rec})
	}

	if o.headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = hal.RunHeadless(ctx, cfg, newApp, o.headless)
		stop()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = hal.RunWindow(cfg, newApp)
	}

	if o.snapshot != "" && fb != nil {
		if serr := writeSnapshot(o.snapshot, fb); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func loadScene(path string) (*scene.Scene, error) {
	var (
		f   *scene.File
		err error
	)
	if path == "" {
		f, err = scene.Demo()
	} else {
		f, err = scene.Open(path)
	}
	if err != nil {
		return nil, err
	}
	return f.Build()
}

func serveMetrics(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintln(os.Stderr, "metrics:", err)
		}
	}()
	return srv
}

func writeSnapshot(path string, fb hal.Framebuffer) error {
	img := hal.Snapshot(fb)
	if img == nil {
		return fmt.Errorf("snapshot: unsupported framebuffer format")
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	return out.Close()
}
