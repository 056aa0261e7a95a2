package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"plotter/internal/plot"
	"plotter/internal/scene"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Input scene (.toml, .yaml or .yml).")
		outPath = flag.String("out", "", "Output scene for convert mode.")
		mode    = flag.String("mode", "check", "check|convert|sample.")
	)
	flag.Parse()

	if *inPath == "" {
		fatalf("usage: mkscene -mode check -in scene.toml\n       mkscene -mode convert -in scene.toml -out scene.yaml\n       mkscene -mode sample -in scene.toml")
	}

	var err error
	switch strings.ToLower(*mode) {
	case "check":
		err = checkScene(os.Stdout, *inPath)
	case "convert":
		if *outPath == "" {
			fatalf("convert: -out is required")
		}
		err = convertScene(*inPath, *outPath)
	case "sample":
		err = sampleScene(os.Stdout, *inPath)
	default:
		fatalf("unknown mode: %s", *mode)
	}
	if err != nil {
		fatalf("%s: %v", *mode, err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func build(path string) (*scene.Scene, error) {
	f, err := scene.Open(path)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// checkScene validates the scene and prints one line per element.
func checkScene(w io.Writer, path string) error {
	s, err := build(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %q %dx%d %s\n", path, s.Title, s.Width, s.Height, s.Viewport.Bounds)
	for i, el := range s.Elements {
		fmt.Fprintf(w, "  [%d] %s %s\n", i, el.Kind, el.Name)
	}
	return nil
}

// convertScene rewrites a scene in the format of the output extension.
func convertScene(inPath, outPath string) error {
	f, err := scene.Open(inPath)
	if err != nil {
		return err
	}
	if _, err := f.Build(); err != nil {
		return err
	}
	format, err := scene.FormatOf(outPath)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if err := scene.Encode(bw, f, format); err != nil {
		out.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// sampleScene evaluates every element over the scene window and prints the
// world points as tab-separated rows, followed by the ignored errors.
func sampleScene(w io.Writer, path string) error {
	s, err := build(path)
	if err != nil {
		return err
	}
	sampler := plot.Sampler{Log: plot.NewErrorLog()}
	s.Viewport.RefreshAxes()
	bw := bufio.NewWriter(w)
	for _, el := range s.Elements {
		out, err := sampler.Sample(s.Viewport, el)
		if err != nil {
			return err
		}
		for _, p := range out.Points {
			fmt.Fprintf(bw, "%s\t%g\t%g\n", el.Name, p.X, p.Y)
		}
	}
	if sampler.Log.Len() > 0 {
		fmt.Fprintf(bw, "# ignored errors\n")
		for _, line := range strings.Split(strings.TrimRight(sampler.Log.Format(), "\n"), "\n") {
			fmt.Fprintf(bw, "# %s\n", line)
		}
	}
	return bw.Flush()
}
