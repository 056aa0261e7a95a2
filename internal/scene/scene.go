// Package scene loads plot descriptions from TOML or YAML files and builds
// the viewport, elements and options the engine runs on.
package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrDecode is returned when a scene file is not valid TOML or YAML, or has
// keys this package does not know.
var ErrDecode = errors.New("scene decode error")

// Format is a scene file encoding.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: unsupported scene extension %q (want .toml, .yaml or .yml)", ErrDecode, filepath.Ext(path))
	}
}

// File is the on-disk shape of a scene. Element fields that carry flags or
// steps are decoded untyped and checked by Build.
type File struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`

	View     View          `toml:"viewport" yaml:"viewport"`
	Style    Style         `toml:"style" yaml:"style"`
	Display  Display       `toml:"display" yaml:"display"`
	Elements []ElementSpec `toml:"element" yaml:"elements"`
}

type View struct {
	XMin            float64 `toml:"x_min" yaml:"x_min"`
	XMax            float64 `toml:"x_max" yaml:"x_max"`
	XGraduationStep float64 `toml:"x_graduation_step" yaml:"x_graduation_step"`
	YMin            float64 `toml:"y_min" yaml:"y_min"`
	YMax            float64 `toml:"y_max" yaml:"y_max"`
	YGraduationStep float64 `toml:"y_graduation_step" yaml:"y_graduation_step"`
}

// Style colors are "#rrggbb" / "#rgb" strings or [r, g, b] arrays.
type Style struct {
	Background any   `toml:"background_color,omitempty" yaml:"background_color,omitempty"`
	Axes       any   `toml:"axes_color,omitempty" yaml:"axes_color,omitempty"`
	Graduation any   `toml:"graduation_color,omitempty" yaml:"graduation_color,omitempty"`
	Coordinate any   `toml:"coordinate_color,omitempty" yaml:"coordinate_color,omitempty"`
	Points     []any `toml:"points_color_list,omitempty" yaml:"points_color_list,omitempty"`
}

type Display struct {
	ShowXGraduationCoordinate bool    `toml:"show_x_graduation_coordinate" yaml:"show_x_graduation_coordinate"`
	ShowYGraduationCoordinate bool    `toml:"show_y_graduation_coordinate" yaml:"show_y_graduation_coordinate"`
	ShowCoordinate            bool    `toml:"show_coordinate" yaml:"show_coordinate"`
	ShowIgnoredError          bool    `toml:"show_ignored_error" yaml:"show_ignored_error"`
	XStepMovement             float64 `toml:"x_step_movement" yaml:"x_step_movement"`
	YStepMovement             float64 `toml:"y_step_movement" yaml:"y_step_movement"`
	// LogPolicy is "accumulate" (default) or "clear".
	LogPolicy string `toml:"log_policy" yaml:"log_policy"`
}

// ElementSpec describes one plotted element. Kind selects which fields apply:
//
//	function: expression (of x), trace_step, draw_points, draw_lines_between_points
//	sequence: expression (of n), n_min, trace_step, draw_points, draw_lines_between_points
//	vector:   x, y, start_x, start_y, draw_arrow, draw_points, draw_lines_between_points
type ElementSpec struct {
	Kind       string `toml:"kind" yaml:"kind"`
	Name       string `toml:"name,omitempty" yaml:"name,omitempty"`
	Expression string `toml:"expression,omitempty" yaml:"expression,omitempty"`

	TraceStep any `toml:"trace_step,omitempty" yaml:"trace_step,omitempty"`
	NMin      any `toml:"n_min,omitempty" yaml:"n_min,omitempty"`

	X         any `toml:"x,omitempty" yaml:"x,omitempty"`
	Y         any `toml:"y,omitempty" yaml:"y,omitempty"`
	StartX    any `toml:"start_x,omitempty" yaml:"start_x,omitempty"`
	StartY    any `toml:"start_y,omitempty" yaml:"start_y,omitempty"`
	DrawArrow any `toml:"draw_arrow,omitempty" yaml:"draw_arrow,omitempty"`

	DrawPoints any `toml:"draw_points,omitempty" yaml:"draw_points,omitempty"`
	DrawLines  any `toml:"draw_lines_between_points,omitempty" yaml:"draw_lines_between_points,omitempty"`
}

// Default returns the scene every file is decoded on top of.
func Default() File {
	return File{
		Width:  600,
		Height: 600,
		View: View{
			XMin: -10, XMax: 10, XGraduationStep: 1,
			YMin: -10, YMax: 10, YGraduationStep: 1,
		},
		Display: Display{
			XStepMovement: 0.5,
			YStepMovement: 0.5,
			LogPolicy:     "accumulate",
		},
	}
}

type decoder interface {
	Decode(v any) error
}

type decoderFunc func(r io.Reader) decoder

func decoderFor(f Format) (decoderFunc, error) {
	switch f {
	case FormatTOML:
		return func(r io.Reader) decoder {
			d := toml.NewDecoder(r)
			d.DisallowUnknownFields()
			return d
		}, nil
	case FormatYAML:
		return func(r io.Reader) decoder {
			d := yaml.NewDecoder(r)
			d.KnownFields(true)
			return d
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %s", ErrDecode, f)
	}
}

// Decode reads a scene in the given format on top of Default.
func Decode(r io.Reader, f Format) (*File, error) {
	newDecoder, err := decoderFor(f)
	if err != nil {
		return nil, err
	}
	out := Default()
	if err := newDecoder(r).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, f, err)
	}
	return &out, nil
}

// Encode writes f in the given format.
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unknown format %s", ErrDecode, format)
	}
}

// Open reads the scene at path, choosing the format from its extension.
func Open(path string) (*File, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	file, err := Decode(bufio.NewReader(fp), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}
