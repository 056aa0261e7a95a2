package scene

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"plotter/internal/plot"
)

func decodeTOML(t *testing.T, src string) *File {
	t.Helper()
	f, err := Decode(strings.NewReader(src), FormatTOML)
	require.NoError(t, err)
	return f
}

func requireConfigError(t *testing.T, err error, field string) {
	t.Helper()
	var ce *plot.ConfigError
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, plot.ErrConfiguration)
	require.Equal(t, field, ce.Field)
}

func TestDemo(t *testing.T) {
	f, err := Demo()
	require.NoError(t, err)
	s, err := f.Build()
	require.NoError(t, err)

	require.Equal(t, "plotter demo", s.Title)
	require.Equal(t, 640, s.Width)
	require.Equal(t, plot.Bounds{XMin: -8, XMax: 8, YMin: -6, YMax: 6}, s.Viewport.Bounds)
	require.Len(t, s.Elements, 4)
	require.Equal(t, []plot.Kind{plot.KindFunction, plot.KindFunction, plot.KindSequence, plot.KindVector},
		[]plot.Kind{s.Elements[0].Kind, s.Elements[1].Kind, s.Elements[2].Kind, s.Elements[3].Kind})
	require.Equal(t, 0.05, s.Elements[0].TraceStep())
	require.Equal(t, "Vector(x=3 ; y=2) starting at (x=-4 ; y=-3)", s.Elements[3].Name)
	require.True(t, s.Elements[3].DrawArrow())
	require.Equal(t, color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}, s.Options.Graduation)
	require.Len(t, s.Options.Palette, 4)
	require.True(t, s.Options.ShowCoordinate)
	require.Equal(t, 0.5, s.Options.XVelocity)

	_, err = plot.New(s.Viewport, s.Elements, s.Options)
	require.NoError(t, err)
}

func TestDecode_YAML(t *testing.T) {
	src := `
title: yaml scene
width: 200
height: 100
viewport:
  x_min: -1
  x_max: 1
  x_graduation_step: 0.5
  y_min: 0
  y_max: 2
  y_graduation_step: 0
style:
  background_color: [10, 20, 30]
display:
  log_policy: clear
elements:
  - kind: sequence
    expression: n * 2
    n_min: 1
    trace_step: 2
  - kind: function
    name: line
    expression: x
    draw_points: true
`
	f, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	s, err := f.Build()
	require.NoError(t, err)

	require.Equal(t, plot.Bounds{XMin: -1, XMax: 1, YMin: 0, YMax: 2}, s.Viewport.Bounds)
	require.Equal(t, 0.0, s.Viewport.YStep)
	require.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 0xFF}, s.Options.Background)
	require.Equal(t, plot.LogClearPerPass, s.Options.LogPolicy)
	require.Equal(t, 0.5, s.Options.YVelocity, "defaults survive decoding")

	seq := s.Elements[0]
	require.Equal(t, "n * 2", seq.Name)
	require.Equal(t, 1, seq.NMin())
	require.Equal(t, 2, seq.SequenceStep())
	require.Equal(t, plot.SequenceFlags, seq.Flags)

	fn := s.Elements[1]
	require.Equal(t, "line", fn.Name)
	require.Equal(t, plot.Flags{DrawPoints: true, DrawLines: true}, fn.Flags)
	require.Equal(t, 0.1, fn.TraceStep())
}

func TestDecode_EmptyYAML(t *testing.T) {
	f, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, Default(), *f)
}

func TestDecode_UnknownKey(t *testing.T) {
	_, err := Decode(strings.NewReader("colour = 1\n"), FormatTOML)
	require.ErrorIs(t, err, ErrDecode)

	_, err = Decode(strings.NewReader("colour: 1\n"), FormatYAML)
	require.ErrorIs(t, err, ErrDecode)
}

func TestBuild_ConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"flag type", "[[element]]\nkind = \"function\"\nexpression = \"x\"\ndraw_points = \"yes\"\n", "element[0].draw_points"},
		{"float sequence step", "[[element]]\nkind = \"sequence\"\nexpression = \"n\"\ntrace_step = 2.0\n", "element[0].trace_step"},
		{"zero function step", "[[element]]\nkind = \"function\"\nexpression = \"x\"\ntrace_step = 0\n", "element[0].trace_step"},
		{"negative n_min", "[[element]]\nkind = \"sequence\"\nexpression = \"n\"\nn_min = -1\n", "element[0].n_min"},
		{"unknown kind", "[[element]]\nkind = \"surface\"\n", "element[0].kind"},
		{"unknown identifier", "[[element]]\nkind = \"function\"\nexpression = \"y + 1\"\n", "element[0].expression"},
		{"sequence uses n", "[[element]]\nkind = \"sequence\"\nexpression = \"x\"\n", "element[0].expression"},
		{"arrow type", "[[element]]\nkind = \"vector\"\nx = 1\ndraw_arrow = 1\n", "element[0].draw_arrow"},
		{"vector coordinate", "[[element]]\nkind = \"vector\"\nx = \"1\"\n", "element[0].x"},
		{"bad color", "[style]\naxes_color = \"#zzzzzz\"\n", "axes_color"},
		{"short color", "[style]\npoints_color_list = [[1, 2]]\n", "points_color_list[0]"},
		{"log policy", "[display]\nlog_policy = \"sometimes\"\n", "log_policy"},
		{"bounds", "[viewport]\nx_min = 1.0\nx_max = 1.0\n", "x_min"},
		{"size", "width = 0\n", "screen_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTOML(t, tt.src).Build()
			requireConfigError(t, err, tt.field)
		})
	}
}

func TestBuild_EvaluationFailures(t *testing.T) {
	f := decodeTOML(t, `
[viewport]
x_min = -2.0
x_max = 2.0

[[element]]
kind = "function"
name = "inv"
expression = "1 / x"
trace_step = 1.0

[[element]]
kind = "function"
name = "root"
expression = "sqrt(x)"
trace_step = 1.0

[[element]]
kind = "function"
name = "pow"
expression = "x ^ 0.5"
trace_step = 1.0

[[element]]
kind = "function"
name = "big"
expression = "exp(x * 1000)"
trace_step = 1.0

[[element]]
kind = "function"
name = "floor"
expression = "floor(x ^ 0.5)"
trace_step = 1.0
`)
	s, err := f.Build()
	require.NoError(t, err)

	sampler := plot.Sampler{Log: plot.NewErrorLog()}
	for _, el := range s.Elements {
		_, err := sampler.Sample(s.Viewport, el)
		require.NoError(t, err, el.Name)
	}
	require.Equal(t, []string{"division by zero"}, sampler.Log.Messages("inv"))
	require.Equal(t, []string{"math domain error"}, sampler.Log.Messages("root"))
	require.Equal(t, []string{"Result Is Complex Number"}, sampler.Log.Messages("pow"))
	require.Equal(t, []string{"math range error"}, sampler.Log.Messages("big"))
	require.Equal(t, []string{"floor: must be real number, not complex"}, sampler.Log.Messages("floor"))
}

func TestBuild_SequenceTypeMismatchIsFatal(t *testing.T) {
	f := decodeTOML(t, `
[[element]]
kind = "sequence"
name = "u"
expression = "floor((n - 3) ^ 0.5)"
`)
	s, err := f.Build()
	require.NoError(t, err)

	_, err = (&plot.Sampler{}).Sample(s.Viewport, s.Elements[0])
	require.ErrorIs(t, err, plot.ErrFunctionEvaluating)
	require.ErrorIs(t, err, plot.ErrTypeMismatch)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yml")
	require.NoError(t, os.WriteFile(path, []byte("title: from disk\n"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, "from disk", f.Title)

	_, err = Open(filepath.Join(dir, "scene.json"))
	require.ErrorIs(t, err, ErrDecode)

	_, err = Open(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.toml": FormatTOML,
		"b.YAML": FormatYAML,
		"c.yml":  FormatYAML,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		require.Equal(t, want, got, path)
	}
	_, err := FormatOf("scene")
	require.ErrorIs(t, err, ErrDecode)
}
