package plot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraduations_ZeroStepDisablesAxis(t *testing.T) {
	vp, err := NewViewport(Bounds{XMin: -5, XMax: 5, YMin: -5, YMax: 5}, 0, 1, 100, 100)
	require.NoError(t, err)

	ticks := Graduations(vp, true, true)
	require.Empty(t, ticks.X)
	require.Len(t, ticks.Y, 11)
	require.Len(t, ticks.Labels, 11, "labels only for the enabled axis")
}

func TestGraduations_OriginTick(t *testing.T) {
	vp, err := NewViewport(Bounds{XMin: -1.5, XMax: 2.5, YMin: -10, YMax: 0}, 0.5, 2.5, 400, 100)
	require.NoError(t, err)

	require.Equal(t, []float64{0, 0.5, 1, 1.5, 2, 2.5, -0.5, -1, -1.5}, axisValues(vp.XStep, vp.XMin, vp.XMax, nil))
	require.Equal(t, []float64{0, -2.5, -5, -7.5, -10}, axisValues(vp.YStep, vp.YMin, vp.YMax, nil))

	ticks := Graduations(vp, false, false)
	require.Contains(t, ticks.X, Point{X: 150, Y: 0})
	require.Empty(t, ticks.Labels)
}

func TestGraduations_OriginOutsideWindow(t *testing.T) {
	require.Equal(t, []float64{6, 8, 10}, axisValues(2, 5, 10, nil))
	require.Equal(t, []float64{-6, -8, -10}, axisValues(2, -10, -5, nil))
	require.Nil(t, axisValues(0, -1, 1, nil))
}

func TestGraduations_Labels(t *testing.T) {
	vp, err := NewViewport(Bounds{XMin: -2, XMax: 2, YMin: -2, YMax: 2}, 1, 2, 400, 400)
	require.NoError(t, err)

	ticks := Graduations(vp, true, true)
	require.Len(t, ticks.X, 5)
	require.Len(t, ticks.Y, 3)
	require.Len(t, ticks.Labels, 8)

	first := ticks.Labels[0]
	require.Equal(t, 0.0, first.Value)
	require.Equal(t, Point{X: 200, Y: 210}, first.Anchor, "x labels sit below the axis")

	var yOrigin Label
	for _, l := range ticks.Labels[5:] {
		if l.Value == 2 {
			yOrigin = l
		}
	}
	require.Equal(t, Point{X: 190, Y: 0}, yOrigin.Anchor, "y labels sit left of the axis")
}

func TestGraduations_WideWindowReachesBothBounds(t *testing.T) {
	vp, err := NewViewport(Bounds{XMin: -1e4, XMax: 1e4, YMin: -1, YMax: 1}, 1, 0, 600, 600)
	require.NoError(t, err)

	ticks := Graduations(vp, true, false)
	require.Contains(t, ticks.X, vp.toScreen(Point{X: 1e4}))
	require.Contains(t, ticks.X, vp.toScreen(Point{X: -1e4}))
	require.Contains(t, ticks.X, vp.toScreen(Point{}))

	// one tick per pixel column, plus the outermost tick on each side
	require.LessOrEqual(t, len(ticks.X), 605)
	require.Greater(t, len(ticks.X), 550)
	require.Len(t, ticks.Labels, len(ticks.X))

	values := axisValues(vp.XStep, vp.XMin, vp.XMax, nil)
	require.Len(t, values, 20001)
}

func TestGraduations_ThinningKeepsDistinctPixels(t *testing.T) {
	vp, err := NewViewport(Bounds{XMin: -100, XMax: 100, YMin: -1, YMax: 1}, 0.01, 0, 200, 100)
	require.NoError(t, err)

	seen := map[float64]int{}
	for _, p := range Graduations(vp, false, false).X {
		seen[math.Round(p.X)]++
	}
	for col, n := range seen {
		if col == 0 || col == 200 {
			require.LessOrEqual(t, n, 2, "column %v", col)
			continue
		}
		require.Equal(t, 1, n, "column %v", col)
	}
	require.Equal(t, 1, seen[100], "origin column")
}
