// Package chart renders pipeline output to PNG using go-chart.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sebasr/sensores-dashboard/internal/pipeline"
)

// Type selects the chart rendering.
type Type string

// Supported chart types. Lines, area and bars produce two stacked
// sub-charts (accelerometer and gyroscope); radar and radial produce a
// single combined view.
const (
	TypeLines  Type = "lines"
	TypeArea   Type = "area"
	TypeBars   Type = "bars"
	TypeRadar  Type = "radar"
	TypeRadial Type = "radial"
)

const subChartHeight = 320

// Axis unit labels, fixed locale.
const (
	accelAxisLabel = "Aceleración (m/s²)"
	gyroAxisLabel  = "Giro (rad/s)"
	noDataTitle    = "Sin datos para el periodo seleccionado"
)

// ParseType validates a chart type string; empty input selects lines.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case "":
		return TypeLines, nil
	case TypeLines, TypeArea, TypeBars, TypeRadar, TypeRadial:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown chart type %q", s)
	}
}

// Render draws the chart data as a PNG at the given pixel width. An empty
// result set draws the explicit no-data placeholder instead of an empty
// chart.
func Render(data pipeline.ChartData, typ Type, width int, w io.Writer) error {
	if data.Empty || len(data.Points) < 2 && (typ == TypeLines || typ == TypeArea || typ == TypeBars) {
		return renderNoData(width, w)
	}

	switch typ {
	case TypeLines:
		return renderSeries(data, width, false, w)
	case TypeArea:
		return renderSeries(data, width, true, w)
	case TypeBars:
		return renderMagnitudeBars(data, width, w)
	case TypeRadar:
		return renderRadar(data, width, w)
	case TypeRadial:
		return renderRadial(data, width, w)
	default:
		return fmt.Errorf("unknown chart type %q", typ)
	}
}

// renderSeries draws the per-axis line (or filled area) charts for both
// instruments and stacks them vertically into one image.
func renderSeries(data pipeline.ChartData, width int, filled bool, w io.Writer) error {
	times := make([]time.Time, len(data.Points))
	accel := [3][]float64{}
	gyro := [3][]float64{}
	for axis := 0; axis < 3; axis++ {
		accel[axis] = make([]float64, len(data.Points))
		gyro[axis] = make([]float64, len(data.Points))
	}
	for i, p := range data.Points {
		times[i] = p.At
		accel[0][i], accel[1][i], accel[2][i] = p.Accel.X, p.Accel.Y, p.Accel.Z
		gyro[0][i], gyro[1][i], gyro[2][i] = p.Gyro.X, p.Gyro.Y, p.Gyro.Z
	}

	accelImg, err := axesChart(accelAxisLabel, times, accel, width, filled)
	if err != nil {
		return err
	}
	gyroImg, err := axesChart(gyroAxisLabel, times, gyro, width, filled)
	if err != nil {
		return err
	}
	return stackVertical(w, accelImg, gyroImg)
}

func axesChart(title string, times []time.Time, axes [3][]float64, width int, filled bool) (image.Image, error) {
	names := []string{"X", "Y", "Z"}
	colors := []drawing.Color{chart.ColorBlue, chart.ColorGreen, chart.ColorRed}

	series := make([]chart.Series, 3)
	for i := range axes {
		series[i] = chart.TimeSeries{
			Name:    names[i],
			XValues: times,
			YValues: axes[i],
			Style:   axisStyle(colors[i], filled),
		}
	}

	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     subChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 12, Right: 12, Bottom: 8}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return renderToImage(&ch)
}

func axisStyle(color drawing.Color, filled bool) chart.Style {
	s := chart.Style{StrokeColor: color, StrokeWidth: 1.5}
	if filled {
		s.FillColor = color.WithAlpha(64)
	}
	return s
}

// renderMagnitudeBars draws per-point magnitude bars for both instruments.
func renderMagnitudeBars(data pipeline.ChartData, width int, w io.Writer) error {
	accelBars := make([]chart.Value, len(data.Points))
	gyroBars := make([]chart.Value, len(data.Points))
	for i, p := range data.Points {
		label := ""
		if sparse(i, len(data.Points)) {
			label = p.Label
		}
		accelBars[i] = chart.Value{Label: label, Value: p.AccelMag, Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}}
		gyroBars[i] = chart.Value{Label: label, Value: p.GyroMag, Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}}
	}

	accelImg, err := barChart(accelAxisLabel, accelBars, width)
	if err != nil {
		return err
	}
	gyroImg, err := barChart(gyroAxisLabel, gyroBars, width)
	if err != nil {
		return err
	}
	return stackVertical(w, accelImg, gyroImg)
}

// sparse thins bar labels so wide charts stay readable.
func sparse(i, total int) bool {
	step := total / 12
	if step < 1 {
		step = 1
	}
	return i%step == 0
}

func barChart(title string, bars []chart.Value, width int) (image.Image, error) {
	barWidth := width / (2 * len(bars))
	if barWidth < 2 {
		barWidth = 2
	}
	ch := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     subChartHeight,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 12, Right: 12, Bottom: 8}},
		Bars:       bars,
	}
	return renderBarToImage(&ch)
}

// renderRadar draws the latest snapshot's absolute axis values, one bar per
// axis per instrument. go-chart has no polar plot; the grouped bar view
// carries the same six spokes.
func renderRadar(data pipeline.ChartData, width int, w io.Writer) error {
	if data.Radar == nil {
		return renderNoData(width, w)
	}
	r := data.Radar
	bars := []chart.Value{
		{Label: "Acel X", Value: r.Accel.X, Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}},
		{Label: "Acel Y", Value: r.Accel.Y, Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}},
		{Label: "Acel Z", Value: r.Accel.Z, Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}},
		{Label: "Giro X", Value: r.Gyro.X, Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}},
		{Label: "Giro Y", Value: r.Gyro.Y, Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}},
		{Label: "Giro Z", Value: r.Gyro.Z, Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}},
	}

	ch := chart.BarChart{
		Title:      "Última lectura (valores absolutos)",
		Width:      width,
		Height:     2 * subChartHeight,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 12, Right: 12, Bottom: 8}},
		Bars:       bars,
	}
	return ch.Render(chart.PNG, w)
}

// renderRadial draws the two latest magnitudes as a donut.
func renderRadial(data pipeline.ChartData, width int, w io.Writer) error {
	if data.Radial == nil || (data.Radial.AccelMag == 0 && data.Radial.GyroMag == 0) {
		return renderNoData(width, w)
	}
	ch := chart.DonutChart{
		Title:  "Magnitudes de la última lectura",
		Width:  width,
		Height: 2 * subChartHeight,
		Values: []chart.Value{
			{Label: fmt.Sprintf("Acelerómetro %.2f m/s²", data.Radial.AccelMag), Value: data.Radial.AccelMag},
			{Label: fmt.Sprintf("Giroscopio %.2f rad/s", data.Radial.GyroMag), Value: data.Radial.GyroMag},
		},
	}
	return ch.Render(chart.PNG, w)
}

// renderNoData draws the explicit placeholder for an empty filtered set.
func renderNoData(width int, w io.Writer) error {
	ch := chart.Chart{
		Title:  noDataTitle,
		Width:  width,
		Height: subChartHeight,
		XAxis:  chart.XAxis{Style: chart.Hidden()},
		YAxis:  chart.YAxis{Style: chart.Hidden()},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{StrokeColor: chart.ColorTransparent},
			},
		},
	}
	return ch.Render(chart.PNG, w)
}

func renderToImage(ch *chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func renderBarToImage(ch *chart.BarChart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// stackVertical composes the sub-charts into a single PNG.
func stackVertical(w io.Writer, images ...image.Image) error {
	width, height := 0, 0
	for _, img := range images {
		b := img.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	y := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}
	return png.Encode(w, out)
}
