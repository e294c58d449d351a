package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/model"
)

// Chart file names written by RenderCharts.
const (
	MonthlyChartFile      = "monthly_trend.png"
	DailyChartFile        = "daily_volume.png"
	PaymentModesChartFile = "payment_modes.png"
)

const (
	chartWidth  = 1000
	chartHeight = 420
	maxXLabels  = 12
)

// ErrNoChartData is returned when a chart has nothing to plot.
var ErrNoChartData = errors.New("not enough data to draw chart")

var (
	amountColor = drawing.ColorFromHex("2563eb")
	modeColors  = map[string]drawing.Color{
		model.ModeCreditCard: drawing.ColorFromHex("2563eb"),
		model.ModeDebitCard:  drawing.ColorFromHex("f59e0b"),
		model.ModeUPI:        drawing.ColorFromHex("10b981"),
	}
	otherColor = drawing.ColorFromHex("9ca3af")
)

// ModeColor returns the slice color of a payment mode.
func ModeColor(mode string) drawing.Color {
	if c, ok := modeColors[mode]; ok {
		return c
	}
	return otherColor
}

// MonthlyTrendChart plots total amount per month as a line.
func MonthlyTrendChart(buckets []analytics.Bucket) (chart.Chart, error) {
	if len(buckets) == 0 {
		return chart.Chart{}, ErrNoChartData
	}

	xs := make([]float64, len(buckets))
	ys := make([]float64, len(buckets))
	ticks := []chart.Tick{{Value: -0.5}}
	step := labelStep(len(buckets))
	for i, b := range buckets {
		xs[i] = float64(i)
		ys[i] = b.TotalAmount.InexactFloat64()
		label := ""
		if i%step == 0 {
			label = b.Period
		}
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(buckets)) - 0.5})

	return chart.Chart{
		Title:  "Monthly amount",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: ceiling(ys)},
			ValueFormatter: amountFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Amount",
				Style: chart.Style{
					StrokeColor: amountColor,
					StrokeWidth: 2,
					DotColor:    amountColor,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}, nil
}

// DailyVolumeChart plots the transaction count of each day as bars.
func DailyVolumeChart(buckets []analytics.Bucket) (chart.BarChart, error) {
	if len(buckets) == 0 {
		return chart.BarChart{}, ErrNoChartData
	}

	bars := make([]chart.Value, 0, len(buckets))
	counts := make([]float64, 0, len(buckets))
	step := labelStep(len(buckets))
	for i, b := range buckets {
		label := ""
		if i%step == 0 {
			label = b.Period
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: float64(b.Count),
			Style: chart.Style{FillColor: amountColor, StrokeColor: amountColor},
		})
		counts = append(counts, float64(b.Count))
	}

	spacing := 10
	if len(bars) > 30 {
		spacing = 2
	}
	width := (chartWidth-120)/len(bars) - spacing
	width = max(1, min(width, 60))

	return chart.BarChart{
		Title:  "Daily transactions",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth:   width,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: ceiling(counts)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}, nil
}

// PaymentModeChart shows the payment-mode breakdown as a pie.
func PaymentModeChart(slices []analytics.Slice) (chart.PieChart, error) {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Name, s.Value),
			Value: float64(s.Value),
			Style: chart.Style{FillColor: ModeColor(s.Name)},
		})
	}
	if len(values) == 0 {
		return chart.PieChart{}, ErrNoChartData
	}

	return chart.PieChart{
		Title:  "Payment modes",
		Width:  chartHeight * 3 / 2,
		Height: chartHeight * 3 / 2,
		Values: values,
	}, nil
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// RenderCharts writes the monthly, daily and payment-mode charts of r into
// dir and returns the written paths. Charts without data are skipped.
func RenderCharts(dir string, r analytics.Report, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	type job struct {
		build func() (renderable, error)
		file  string
	}
	jobs := []job{
		{file: MonthlyChartFile, build: func() (renderable, error) { return MonthlyTrendChart(r.Monthly) }},
		{file: DailyChartFile, build: func() (renderable, error) { return DailyVolumeChart(r.Daily) }},
		{file: PaymentModesChartFile, build: func() (renderable, error) { return PaymentModeChart(r.PaymentModes) }},
	}

	var written []string
	for _, j := range jobs {
		c, err := j.build()
		if errors.Is(err, ErrNoChartData) {
			logger.Debug("Skipping chart without data", "chart", j.file)
			continue
		}
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, j.file)
		if err := renderFile(path, c); err != nil {
			return written, err
		}
		written = append(written, path)
		logger.Debug("Rendered chart", "path", path)
	}
	return written, nil
}

func renderFile(path string, c renderable) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := c.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	return nil
}

func labelStep(n int) int {
	return max(1, int(math.Ceil(float64(n)/maxXLabels)))
}

func ceiling(values []float64) float64 {
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top <= 0 {
		return 1
	}
	return top * 1.1
}

func amountFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
