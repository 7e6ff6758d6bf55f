package debug

import (
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	Record
}

// lineChart 统一样式的折线图
func lineChart(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithAnimation(true),
	)
	return line
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i] = opts.LineData{Value: v}
	}
	return items
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	// 解曲线
	lineY := lineChart("Thomas-Fermi 解", "y(x) 与打靶法初始解")
	lineY.SetXAxis(c.Mesh)
	lineY.AddSeries("初始解", lineData(c.Initial))
	if len(c.Y) > 0 {
		lineY.AddSeries("自洽解", lineData(c.Y))
	}
	lineY.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	// 系数场
	lineB := lineChart("系数场", "β(x) = y^(3/2)/sqrt(x)")
	lineB.SetXAxis(c.Mesh)
	lineB.AddSeries("β", lineData(c.Beta))
	lineB.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	// 收敛过程
	logErr := make([]float64, len(c.Error))
	for i, e := range c.Error {
		logErr[i] = math.Log10(math.Max(e, math.SmallestNonzeroFloat64))
	}
	lineE := lineChart("收敛过程", "log10(误差) 与混合系数随迭代次数变化")
	lineE.SetXAxis(c.Iteration)
	lineE.AddSeries("log10(误差)", lineData(logErr))
	lineE.AddSeries("α", lineData(c.Alpha))

	page := components.NewPage()
	page.AddCharts(
		lineY,
		lineB,
		lineE,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		slog.Error("render charts", "error", err)
	}
}
