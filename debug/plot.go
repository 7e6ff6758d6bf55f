package debug

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// 图像尺寸
var (
	PlotWidth  = 6 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// Plot 静态图像输出（png/svg/pdf 等 gonum/plot 支持的格式）
type Plot struct {
	Record
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, min(len(x), len(y)))
	for i := range pts {
		pts[i].X, pts[i].Y = x[i], y[i]
	}
	return pts
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot %s: %w", name, err)
	}
	line.Color = c
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// Profile 解曲线图
func (pl *Plot) Profile() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Thomas-Fermi"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())
	if err := addLine(p, "shooting", xys(pl.Mesh, pl.Initial), color.RGBA{R: 0x19, G: 0x87, B: 0xc7, A: 0xff}); err != nil {
		return nil, err
	}
	if err := addLine(p, "self-consistent", xys(pl.Mesh, pl.Y), color.RGBA{R: 0xc7, G: 0x19, B: 0x79, A: 0xff}); err != nil {
		return nil, err
	}
	return p, nil
}

// Convergence 误差收敛图（纵轴为 log10）
func (pl *Plot) Convergence() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10(error)"
	p.Add(plotter.NewGrid())
	pts := make(plotter.XYs, len(pl.Error))
	for i, e := range pl.Error {
		pts[i].X = float64(pl.Iteration[i])
		pts[i].Y = math.Log10(math.Max(e, math.SmallestNonzeroFloat64))
	}
	if err := addLine(p, "error", pts, color.Black); err != nil {
		return nil, err
	}
	if pl.Tolerance > 0 && len(pts) > 0 {
		tol := plotter.XYs{{X: pts[0].X, Y: math.Log10(pl.Tolerance)}, {X: pts[len(pts)-1].X, Y: math.Log10(pl.Tolerance)}}
		if err := addLine(p, "tolerance", tol, color.RGBA{R: 0xc7, A: 0xff}); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Render 以 format 格式输出解曲线图
func (pl *Plot) Render(w io.Writer, format string) error {
	p, err := pl.Profile()
	if err != nil {
		return err
	}
	return write(p, w, format)
}

// RenderConvergence 以 format 格式输出收敛图
func (pl *Plot) RenderConvergence(w io.Writer, format string) error {
	p, err := pl.Convergence()
	if err != nil {
		return err
	}
	return write(p, w, format)
}

func write(p *plot.Plot, w io.Writer, format string) error {
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
