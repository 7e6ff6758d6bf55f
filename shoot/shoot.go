// Package shoot 双向打靶法求解 Thomas-Fermi 方程的两点边值问题
package shoot

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"thomasfermi/logging"
	"thomasfermi/types"
)

// maxHalving Newton 步长减半的最大次数
const maxHalving = 30

// Shooter 打靶法求解器
// 左半区从 x1 以 (1, v1) 向右积分，右半区从 x2 以 (y0(x2), v2) 向左积分，
// 调整 (v1, v2) 使两侧在适配点的函数值与导数一致
type Shooter struct {
	cfg    types.ShootConfig
	dx     float64
	logger *slog.Logger
}

// Option 打靶法选项
type Option func(*Shooter)

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shooter) { s.logger = logger }
}

// New 创建打靶法求解器，dx 为网格间隔
func New(cfg types.ShootConfig, dx float64, opts ...Option) *Shooter {
	s := &Shooter{cfg: cfg, dx: dx, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mesh 生成 [x1, x2] 上的等间隔网格，间隔取最接近 dx 的等分值
func Mesh(x1, x2, dx float64) []float64 {
	n := int(math.Round((x2 - x1) / dx))
	h := (x2 - x1) / float64(n)
	mesh := make([]float64, n+1)
	for i := range mesh {
		mesh[i] = x1 + float64(i)*h
	}
	mesh[n] = x2
	return mesh
}

// fitIndex 距离 xf 最近的内部节点
func fitIndex(mesh []float64, xf float64) int {
	n := len(mesh) - 1
	h := (mesh[n] - mesh[0]) / float64(n)
	m := int(math.Round((xf - mesh[0]) / h))
	return min(max(m, 1), n-1)
}

// shot 一次试射
type shot struct {
	s           *Shooter
	rk          *RK4
	left, right []float64 // 左半区网格（递增）与右半区网格（递减）
	far         float64   // y0(x2)
}

// integrateLeft 从 x1 积分到适配点
func (p *shot) integrateLeft(v1 float64, visit func(i int, y []float64)) [2]float64 {
	y := []float64{1, v1}
	grid := p.left
	offset := 0
	if grid[0] == 0 {
		// 原点处右端奇异，首步使用级数解
		if visit != nil {
			visit(0, y)
		}
		y[0], y[1] = Series(grid[1], v1)
		grid, offset = grid[1:], 1
	}
	p.rk.Integrate(grid, y, func(i int, y []float64) {
		if visit != nil {
			visit(i+offset, y)
		}
	})
	return [2]float64{y[0], y[1]}
}

// integrateRight 从 x2 反向积分到适配点
func (p *shot) integrateRight(v2 float64, visit func(i int, y []float64)) [2]float64 {
	y := []float64{p.far, v2}
	p.rk.Integrate(p.right, y, visit)
	return [2]float64{y[0], y[1]}
}

// residual 适配点处两侧的差
func (p *shot) residual(v [2]float64) [2]float64 {
	l := p.integrateLeft(v[0], nil)
	r := p.integrateRight(v[1], nil)
	return [2]float64{l[0] - r[0], l[1] - r[1]}
}

func norm(f [2]float64) float64 { return math.Max(math.Abs(f[0]), math.Abs(f[1])) }

func finite(f [2]float64) bool {
	return !math.IsNaN(f[0]) && !math.IsInf(f[0], 0) && !math.IsNaN(f[1]) && !math.IsInf(f[1], 0)
}

// newton 以差分 Jacobian 求 Newton 步
func (p *shot) newton(v, f [2]float64) ([2]float64, error) {
	delta := p.s.cfg.Delta
	jac := mat.NewDense(2, 2, nil)
	for j := 0; j < 2; j++ {
		vt := v
		vt[j] += delta
		ft := p.residual(vt)
		jac.Set(0, j, (ft[0]-f[0])/delta)
		jac.Set(1, j, (ft[1]-f[1])/delta)
	}
	var step mat.VecDense
	err := step.SolveVec(jac, mat.NewVecDense(2, []float64{-f[0], -f[1]}))
	var cond mat.Condition
	if err != nil && !errors.As(err, &cond) {
		return [2]float64{}, err
	}
	return [2]float64{step.AtVec(0), step.AtVec(1)}, nil
}

// Shoot 求解 [x1, x2] 上的匹配解
func (s *Shooter) Shoot(x1, x2, xf float64, far types.FarBoundary) (types.Trajectory, error) {
	if err := types.ValidateDomain(x1, x2, xf, s.dx); err != nil {
		return types.Trajectory{}, err
	}
	mesh := Mesh(x1, x2, s.dx)
	m := fitIndex(mesh, xf)
	right := make([]float64, len(mesh)-m)
	for i := range right {
		right[i] = mesh[len(mesh)-1-i]
	}
	p := &shot{s: s, rk: NewRK4(2, Equation), left: mesh[:m+1], right: right, far: far.Value}

	v := [2]float64{s.cfg.V1, far.Slope}
	f := p.residual(v)
	for it := 0; ; it++ {
		if !finite(f) {
			return types.Trajectory{}, fmt.Errorf("%w: non-finite residual at newton iteration %d", types.ErrShootingDiverged, it)
		}
		s.logger.Debug("shoot", "iteration", it, "v1", v[0], "v2", v[1], "residual", norm(f))
		if norm(f) <= s.cfg.Eps {
			break
		}
		if it >= s.cfg.MaxIterations {
			return types.Trajectory{}, fmt.Errorf("%w: residual %g after %d newton iterations", types.ErrShootingDiverged, norm(f), it)
		}
		step, err := p.newton(v, f)
		if err != nil {
			return types.Trajectory{}, fmt.Errorf("%w: %v", types.ErrShootingDiverged, err)
		}
		// 残差不下降时步长减半
		accepted := false
		for k, lambda := 0, 1.0; k < maxHalving; k, lambda = k+1, lambda/2 {
			vt := [2]float64{v[0] + lambda*step[0], v[1] + lambda*step[1]}
			if ft := p.residual(vt); finite(ft) && norm(ft) < norm(f) {
				v, f, accepted = vt, ft, true
				break
			}
		}
		if !accepted {
			return types.Trajectory{}, fmt.Errorf("%w: newton step stalled at residual %g", types.ErrShootingDiverged, norm(f))
		}
	}

	y := make([]float64, len(mesh))
	p.integrateLeft(v[0], func(i int, state []float64) { y[i] = state[0] })
	n := len(mesh) - 1
	p.integrateRight(v[1], func(i int, state []float64) {
		if n-i > m {
			y[n-i] = state[0]
		}
	})
	y[0], y[n] = 1, far.Value
	s.logger.Info("shoot matched", "nodes", len(mesh), "xf", mesh[m], "v1", v[0], "v2", v[1], "residual", norm(f))
	return types.Trajectory{X: mesh, Y: y, Slope: v[0]}, nil
}
