// Package iteration Thomas-Fermi 方程的自洽迭代
//
// 初始化时由打靶法得到初始解并建立有限元方程组，
// 此后反复执行 混合 → 更新系数场 → 重建载荷 → 求解，
// 误差上升时缩小混合系数，直到两次迭代之差不超过容差。
package iteration

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"thomasfermi/logging"
	"thomasfermi/maths"
	"thomasfermi/types"
)

// Collaborators 迭代所需的外部组件
type Collaborators struct {
	Profile     types.Profile
	Shooter     types.Shooter
	Discretizer types.Discretizer
	Solver      types.LinearSolver
}

// Result 迭代结果
type Result struct {
	types.Solution
	Slope    float64                      // 打靶法得到的 y'(x1)
	Boundary [types.BoundaryCount]float64 // 两端的 Dirichlet 值
}

// Option 迭代选项
type Option func(*Engine)

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDebug 设置调试输出
func WithDebug(debug types.Debug) Option {
	return func(e *Engine) { e.debug = debug }
}

// WithKernel 设置节点运算内核
func WithKernel(kernel *maths.Kernel) Option {
	return func(e *Engine) { e.kernel = kernel }
}

// noDebug 空调试输出
type noDebug struct{}

func (noDebug) Init(types.RunInfo)    {}
func (noDebug) Update(types.Step)     {}
func (noDebug) Finish(types.Solution) {}

// Engine 自洽迭代引擎
type Engine struct {
	cfg    types.Config
	c      Collaborators
	kernel *maths.Kernel
	logger *slog.Logger
	debug  types.Debug

	mesh     []float64 // 网格（初始化后不变）
	initial  []float64 // 打靶法初始解
	current  []float64 // 当前解
	previous []float64 // 上一次交给求解器的混合解
	beta     []float64 // 系数场缓冲

	index [types.BoundaryCount]int     // 约束节点
	value [types.BoundaryCount]float64 // 约束值
	slope float64

	alpha     float64
	err       float64
	prevErr   float64
	iteration int
	converged bool
}

// New 初始化迭代引擎
// 失败时不返回引擎，错误为 *types.PhaseError
func New(cfg types.Config, c Collaborators, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     cfg,
		c:       c,
		kernel:  maths.NewKernel(cfg.UseSIMD, cfg.UseParallel, cfg.Workers),
		logger:  logging.NewNop(),
		debug:   noDebug{},
		alpha:   cfg.Alpha,
		err:     types.InitialError,
		prevErr: types.InitialError,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.init(); err != nil {
		return nil, err
	}
	return e, nil
}

// init 打靶 → 建立方程组 → 首次求解
func (e *Engine) init() error {
	y2, v2 := e.c.Profile.ValueAndSlope(e.cfg.X2)
	tr, err := e.c.Shooter.Shoot(e.cfg.X1, e.cfg.X2, e.cfg.XF, types.FarBoundary{Value: y2, Slope: v2})
	if err != nil {
		return types.NewPhaseError(types.PhaseShoot, 0, err)
	}
	if len(tr.X) < 2 || len(tr.Y) != len(tr.X) {
		return types.NewPhaseError(types.PhaseShoot, 0,
			fmt.Errorf("%w: trajectory has %d points and %d values", types.ErrDimension, len(tr.X), len(tr.Y)))
	}
	n := len(tr.X)
	e.mesh = slices.Clone(tr.X)
	e.initial = slices.Clone(tr.Y)
	e.current = slices.Clone(tr.Y)
	e.previous = slices.Clone(tr.Y)
	e.beta = make([]float64, n)
	e.slope = tr.Slope
	e.index = [types.BoundaryCount]int{0, n - 1}
	e.value = [types.BoundaryCount]float64{tr.Y[0], tr.Y[n-1]}

	CoefficientField(e.kernel, e.beta, e.mesh, e.current)
	if err := e.c.Discretizer.Build(e.mesh, e.beta); err != nil {
		return types.NewPhaseError(types.PhaseBuild, 0, err)
	}
	if got := e.c.Discretizer.NodeCount(); got != n {
		return types.NewPhaseError(types.PhaseBuild, 0,
			fmt.Errorf("%w: discretizer has %d nodes for %d mesh points", types.ErrDimension, got, n))
	}
	x, err := e.solve()
	if err != nil {
		return types.NewPhaseError(types.PhaseSolve, 0, err)
	}
	e.current = x

	e.logger.Info("init", "nodes", n, "y1", e.value[0], "y2", e.value[1], "slope", e.slope, "far_slope", v2)
	e.debug.Init(types.RunInfo{
		Mesh:      e.mesh,
		Initial:   e.initial,
		Boundary:  e.value,
		Slope:     e.slope,
		Alpha:     e.alpha,
		Tolerance: e.cfg.Tolerance,
	})
	return nil
}

// solve 以两端约束求解当前方程组
func (e *Engine) solve() ([]float64, error) {
	idx := e.index[:]
	x, err := e.c.Solver.Solve(e.c.Discretizer.Stiffness(), e.c.Discretizer.Load(), idx, idx, e.value[:])
	if err != nil {
		return nil, err
	}
	if len(x) != len(e.mesh) {
		panic(fmt.Sprintf("solver returned %d values for %d nodes", len(x), len(e.mesh)))
	}
	for j, i := range e.index {
		x[i] = e.value[j]
	}
	return x, nil
}

// Step 执行一次迭代，返回是否已收敛
func (e *Engine) Step() (bool, error) {
	next := e.iteration + 1
	Mix(e.kernel, e.current, e.previous, e.alpha)
	CoefficientField(e.kernel, e.beta, e.mesh, e.current)
	if err := e.c.Discretizer.Refresh(e.beta); err != nil {
		return false, types.NewPhaseError(types.PhaseBuild, next, err)
	}
	x, err := e.solve()
	if err != nil {
		return false, types.NewPhaseError(types.PhaseSolve, next, err)
	}
	e.previous, e.current = e.current, x

	e.prevErr, e.err = e.err, IterationError(e.kernel, e.current, e.previous)
	e.iteration = next
	if math.IsNaN(e.err) || math.IsInf(e.err, 0) {
		return false, types.NewPhaseError(types.PhaseIterate, next, fmt.Errorf("%w: error %g", types.ErrDiverged, e.err))
	}
	reduced := e.err > e.prevErr
	if reduced {
		e.alpha *= types.IterationReduction
		e.logger.Warn("alpha reduced", "iteration", next, "error", e.err, "previous", e.prevErr, "alpha", e.alpha)
	}
	e.logger.Info("iteration", "iteration", next, "error", e.err, "alpha", e.alpha)
	e.debug.Update(types.Step{Iteration: next, Error: e.err, Alpha: e.alpha, Reduced: reduced})
	e.converged = e.err <= e.cfg.Tolerance
	return e.converged, nil
}

// Run 迭代直到收敛、达到最大迭代次数或 ctx 结束
// 出错时同时返回出错前的状态
func (e *Engine) Run(ctx context.Context) (Result, error) {
	for !e.converged {
		if err := ctx.Err(); err != nil {
			return e.finish(), types.NewPhaseError(types.PhaseIterate, e.iteration, err)
		}
		if e.iteration >= e.cfg.MaxIterations {
			return e.finish(), types.NewPhaseError(types.PhaseIterate, e.iteration,
				fmt.Errorf("%w: error %g after %d iterations", types.ErrNotConverged, e.err, e.iteration))
		}
		if _, err := e.Step(); err != nil {
			return e.finish(), err
		}
	}
	e.logger.Info("converged", "iterations", e.iteration, "error", e.err, "alpha", e.alpha)
	return e.finish(), nil
}

// finish 汇总结果并通知调试输出
func (e *Engine) finish() Result {
	res := Result{
		Solution: types.Solution{
			Mesh:       slices.Clone(e.mesh),
			Y:          slices.Clone(e.current),
			Beta:       slices.Clone(e.c.Discretizer.Beta()),
			Iterations: e.iteration,
			Error:      e.err,
			Alpha:      e.alpha,
			Converged:  e.converged,
		},
		Slope:    e.slope,
		Boundary: e.value,
	}
	e.debug.Finish(res.Solution)
	return res
}

// Mesh 网格（只读）
func (e *Engine) Mesh() []float64 { return e.mesh }

// Current 当前解（只读）
func (e *Engine) Current() []float64 { return e.current }

// Previous 上一次交给求解器的混合解（只读）
func (e *Engine) Previous() []float64 { return e.previous }

// Beta 离散器最后一次使用的系数场
func (e *Engine) Beta() []float64 { return e.c.Discretizer.Beta() }

// Alpha 当前混合系数
func (e *Engine) Alpha() float64 { return e.alpha }

// Error 最近一次迭代误差（迭代前为 +Inf）
func (e *Engine) Error() float64 { return e.err }

// Iteration 已完成的迭代次数
func (e *Engine) Iteration() int { return e.iteration }

// Converged 是否已收敛
func (e *Engine) Converged() bool { return e.converged }

// Boundary 约束节点与约束值
func (e *Engine) Boundary() ([types.BoundaryCount]int, [types.BoundaryCount]float64) {
	return e.index, e.value
}

// Slope 打靶法得到的 y'(x1)
func (e *Engine) Slope() float64 { return e.slope }
