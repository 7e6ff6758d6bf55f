package iteration

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thomasfermi/maths"
	"thomasfermi/types"
)

// fakeProfile 固定的远端值
type fakeProfile struct{ y, dy float64 }

func (p fakeProfile) ValueAndSlope(float64) (float64, float64) { return p.y, p.dy }

// fakeShooter 返回预设轨迹
type fakeShooter struct {
	tr  types.Trajectory
	err error
	far types.FarBoundary
}

func (s *fakeShooter) Shoot(_, _, _ float64, far types.FarBoundary) (types.Trajectory, error) {
	s.far = far
	return s.tr, s.err
}

// fakeDiscretizer 记录网格与系数场
type fakeDiscretizer struct {
	mesh, beta []float64
	stiff      maths.Matrix
	load       []float64
	refreshes  int
	buildErr   error
	refreshErr error
	failAt     int // 第 failAt 次 Refresh 失败
}

func (d *fakeDiscretizer) Build(mesh, beta []float64) error {
	if d.buildErr != nil {
		return d.buildErr
	}
	d.mesh = mesh
	d.beta = slices.Clone(beta)
	d.stiff = maths.NewSparseMatrix(len(mesh), len(mesh))
	d.load = make([]float64, len(mesh))
	return nil
}

func (d *fakeDiscretizer) Refresh(beta []float64) error {
	d.refreshes++
	if d.refreshErr != nil && d.refreshes == d.failAt {
		return d.refreshErr
	}
	d.beta = slices.Clone(beta)
	return nil
}

func (d *fakeDiscretizer) Stiffness() maths.Matrix { return d.stiff }
func (d *fakeDiscretizer) Load() []float64         { return d.load }
func (d *fakeDiscretizer) NodeCount() int          { return len(d.mesh) }
func (d *fakeDiscretizer) Beta() []float64         { return d.beta }

// fakeSolver 第 call 次调用返回 next(call)
type fakeSolver struct {
	calls int
	next  func(call int) ([]float64, error)
}

func (s *fakeSolver) Solve(_ maths.Matrix, _ []float64, _, _ []int, _ []float64) ([]float64, error) {
	s.calls++
	return s.next(s.calls)
}

// recorder 记录调试输出
type recorder struct {
	info     types.RunInfo
	steps    []types.Step
	solution *types.Solution
}

func (r *recorder) Init(info types.RunInfo)   { r.info = info }
func (r *recorder) Update(step types.Step)    { r.steps = append(r.steps, step) }
func (r *recorder) Finish(sol types.Solution) { r.solution = &sol }

const nodes = 11

func testMesh() []float64 {
	mesh := make([]float64, nodes)
	for i := range mesh {
		mesh[i] = float64(i) / float64(nodes-1)
	}
	return mesh
}

// target 固定点：1 - x
func target() []float64 {
	t := testMesh()
	for i := range t {
		t[i] = 1 - t[i]
	}
	return t
}

// shootProfile 与 target 端点相同的初始解
func shootProfile() []float64 {
	y := target()
	for i := 1; i < nodes-1; i++ {
		y[i] += 0.3
	}
	return y
}

func testConfig() types.Config {
	cfg := types.DefaultConfig()
	cfg.X1, cfg.X2, cfg.XF = 0, 1, 0.5
	cfg.Alpha = 0.5
	cfg.Tolerance = 1e-10
	cfg.MaxIterations = 1000
	return cfg
}

type fixture struct {
	shooter *fakeShooter
	disc    *fakeDiscretizer
	solver  *fakeSolver
	debug   *recorder
}

func newFixture(next func(call int) ([]float64, error)) *fixture {
	return &fixture{
		shooter: &fakeShooter{tr: types.Trajectory{X: testMesh(), Y: shootProfile(), Slope: -1}},
		disc:    &fakeDiscretizer{},
		solver:  &fakeSolver{next: next},
		debug:   &recorder{},
	}
}

func (f *fixture) engine(t *testing.T, cfg types.Config) *Engine {
	t.Helper()
	e, err := f.new(cfg)
	require.NoError(t, err)
	return e
}

func (f *fixture) new(cfg types.Config) (*Engine, error) {
	return New(cfg, Collaborators{
		Profile:     fakeProfile{y: 0, dy: -0.5},
		Shooter:     f.shooter,
		Discretizer: f.disc,
		Solver:      f.solver,
	}, WithDebug(f.debug))
}

// contractive 每次都返回 target
func contractive(int) ([]float64, error) { return target(), nil }

// oscillating 内部节点按 ±amplitude(call) 振荡
func oscillating(amplitude func(call int) float64) func(int) ([]float64, error) {
	return func(call int) ([]float64, error) {
		x := target()
		sign := 1.0
		if call%2 == 0 {
			sign = -1
		}
		for i := 1; i < nodes-1; i++ {
			x[i] += sign * amplitude(call)
		}
		return x, nil
	}
}

func TestEngine_Init(t *testing.T) {
	f := newFixture(contractive)
	e := f.engine(t, testConfig())

	assert.Equal(t, types.FarBoundary{Value: 0, Slope: -0.5}, f.shooter.far)
	assert.Equal(t, testMesh(), e.Mesh())
	assert.Equal(t, target(), e.Current())
	assert.Equal(t, shootProfile(), e.Previous())
	assert.Equal(t, 1, f.solver.calls)
	assert.Equal(t, 0, e.Iteration())
	assert.True(t, math.IsInf(e.Error(), 1))
	assert.Equal(t, 0.5, e.Alpha())
	assert.Equal(t, -1.0, e.Slope())

	idx, val := e.Boundary()
	assert.Equal(t, [types.BoundaryCount]int{0, nodes - 1}, idx)
	assert.Equal(t, [types.BoundaryCount]float64{1, 0}, val)

	// 网格共享给离散器
	assert.Equal(t, e.Mesh(), f.disc.mesh)
	assert.Equal(t, testMesh(), f.debug.info.Mesh)
	assert.Equal(t, shootProfile(), f.debug.info.Initial)
}

func TestEngine_ConvergesOnContractiveSystem(t *testing.T) {
	f := newFixture(contractive)
	e := f.engine(t, testConfig())

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.Error, 1e-10)
	assert.InDeltaSlice(t, target(), res.Y, 1e-15)
	assert.Equal(t, 0.5, res.Alpha)
	assert.Equal(t, e.Iteration(), res.Iterations)
	assert.Equal(t, [types.BoundaryCount]float64{1, 0}, res.Boundary)

	// 误差按 (1-α) 递减
	require.Len(t, f.debug.steps, res.Iterations)
	for i := 1; i < len(f.debug.steps); i++ {
		prev, cur := f.debug.steps[i-1], f.debug.steps[i]
		assert.InEpsilon(t, 0.5, cur.Error/prev.Error, 1e-3)
		assert.False(t, cur.Reduced)
	}
	require.NotNil(t, f.debug.solution)
	assert.True(t, f.debug.solution.Converged)
	assert.Equal(t, f.disc.beta, res.Beta)
}

func TestEngine_MeshInvariance(t *testing.T) {
	f := newFixture(oscillating(func(int) float64 { return 0.1 }))
	e := f.engine(t, testConfig())
	mesh := e.Mesh()
	for i := 0; i < 50; i++ {
		_, err := e.Step()
		require.NoError(t, err)
		assert.Len(t, e.Current(), nodes)
		assert.Len(t, e.Previous(), nodes)
	}
	assert.Equal(t, testMesh(), e.Mesh())
	assert.Same(t, &mesh[0], &e.Mesh()[0])
	assert.Equal(t, 50, f.disc.refreshes)
}

func TestEngine_MixingIdentity(t *testing.T) {
	cfg := testConfig()
	cfg.Alpha = 1
	f := newFixture(oscillating(func(int) float64 { return 0.2 }))
	e := f.engine(t, cfg)
	for i := 0; i < 5; i++ {
		before := slices.Clone(e.Current())
		_, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, before, e.Previous(), "iteration %d", e.Iteration())
	}
}

func TestEngine_MixingBound(t *testing.T) {
	cfg := testConfig()
	cfg.Alpha = 0.3
	f := newFixture(oscillating(func(call int) float64 { return 0.1 * float64(call) }))
	e := f.engine(t, cfg)
	for i := 0; i < 20; i++ {
		prev, cur := slices.Clone(e.Previous()), slices.Clone(e.Current())
		_, err := e.Step()
		require.NoError(t, err)
		for j, m := range e.Previous() {
			lo, hi := math.Min(prev[j], cur[j]), math.Max(prev[j], cur[j])
			require.GreaterOrEqual(t, m, lo, "node %d", j)
			require.LessOrEqual(t, m, hi, "node %d", j)
		}
	}
}

func TestEngine_MonotonicDamping(t *testing.T) {
	f := newFixture(oscillating(func(call int) float64 { return 0.05 * float64(call) }))
	e := f.engine(t, testConfig())
	alpha := e.Alpha()
	prevErr := math.Inf(1)
	reductions := 0
	for i := 0; i < 30; i++ {
		_, err := e.Step()
		require.NoError(t, err)
		step := f.debug.steps[len(f.debug.steps)-1]
		require.GreaterOrEqual(t, step.Error, 0.0)
		if step.Error > prevErr {
			assert.True(t, step.Reduced)
			assert.Equal(t, alpha*types.IterationReduction, e.Alpha())
			reductions++
		} else {
			assert.False(t, step.Reduced)
			assert.Equal(t, alpha, e.Alpha())
		}
		assert.Greater(t, e.Alpha(), 0.0)
		assert.LessOrEqual(t, e.Alpha(), alpha)
		alpha, prevErr = e.Alpha(), step.Error
	}
	assert.Positive(t, reductions)
	assert.False(t, f.debug.steps[0].Reduced, "first iteration compares against +Inf")
}

func TestEngine_BoundaryPreserved(t *testing.T) {
	f := newFixture(func(call int) ([]float64, error) {
		x := target()
		x[0], x[nodes-1] = 42, -42
		return x, nil
	})
	e := f.engine(t, testConfig())
	for i := 0; i < 10; i++ {
		assert.Equal(t, 1.0, e.Current()[0])
		assert.Equal(t, 0.0, e.Current()[nodes-1])
		_, err := e.Step()
		require.NoError(t, err)
	}
	_, val := e.Boundary()
	assert.Equal(t, [types.BoundaryCount]float64{1, 0}, val)
}

func TestEngine_InitFailures(t *testing.T) {
	t.Run("shoot", func(t *testing.T) {
		f := newFixture(contractive)
		f.shooter.err = types.ErrShootingDiverged
		e, err := f.new(testConfig())
		assert.Nil(t, e)
		assert.ErrorIs(t, err, types.ErrShootingDiverged)
		var pe *types.PhaseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, types.PhaseShoot, pe.Phase)
		assert.Equal(t, 0, f.solver.calls)
	})
	t.Run("trajectory", func(t *testing.T) {
		f := newFixture(contractive)
		f.shooter.tr.Y = f.shooter.tr.Y[:3]
		_, err := f.new(testConfig())
		assert.ErrorIs(t, err, types.ErrDimension)
	})
	t.Run("build", func(t *testing.T) {
		f := newFixture(contractive)
		f.disc.buildErr = errors.New("boom")
		_, err := f.new(testConfig())
		var pe *types.PhaseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, types.PhaseBuild, pe.Phase)
	})
	t.Run("solve", func(t *testing.T) {
		f := newFixture(func(int) ([]float64, error) { return nil, types.ErrSingular })
		_, err := f.new(testConfig())
		assert.ErrorIs(t, err, types.ErrSingular)
		var pe *types.PhaseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, types.PhaseSolve, pe.Phase)
		assert.Equal(t, 0, pe.Iteration)
	})
}

func TestEngine_StepFailures(t *testing.T) {
	f := newFixture(func(call int) ([]float64, error) {
		if call == 4 {
			return nil, types.ErrSingular
		}
		return oscillating(func(int) float64 { return 0.1 })(call)
	})
	e := f.engine(t, testConfig())
	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, types.ErrSingular)
	var pe *types.PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, types.PhaseSolve, pe.Phase)
	assert.Equal(t, 3, pe.Iteration)
	assert.Contains(t, err.Error(), "iteration 3")

	f = newFixture(contractive)
	f.disc.refreshErr, f.disc.failAt = types.ErrDimension, 2
	e = f.engine(t, testConfig())
	_, err = e.Run(context.Background())
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, types.PhaseBuild, pe.Phase)
	assert.Equal(t, 2, pe.Iteration)
}

func TestEngine_NotConverged(t *testing.T) {
	cfg := testConfig()
	cfg.MaxIterations = 5
	f := newFixture(oscillating(func(int) float64 { return 0.1 }))
	e := f.engine(t, cfg)
	res, err := e.Run(context.Background())
	assert.ErrorIs(t, err, types.ErrNotConverged)
	assert.False(t, res.Converged)
	assert.Equal(t, 5, res.Iterations)
	require.NotNil(t, f.debug.solution)
	assert.False(t, f.debug.solution.Converged)
}

func TestEngine_Diverged(t *testing.T) {
	f := newFixture(func(call int) ([]float64, error) {
		x := target()
		if call > 1 {
			x[3] = math.NaN()
		}
		return x, nil
	})
	e := f.engine(t, testConfig())
	res, err := e.Run(context.Background())
	assert.ErrorIs(t, err, types.ErrDiverged)
	assert.False(t, res.Converged)
	assert.Equal(t, e.Iteration(), res.Iterations)
	assert.Len(t, res.Mesh, len(e.Mesh()))
	require.NotNil(t, f.debug.solution)
}

func TestEngine_ContextCanceled(t *testing.T) {
	f := newFixture(oscillating(func(int) float64 { return 0.1 }))
	e := f.engine(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.Iteration())
}
