// Package thomasfermi Thomas-Fermi 方程自洽求解
//
//	y'' = y^(3/2) / sqrt(x),  y(x1) = 1,  y(x2) = y0(x2)
//
// 先由打靶法得到初始解，再以一阶有限元反复求解线性化方程直到收敛。
package thomasfermi

import (
	"context"
	"log/slog"

	"thomasfermi/fem"
	"thomasfermi/iteration"
	"thomasfermi/logging"
	"thomasfermi/maths"
	"thomasfermi/profile"
	"thomasfermi/shoot"
	"thomasfermi/solver"
	"thomasfermi/types"
)

type options struct {
	logger *slog.Logger
	debug  types.Debug
}

// Option 求解选项
type Option func(*options)

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDebug 设置调试输出
func WithDebug(debug types.Debug) Option {
	return func(o *options) { o.debug = debug }
}

// New 以默认组件创建迭代引擎
func New(cfg types.Config, opts ...Option) (*iteration.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	kernel := maths.NewKernel(cfg.UseSIMD, cfg.UseParallel, cfg.Workers)
	element, err := fem.New(cfg.GaussPoints, kernel)
	if err != nil {
		return nil, err
	}
	ls, err := solver.New(cfg.Solver)
	if err != nil {
		return nil, err
	}
	c := iteration.Collaborators{
		Profile:     profile.Default(),
		Shooter:     shoot.New(cfg.Shoot, cfg.DX, shoot.WithLogger(o.logger)),
		Discretizer: element,
		Solver:      ls,
	}
	engineOpts := []iteration.Option{
		iteration.WithLogger(o.logger),
		iteration.WithKernel(kernel),
	}
	if o.debug != nil {
		engineOpts = append(engineOpts, iteration.WithDebug(o.debug))
	}
	return iteration.New(cfg, c, engineOpts...)
}

// Solve 求解直到收敛
// 未收敛或 ctx 结束时同时返回当前结果与错误
func Solve(ctx context.Context, cfg types.Config, opts ...Option) (iteration.Result, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return iteration.Result{}, err
	}
	return e.Run(ctx)
}
