package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"thomasfermi"
	"thomasfermi/debug"
	"thomasfermi/iteration"
	"thomasfermi/types"
)

// newSolveCmd 求解命令
func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "自洽求解并输出结果",
		Long: `自洽求解 Thomas-Fermi 方程。
参数先取默认值，再读取 --config 指定的 YAML/JSON 文件，最后由命令行参数覆盖。`,
		Args: cobra.NoArgs,
		RunE: runSolve,
	}
	f := cmd.Flags()
	f.StringP("config", "c", "", "配置文件 (.yaml/.yml/.json)")
	f.Float64("x1", 0, "原点侧端点")
	f.Float64("x2", 0, "无限远侧端点")
	f.Float64("xf", 0, "打靶法适配点")
	f.Float64("dx", 0, "单元间隔")
	f.Int("gauss", 0, "Gauss-Legendre 积分点数")
	f.Bool("simd", true, "使用向量化内核")
	f.Bool("parallel", false, "并行计算节点运算")
	f.Int("workers", 0, "并行协程数 (0 为 GOMAXPROCS)")
	f.Float64("tol", 0, "迭代容差")
	f.Float64("alpha", 0, "混合系数初值")
	f.Int("max-iter", 0, "最大迭代次数")
	f.String("solver", "", "线性求解器 (lu/dense)")

	f.StringP("output", "o", "-", "结果 JSON 输出路径 (- 为标准输出)")
	f.String("csv", "", "x,y,beta 的 CSV 输出路径")
	f.String("html", "", "echarts 网页输出路径")
	f.String("plot", "", "解曲线图输出路径，格式由扩展名决定 (png/svg/pdf)")
	f.String("convergence-plot", "", "收敛图输出路径")
	f.String("metrics-addr", "", "求解期间发布 prometheus 指标的地址，如 :9090")
	return cmd
}

func init() {
	rootCmd.AddCommand(newSolveCmd())
}

// loadConfig 默认值 → 配置文件 → 命令行参数
func loadConfig(f *pflag.FlagSet) (types.Config, error) {
	cfg := types.DefaultConfig()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if cfg, err = types.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	floats := map[string]*float64{
		"x1": &cfg.X1, "x2": &cfg.X2, "xf": &cfg.XF, "dx": &cfg.DX,
		"tol": &cfg.Tolerance, "alpha": &cfg.Alpha,
	}
	for name, dst := range floats {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}
	ints := map[string]*int{"gauss": &cfg.GaussPoints, "workers": &cfg.Workers, "max-iter": &cfg.MaxIterations}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	if f.Changed("simd") {
		cfg.UseSIMD, _ = f.GetBool("simd")
	}
	if f.Changed("parallel") {
		cfg.UseParallel, _ = f.GetBool("parallel")
	}
	if f.Changed("solver") {
		cfg.Solver, _ = f.GetString("solver")
	}
	return cfg, cfg.Validate()
}

func runSolve(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	rec := &debug.Record{}
	sinks := debug.Multi{rec}
	if addr, _ := f.GetString("metrics-addr"); addr != "" {
		m := debug.NewMetrics(nil)
		sinks = append(sinks, m)
		stop, err := serveMetrics(addr, m.Handler(), logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	res, solveErr := thomasfermi.Solve(ctx, cfg, thomasfermi.WithLogger(logger), thomasfermi.WithDebug(sinks))
	if solveErr != nil && !partial(solveErr) {
		return solveErr
	}
	logger.Info("solve finished", "converged", res.Converged, "iterations", res.Iterations,
		"error", res.Error, "elapsed", time.Since(start))

	if err := writeOutputs(cmd, f, res, rec); err != nil {
		return errors.Join(solveErr, err)
	}
	return solveErr
}

// partial 未收敛或被中断时仍输出当前结果
func partial(err error) bool {
	return errors.Is(err, types.ErrNotConverged) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// serveMetrics 后台发布指标，返回关闭函数
func serveMetrics(addr string, handler http.Handler, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("metrics", "addr", ln.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics shutdown", "error", err)
		}
	}, nil
}

func writeOutputs(cmd *cobra.Command, f *pflag.FlagSet, res iteration.Result, rec *debug.Record) error {
	if path, _ := f.GetString("output"); path != "" {
		if err := writeTo(cmd, path, func(w io.Writer) error { return writeResult(w, res) }); err != nil {
			return err
		}
	}
	if path, _ := f.GetString("csv"); path != "" {
		if err := writeTo(cmd, path, func(w io.Writer) error { return writeCSV(w, res) }); err != nil {
			return err
		}
	}
	if path, _ := f.GetString("html"); path != "" {
		c := &debug.Charts{Record: *rec}
		if err := writeTo(cmd, path, c.Render); err != nil {
			return err
		}
	}
	if path, _ := f.GetString("plot"); path != "" {
		p := &debug.Plot{Record: *rec}
		if err := writeTo(cmd, path, func(w io.Writer) error { return p.Render(w, plotFormat(path)) }); err != nil {
			return err
		}
	}
	if path, _ := f.GetString("convergence-plot"); path != "" {
		p := &debug.Plot{Record: *rec}
		if err := writeTo(cmd, path, func(w io.Writer) error { return p.RenderConvergence(w, plotFormat(path)) }); err != nil {
			return err
		}
	}
	return nil
}

// plotFormat 由扩展名得到图像格式，默认 png
func plotFormat(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 && i < len(path)-1 {
		return strings.ToLower(path[i+1:])
	}
	return "png"
}
