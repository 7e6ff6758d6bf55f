package types

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ShootConfig 打靶法参数
type ShootConfig struct {
	V1            float64 `yaml:"v1" json:"v1"`                         // y'(x1) 初始试探值
	Delta         float64 `yaml:"delta" json:"delta"`                   // 差分Jacobian步长
	Eps           float64 `yaml:"eps" json:"eps"`                       // 适配点残差容差
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"` // Newton 最大迭代次数
}

// Config 求解参数
type Config struct {
	X1            float64     `yaml:"x1" json:"x1"`                         // 原点侧端点
	X2            float64     `yaml:"x2" json:"x2"`                         // 无限远侧端点
	XF            float64     `yaml:"xf" json:"xf"`                         // 适配点
	DX            float64     `yaml:"dx" json:"dx"`                         // 单元间隔
	GaussPoints   int         `yaml:"gauss_points" json:"gauss_points"`     // Gauss-Legendre 积分点数
	UseSIMD       bool        `yaml:"use_simd" json:"use_simd"`             // 是否使用向量化内核
	UseParallel   bool        `yaml:"use_parallel" json:"use_parallel"`     // 是否并行
	Workers       int         `yaml:"workers" json:"workers"`               // 并行协程数（0 为 GOMAXPROCS）
	Tolerance     float64     `yaml:"tolerance" json:"tolerance"`           // 迭代容差
	Alpha         float64     `yaml:"alpha" json:"alpha"`                   // 一次混合系数初值
	MaxIterations int         `yaml:"max_iterations" json:"max_iterations"` // 最大迭代次数
	Solver        string      `yaml:"solver" json:"solver"`                 // 线性求解器
	Shoot         ShootConfig `yaml:"shoot" json:"shoot"`
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		X1:            0,
		X2:            65,
		XF:            5,
		DX:            MeshSpacing,
		GaussPoints:   GaussPoints,
		UseSIMD:       true,
		Tolerance:     Tolerance,
		Alpha:         Alpha,
		MaxIterations: MaxIterations,
		Solver:        SolverLU,
		Shoot: ShootConfig{
			V1:            ShootSlope,
			Delta:         ShootDelta,
			Eps:           ShootEps,
			MaxIterations: ShootMaxIterations,
		},
	}
}

// LoadConfig 从文件读取配置，未出现的字段保留默认值
// 扩展名为 .json 时按 JSON 解析，否则按 YAML 解析
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

// Validate 检查参数
func (c Config) Validate() error {
	for name, v := range map[string]float64{"x1": c.X1, "x2": c.X2, "xf": c.XF, "dx": c.DX, "tolerance": c.Tolerance, "alpha": c.Alpha} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, name)
		}
	}
	if err := ValidateDomain(c.X1, c.X2, c.XF, c.DX); err != nil {
		return err
	}
	switch {
	case c.GaussPoints < 1:
		return fmt.Errorf("%w: gauss_points must be positive, got %d", ErrInvalidConfig, c.GaussPoints)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	case c.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, c.Tolerance)
	case c.Alpha <= 0 || c.Alpha > 1:
		return fmt.Errorf("%w: alpha must be in (0, 1], got %g", ErrInvalidConfig, c.Alpha)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.Solver != SolverLU && c.Solver != SolverDense:
		return fmt.Errorf("%w: unknown solver %q", ErrInvalidConfig, c.Solver)
	case c.Shoot.Delta <= 0 || c.Shoot.Eps <= 0:
		return fmt.Errorf("%w: shoot delta and eps must be positive", ErrInvalidConfig)
	case c.Shoot.MaxIterations < 1:
		return fmt.Errorf("%w: shoot max_iterations must be positive, got %d", ErrInvalidConfig, c.Shoot.MaxIterations)
	}
	return nil
}

// ValidateDomain 检查求解区间
//
//	x1 - 原点侧端点（不小于0）
//	x2 - 无限远侧端点（大于x1）
//	xf - 适配点（位于区间内部）
//	dx - 单元间隔（区间内至少两个单元）
func ValidateDomain(x1, x2, xf, dx float64) error {
	switch {
	case x1 < 0:
		return fmt.Errorf("%w: x1 must not be negative, got %g", ErrInvalidDomain, x1)
	case x1 == x2:
		return fmt.Errorf("%w: zero-length domain x1 == x2 == %g", ErrInvalidDomain, x1)
	case x1 > x2:
		return fmt.Errorf("%w: x1 (%g) must be less than x2 (%g)", ErrInvalidDomain, x1, x2)
	case xf <= x1 || xf >= x2:
		return fmt.Errorf("%w: fitting point %g outside (%g, %g)", ErrInvalidDomain, xf, x1, x2)
	case dx <= 0:
		return fmt.Errorf("%w: dx must be positive, got %g", ErrInvalidDomain, dx)
	case math.Round((x2-x1)/dx) < 2:
		return fmt.Errorf("%w: dx %g leaves fewer than two elements", ErrInvalidDomain, dx)
	}
	return nil
}
