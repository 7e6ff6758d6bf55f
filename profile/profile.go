// Package profile 提供 Thomas-Fermi 方程解的近似初始函数 y0(x)
//
// x < Threshold 时使用数表的自然三次样条插值，
// 更远处使用 Sommerfeld 渐近形式 y0(x) = (1 + (Kx)^(3/λ))^(-λ)。
package profile

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/interp"
)

const (
	Threshold = 50.0  // 样条与渐近式的分界点
	Lambda    = 3.886 // 渐近式的指数 λ
)

// K 渐近式的系数，满足 y0(x) → 144/x³
var K = math.Pow(144, -1.0/3.0)

// Profile 初始函数
// 构建完成后只读，可在多个协程间共享
type Profile struct {
	spline interp.NaturalCubic
}

// New 由数表构建初始函数
func New() (*Profile, error) {
	return NewFromTable(tableX[:], tableY[:])
}

// NewFromTable 由任意数表构建（x 严格递增）
func NewFromTable(x, y []float64) (*Profile, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("profile spline: %d x values for %d y values", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("profile spline: need at least 2 points, got %d", len(x))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("profile spline: x not strictly increasing at index %d", i)
		}
	}
	p := &Profile{}
	if err := p.spline.Fit(x, y); err != nil {
		return nil, fmt.Errorf("profile spline: %w", err)
	}
	return p, nil
}

// Default 进程内共享的初始函数，首次调用时构建
var Default = sync.OnceValue(func() *Profile {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
})

// Asymptotic 渐近式及其导数
func Asymptotic(x float64) (y, dy float64) {
	e := 3.0 / Lambda
	base := 1 + math.Pow(K*x, e)
	y = math.Pow(base, -Lambda)
	dy = -3 * math.Pow(K, e) * math.Pow(x, e-1) * math.Pow(base, -Lambda-1)
	return y, dy
}

// ValueAndSlope 返回 y0(x) 与 y0'(x)
func (p *Profile) ValueAndSlope(x float64) (y, dy float64) {
	if x >= Threshold {
		return Asymptotic(x)
	}
	return p.spline.Predict(x), p.spline.PredictDerivative(x)
}

// Value 返回 y0(x)
func (p *Profile) Value(x float64) float64 {
	y, _ := p.ValueAndSlope(x)
	return y
}

// Slope 返回 y0'(x)
func (p *Profile) Slope(x float64) float64 {
	_, dy := p.ValueAndSlope(x)
	return dy
}
