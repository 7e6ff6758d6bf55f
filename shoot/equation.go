package shoot

import "math"

// Equation Thomas-Fermi 方程 y'' = y^(3/2)/sqrt(x) 写成一阶系统
// y[0] = y, y[1] = y'
// y < 0 时按 0 处理
func Equation(x float64, y []float64, dy []float64) {
	dy[0] = y[1]
	v := math.Max(y[0], 0)
	dy[1] = v * math.Sqrt(v) / math.Sqrt(x)
}

// Series 原点附近的级数解（Baker 展开），y(0) = 1, y'(0) = v1
func Series(x, v1 float64) (y, dy float64) {
	s := math.Sqrt(x)
	x32 := x * s
	y = 1 + v1*x + 4.0/3.0*x32 + 2.0/5.0*v1*x*x32 + x*x*x/3
	dy = v1 + 2*s + v1*x32 + x*x
	return y, dy
}
