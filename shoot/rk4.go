package shoot

// Function 常微分方程右端 dy = f(x, y)
type Function func(x float64, y []float64, dy []float64)

// RK4 固定步长经典四阶 Runge-Kutta 积分器
type RK4 struct {
	fcn                Function
	k1, k2, k3, k4, yt []float64
}

// NewRK4 创建 n 维系统的积分器
func NewRK4(n int, fcn Function) *RK4 {
	return &RK4{
		fcn: fcn,
		k1:  make([]float64, n),
		k2:  make([]float64, n),
		k3:  make([]float64, n),
		k4:  make([]float64, n),
		yt:  make([]float64, n),
	}
}

// Step 从 x 以步长 h 推进一步，原位更新 y（h 可为负）
func (r *RK4) Step(x, h float64, y []float64) {
	half := h / 2
	r.fcn(x, y, r.k1)
	for i := range y {
		r.yt[i] = y[i] + half*r.k1[i]
	}
	r.fcn(x+half, r.yt, r.k2)
	for i := range y {
		r.yt[i] = y[i] + half*r.k2[i]
	}
	r.fcn(x+half, r.yt, r.k3)
	for i := range y {
		r.yt[i] = y[i] + h*r.k3[i]
	}
	r.fcn(x+h, r.yt, r.k4)
	for i := range y {
		y[i] += h / 6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
	}
}

// Integrate 沿网格 grid 依次积分，visit 在每个网格点（含起点）被调用
func (r *RK4) Integrate(grid []float64, y []float64, visit func(i int, y []float64)) {
	if visit != nil {
		visit(0, y)
	}
	for i := 1; i < len(grid); i++ {
		r.Step(grid[i-1], grid[i]-grid[i-1], y)
		if visit != nil {
			visit(i, y)
		}
	}
}
