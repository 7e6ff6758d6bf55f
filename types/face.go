package types

import "thomasfermi/maths"

// Trajectory 打靶法得到的匹配解
type Trajectory struct {
	X     []float64 // 网格坐标（x1 到 x2 严格递增）
	Y     []float64 // 对应的函数值
	Slope float64   // x1 处的导数值 y'(x1)
}

// Profile 初始函数 y0(x) 接口
type Profile interface {
	ValueAndSlope(x float64) (y, dy float64) // 返回 y0(x) 和 y0'(x)
}

// FarBoundary 无限远侧端点的初始函数值（来自 Profile）
type FarBoundary struct {
	Value float64 // y0(x2)，右端固定的函数值
	Slope float64 // y0'(x2)，右端导数的初始试探值
}

// Shooter 打靶法接口
type Shooter interface {
	// Shoot 从两端积分并在适配点 xf 匹配，返回全区间的解
	Shoot(x1, x2, xf float64, far FarBoundary) (Trajectory, error)
}

// Discretizer 空间离散化接口
type Discretizer interface {
	Build(mesh, beta []float64) error // 由网格和系数场构建刚度矩阵和载荷向量
	Refresh(beta []float64) error     // 以新的系数场重新计算（网格不变）
	Stiffness() maths.Matrix          // 刚度矩阵
	Load() []float64                  // 当前载荷向量
	NodeCount() int                   // 节点数
	Beta() []float64                  // 最后一次给定的系数场
}

// LinearSolver 线性方程组求解接口
type LinearSolver interface {
	// Solve 按 rows（行）与 cols（列）施加 Dirichlet 条件后求解 k x = b
	Solve(k maths.Matrix, b []float64, rows, cols []int, values []float64) ([]float64, error)
}
