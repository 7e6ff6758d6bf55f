package types

import "math"

// 迭代控制常量定义
const (
	IterationReduction = 0.15 // 误差增大时混合系数的缩小倍率
	BoundaryCount      = 2    // Dirichlet 边界条件数量（原点侧、无限远侧）
)

// 求解器名称
const (
	SolverLU    = "lu"    // 稀疏LU分解
	SolverDense = "dense" // gonum 稠密LU分解
)

// 默认参数常量定义
var (
	Tolerance     = 1e-10 // 收敛容差
	Alpha         = 0.5   // 一次混合系数初值
	MaxIterations = 100000
	GaussPoints   = 4    // 每个单元的 Gauss-Legendre 积分点数
	MeshSpacing   = 0.01 // 单元间隔
	// 打靶法参数
	ShootSlope         = -1.588071 // y'(0) 初始试探值
	ShootDelta         = 1e-7      // 差分Jacobian步长
	ShootEps           = 1e-8      // 适配点残差容差
	ShootMaxIterations = 100
)

// InitialError 第一次误差比较使用的哨兵值，保证首次迭代不会缩小混合系数
var InitialError = math.Inf(1)
