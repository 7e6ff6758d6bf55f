package types

// RunInfo 初始化完成后的求解信息
type RunInfo struct {
	Mesh      []float64 // 网格
	Initial   []float64 // 打靶法初始解
	Boundary  [BoundaryCount]float64
	Slope     float64 // y'(x1)
	Alpha     float64 // 混合系数初值
	Tolerance float64
}

// Step 单次迭代记录
type Step struct {
	Iteration int
	Error     float64
	Alpha     float64 // 本次迭代结束后的混合系数
	Reduced   bool    // 本次迭代是否缩小了混合系数
}

// Solution 求解结果
type Solution struct {
	Mesh       []float64
	Y          []float64
	Beta       []float64
	Iterations int
	Error      float64
	Alpha      float64
	Converged  bool
}

// Debug 调试接口
type Debug interface {
	Init(info RunInfo)
	Update(step Step)
	Finish(sol Solution)
}
