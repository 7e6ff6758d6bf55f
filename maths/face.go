package maths

// Epsilon 浮点精度阈值（稀疏存储中绝对值不大于该值的元素视为零）
const Epsilon = 1e-16

// Vector 向量接口定义
type Vector interface {
	// 基础属性方法
	Length() int    // 获取向量长度
	String() string // 格式化字符串输出

	// 数据访问方法
	Get(index int) float64              // 获取指定索引元素值
	Set(index int, value float64)       // 设置指定索引元素值
	Increment(index int, value float64) // 增量更新元素（value累加）

	// 数据操作和转换方法
	ToDense() []float64             // 转换为稠密切片（副本）

	// 数据修改方法
	Zero()         // 清空向量为零向量
	Copy(a Vector) // 复制自身数据到目标向量a

	// 统计方法
	NonZeroCount() int // 统计非零元素数量
}

// Matrix 矩阵接口定义
type Matrix interface {
	// 基础属性方法
	Rows() int      // 获取矩阵行数
	Cols() int      // 获取矩阵列数
	String() string // 格式化字符串输出
	IsSquare() bool // 判断是否为方阵（行数=列数）

	// 数据访问方法
	Get(row, col int) float64              // 获取指定行列元素值
	Set(row, col int, value float64)       // 设置指定行列元素值
	Increment(row, col int, value float64) // 增量更新元素
	GetRow(row int) ([]int, []float64)     // 获取指定行非零元素（列索引+值）

	// 数据操作和转换方法
	ToDense() [][]float64             // 转换为稠密矩阵

	// 数据修改方法
	Zero()                   // 清空矩阵为零矩阵
	Copy(a Matrix)           // 复制自身数据到目标矩阵a
	Clone() Matrix           // 深拷贝
	ZeroRow(row int)         // 清空整行
	ZeroCol(col int)         // 清空整列
	SwapRows(row1, row2 int) // 交换两行

	// 数学运算方法
	MatrixVectorMultiply(x []float64) []float64 // 矩阵向量乘法（返回A*x）

	// 统计方法
	NonZeroCount() int // 统计非零元素数量
}

// LU 接口定义了 LU 分解和求解线性方程组的操作。
type LU interface {
	Decompose(matrix Matrix) error   // 对输入方阵执行LU分解（PA=LU）
	SolveReuse(b, x []float64) error // 重用分解结果求解Ax=b
	Dim() int                        // 矩阵维度
}
