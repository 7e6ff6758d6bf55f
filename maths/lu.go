package maths

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular 矩阵奇异（主元接近零）
var ErrSingular = errors.New("matrix is singular or nearly singular")

// NewLUSparse 创建稀疏矩阵LU分解器（输入矩阵维度n）
// 参数:
//
//	n - 矩阵维度（必须为正整数）
//
// 返回:
//
//	LU接口实例，错误信息
func NewLUSparse(n int) (LU, error) {
	if n < 1 {
		return nil, errors.New("lu sparse dimension must be positive")
	}
	return &luSparse{
		n:        n,
		L:        newSparseMatrix(n, n),
		U:        newSparseMatrix(n, n),
		Y:        NewDenseVector(n), // 中间向量用稠密更高效（访问速度优先）
		P:        make([]int, n),
		pinverse: make([]int, n),
	}, nil
}

// luSparse 稀疏矩阵LU分解实现（PA=LU，带部分主元）
//
//	P - 置换矩阵（用向量表示）
//	L - 单位下三角矩阵（对角线为1）
//	U - 上三角矩阵
type luSparse struct {
	n        int           // 矩阵维度（方阵n×n）
	L        *sparseMatrix // 下三角矩阵L（L[i][i]=1，严格下三角存储消元因子）
	U        *sparseMatrix // 上三角矩阵U（存储消元后上三角元素）
	Y        Vector        // 中间变量：存储前向替换结果Ly=Pb
	P        []int         // 置换向量：P[i] = 分解后第i行对应的原始矩阵行索引
	pinverse []int         // 逆置换向量：pinverse[i] = 原始第i行对应的分解后行索引
}

// Dim 获取矩阵维度
func (lu *luSparse) Dim() int { return lu.n }

// init 初始化置换向量和L矩阵的对角线
func (lu *luSparse) init(matrix Matrix) {
	lu.L.Zero()
	matrix.Copy(lu.U) // 将A拷贝到U，后续在U上进行原位消元
	for i := 0; i < lu.n; i++ {
		lu.P[i] = i
		lu.pinverse[i] = i
		lu.L.Set(i, i, 1.0)
	}
}

// updatePermutation 交换置换向量并同步更新逆置换
func (lu *luSparse) updatePermutation(k, maxRow int) {
	lu.P[k], lu.P[maxRow] = lu.P[maxRow], lu.P[k]
	lu.pinverse[lu.P[k]] = k
	lu.pinverse[lu.P[maxRow]] = maxRow
}

// Decompose 执行稀疏矩阵LU分解（保留非零元素，减少计算/内存开销）
// 参数:
//
//	matrix - 输入稀疏矩阵A（必须为方阵）
//
// 返回:
//
//	错误信息（如果矩阵奇异或维度不匹配）
//
// 稀疏优化:
//  1. 仅处理非零元素，跳过零元素计算
//  2. 使用GetRow获取主元行非零列索引，减少内层循环次数
//  3. 新值接近零时删除元素，维持矩阵稀疏性
func (lu *luSparse) Decompose(matrix Matrix) error {
	if !matrix.IsSquare() {
		return errors.New("lu sparse decompose: input must be square matrix")
	}
	if matrix.Rows() != lu.n {
		return fmt.Errorf("lu sparse decompose: matrix dimension %d, expected %d", matrix.Rows(), lu.n)
	}
	lu.init(matrix)

	for k := 0; k < lu.n; k++ {
		// 步骤1：部分主元选择
		maxRow := k
		maxAbsVal := math.Abs(lu.U.Get(k, k))
		for i := k + 1; i < lu.n; i++ {
			if v := math.Abs(lu.U.Get(i, k)); v > maxAbsVal {
				maxAbsVal = v
				maxRow = i
			}
		}
		if maxAbsVal < Epsilon {
			return fmt.Errorf("lu sparse decompose: column %d: %w", k, ErrSingular)
		}

		// 步骤2：行交换（L只交换已填充的前k列）
		if maxRow != k {
			lu.U.SwapRows(k, maxRow)
			for j := 0; j < k; j++ {
				a, b := lu.L.Get(k, j), lu.L.Get(maxRow, j)
				lu.L.Set(k, j, b)
				lu.L.Set(maxRow, j, a)
			}
			lu.updatePermutation(k, maxRow)
		}

		// 步骤3：稀疏消元
		pivotVal := lu.U.Get(k, k)
		pivotCols, pivotVals := lu.U.GetRow(k)
		for i := k + 1; i < lu.n; i++ {
			valIK := lu.U.Get(i, k)
			if isZero(valIK) {
				continue
			}
			factor := valIK / pivotVal
			lu.L.Set(i, k, factor)
			lu.U.Set(i, k, 0.0)
			// 只更新主元行中存在的非零列
			for idx, j := range pivotCols {
				if j <= k {
					continue
				}
				lu.U.Set(i, j, lu.U.Get(i, j)-factor*pivotVals[idx])
			}
		}
	}
	return nil
}

// SolveReuse 利用分解结果求解Ax=b（重用中间向量）
// 数学步骤:
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
func (lu *luSparse) SolveReuse(b, x []float64) error {
	if len(b) != lu.n || len(x) != lu.n {
		return errors.New("lu sparse solve: vector dimension mismatch")
	}

	// 前向替换：仅遍历L[i]的严格下三角非零列
	lu.Y.Zero()
	for i := 0; i < lu.n; i++ {
		sum := b[lu.P[i]]
		cols, vals := lu.L.rowView(i)
		for idx, j := range cols {
			if j < i {
				sum -= vals[idx] * lu.Y.Get(j)
			}
		}
		lu.Y.Set(i, sum)
	}

	// 后向替换：仅遍历U[i]的上三角非零列
	clear(x)
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.Y.Get(i)
		diag := lu.U.Get(i, i)
		if math.Abs(diag) < Epsilon {
			return fmt.Errorf("lu sparse solve: zero pivot at row %d: %w", i, ErrSingular)
		}
		cols, vals := lu.U.rowView(i)
		for idx, j := range cols {
			if j > i {
				sum -= vals[idx] * x[j]
			}
		}
		x[i] = sum / diag
	}
	return nil
}
