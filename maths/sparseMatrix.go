package maths

import (
	"fmt"
	"sort"
)

// sparseMatrix 稀疏矩阵实现（CSR格式：Compressed Sparse Row）
// 仅存储非零元素，适合有限元刚度矩阵这类带状矩阵
type sparseMatrix struct {
	*DataManager       // 非零元素值：与colInd一一对应
	rows, cols   int   // 矩阵维度
	rowPtr       []int // 行指针：rowPtr[i] = 第i行非零元素在colInd/values中的起始索引
	colInd       []int // 列索引：存储非零元素的列号
}

// NewSparseMatrix 创建指定维度的空稀疏矩阵
func NewSparseMatrix(rows, cols int) Matrix {
	return newSparseMatrix(rows, cols)
}

func newSparseMatrix(rows, cols int) *sparseMatrix {
	if rows < 0 || cols < 0 {
		panic("invalid matrix dimensions: cannot be negative")
	}
	return &sparseMatrix{
		rows:        rows,
		cols:        cols,
		rowPtr:      make([]int, rows+1), // rowPtr[rows] = 非零元素总数
		colInd:      make([]int, 0),
		DataManager: NewDataManager(0),
	}
}

// isZero 判断是否按零元素处理
func isZero(v float64) bool { return v >= -Epsilon && v <= Epsilon }

// checkIndex 检查行列索引
func (m *sparseMatrix) checkIndex(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: row=%d, col=%d (rows=%d, cols=%d)", row, col, m.rows, m.cols))
	}
}

// search 二分查找列索引在当前行的位置
func (m *sparseMatrix) search(row, col int) (pos int, found bool) {
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	pos = sort.Search(end-start, func(i int) bool {
		return m.colInd[start+i] >= col
	}) + start
	return pos, pos < end && m.colInd[pos] == col
}

// Set 设置矩阵元素值（非零则插入/更新，零则删除）
func (m *sparseMatrix) Set(row, col int, value float64) {
	m.checkIndex(row, col)
	pos, found := m.search(row, col)
	switch {
	case found && isZero(value):
		m.deleteElement(row, pos)
	case found:
		m.DataManager.Set(pos, value)
	case !isZero(value):
		m.insertElement(row, col, value, pos)
	}
}

// Increment 增量更新矩阵元素（累加后为零则删除）
func (m *sparseMatrix) Increment(row, col int, value float64) {
	m.checkIndex(row, col)
	pos, found := m.search(row, col)
	if !found {
		if !isZero(value) {
			m.insertElement(row, col, value, pos)
		}
		return
	}
	if newVal := m.DataManager.Get(pos) + value; isZero(newVal) {
		m.deleteElement(row, pos)
	} else {
		m.DataManager.Set(pos, newVal)
	}
}

// Get 获取矩阵元素值（非零返回值，零返回0）
func (m *sparseMatrix) Get(row, col int) float64 {
	m.checkIndex(row, col)
	if pos, found := m.search(row, col); found {
		return m.DataManager.Get(pos)
	}
	return 0.0
}

// deleteElement 删除指定位置的非零元素（内部方法）
func (m *sparseMatrix) deleteElement(row, pos int) {
	m.colInd = append(m.colInd[:pos], m.colInd[pos+1:]...)
	m.DataManager.RemoveInPlace(pos, 1)
	// 更新后续行的指针（所有行号>row的行指针减1）
	for i := row + 1; i <= m.rows; i++ {
		m.rowPtr[i]--
	}
}

// insertElement 在指定位置插入非零元素（内部方法）
func (m *sparseMatrix) insertElement(row, col int, value float64, pos int) {
	m.colInd = append(m.colInd, 0)
	copy(m.colInd[pos+1:], m.colInd[pos:])
	m.colInd[pos] = col
	m.DataManager.InsertInPlace(pos, value)
	// 更新后续行的指针（所有行号>row的行指针加1）
	for i := row + 1; i <= m.rows; i++ {
		m.rowPtr[i]++
	}
}

// Rows 返回矩阵行数
func (m *sparseMatrix) Rows() int { return m.rows }

// Cols 返回矩阵列数
func (m *sparseMatrix) Cols() int { return m.cols }

// IsSquare 判断是否为方阵
func (m *sparseMatrix) IsSquare() bool { return m.rows == m.cols }

// NonZeroCount 统计非零元素数量
func (m *sparseMatrix) NonZeroCount() int { return m.DataManager.Length() }

// String 格式化输出矩阵（显示所有元素，零元素也显示）
func (m *sparseMatrix) String() string {
	result := ""
	for i := 0; i < m.rows; i++ {
		colPtr := m.rowPtr[i]
		for j := 0; j < m.cols; j++ {
			if colPtr < m.rowPtr[i+1] && m.colInd[colPtr] == j {
				result += fmt.Sprintf("%8.4f ", m.DataManager.Get(colPtr))
				colPtr++
			} else {
				result += fmt.Sprintf("%8.4f ", 0.0)
			}
		}
		result += "\n"
	}
	return result
}

// Copy 复制自身数据到目标矩阵（维度必须一致）
func (m *sparseMatrix) Copy(a Matrix) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	switch target := a.(type) {
	case *sparseMatrix:
		// 同类型复制（高效）
		copy(target.rowPtr, m.rowPtr)
		target.colInd = append(target.colInd[:0], m.colInd...)
		target.DataManager = NewDataManagerWithData(m.DataManager.DataCopy())
	default:
		// 异类型复制（逐个非零元素复制）
		a.Zero()
		for i := 0; i < m.rows; i++ {
			for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
				a.Set(i, m.colInd[j], m.DataManager.Get(j))
			}
		}
	}
}

// Clone 深拷贝
func (m *sparseMatrix) Clone() Matrix {
	c := NewSparseMatrix(m.rows, m.cols)
	m.Copy(c)
	return c
}

// GetRow 获取指定行的非零元素（返回：列索引切片+值切片，均为副本）
func (m *sparseMatrix) GetRow(row int) ([]int, []float64) {
	if row < 0 || row >= m.rows {
		panic(fmt.Sprintf("row index out of range: %d (rows: %d)", row, m.rows))
	}
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	cols := make([]int, end-start)
	copy(cols, m.colInd[start:end])
	values := make([]float64, end-start)
	copy(values, m.DataManager.Data()[start:end])
	return cols, values
}

// rowView 获取指定行非零元素的只读视图（不复制）
func (m *sparseMatrix) rowView(row int) ([]int, []float64) {
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	return m.colInd[start:end], m.DataManager.Data()[start:end]
}

// SwapRows 交换两行
func (m *sparseMatrix) SwapRows(row1, row2 int) {
	m.checkIndex(row1, 0)
	m.checkIndex(row2, 0)
	if row1 == row2 {
		return
	}
	cols1, vals1 := m.GetRow(row1)
	cols2, vals2 := m.GetRow(row2)
	m.ZeroRow(row1)
	m.ZeroRow(row2)
	for i, c := range cols2 {
		m.Set(row1, c, vals2[i])
	}
	for i, c := range cols1 {
		m.Set(row2, c, vals1[i])
	}
}

// ZeroRow 清空整行
func (m *sparseMatrix) ZeroRow(row int) {
	m.checkIndex(row, 0)
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	if count := end - start; count > 0 {
		m.colInd = append(m.colInd[:start], m.colInd[end:]...)
		m.DataManager.RemoveInPlace(start, count)
		for i := row + 1; i <= m.rows; i++ {
			m.rowPtr[i] -= count
		}
	}
}

// ZeroCol 清空整列
func (m *sparseMatrix) ZeroCol(col int) {
	m.checkIndex(0, col)
	for i := 0; i < m.rows; i++ {
		if pos, found := m.search(i, col); found {
			m.deleteElement(i, pos)
		}
	}
}

// MatrixVectorMultiply 矩阵向量乘法（A*x，稀疏优化：仅遍历非零元素）
func (m *sparseMatrix) MatrixVectorMultiply(x []float64) []float64 {
	if len(x) != m.cols {
		panic(fmt.Sprintf("vector dimension mismatch: x length=%d, matrix cols=%d", len(x), m.cols))
	}
	result := make([]float64, m.rows)
	values := m.DataManager.Data()
	for i := 0; i < m.rows; i++ {
		for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
			result[i] += values[j] * x[m.colInd[j]]
		}
	}
	return result
}

// Zero 清空矩阵为零矩阵（释放非零元素内存）
func (m *sparseMatrix) Zero() {
	m.colInd = m.colInd[:0]
	m.DataManager.Resize(0)
	clear(m.rowPtr)
}

// ToDense 转换为稠密矩阵
func (m *sparseMatrix) ToDense() [][]float64 {
	dense := make([][]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		dense[i] = make([]float64, m.cols)
		for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
			dense[i][m.colInd[j]] = m.DataManager.Get(j)
		}
	}
	return dense
}
