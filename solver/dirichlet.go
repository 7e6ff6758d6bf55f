// Package solver 施加 Dirichlet 条件并求解有限元线性方程组
package solver

import (
	"fmt"
	"slices"

	"thomasfermi/maths"
	"thomasfermi/types"
)

// factorizer 矩阵分解后端
type factorizer interface {
	Factor(m maths.Matrix) error
	SolveTo(x, b []float64) error
}

// entry 约束列上的一个非零元素
type entry struct {
	row   int
	value float64
}

// system 已施加约束并完成分解的方程组
type system struct {
	k          maths.Matrix // 原始矩阵（用于判断缓存是否命中）
	rows, cols []int
	columns    [][]entry // 每个约束列在原始矩阵中的非零元素
	backend    factorizer
}

func (s *system) matches(k maths.Matrix, rows, cols []int) bool {
	return s != nil && s.k == k && slices.Equal(s.rows, rows) && slices.Equal(s.cols, cols)
}

// checkConstraints 检查约束索引与取值
func checkConstraints(k maths.Matrix, b []float64, rows, cols []int, values []float64) error {
	if !k.IsSquare() {
		return fmt.Errorf("%w: matrix is %dx%d", types.ErrDimension, k.Rows(), k.Cols())
	}
	if len(b) != k.Rows() {
		return fmt.Errorf("%w: load has %d entries for %d rows", types.ErrDimension, len(b), k.Rows())
	}
	if len(rows) != len(values) || len(cols) != len(values) {
		return fmt.Errorf("%w: %d rows, %d cols, %d values", types.ErrDimension, len(rows), len(cols), len(values))
	}
	for i := range rows {
		if rows[i] < 0 || rows[i] >= k.Rows() || cols[i] < 0 || cols[i] >= k.Cols() {
			return fmt.Errorf("%w: constraint %d at (%d, %d) out of range", types.ErrDimension, i, rows[i], cols[i])
		}
	}
	return nil
}

// Constrain 返回施加 Dirichlet 条件后的矩阵副本
// 约束 j 把列 cols[j] 清零，行 rows[j] 改为在 cols[j] 处为 1 的单位行
func Constrain(k maths.Matrix, rows, cols []int) maths.Matrix {
	c := k.Clone()
	for _, col := range cols {
		c.ZeroCol(col)
	}
	for j, row := range rows {
		c.ZeroRow(row)
		c.Set(row, cols[j], 1)
	}
	return c
}

// constrainedColumns 收集约束列在原始矩阵中的非零元素
func constrainedColumns(k maths.Matrix, cols []int) [][]entry {
	index := make(map[int]int, len(cols))
	for j, c := range cols {
		index[c] = j
	}
	columns := make([][]entry, len(cols))
	for i := 0; i < k.Rows(); i++ {
		rc, rv := k.GetRow(i)
		for p, c := range rc {
			if j, ok := index[c]; ok {
				columns[j] = append(columns[j], entry{row: i, value: rv[p]})
			}
		}
	}
	return columns
}

// rhs 构造施加约束后的右端项（b 不被修改）
func (s *system) rhs(b, values []float64) []float64 {
	r := slices.Clone(b)
	for j, col := range s.columns {
		for _, e := range col {
			r[e.row] -= e.value * values[j]
		}
	}
	for j, row := range s.rows {
		r[row] = values[j]
	}
	return r
}

// solver 带分解缓存的求解器
type solver struct {
	name    string
	backend func(n int) (factorizer, error)
	cache   *system
}

// Solve 施加约束并求解 k x = b，输入不被修改
func (s *solver) Solve(k maths.Matrix, b []float64, rows, cols []int, values []float64) ([]float64, error) {
	if err := checkConstraints(k, b, rows, cols, values); err != nil {
		return nil, err
	}
	if !s.cache.matches(k, rows, cols) {
		sys, err := s.factor(k, rows, cols)
		if err != nil {
			return nil, err
		}
		s.cache = sys
	}
	x := make([]float64, k.Rows())
	if err := s.cache.backend.SolveTo(x, s.cache.rhs(b, values)); err != nil {
		return nil, fmt.Errorf("%s solve: %w", s.name, err)
	}
	for j, col := range cols {
		x[col] = values[j]
	}
	return x, nil
}

func (s *solver) factor(k maths.Matrix, rows, cols []int) (*system, error) {
	backend, err := s.backend(k.Rows())
	if err != nil {
		return nil, fmt.Errorf("%s solver: %w", s.name, err)
	}
	if err := backend.Factor(Constrain(k, rows, cols)); err != nil {
		return nil, fmt.Errorf("%s factor: %w", s.name, err)
	}
	return &system{
		k:       k,
		rows:    slices.Clone(rows),
		cols:    slices.Clone(cols),
		columns: constrainedColumns(k, cols),
		backend: backend,
	}, nil
}

// Reset 丢弃缓存的分解
func (s *solver) Reset() { s.cache = nil }
