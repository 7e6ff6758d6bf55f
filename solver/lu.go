package solver

import (
	"errors"
	"fmt"

	"thomasfermi/maths"
	"thomasfermi/types"
)

// sparseLU 稀疏 LU 后端
type sparseLU struct {
	lu maths.LU
}

func (s *sparseLU) Factor(m maths.Matrix) error {
	if err := s.lu.Decompose(m); err != nil {
		if errors.Is(err, maths.ErrSingular) {
			return fmt.Errorf("%w: %v", types.ErrSingular, err)
		}
		return err
	}
	return nil
}

func (s *sparseLU) SolveTo(x, b []float64) error {
	if err := s.lu.SolveReuse(b, x); err != nil {
		if errors.Is(err, maths.ErrSingular) {
			return fmt.Errorf("%w: %v", types.ErrSingular, err)
		}
		return err
	}
	return nil
}

// LU 基于稀疏 LU 分解的求解器
// 矩阵与约束位置不变时复用分解结果，调用方不得原位修改已传入的矩阵
type LU struct {
	solver
}

// NewLU 创建稀疏 LU 求解器
func NewLU() *LU {
	return &LU{solver{
		name: "lu",
		backend: func(n int) (factorizer, error) {
			lu, err := maths.NewLUSparse(n)
			if err != nil {
				return nil, err
			}
			return &sparseLU{lu: lu}, nil
		},
	}}
}
