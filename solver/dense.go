package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"thomasfermi/maths"
	"thomasfermi/types"
)

// denseLU gonum 稠密 LU 后端，内存随节点数平方增长，适合小规模网格
type denseLU struct {
	n  int
	lu mat.LU
}

func (d *denseLU) Factor(m maths.Matrix) error {
	a := mat.NewDense(d.n, d.n, nil)
	for i, row := range m.ToDense() {
		a.SetRow(i, row)
	}
	d.lu.Factorize(a)
	if c := d.lu.Cond(); c > mat.ConditionTolerance {
		return fmt.Errorf("%w: condition number %g", types.ErrSingular, c)
	}
	return nil
}

func (d *denseLU) SolveTo(x, b []float64) error {
	dst := mat.NewVecDense(d.n, x)
	if err := d.lu.SolveVecTo(dst, false, mat.NewVecDense(d.n, b)); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return fmt.Errorf("%w: %v", types.ErrSingular, err)
		}
		return err
	}
	copy(x, dst.RawVector().Data)
	return nil
}

// Dense 基于 gonum 稠密 LU 分解的求解器
type Dense struct {
	solver
}

// NewDense 创建稠密 LU 求解器
func NewDense() *Dense {
	return &Dense{solver{
		name: "dense",
		backend: func(n int) (factorizer, error) {
			if n < 1 {
				return nil, fmt.Errorf("%w: empty system", types.ErrDimension)
			}
			return &denseLU{n: n}, nil
		},
	}}
}

// New 按名称创建求解器
func New(name string) (types.LinearSolver, error) {
	switch name {
	case types.SolverLU, "":
		return NewLU(), nil
	case types.SolverDense:
		return NewDense(), nil
	}
	return nil, fmt.Errorf("%w: unknown solver %q", types.ErrInvalidConfig, name)
}
