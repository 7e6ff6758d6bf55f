package types

import (
	"errors"
	"fmt"
)

// 错误定义
var (
	ErrInvalidConfig    = errors.New("thomasfermi: invalid configuration")
	ErrInvalidDomain    = errors.New("thomasfermi: invalid domain")
	ErrShootingDiverged = errors.New("thomasfermi: shooting did not match at the fitting point")
	ErrSingular         = errors.New("thomasfermi: linear system is singular")
	ErrNotConverged     = errors.New("thomasfermi: iteration did not converge within budget")
	ErrDiverged         = errors.New("thomasfermi: iteration produced a non-finite error")
	ErrDimension        = errors.New("thomasfermi: dimension mismatch")
)

// Phase 求解阶段
type Phase string

// 求解阶段定义
const (
	PhaseShoot   Phase = "shoot"   // 打靶法初始解
	PhaseBuild   Phase = "build"   // 有限元系统构建
	PhaseSolve   Phase = "solve"   // 线性求解
	PhaseIterate Phase = "iterate" // 自洽迭代
)

// PhaseError 携带阶段与迭代次数的错误
type PhaseError struct {
	Phase     Phase
	Iteration int // 初始化阶段为0
	Err       error
}

// NewPhaseError 包装错误
func NewPhaseError(phase Phase, iteration int, err error) *PhaseError {
	return &PhaseError{Phase: phase, Iteration: iteration, Err: err}
}

func (e *PhaseError) Error() string {
	if e.Iteration == 0 {
		return fmt.Sprintf("%s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s (iteration %d): %v", e.Phase, e.Iteration, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
