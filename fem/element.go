// Package fem 一维一次有限元离散
//
// 对 y'' = β 取弱形式，线性形函数 N_i 下得到
//
//	K_ij = ∫ N_i' N_j' dx,  b_i = -∫ β_h N_i dx
//
// 其中 β_h 为节点系数场的线性插值，载荷积分使用 Gauss-Legendre 求积。
package fem

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"

	"thomasfermi/maths"
	"thomasfermi/types"
)

// FOElement 一次单元离散器
type FOElement struct {
	kernel *maths.Kernel
	t, w   []float64 // [0,1] 上的积分点与权重

	mesh  []float64    // 网格（只读共享）
	beta  []float64    // 最后一次给定的系数场
	stiff maths.Matrix // 刚度矩阵（与 beta 无关）
	load  []float64    // 载荷向量
}

// New 创建离散器，n 为每个单元的 Gauss-Legendre 积分点数
func New(n int, kernel *maths.Kernel) (*FOElement, error) {
	if n < 1 {
		return nil, fmt.Errorf("fem: gauss points must be positive, got %d", n)
	}
	if kernel == nil {
		kernel = maths.NewKernel(false, false, 0)
	}
	e := &FOElement{kernel: kernel, t: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(e.t, e.w, 0, 1)
	return e, nil
}

// Build 由网格与系数场建立刚度矩阵和载荷向量
func (e *FOElement) Build(mesh, beta []float64) error {
	if len(mesh) < 2 {
		return fmt.Errorf("%w: mesh needs at least 2 nodes, got %d", types.ErrDimension, len(mesh))
	}
	if len(beta) != len(mesh) {
		return fmt.Errorf("%w: beta has %d values for %d nodes", types.ErrDimension, len(beta), len(mesh))
	}
	for i := 1; i < len(mesh); i++ {
		if !(mesh[i] > mesh[i-1]) {
			return fmt.Errorf("fem: mesh not strictly increasing at node %d", i)
		}
	}
	e.mesh = mesh
	e.stiff = stiffness(mesh)
	e.load = make([]float64, len(mesh))
	return e.Refresh(beta)
}

// stiffness 组装刚度矩阵，每个单元贡献 1/h [[1,-1],[-1,1]]
func stiffness(mesh []float64) maths.Matrix {
	n := len(mesh)
	k := maths.NewSparseMatrix(n, n)
	for i := 0; i < n-1; i++ {
		g := 1 / (mesh[i+1] - mesh[i])
		k.Increment(i, i, g)
		k.Increment(i, i+1, -g)
		k.Increment(i+1, i, -g)
		k.Increment(i+1, i+1, g)
	}
	return k
}

// Refresh 以新的系数场重新计算载荷向量
func (e *FOElement) Refresh(beta []float64) error {
	if e.mesh == nil {
		return errors.New("fem: refresh before build")
	}
	if len(beta) != len(e.mesh) {
		return fmt.Errorf("%w: beta has %d values for %d nodes", types.ErrDimension, len(beta), len(e.mesh))
	}
	e.beta = append(e.beta[:0], beta...)
	last := len(e.mesh) - 1
	e.kernel.Apply(len(e.mesh), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum float64
			if i > 0 {
				_, right := e.integrate(i - 1)
				sum += right
			}
			if i < last {
				left, _ := e.integrate(i)
				sum += left
			}
			e.load[i] = -sum
		}
	})
	return nil
}

// integrate 单元 el 上 ∫β_h N 对左右两个节点的积分
func (e *FOElement) integrate(el int) (left, right float64) {
	h := e.mesh[el+1] - e.mesh[el]
	ba, bb := e.beta[el], e.beta[el+1]
	for q, t := range e.t {
		bh := ba*(1-t) + bb*t
		left += e.w[q] * bh * (1 - t)
		right += e.w[q] * bh * t
	}
	return h * left, h * right
}

// Stiffness 刚度矩阵
func (e *FOElement) Stiffness() maths.Matrix { return e.stiff }

// Load 载荷向量（只读）
func (e *FOElement) Load() []float64 { return e.load }

// NodeCount 节点数
func (e *FOElement) NodeCount() int { return len(e.mesh) }

// Beta 最后一次给定的系数场（只读）
func (e *FOElement) Beta() []float64 { return e.beta }

// Mesh 网格
func (e *FOElement) Mesh() []float64 { return e.mesh }
