// Package debug 迭代过程的调试输出
package debug

import (
	"encoding/json"
	"io"
	"slices"

	"thomasfermi/types"
)

// Record 记录迭代历史
type Record struct {
	Mesh      []float64 `json:"mesh"`      // 网格
	Initial   []float64 `json:"initial"`   // 打靶法初始解
	Slope     float64   `json:"slope"`     // y'(x1)
	Tolerance float64   `json:"tolerance"` // 收敛容差
	Iteration []int     `json:"iteration"` // 迭代次数列
	Error     []float64 `json:"error"`     // 误差列
	Alpha     []float64 `json:"alpha"`     // 混合系数列
	Reduced   []int     `json:"reduced"`   // 缩小混合系数的迭代
	Y         []float64 `json:"y"`         // 最终解
	Beta      []float64 `json:"beta"`      // 最终系数场
	Converged bool      `json:"converged"`
}

// Init 初始化
func (list *Record) Init(info types.RunInfo) {
	list.Mesh = slices.Clone(info.Mesh)
	list.Initial = slices.Clone(info.Initial)
	list.Slope = info.Slope
	list.Tolerance = info.Tolerance
	list.Iteration = list.Iteration[:0]
	list.Error = list.Error[:0]
	list.Alpha = list.Alpha[:0]
	list.Reduced = list.Reduced[:0]
}

// Update 记录数据
func (list *Record) Update(step types.Step) {
	list.Iteration = append(list.Iteration, step.Iteration)
	list.Error = append(list.Error, step.Error)
	list.Alpha = append(list.Alpha, step.Alpha)
	if step.Reduced {
		list.Reduced = append(list.Reduced, step.Iteration)
	}
}

// Finish 记录最终结果
func (list *Record) Finish(sol types.Solution) {
	list.Y = slices.Clone(sol.Y)
	list.Beta = slices.Clone(sol.Beta)
	list.Converged = sol.Converged
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(list) }
