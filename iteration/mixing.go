package iteration

import (
	"fmt"
	"math"

	"thomasfermi/maths"
)

// CoefficientField 计算非线性项系数 β_i = y_i·sqrt(y_i/x_i)
// 原点处取首个单元上 y^(3/2)/sqrt(x) 的平均值 2·y_0^(3/2)/sqrt(x_1)
// y < 0 的节点按 0 处理
func CoefficientField(k *maths.Kernel, dst, mesh, y []float64) {
	if len(dst) != len(mesh) || len(y) != len(mesh) {
		panic(fmt.Sprintf("coefficient field dimension mismatch: dst=%d mesh=%d y=%d", len(dst), len(mesh), len(y)))
	}
	k.Apply(len(mesh), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			v := math.Max(y[i], 0)
			if mesh[i] == 0 {
				dst[i] = 2 * v * math.Sqrt(v) / math.Sqrt(mesh[i+1])
				continue
			}
			dst[i] = v * math.Sqrt(v/mesh[i])
		}
	})
}

// Mix 一次混合 current := previous + alpha·(current - previous)
func Mix(k *maths.Kernel, current, previous []float64, alpha float64) {
	k.Mix(current, previous, current, alpha)
}

// IterationError 两次迭代结果之差的欧氏范数（不按节点数归一化）
func IterationError(k *maths.Kernel, current, previous []float64) float64 {
	return k.Distance(current, previous)
}
