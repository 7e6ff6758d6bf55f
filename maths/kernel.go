package maths

import (
	"fmt"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// minChunk 并行分块的最小长度，低于该长度时顺序执行
const minChunk = 1024

// Kernel 节点级运算内核
// 每个节点的结果只依赖自身索引，SIMD 与并行开关只影响执行方式
type Kernel struct {
	SIMD     bool // 使用 gonum floats 的向量化实现
	Parallel bool // 分块并行
	Workers  int  // 并行协程数（<=0 时使用 GOMAXPROCS）
}

// NewKernel 创建运算内核
func NewKernel(simd, parallel bool, workers int) *Kernel {
	return &Kernel{SIMD: simd, Parallel: parallel, Workers: workers}
}

// workers 实际使用的协程数
func (k *Kernel) workers() int {
	if k.Workers > 0 {
		return k.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// chunks 把 [0,n) 划分为若干连续区间
func (k *Kernel) chunks(n int) [][2]int {
	w := 1
	if k != nil && k.Parallel {
		w = min(k.workers(), n/minChunk)
	}
	if w <= 1 {
		return [][2]int{{0, n}}
	}
	size := (n + w - 1) / w
	ranges := make([][2]int, 0, w)
	for lo := 0; lo < n; lo += size {
		ranges = append(ranges, [2]int{lo, min(lo+size, n)})
	}
	return ranges
}

// run 对每个区间执行 fn，区间之间互不重叠
func (k *Kernel) run(ranges [][2]int, fn func(c, lo, hi int)) {
	if len(ranges) == 1 {
		fn(0, ranges[0][0], ranges[0][1])
		return
	}
	var g errgroup.Group
	for c, r := range ranges {
		g.Go(func() error {
			fn(c, r[0], r[1])
			return nil
		})
	}
	_ = g.Wait()
}

// Apply 对 [0,n) 分块执行 fn(lo, hi)
func (k *Kernel) Apply(n int, fn func(lo, hi int)) {
	k.run(k.chunks(n), func(_, lo, hi int) { fn(lo, hi) })
}

// Mix 一次混合：dst[i] = prev[i] + alpha*(cur[i]-prev[i])
// alpha == 1 时结果与 cur 完全相同，其余情况结果截断在 prev 与 cur 之间
func (k *Kernel) Mix(dst, prev, cur []float64, alpha float64) {
	if len(dst) != len(prev) || len(cur) != len(prev) {
		panic(fmt.Sprintf("mix dimension mismatch: dst=%d prev=%d cur=%d", len(dst), len(prev), len(cur)))
	}
	if alpha == 1 {
		copy(dst, cur)
		return
	}
	k.Apply(len(dst), func(lo, hi int) {
		d, p, c := dst[lo:hi], prev[lo:hi], cur[lo:hi]
		if !k.SIMD {
			for i := range d {
				lower, upper := math.Min(p[i], c[i]), math.Max(p[i], c[i])
				d[i] = clamp(p[i]+alpha*(c[i]-p[i]), lower, upper)
			}
			return
		}
		if len(d) > 0 && &d[0] == &c[0] {
			// dst 与 cur 共享存储时先保留 cur 用于截断
			c = slices.Clone(c)
		}
		floats.SubTo(d, c, p)
		floats.AddScaledTo(d, p, alpha, d)
		for i := range d {
			// 舍入误差不允许越过两端
			d[i] = clamp(d[i], math.Min(p[i], c[i]), math.Max(p[i], c[i]))
		}
	})
}

func clamp(v, lower, upper float64) float64 { return math.Min(math.Max(v, lower), upper) }

// Distance 欧氏距离 sqrt(Σ(a[i]-b[i])²)，未按节点数归一化
func (k *Kernel) Distance(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("distance dimension mismatch: %d != %d", len(a), len(b)))
	}
	ranges := k.chunks(len(a))
	partial := make([]float64, len(ranges))
	k.run(ranges, func(c, lo, hi int) {
		if k.SIMD {
			d := floats.Distance(a[lo:hi], b[lo:hi], 2)
			partial[c] = d * d
			return
		}
		var sum float64
		for i := lo; i < hi; i++ {
			d := a[i] - b[i]
			sum += d * d
		}
		partial[c] = sum
	})
	if len(partial) == 1 {
		return math.Sqrt(partial[0])
	}
	var sum float64
	for _, v := range partial {
		sum += v
	}
	return math.Sqrt(sum)
}
