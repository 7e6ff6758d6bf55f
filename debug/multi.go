package debug

import "thomasfermi/types"

// Multi 同时输出到多个调试接口
type Multi []types.Debug

func (m Multi) Init(info types.RunInfo) {
	for _, d := range m {
		d.Init(info)
	}
}

func (m Multi) Update(step types.Step) {
	for _, d := range m {
		d.Update(step)
	}
}

func (m Multi) Finish(sol types.Solution) {
	for _, d := range m {
		d.Finish(sol)
	}
}
