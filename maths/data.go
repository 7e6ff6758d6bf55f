package maths

import "fmt"

// DataManager 一维数据管理器（底层存储核心）
type DataManager struct {
	data []float64
}

// NewDataManager 创建一个指定长度的新的 DataManager。
func NewDataManager(length int) *DataManager {
	return &DataManager{data: make([]float64, length)}
}

// NewDataManagerWithData 使用给定的数据切片创建一个新的 DataManager（不复制）。
func NewDataManagerWithData(data []float64) *DataManager {
	return &DataManager{data: data}
}

// Length 返回数据的长度。
func (dm *DataManager) Length() int { return len(dm.data) }

// String 返回数据的字符串表示形式。
func (dm *DataManager) String() string { return fmt.Sprintf("%v", dm.data) }

// Get 返回指定索引处的值。
func (dm *DataManager) Get(index int) float64 { return dm.data[index] }

// Set 设置指定索引处的值。
func (dm *DataManager) Set(index int, value float64) { dm.data[index] = value }

// Increment 增加指定索引处的值。
func (dm *DataManager) Increment(index int, value float64) { dm.data[index] += value }

// DataCopy 返回数据切片的副本。
func (dm *DataManager) DataCopy() []float64 {
	cpy := make([]float64, len(dm.data))
	copy(cpy, dm.data)
	return cpy
}

// Data 返回数据切片的引用。
// 注意：直接修改返回的切片会影响原始数据。
func (dm *DataManager) Data() []float64 { return dm.data }

// Zero 将所有元素设置为零。
func (dm *DataManager) Zero() { clear(dm.data) }

// AppendInPlace 在末尾追加一个或多个值。
func (dm *DataManager) AppendInPlace(values ...float64) {
	dm.data = append(dm.data, values...)
}

// InsertInPlace 在指定索引处插入一个值。
func (dm *DataManager) InsertInPlace(index int, value float64) {
	dm.data = append(dm.data, 0)
	copy(dm.data[index+1:], dm.data[index:])
	dm.data[index] = value
}

// RemoveInPlace 从指定索引处移除指定数量的元素。
func (dm *DataManager) RemoveInPlace(index int, count int) {
	dm.data = append(dm.data[:index], dm.data[index+count:]...)
}

// Resize 调整数据的大小。如果新长度大于容量，则会重新分配内存。
func (dm *DataManager) Resize(length int) {
	if length > cap(dm.data) {
		newData := make([]float64, length)
		copy(newData, dm.data)
		dm.data = newData
	} else {
		dm.data = dm.data[:length]
	}
}

// NonZeroCount 计算非零元素的数量。
func (dm *DataManager) NonZeroCount() int {
	count := 0
	for _, v := range dm.data {
		if v != 0 {
			count++
		}
	}
	return count
}

// Copy 将数据复制到另一个 DataManager（长度必须一致）。
func (dm *DataManager) Copy(target *DataManager) {
	if dm.Length() != target.Length() {
		panic("DataManager.Copy: length mismatch")
	}
	copy(target.data, dm.data)
}
