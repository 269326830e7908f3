// Package mlkit 提供实验室数据分析所需的轻量机器学习工具：
// 数据划分、线性回归、随机森林（回归与分类）、标准化、K-means 聚类与评估指标。
// 所有随机过程均由调用方传入的种子驱动，相同输入与种子得到相同结果。
package mlkit

import (
	"errors"
	"math"
	"math/rand"
)

// ErrInsufficientData 样本数量不足以完成训练或评估
var ErrInsufficientData = errors.New("数据量不足，无法完成分析")

// Take 按下标取出切片元素
func Take[T any](s []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}

// TrainTestSplit 将 n 个样本的下标随机划分为训练集与测试集
// 测试集大小为 ceil(n*testRatio)，两侧都至少需要一个样本
func TrainTestSplit(n int, testRatio float64, seed int64) (train, test []int, err error) {
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, ErrInsufficientData
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Column 把单个特征序列转换为单列特征矩阵
func Column(x []float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, v := range x {
		out[i] = []float64{v}
	}
	return out
}

func checkMatrix(X [][]float64, n int) (int, error) {
	if len(X) == 0 || len(X) != n {
		return 0, ErrInsufficientData
	}
	width := len(X[0])
	if width == 0 {
		return 0, ErrInsufficientData
	}
	for _, row := range X {
		if len(row) != width {
			return 0, errors.New("特征矩阵各行长度不一致")
		}
	}
	return width, nil
}
