package mlkit

import "gonum.org/v1/gonum/stat"

// StandardScaler 按列做零均值、单位方差标准化（总体标准差）
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit 计算每列均值与标准差，标准差为 0 的列按 1 处理
func (s *StandardScaler) Fit(X [][]float64) error {
	width, err := checkMatrix(X, len(X))
	if err != nil {
		return err
	}

	s.Mean = make([]float64, width)
	s.Scale = make([]float64, width)
	col := make([]float64, len(X))
	for j := 0; j < width; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j], s.Scale[j] = mean, std
	}
	return nil
}

// Transform 标准化
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = (v - s.Mean[j]) / s.Scale[j]
		}
	}
	return out
}

// FitTransform Fit 后直接 Transform
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X), nil
}

// InverseTransform 还原到原始量纲
func (s *StandardScaler) InverseTransform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v*s.Scale[j] + s.Mean[j]
		}
	}
	return out
}
