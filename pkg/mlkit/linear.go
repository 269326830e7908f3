package mlkit

import "gonum.org/v1/gonum/stat"

// LinearRegression 一元线性回归 y = Intercept + Slope*x
type LinearRegression struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	R2        float64 `json:"r2"`
}

// FitLinear 最小二乘拟合
func FitLinear(x, y []float64) (*LinearRegression, error) {
	if len(x) < 2 || len(x) != len(y) {
		return nil, ErrInsufficientData
	}

	// x 全部相同时斜率无定义，退化为常数模型 y = mean(y)
	m := &LinearRegression{Intercept: stat.Mean(y, nil)}
	if stat.Variance(x, nil) > 0 {
		m.Intercept, m.Slope = stat.LinearRegression(x, y, nil, false)
	}
	m.R2 = R2(y, m.PredictAll(x))
	return m, nil
}

// Predict 预测单个点
func (m *LinearRegression) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// PredictAll 批量预测
func (m *LinearRegression) PredictAll(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = m.Predict(v)
	}
	return out
}
