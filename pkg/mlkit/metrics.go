package mlkit

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// MSE 均方误差
func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	sum := 0.0
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue))
}

// R2 决定系数；真实值无方差时，完全拟合记 1，否则记 0
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	mean := stat.Mean(yTrue, nil)
	ssRes, ssTot := 0.0, 0.0
	for i := range yTrue {
		ssRes += (yTrue[i] - yPred[i]) * (yTrue[i] - yPred[i])
		ssTot += (yTrue[i] - mean) * (yTrue[i] - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Accuracy 分类准确率
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	hit := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(yTrue))
}

// ClassMetrics 单个类别的精确率、召回率与 F1
type ClassMetrics struct {
	Label     int     `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report 分类报告
type Report struct {
	Classes  []ClassMetrics `json:"classes"`
	Accuracy float64        `json:"accuracy"`
}

// ClassificationReport 计算出现在真实值或预测值中的每个类别的指标
func ClassificationReport(yTrue, yPred []int) Report {
	labels := map[int]struct{}{}
	for _, v := range yTrue {
		labels[v] = struct{}{}
	}
	for _, v := range yPred {
		labels[v] = struct{}{}
	}
	ordered := make([]int, 0, len(labels))
	for l := range labels {
		ordered = append(ordered, l)
	}
	sort.Ints(ordered)

	report := Report{Accuracy: Accuracy(yTrue, yPred)}
	for _, l := range ordered {
		tp, fp, fn, support := 0, 0, 0, 0
		for i := range yTrue {
			if yTrue[i] == l {
				support++
			}
			switch {
			case yTrue[i] == l && yPred[i] == l:
				tp++
			case yTrue[i] != l && yPred[i] == l:
				fp++
			case yTrue[i] == l && yPred[i] != l:
				fn++
			}
		}
		m := ClassMetrics{Label: l, Support: support}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes = append(report.Classes, m)
	}
	return report
}

// String 以文本表格输出
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%8s %10s %10s %10s %8s\n", "label", "precision", "recall", "f1", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%8d %10.2f %10.2f %10.2f %8d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(&b, "accuracy %.2f\n", r.Accuracy)
	return b.String()
}
