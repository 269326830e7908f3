package mlkit

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// forest 袋装决策树集合，回归与分类共用
type forest struct {
	nTrees      int
	seed        int64
	crit        criterion
	nClasses    int
	trees       []*decisionTree
	importances []float64
}

func (f *forest) fit(X [][]float64, y []float64, maxFeatures func(int) int) error {
	width, err := checkMatrix(X, len(y))
	if err != nil {
		return err
	}
	if f.nTrees <= 0 {
		return errors.New("树的数量必须大于 0")
	}

	n := len(X)
	rng := rand.New(rand.NewSource(f.seed))
	f.trees = make([]*decisionTree, 0, f.nTrees)
	f.importances = make([]float64, width)

	for i := 0; i < f.nTrees; i++ {
		treeRng := rand.New(rand.NewSource(rng.Int63()))
		boot := make([]int, n)
		for j := range boot {
			boot[j] = treeRng.Intn(n)
		}

		tree := &decisionTree{
			crit:            f.crit,
			nClasses:        f.nClasses,
			maxFeatures:     maxFeatures(width),
			minSamplesSplit: 2,
			rng:             treeRng,
		}
		tree.fit(X, y, boot)
		f.trees = append(f.trees, tree)
		floats.Add(f.importances, tree.importances)
	}

	if total := floats.Sum(f.importances); total > 0 {
		floats.Scale(1/total, f.importances)
	}
	return nil
}

// ── 回归 ──

// RandomForestRegressor 随机森林回归，叶子均值取平均
type RandomForestRegressor struct {
	forest
}

// NewRandomForestRegressor 创建随机森林回归器
func NewRandomForestRegressor(nTrees int, seed int64) *RandomForestRegressor {
	return &RandomForestRegressor{forest{nTrees: nTrees, seed: seed, crit: criterionMSE}}
}

// Fit 训练，每棵树考虑全部特征
func (m *RandomForestRegressor) Fit(X [][]float64, y []float64) error {
	return m.fit(X, y, func(width int) int { return width })
}

// Predict 批量预测
func (m *RandomForestRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		sum := 0.0
		for _, t := range m.trees {
			sum += t.predictNode(x).value
		}
		out[i] = sum / float64(len(m.trees))
	}
	return out
}

// FeatureImportances 各特征的不纯度下降占比，总和为 1
func (m *RandomForestRegressor) FeatureImportances() []float64 {
	return append([]float64(nil), m.importances...)
}

// ── 分类 ──

// RandomForestClassifier 随机森林分类，叶子类别占比取平均后取最大者
type RandomForestClassifier struct {
	forest
}

// NewRandomForestClassifier 创建随机森林分类器
func NewRandomForestClassifier(nTrees int, seed int64) *RandomForestClassifier {
	return &RandomForestClassifier{forest{nTrees: nTrees, seed: seed, crit: criterionGini}}
}

// Fit 训练，标签须为非负整数；每次切分考虑 sqrt(特征数) 个特征
func (m *RandomForestClassifier) Fit(X [][]float64, y []int) error {
	if len(y) == 0 {
		return ErrInsufficientData
	}
	labels := make([]float64, len(y))
	maxLabel := 0
	for i, v := range y {
		if v < 0 {
			return errors.New("分类标签不能为负数")
		}
		if v > maxLabel {
			maxLabel = v
		}
		labels[i] = float64(v)
	}
	m.nClasses = maxLabel + 1

	return m.fit(X, labels, func(width int) int {
		k := int(math.Sqrt(float64(width)))
		if k < 1 {
			k = 1
		}
		return k
	})
}

// Predict 批量预测类别
func (m *RandomForestClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	probs := make([]float64, m.nClasses)
	for i, x := range X {
		for c := range probs {
			probs[c] = 0
		}
		for _, t := range m.trees {
			floats.Add(probs, t.predictNode(x).probs)
		}
		out[i] = floats.MaxIdx(probs)
	}
	return out
}

// FeatureImportances 各特征的不纯度下降占比，总和为 1
func (m *RandomForestClassifier) FeatureImportances() []float64 {
	return append([]float64(nil), m.importances...)
}
