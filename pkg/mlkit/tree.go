package mlkit

import (
	"math"
	"math/rand"
	"sort"
)

type criterion int

const (
	criterionMSE criterion = iota
	criterionGini
)

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64   // 回归：叶子均值
	probs     []float64 // 分类：叶子内各类别占比
}

// decisionTree CART 决策树，按 MSE 或 Gini 选择切分
type decisionTree struct {
	crit            criterion
	nClasses        int
	maxFeatures     int
	minSamplesSplit int
	rng             *rand.Rand

	root        *treeNode
	importances []float64
}

func (t *decisionTree) fit(X [][]float64, y []float64, idx []int) {
	t.importances = make([]float64, len(X[0]))
	t.root = t.build(X, y, idx)

	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	if total > 0 {
		for i := range t.importances {
			t.importances[i] /= total
		}
	}
}

func (t *decisionTree) build(X [][]float64, y []float64, idx []int) *treeNode {
	node := t.leafFor(y, idx)
	imp := t.impurity(y, idx)
	if len(idx) < t.minSamplesSplit || imp <= 1e-12 {
		return node
	}

	feature, threshold, gain, ok := t.bestSplit(X, y, idx, imp)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	t.importances[feature] += gain * float64(len(idx))
	node.leaf = false
	node.feature = feature
	node.threshold = threshold
	node.left = t.build(X, y, left)
	node.right = t.build(X, y, right)
	return node
}

func (t *decisionTree) leafFor(y []float64, idx []int) *treeNode {
	node := &treeNode{leaf: true}
	if t.crit == criterionMSE {
		sum := 0.0
		for _, i := range idx {
			sum += y[i]
		}
		node.value = sum / float64(len(idx))
		return node
	}

	node.probs = make([]float64, t.nClasses)
	for _, i := range idx {
		node.probs[int(y[i])]++
	}
	for c := range node.probs {
		node.probs[c] /= float64(len(idx))
	}
	return node
}

func (t *decisionTree) impurity(y []float64, idx []int) float64 {
	n := float64(len(idx))
	if t.crit == criterionMSE {
		sum, sq := 0.0, 0.0
		for _, i := range idx {
			sum += y[i]
			sq += y[i] * y[i]
		}
		mean := sum / n
		return math.Max(sq/n-mean*mean, 0)
	}

	counts := make([]float64, t.nClasses)
	for _, i := range idx {
		counts[int(y[i])]++
	}
	return gini(counts, n)
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / n
		g -= p * p
	}
	return g
}

// bestSplit 在随机抽取的特征子集上寻找不纯度下降最大的切分点
// 节点内取值恒定的特征不计入 maxFeatures，继续抽取下一个
func (t *decisionTree) bestSplit(X [][]float64, y []float64, idx []int, parentImp float64) (int, float64, float64, bool) {
	candidates := t.rng.Perm(len(X[0]))
	visited := 0

	n := float64(len(idx))
	bestGain := math.Inf(-1)
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(idx))
	for _, f := range candidates {
		if visited >= t.maxFeatures {
			break
		}
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool { return X[sorted[a]][f] < X[sorted[b]][f] })
		if X[sorted[0]][f] == X[sorted[len(sorted)-1]][f] {
			continue
		}
		visited++

		var scan func(k int) float64
		if t.crit == criterionMSE {
			totalSum, totalSq := 0.0, 0.0
			for _, i := range sorted {
				totalSum += y[i]
				totalSq += y[i] * y[i]
			}
			leftSum, leftSq := 0.0, 0.0
			scan = func(k int) float64 {
				v := y[sorted[k-1]]
				leftSum += v
				leftSq += v * v
				nl, nr := float64(k), n-float64(k)
				rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
				impL := math.Max(leftSq/nl-(leftSum/nl)*(leftSum/nl), 0)
				impR := math.Max(rightSq/nr-(rightSum/nr)*(rightSum/nr), 0)
				return (nl*impL + nr*impR) / n
			}
		} else {
			leftCounts := make([]float64, t.nClasses)
			rightCounts := make([]float64, t.nClasses)
			for _, i := range sorted {
				rightCounts[int(y[i])]++
			}
			scan = func(k int) float64 {
				c := int(y[sorted[k-1]])
				leftCounts[c]++
				rightCounts[c]--
				nl, nr := float64(k), n-float64(k)
				return (nl*gini(leftCounts, nl) + nr*gini(rightCounts, nr)) / n
			}
		}

		for k := 1; k < len(sorted); k++ {
			weighted := scan(k)
			lo, hi := X[sorted[k-1]][f], X[sorted[k]][f]
			if lo == hi {
				continue
			}
			if gain := parentImp - weighted; gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (lo + hi) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, math.Max(bestGain, 0), true
}

func (t *decisionTree) predictNode(x []float64) *treeNode {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node
}
