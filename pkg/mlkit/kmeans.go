package mlkit

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	kmeansInit    = 10
	kmeansMaxIter = 300
)

// KMeansResult 聚类结果
type KMeansResult struct {
	Labels  []int       `json:"labels"`
	Centers [][]float64 `json:"centers"`
	Inertia float64     `json:"inertia"`
}

// KMeans k-means++ 初始化的 Lloyd 迭代，重复多次取惯性最小的结果
func KMeans(X [][]float64, k int, seed int64) (*KMeansResult, error) {
	if _, err := checkMatrix(X, len(X)); err != nil {
		return nil, err
	}
	if k <= 0 || len(X) < k {
		return nil, ErrInsufficientData
	}

	rng := rand.New(rand.NewSource(seed))
	var best *KMeansResult
	for run := 0; run < kmeansInit; run++ {
		res := lloyd(X, initPlusPlus(X, k, rng))
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func initPlusPlus(X [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, append([]float64(nil), X[rng.Intn(len(X))]...))

	dist := make([]float64, len(X))
	for len(centers) < k {
		total := 0.0
		for i, x := range X {
			d := math.Inf(1)
			for _, c := range centers {
				d = math.Min(d, sqDist(x, c))
			}
			dist[i] = d
			total += d
		}

		next := rng.Intn(len(X))
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
		}
		centers = append(centers, append([]float64(nil), X[next]...))
	}
	return centers
}

func lloyd(X [][]float64, centers [][]float64) *KMeansResult {
	k, width := len(centers), len(X[0])
	labels := make([]int, len(X))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, x := range X {
			nearest := nearestCenter(x, centers)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, width)
		}
		for i, x := range X {
			floats.Add(sums[labels[i]], x)
			counts[labels[i]]++
		}
		for c := range centers {
			// 空簇保留原中心
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centers[c] = sums[c]
		}
	}

	inertia := 0.0
	for i, x := range X {
		inertia += sqDist(x, centers[labels[i]])
	}
	return &KMeansResult{Labels: labels, Centers: centers, Inertia: inertia}
}

func nearestCenter(x []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(x, center); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
