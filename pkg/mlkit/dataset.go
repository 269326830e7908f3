package mlkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/guregu/null/v5"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrMalformedData 数据既不是记录数组也不是按列组织的对象
var ErrMalformedData = errors.New("数据格式错误，应为 JSON 记录数组或按列组织的对象")

// 分组 t 检验读取的列
const (
	GroupColumn = "group"
	ValueColumn = "value"
)

// Frame 解析后的表格数据，缺失的单元格为 nil
type Frame struct {
	names []string
	cells map[string][]any
	rows  int
}

// ParseFrame 解析 JSON 表格数据，支持两种形式：
//
//	[{"a": 1, "b": 2}, {"a": 3}]   记录数组，缺少的键视为缺失值
//	{"a": [1, 3], "b": [2, null]}  按列组织，各列长度必须一致
func ParseFrame(data []byte) (*Frame, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrInsufficientData
	}

	switch trimmed[0] {
	case '[':
		var records []map[string]any
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		f := &Frame{cells: make(map[string][]any), rows: len(records)}
		for i, rec := range records {
			for k, v := range rec {
				col, ok := f.cells[k]
				if !ok {
					col = make([]any, len(records))
					f.cells[k] = col
				}
				col[i] = v
			}
		}
		f.names = sortedKeys(f.cells)
		return f, nil

	case '{':
		var columns map[string][]any
		if err := json.Unmarshal(trimmed, &columns); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		f := &Frame{cells: columns, names: sortedKeys(columns)}
		for i, k := range f.names {
			if i > 0 && len(columns[k]) != f.rows {
				return nil, fmt.Errorf("%w: 列 %s 长度不一致", ErrMalformedData, k)
			}
			f.rows = len(columns[k])
		}
		return f, nil
	}
	return nil, ErrMalformedData
}

func sortedKeys(m map[string][]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rows 行数
func (f *Frame) Rows() int { return f.rows }

// Columns 按名称排序的全部列名
func (f *Frame) Columns() []string { return f.names }

// numericColumn 数值列，valid[i] 为 false 表示第 i 行缺失
type numericColumn struct {
	vals  []float64
	valid []bool
}

// present 非缺失的值
func (c numericColumn) present() []float64 {
	out := make([]float64, 0, len(c.vals))
	for i, v := range c.vals {
		if c.valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// numeric 列中出现字符串或布尔值、或全部缺失时 ok 为 false
func (f *Frame) numeric(name string) (col numericColumn, ok bool) {
	col = numericColumn{vals: make([]float64, f.rows), valid: make([]bool, f.rows)}
	for i, v := range f.cells[name] {
		switch n := v.(type) {
		case nil:
		case float64:
			col.vals[i], col.valid[i], ok = n, true, true
		default:
			return numericColumn{}, false
		}
	}
	return col, ok
}

// NumericColumns 数值列名
func (f *Frame) NumericColumns() []string {
	var out []string
	for _, name := range f.names {
		if _, ok := f.numeric(name); ok {
			out = append(out, name)
		}
	}
	return out
}

// ── 描述性统计 ──

// ColumnSummary 单列描述性统计；标准差为样本标准差，样本不足 2 个时为 null
type ColumnSummary struct {
	Column string     `json:"column"`
	Count  int        `json:"count"`
	Mean   float64    `json:"mean"`
	Std    null.Float `json:"std"`
	Min    float64    `json:"min"`
	Q25    float64    `json:"q25"`
	Median float64    `json:"median"`
	Q75    float64    `json:"q75"`
	Max    float64    `json:"max"`
}

// Describe 对每个数值列计算计数、均值、标准差、最值与四分位数
func Describe(f *Frame) ([]ColumnSummary, error) {
	cols := f.NumericColumns()
	if len(cols) == 0 {
		return nil, ErrInsufficientData
	}

	out := make([]ColumnSummary, 0, len(cols))
	for _, name := range cols {
		col, _ := f.numeric(name)
		x := col.present()
		sorted := append([]float64(nil), x...)
		sort.Float64s(sorted)

		s := ColumnSummary{
			Column: name,
			Count:  len(x),
			Mean:   stat.Mean(x, nil),
			Min:    floats.Min(x),
			Q25:    quantile(sorted, 0.25),
			Median: quantile(sorted, 0.5),
			Q75:    quantile(sorted, 0.75),
			Max:    floats.Max(x),
		}
		if len(x) > 1 {
			s.Std = null.FloatFrom(stat.StdDev(x, nil))
		}
		out = append(out, s)
	}
	return out, nil
}

// quantile 已排序样本的分位数，在位置 (n-1)*p 处线性插值
func quantile(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	i, j := int(math.Floor(pos)), int(math.Ceil(pos))
	return sorted[i] + (sorted[j]-sorted[i])*(pos-float64(i))
}

// ── 相关性 ──

// CorrelationMatrix Pearson 相关系数矩阵，Values[i][j] 对应 Columns[i] 与 Columns[j]
type CorrelationMatrix struct {
	Columns []string       `json:"columns"`
	Values  [][]null.Float `json:"values"`
}

// Correlation 数值列两两之间的相关系数，每对只使用两列都不缺失的行
func Correlation(f *Frame) (*CorrelationMatrix, error) {
	names := f.NumericColumns()
	if len(names) == 0 {
		return nil, ErrInsufficientData
	}

	cols := make([]numericColumn, len(names))
	for i, name := range names {
		cols[i], _ = f.numeric(name)
	}

	m := &CorrelationMatrix{Columns: names, Values: make([][]null.Float, len(names))}
	for i := range cols {
		m.Values[i] = make([]null.Float, len(cols))
		for j := range cols {
			m.Values[i][j] = pearson(cols[i], cols[j])
		}
	}
	return m, nil
}

// pearson 成对样本少于 2 个或任一侧无方差时为 null
func pearson(a, b numericColumn) null.Float {
	var x, y []float64
	for i := range a.vals {
		if a.valid[i] && b.valid[i] {
			x = append(x, a.vals[i])
			y = append(y, b.vals[i])
		}
	}
	if len(x) < 2 || stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return null.Float{}
	}
	return null.FloatFrom(stat.Correlation(x, y, nil))
}

// ── t 检验 ──

// TTestResult 双样本 t 检验结果，统计量的符号为 Groups[0] 减 Groups[1]
type TTestResult struct {
	Groups     [2]string `json:"groups"`
	TStatistic float64   `json:"t_statistic"`
	PValue     float64   `json:"p_value"`
	DF         float64   `json:"df"`
}

// TTestInd 方差齐性假设下的独立双样本 t 检验（双侧）
// 每组至少 2 个样本，合并方差为 0 时统计量无定义
func TTestInd(a, b []float64) (*TTestResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, ErrInsufficientData
	}

	n1, n2 := float64(len(a)), float64(len(b))
	df := n1 + n2 - 2
	pooled := ((n1-1)*stat.Variance(a, nil) + (n2-1)*stat.Variance(b, nil)) / df
	if pooled == 0 {
		return nil, ErrInsufficientData
	}

	t := (stat.Mean(a, nil) - stat.Mean(b, nil)) / math.Sqrt(pooled*(1/n1+1/n2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return &TTestResult{
		TStatistic: t,
		PValue:     2 * dist.Survival(math.Abs(t)),
		DF:         df,
	}, nil
}

// groupTTest group 列恰好有两个取值且 value 为数值列时，按组比较 value
// 组的先后顺序为首次出现的顺序，条件不满足时返回 nil
func groupTTest(f *Frame) *TTestResult {
	groups, ok := f.cells[GroupColumn]
	if !ok {
		return nil
	}
	values, ok := f.numeric(ValueColumn)
	if !ok {
		return nil
	}

	var order []string
	byGroup := make(map[string][]float64)
	for i, g := range groups {
		if g == nil {
			continue
		}
		key := fmt.Sprint(g)
		if _, seen := byGroup[key]; !seen {
			order = append(order, key)
			byGroup[key] = nil
		}
		if values.valid[i] {
			byGroup[key] = append(byGroup[key], values.vals[i])
		}
	}
	if len(order) != 2 {
		return nil
	}

	res, err := TTestInd(byGroup[order[0]], byGroup[order[1]])
	if err != nil {
		return nil
	}
	res.Groups = [2]string{order[0], order[1]}
	return res
}

// ── 汇总 ──

// DatasetAnalysis 表格数据的描述性统计、相关矩阵与可选的分组 t 检验
type DatasetAnalysis struct {
	Rows        int                `json:"rows"`
	Summary     []ColumnSummary    `json:"summary"`
	Correlation *CorrelationMatrix `json:"correlation"`
	TTest       *TTestResult       `json:"t_test,omitempty"`
}

// Analyze 至少需要一个数值列
func Analyze(f *Frame) (*DatasetAnalysis, error) {
	summary, err := Describe(f)
	if err != nil {
		return nil, err
	}
	corr, err := Correlation(f)
	if err != nil {
		return nil, err
	}
	return &DatasetAnalysis{
		Rows:        f.Rows(),
		Summary:     summary,
		Correlation: corr,
		TTest:       groupTTest(f),
	}, nil
}
