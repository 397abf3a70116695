package prob

import (
	"fmt"
	"math"
)

const (
	// probFloor 为归一化前的概率下限，避免零概率导致的数值退化。
	probFloor = 1e-12
	// sumTolerance 为每行概率和允许偏离 1 的容差。
	sumTolerance = 1e-6
)

// Row 保存单场比赛的赛果概率。
type Row struct {
	MatchID string
	P       [NumOutcomes]float64
}

// Matrix 保存一轮比赛的概率矩阵，构造完成后只读。
type Matrix struct {
	rows []Row
}

// InvalidProbabilityRowError 表示某场比赛的概率行无法修正为合法分布。
type InvalidProbabilityRowError struct {
	MatchID string
	Reason  string
}

func (e *InvalidProbabilityRowError) Error() string {
	return fmt.Sprintf("prob: 比赛 %q 的概率行无效: %s", e.MatchID, e.Reason)
}

// NewMatrix 校验并归一化每行概率，任何无法修正的行立即失败。
func NewMatrix(rows []Row) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("prob: 概率矩阵不能为空")
	}

	normalized := make([]Row, len(rows))
	for i, row := range rows {
		fixed, err := normalizeRow(row)
		if err != nil {
			return nil, err
		}
		normalized[i] = fixed
	}

	return &Matrix{rows: normalized}, nil
}

func normalizeRow(row Row) (Row, error) {
	sum := 0.0
	for _, p := range row.P {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Row{}, &InvalidProbabilityRowError{MatchID: row.MatchID, Reason: "存在非数值概率"}
		}
		if p < 0 {
			return Row{}, &InvalidProbabilityRowError{MatchID: row.MatchID, Reason: fmt.Sprintf("存在负概率 %g", p)}
		}
		sum += p
	}
	if sum <= 0 {
		return Row{}, &InvalidProbabilityRowError{MatchID: row.MatchID, Reason: "概率和为零"}
	}

	// 上游校准可能引入浮点漂移，这里统一截断并重新归一化。
	fixed := row
	sum = 0.0
	for i, p := range fixed.P {
		if p < probFloor {
			p = probFloor
		}
		if p > 1 {
			p = 1
		}
		fixed.P[i] = p
		sum += p
	}
	for i := range fixed.P {
		fixed.P[i] /= sum
	}

	check := fixed.P[Home] + fixed.P[Draw] + fixed.P[Away]
	if math.Abs(check-1) > sumTolerance {
		return Row{}, &InvalidProbabilityRowError{
			MatchID: row.MatchID,
			Reason:  fmt.Sprintf("归一化后概率和 %.9f 仍超出容差", check),
		}
	}

	return fixed, nil
}

// Len 返回比赛场数。
func (m *Matrix) Len() int {
	return len(m.rows)
}

// Row 返回第 i 场比赛的概率行。
func (m *Matrix) Row(i int) Row {
	return m.rows[i]
}

// MatchIDs 返回全部比赛标识，顺序与矩阵行一致。
func (m *Matrix) MatchIDs() []string {
	ids := make([]string, len(m.rows))
	for i, row := range m.rows {
		ids[i] = row.MatchID
	}
	return ids
}
