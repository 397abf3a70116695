package ticket

import "fmt"

// Portfolio 保存全部彩票、归一化后的权重与派彩方案，构造完成后只读。
type Portfolio struct {
	Tickets []Ticket
	Weights []float64
	Scheme  PayScheme
	Matches int

	// WeightFallback 表示原始权重全部无效，已回退为均匀分布。
	WeightFallback bool
}

// NewPortfolio 校验彩票形状并归一化权重。
// 负权重按 0 处理；权重全为零或缺失时回退为均匀分布（恢复性条件，不报错）。
func NewPortfolio(tickets []Ticket, scheme PayScheme, numMatches int) (*Portfolio, error) {
	if len(tickets) == 0 {
		return nil, fmt.Errorf("ticket: 组合中至少需要一张彩票")
	}
	if numMatches <= 0 {
		return nil, fmt.Errorf("ticket: 比赛场数必须大于0")
	}

	for _, t := range tickets {
		if len(t.Coverage) != numMatches {
			return nil, fmt.Errorf("ticket: 彩票 %q 覆盖 %d 场比赛，期望 %d 场", t.ID, len(t.Coverage), numMatches)
		}
		for j, c := range t.Coverage {
			if c == 0 {
				return nil, fmt.Errorf("ticket: 彩票 %q 第 %d 场的覆盖集合为空", t.ID, j+1)
			}
		}
	}

	weights, fallback := NormalizeWeights(rawWeights(tickets))

	return &Portfolio{
		Tickets:        tickets,
		Weights:        weights,
		Scheme:         scheme,
		Matches:        numMatches,
		WeightFallback: fallback,
	}, nil
}

// NormalizeWeights 将权重裁剪为非负并归一化到和为 1；
// 全零时回退为均匀分布，返回值第二项指示是否回退。
func NormalizeWeights(raw []float64) ([]float64, bool) {
	weights := make([]float64, len(raw))
	sum := 0.0
	for i, w := range raw {
		if w > 0 {
			weights[i] = w
			sum += w
		}
	}

	if sum <= 0 {
		uniform := 1.0 / float64(len(weights))
		for i := range weights {
			weights[i] = uniform
		}
		return weights, true
	}

	for i := range weights {
		weights[i] /= sum
	}
	return weights, false
}

func rawWeights(tickets []Ticket) []float64 {
	raw := make([]float64, len(tickets))
	for i, t := range tickets {
		raw[i] = t.StakeWeight
	}
	return raw
}
