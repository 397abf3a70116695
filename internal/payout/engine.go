package payout

import (
	"fmt"

	"loteca-risk/internal/prob"
	"loteca-risk/internal/simulate"
	"loteca-risk/internal/ticket"
)

// ShapeMismatchError 表示彩票覆盖长度与模拟结果的比赛场数不一致。
// 这是协作方之间的契约违规，必须中止而不是截断或填充。
type ShapeMismatchError struct {
	TicketID  string
	TicketLen int
	Matches   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("payout: 彩票 %q 覆盖 %d 场比赛，模拟结果含 %d 场", e.TicketID, e.TicketLen, e.Matches)
}

// Hits 统计一次模拟结果中彩票命中的场次。
func Hits(result []prob.Outcome, coverage []ticket.Coverage) int {
	hits := 0
	for j, outcome := range result {
		if coverage[j].Has(outcome) {
			hits++
		}
	}
	return hits
}

// Score 对整个模拟批次与组合中全部彩票计算 S×T 派彩矩阵。
func Score(batch *simulate.Batch, pf *ticket.Portfolio) ([][]float64, error) {
	if batch == nil {
		return nil, fmt.Errorf("payout: 模拟批次不能为空")
	}
	if pf == nil {
		return nil, fmt.Errorf("payout: 组合不能为空")
	}
	for _, t := range pf.Tickets {
		if len(t.Coverage) != batch.Matches {
			return nil, &ShapeMismatchError{TicketID: t.ID, TicketLen: len(t.Coverage), Matches: batch.Matches}
		}
	}

	matrix := make([][]float64, batch.Sims)
	for s := 0; s < batch.Sims; s++ {
		row := batch.Row(s)
		payouts := make([]float64, len(pf.Tickets))
		for ti, t := range pf.Tickets {
			payouts[ti] = pf.Scheme.Payout(Hits(row, t.Coverage), batch.Matches)
		}
		matrix[s] = payouts
	}

	return matrix, nil
}

// Aggregate 将 S×T 派彩矩阵按权重汇总为每次模拟的组合回报。
// 权重需已归一化（组合构造时完成），这里只做形状校验。
func Aggregate(matrix [][]float64, weights []float64) ([]float64, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("payout: 派彩矩阵不能为空")
	}

	returns := make([]float64, len(matrix))
	for s, payouts := range matrix {
		if len(payouts) != len(weights) {
			return nil, fmt.Errorf("payout: 第 %d 行派彩数 %d 与权重数 %d 不一致", s, len(payouts), len(weights))
		}
		total := 0.0
		for t, pay := range payouts {
			total += weights[t] * pay
		}
		returns[s] = total
	}

	return returns, nil
}
