package riskstats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"loteca-risk/internal/prob"
	"loteca-risk/internal/ticket"
)

// ErrInsufficientData 表示回报序列为空，无法给出风险指标。
var ErrInsufficientData = errors.New("riskstats: 回报序列为空")

// VarES 在置信水平 alpha 下计算组合的 VaR 与 ES。
// 损失取回报的相反数（损失为正），VaR 为损失分布在 alpha 处的
// 线性插值分位数，ES 为不低于 VaR 的尾部损失均值。
// 对任意非退化分布恒有 ES >= VaR。
func VarES(returns []float64, alpha float64) (float64, float64, error) {
	if len(returns) == 0 {
		return 0, 0, ErrInsufficientData
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, 0, fmt.Errorf("riskstats: 置信水平 %g 必须位于(0,1)", alpha)
	}

	losses := make([]float64, len(returns))
	for i, r := range returns {
		losses[i] = -r
	}
	sort.Float64s(losses)

	varValue := quantile(losses, alpha)

	tailSum := 0.0
	tailCount := 0
	// losses 已升序，尾部是末端连续区间。
	for i := len(losses) - 1; i >= 0 && losses[i] >= varValue; i-- {
		tailSum += losses[i]
		tailCount++
	}
	esValue := varValue
	if tailCount > 0 {
		esValue = tailSum / float64(tailCount)
	}

	return varValue, esValue, nil
}

// quantile 对升序样本按序统计量线性插值求分位数。
func quantile(sorted []float64, alpha float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := alpha * float64(n-1)
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// WinProbability 计算独立假设下彩票全部比赛命中的精确概率。
func WinProbability(matrix *prob.Matrix, coverage []ticket.Coverage) (float64, error) {
	if matrix == nil {
		return 0, fmt.Errorf("riskstats: 概率矩阵不能为空")
	}
	if len(coverage) != matrix.Len() {
		return 0, fmt.Errorf("riskstats: 覆盖长度 %d 与比赛场数 %d 不一致", len(coverage), matrix.Len())
	}

	p := 1.0
	for j := 0; j < matrix.Len(); j++ {
		row := matrix.Row(j)
		pGame := 0.0
		for o := prob.Outcome(0); o < prob.NumOutcomes; o++ {
			if coverage[j].Has(o) {
				pGame += row.P[o]
			}
		}
		p *= pGame
	}
	return p, nil
}

// KellyFraction 计算二元赌局的凯利比例。
// p 为获胜概率，b 为净赔率（每 1 单位注金的净收益），结果裁剪到 [0,1]。
func KellyFraction(p, b float64) float64 {
	if b <= 0 {
		return 0
	}
	f := (p*(b+1) - 1) / b
	return math.Max(0, math.Min(1, f))
}
