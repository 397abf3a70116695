package riskstats

import (
	"fmt"

	"loteca-risk/internal/odds"
	"loteca-risk/internal/prob"
)

// MatchEdge 是单场比赛在模型概率与市场赔率之间的边际分析。
// Implied 为去水后的市场隐含概率，Edge 为模型概率与隐含概率之差，
// Kelly 为按市场净赔率计算的各结果凯利比例。
type MatchEdge struct {
	MatchID  string
	P        [3]float64
	K        [3]float64
	Implied  [3]float64
	Edge     [3]float64
	Kelly    [3]float64
	BestBet  prob.Outcome
	KellyMax float64
}

// CompareOdds 逐场比较概率矩阵与赔率表，产出边际分析。
// 两份输入按 match_id 对齐，任何一侧缺场即报错。
func CompareOdds(matrix *prob.Matrix, sheet *odds.Sheet) ([]MatchEdge, error) {
	if matrix == nil {
		return nil, fmt.Errorf("riskstats: 概率矩阵不能为空")
	}
	if sheet == nil {
		return nil, fmt.Errorf("riskstats: 赔率表不能为空")
	}

	byMatch := make(map[string]odds.Row, sheet.Len())
	for i := 0; i < sheet.Len(); i++ {
		row := sheet.Row(i)
		byMatch[row.MatchID] = row
	}

	edges := make([]MatchEdge, 0, matrix.Len())
	for j := 0; j < matrix.Len(); j++ {
		pRow := matrix.Row(j)
		oRow, ok := byMatch[pRow.MatchID]
		if !ok {
			return nil, fmt.Errorf("riskstats: 赔率表缺少比赛 %q", pRow.MatchID)
		}

		edge := MatchEdge{MatchID: pRow.MatchID, P: pRow.P, K: oRow.K}

		// 去水：隐含概率按 1/k 归一化，抵消庄家抽水。
		rawSum := 0.0
		for o := 0; o < int(prob.NumOutcomes); o++ {
			edge.Implied[o] = 1 / oRow.K[o]
			rawSum += edge.Implied[o]
		}
		for o := 0; o < int(prob.NumOutcomes); o++ {
			edge.Implied[o] /= rawSum
			edge.Edge[o] = pRow.P[o] - edge.Implied[o]
			edge.Kelly[o] = KellyFraction(pRow.P[o], oRow.K[o]-1)
		}

		edge.BestBet = prob.Home
		for o := prob.Outcome(1); o < prob.NumOutcomes; o++ {
			if edge.Kelly[o] > edge.Kelly[edge.BestBet] {
				edge.BestBet = o
			}
		}
		edge.KellyMax = edge.Kelly[edge.BestBet]

		edges = append(edges, edge)
	}
	return edges, nil
}
