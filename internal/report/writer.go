package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"loteca-risk/internal/riskstats"
)

// TicketSummary 为单张彩票的评估摘要行。
type TicketSummary struct {
	TicketID   string
	Weight     float64
	WinProb    float64
	MeanPayout float64
}

// WriteReturns 将每次模拟的组合回报写为单列 CSV（列名 return）。
func WriteReturns(path string, returns []float64) error {
	records := make([][]string, 0, len(returns)+1)
	records = append(records, []string{"return"})
	for _, r := range returns {
		records = append(records, []string{formatFloat(r)})
	}
	return writeCSV(path, records)
}

// WriteRiskSummary 写出 metric,value 形式的风险汇总，
// 指标名形如 VaR95 / ES95（由置信水平推导）。
func WriteRiskSummary(path string, alpha, varValue, esValue float64) error {
	level := int(math.Round(alpha * 100))
	records := [][]string{
		{"metric", "value"},
		{fmt.Sprintf("VaR%d", level), formatFloat(varValue)},
		{fmt.Sprintf("ES%d", level), formatFloat(esValue)},
	}
	return writeCSV(path, records)
}

// WriteTicketSummary 写出每张彩票的权重、全中概率与模拟期望派彩。
func WriteTicketSummary(path string, rows []TicketSummary) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"ticket_id", "stake_weight", "win_prob", "mean_payout"})
	for _, row := range rows {
		records = append(records, []string{
			row.TicketID,
			formatFloat(row.Weight),
			formatFloat(row.WinProb),
			formatFloat(row.MeanPayout),
		})
	}
	return writeCSV(path, records)
}

// WriteEdgeReport 写出逐场的模型概率对市场赔率边际分析。
func WriteEdgeReport(path string, edges []riskstats.MatchEdge) error {
	records := make([][]string, 0, len(edges)+1)
	records = append(records, []string{
		"match_id",
		"p_home", "p_draw", "p_away",
		"k1", "kx", "k2",
		"imp_home", "imp_draw", "imp_away",
		"edge_home", "edge_draw", "edge_away",
		"kelly_home", "kelly_draw", "kelly_away",
		"best_bet", "kelly_max",
	})
	for _, e := range edges {
		record := []string{e.MatchID}
		for _, block := range [][3]float64{e.P, e.K, e.Implied, e.Edge, e.Kelly} {
			for _, v := range block {
				record = append(record, formatFloat(v))
			}
		}
		record = append(record, e.BestBet.Code(), formatFloat(e.KellyMax))
		records = append(records, record)
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: 创建输出目录失败: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: 创建输出文件 %q 失败: %w", path, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("report: 写入 %q 失败: %w", path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("report: 写入 %q 失败: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("report: 关闭 %q 失败: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
