// Package odds 加载市场赔率文件，为赔率边际分析提供输入。
// 赔率文件是可选输入：缺失时跳过边际报告，不影响风险评估主流程。
package odds

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Row 是单场比赛的十进制赔率，按主胜/平局/客胜排列。
type Row struct {
	MatchID string
	K       [3]float64
}

// Sheet 保存一轮比赛的全部赔率行，顺序与文件一致。
type Sheet struct {
	rows []Row
}

var oddsColumns = []string{"match_id", "k1", "kx", "k2"}

// NewSheet 校验赔率行并构造 Sheet。赔率必须为有限值且不小于 1。
func NewSheet(rows []Row) (*Sheet, error) {
	if len(rows) == 0 {
		return nil, errors.New("odds: 赔率表为空")
	}
	for _, row := range rows {
		for i, k := range row.K {
			if math.IsNaN(k) || math.IsInf(k, 0) || k < 1 {
				return nil, fmt.Errorf("odds: 比赛 %q 第 %d 项赔率 %v 非法", row.MatchID, i, k)
			}
		}
	}
	return &Sheet{rows: rows}, nil
}

// Len 返回赔率行数。
func (s *Sheet) Len() int { return len(s.rows) }

// Row 返回第 i 行赔率。
func (s *Sheet) Row(i int) Row { return s.rows[i] }

// LoadCSV 从 CSV 文件加载赔率表，列结构不符合契约时立即失败。
func LoadCSV(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("odds: 打开赔率文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("odds: 读取赔率文件表头失败: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range oddsColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("odds: 赔率文件 %q 缺少必需列 %q", path, name)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("odds: 读取赔率文件第 %d 行失败: %w", line+1, err)
		}
		line++

		row := Row{MatchID: strings.TrimSpace(record[index["match_id"]])}
		for i, col := range []string{"k1", "kx", "k2"} {
			raw := strings.TrimSpace(record[index[col]])
			value, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("odds: 第 %d 行列 %q 的值 %q 无法解析: %w", line, col, raw, parseErr)
			}
			row.K[i] = value
		}
		rows = append(rows, row)
	}

	return NewSheet(rows)
}
