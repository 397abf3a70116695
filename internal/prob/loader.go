package prob

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// 概率文件的列契约：列名固定，加载时一次性校验，不做模糊猜测。
var requiredColumns = []string{"match_id", "p_home", "p_draw", "p_away"}

// LoadCSV 从 CSV 文件加载概率矩阵，列结构不符合契约时立即失败。
func LoadCSV(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("prob: 打开概率文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("prob: 读取概率文件表头失败: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("prob: 概率文件 %q 缺少必需列 %q", path, name)
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
			return nil, fmt.Errorf("prob: 读取概率文件第 %d 行失败: %w", line+1, err)
		}
		line++

		row := Row{MatchID: strings.TrimSpace(record[index["match_id"]])}
		for i, col := range []string{"p_home", "p_draw", "p_away"} {
			raw := strings.TrimSpace(record[index[col]])
			value, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("prob: 第 %d 行列 %q 的值 %q 无法解析: %w", line, col, raw, parseErr)
			}
			row.P[i] = value
		}
		rows = append(rows, row)
	}

	return NewMatrix(rows)
}
