package ticket

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Plan 为从投注计划文件加载的原始组合内容。
type Plan struct {
	Tickets []Ticket
	// HasWeights 表示文件是否带有 stake_weight 列；缺失时由组合构造回退为均匀权重。
	HasWeights bool
	// FallbackCells 为解析时回退为全包的单元格总数。
	FallbackCells int
	// BadWeightRows 为权重无法解析、按 0 处理的行数。
	BadWeightRows int
}

// LoadPlanCSV 加载投注计划文件。
// 列契约：J1..J{numMatches} 必须全部存在（加载时一次性校验），
// ticket_id 与 stake_weight 可选。投注代码单元格的缺陷按全包回退处理。
func LoadPlanCSV(path string, numMatches int) (*Plan, error) {
	if numMatches <= 0 {
		return nil, fmt.Errorf("ticket: 比赛场数必须大于0")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ticket: 打开投注计划失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ticket: 读取投注计划表头失败: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	pickCols := make([]int, numMatches)
	for j := 0; j < numMatches; j++ {
		name := fmt.Sprintf("j%d", j+1)
		col, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("ticket: 投注计划 %q 缺少必需列 %q", path, strings.ToUpper(name))
		}
		pickCols[j] = col
	}

	idCol, hasID := index["ticket_id"]
	weightCol, hasWeights := index["stake_weight"]

	plan := &Plan{HasWeights: hasWeights}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ticket: 读取投注计划第 %d 行失败: %w", line+1, err)
		}
		line++

		cells := make([]string, numMatches)
		for j, col := range pickCols {
			cells[j] = record[col]
		}
		coverage, fallbacks := ParsePicks(cells, numMatches)
		plan.FallbackCells += fallbacks

		t := Ticket{Coverage: coverage}
		if hasID {
			t.ID = strings.TrimSpace(record[idCol])
		}
		if t.ID == "" {
			t.ID = strconv.Itoa(len(plan.Tickets) + 1)
		}

		if hasWeights {
			raw := strings.TrimSpace(record[weightCol])
			weight, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil {
				plan.BadWeightRows++
			} else {
				t.StakeWeight = weight
			}
		}

		plan.Tickets = append(plan.Tickets, t)
	}

	if len(plan.Tickets) == 0 {
		return nil, fmt.Errorf("ticket: 投注计划 %q 不含任何彩票", path)
	}

	return plan, nil
}
