package ticket

import (
	"strings"

	"loteca-risk/internal/prob"
)

// Ticket 为一张彩票：每场比赛一个覆盖集合，外加原始投注权重。
type Ticket struct {
	ID          string
	Coverage    []Coverage
	StakeWeight float64
}

// ParsePick 将单元格中的投注代码解析为覆盖集合。
// 无法识别或为空的单元格回退为全包，保证该场比赛永远可命中。
func ParsePick(cell string) (Coverage, bool) {
	var c Coverage
	for _, ch := range strings.ToUpper(strings.TrimSpace(cell)) {
		switch ch {
		case '1':
			c |= 1 << prob.Home
		case 'X':
			c |= 1 << prob.Draw
		case '2':
			c |= 1 << prob.Away
		}
	}
	if c == 0 {
		return FullCoverage, true
	}
	return c, false
}

// ParsePicks 解析一行彩票的全部投注代码，返回覆盖序列与回退单元格数。
// 纯函数：不产生任何副作用，回退计数由调用方决定是否告警。
func ParsePicks(cells []string, numMatches int) ([]Coverage, int) {
	coverage := make([]Coverage, numMatches)
	fallbacks := 0
	for i := 0; i < numMatches; i++ {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		c, fell := ParsePick(cell)
		coverage[i] = c
		if fell {
			fallbacks++
		}
	}
	return coverage, fallbacks
}
