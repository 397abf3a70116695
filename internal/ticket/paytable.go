package ticket

import "strconv"

// PayScheme 为派彩规则的标签化变体：默认二元全中方案，或显式派彩表。
// 变体在组合构造时一次性确定，评分阶段不再重新解释输入。
type PayScheme struct {
	table map[int]float64
}

// BinaryScheme 返回默认方案：全部比赛命中派彩 1.0，否则 0。
// 该方案对应赢者通吃的奖池；分级奖金需提供显式派彩表。
func BinaryScheme() PayScheme {
	return PayScheme{}
}

// TableScheme 由命中数→派彩的映射构造显式方案。
func TableScheme(table map[int]float64) PayScheme {
	copied := make(map[int]float64, len(table))
	for hits, pay := range table {
		copied[hits] = pay
	}
	return PayScheme{table: copied}
}

// SchemeFromConfig 将配置中的派彩表（字符串键）解析为方案。
// 任一键无法解析为非负整数、或派彩为负时，整表丢弃并回退为二元方案；
// 返回值第二项指示是否发生了回退。空映射视为未提供派彩表，不算回退。
func SchemeFromConfig(raw map[string]float64) (PayScheme, bool) {
	if len(raw) == 0 {
		return BinaryScheme(), false
	}

	table := make(map[int]float64, len(raw))
	for key, pay := range raw {
		hits, err := strconv.Atoi(key)
		if err != nil || hits < 0 || pay < 0 {
			return BinaryScheme(), true
		}
		table[hits] = pay
	}
	return PayScheme{table: table}, false
}

// IsBinary 判断是否为默认二元方案。
func (p PayScheme) IsBinary() bool {
	return p.table == nil
}

// Payout 根据命中场次解析派彩。
func (p PayScheme) Payout(hits, numMatches int) float64 {
	if p.table == nil {
		if hits == numMatches {
			return 1.0
		}
		return 0.0
	}
	return p.table[hits]
}
