package ticket

import (
	"math/bits"

	"loteca-risk/internal/prob"
)

// Coverage 为单场比赛可接受赛果的位掩码，永不为空集。
type Coverage uint8

// FullCoverage 覆盖全部三个赛果（全包/三重）。
const FullCoverage Coverage = 1<<prob.Home | 1<<prob.Draw | 1<<prob.Away

// CoverageOf 由若干赛果构造覆盖集合。
func CoverageOf(outcomes ...prob.Outcome) Coverage {
	var c Coverage
	for _, o := range outcomes {
		if o.Valid() {
			c |= 1 << o
		}
	}
	return c
}

// Has 判断赛果是否在覆盖集合内。
func (c Coverage) Has(o prob.Outcome) bool {
	return c&(1<<o) != 0
}

// Size 返回覆盖的赛果数量（1=单选，2=双选，3=全包）。
func (c Coverage) Size() int {
	return bits.OnesCount8(uint8(c))
}

// Code 按固定顺序 1、X、2 还原投注代码。
func (c Coverage) Code() string {
	code := ""
	for o := prob.Outcome(0); o < prob.NumOutcomes; o++ {
		if c.Has(o) {
			code += o.Code()
		}
	}
	return code
}
