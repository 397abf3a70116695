package prob

// Outcome 表示单场比赛的三向赛果。
type Outcome uint8

const (
	Home Outcome = iota
	Draw
	Away

	// NumOutcomes 固定为三向盘：主胜 / 平局 / 客胜。
	NumOutcomes = 3
)

// Code 返回赛果对应的投注代码字符。
func (o Outcome) Code() string {
	switch o {
	case Home:
		return "1"
	case Draw:
		return "X"
	case Away:
		return "2"
	default:
		return "?"
	}
}

func (o Outcome) String() string {
	switch o {
	case Home:
		return "HOME"
	case Draw:
		return "DRAW"
	case Away:
		return "AWAY"
	default:
		return "UNKNOWN"
	}
}

// Valid 判断取值是否落在三向赛果范围内。
func (o Outcome) Valid() bool {
	return o < NumOutcomes
}
