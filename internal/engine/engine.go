package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"loteca-risk/internal/payout"
	"loteca-risk/internal/prob"
	"loteca-risk/internal/riskstats"
	"loteca-risk/internal/simulate"
	"loteca-risk/internal/ticket"
)

// Config 定义一次风险评估的参数。
type Config struct {
	Sims    int     // 模拟次数
	Seed    uint64  // 随机种子
	Workers int     // 模拟并行度，<=0 取 GOMAXPROCS
	Alpha   float64 // 风险指标置信水平
}

// TicketStat 为单张彩票的评估摘要。
type TicketStat struct {
	TicketID string
	Weight   float64
	// WinProb 为独立假设下全部比赛命中的精确概率。
	WinProb float64
	// MeanPayout 为当前派彩方案下的模拟期望派彩。
	MeanPayout float64
}

// Result 汇总一次风险评估的结果。
type Result struct {
	Returns     []float64
	VaR         float64
	ES          float64
	Alpha       float64
	Sims        int
	Matches     int
	Tickets     int
	TicketStats []TicketStat
}

// Evaluator 串联模拟、派彩、汇总与风险指标。
type Evaluator struct {
	cfg       Config
	simulator *simulate.Simulator
	logger    *zap.Logger
}

// New 构建风险评估器。
func New(cfg Config, logger *zap.Logger) (*Evaluator, error) {
	if cfg.Sims < 1 {
		return nil, fmt.Errorf("engine: 模拟次数必须不小于1")
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return nil, fmt.Errorf("engine: 置信水平 %g 必须位于(0,1)", cfg.Alpha)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	simulator := simulate.New(simulate.Config{
		Sims:    cfg.Sims,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	}, logger)

	return &Evaluator{cfg: cfg, simulator: simulator, logger: logger}, nil
}

// Evaluate 执行完整评估流程：模拟 → 派彩 → 汇总 → VaR/ES。
// 相同输入与种子下结果逐位可复现。
func (e *Evaluator) Evaluate(ctx context.Context, matrix *prob.Matrix, pf *ticket.Portfolio) (Result, error) {
	if matrix == nil {
		return Result{}, fmt.Errorf("engine: 概率矩阵不能为空")
	}
	if pf == nil {
		return Result{}, fmt.Errorf("engine: 组合不能为空")
	}
	if pf.Matches != matrix.Len() {
		return Result{}, fmt.Errorf("engine: 组合覆盖 %d 场比赛，概率矩阵含 %d 场", pf.Matches, matrix.Len())
	}

	batch, err := e.simulator.Run(ctx, matrix)
	if err != nil {
		return Result{}, err
	}

	payMatrix, err := payout.Score(batch, pf)
	if err != nil {
		return Result{}, err
	}

	returns, err := payout.Aggregate(payMatrix, pf.Weights)
	if err != nil {
		return Result{}, err
	}

	varValue, esValue, err := riskstats.VarES(returns, e.cfg.Alpha)
	if err != nil {
		return Result{}, err
	}

	stats, err := e.ticketStats(matrix, pf, payMatrix)
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("风险评估完成",
		zap.Int("sims", batch.Sims),
		zap.Int("matches", batch.Matches),
		zap.Int("tickets", len(pf.Tickets)),
		zap.Float64("alpha", e.cfg.Alpha),
		zap.Float64("var", varValue),
		zap.Float64("es", esValue),
	)

	return Result{
		Returns:     returns,
		VaR:         varValue,
		ES:          esValue,
		Alpha:       e.cfg.Alpha,
		Sims:        batch.Sims,
		Matches:     batch.Matches,
		Tickets:     len(pf.Tickets),
		TicketStats: stats,
	}, nil
}

// ticketStats 计算每张彩票的全中精确概率与模拟期望派彩。
func (e *Evaluator) ticketStats(matrix *prob.Matrix, pf *ticket.Portfolio, payMatrix [][]float64) ([]TicketStat, error) {
	stats := make([]TicketStat, len(pf.Tickets))
	for i, t := range pf.Tickets {
		winProb, err := riskstats.WinProbability(matrix, t.Coverage)
		if err != nil {
			return nil, err
		}

		mean := 0.0
		for s := range payMatrix {
			mean += payMatrix[s][i]
		}
		mean /= float64(len(payMatrix))

		stats[i] = TicketStat{
			TicketID:   t.ID,
			Weight:     pf.Weights[i],
			WinProb:    winProb,
			MeanPayout: mean,
		}
	}
	return stats, nil
}
