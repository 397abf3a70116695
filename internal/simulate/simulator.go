package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"loteca-risk/internal/prob"
)

// chunkSize 固定模拟分块大小。分块边界只取决于模拟序号，
// 与 worker 数无关，保证并行度变化时输出逐位一致。
const chunkSize = 2048

// Batch 保存 S×M 的模拟赛果矩阵（行优先）。
type Batch struct {
	Sims    int
	Matches int
	cells   []prob.Outcome
}

// At 返回第 s 次模拟中第 m 场比赛的赛果。
func (b *Batch) At(s, m int) prob.Outcome {
	return b.cells[s*b.Matches+m]
}

// Row 返回第 s 次模拟的整行赛果，调用方不得修改。
func (b *Batch) Row(s int) []prob.Outcome {
	start := s * b.Matches
	return b.cells[start : start+b.Matches]
}

// Config 控制模拟行为。
type Config struct {
	Sims    int    // 模拟次数
	Seed    uint64 // 随机种子，相同输入与种子保证结果可复现
	Workers int    // 并行 worker 数，<=0 时取 GOMAXPROCS
}

func (c Config) normalize() Config {
	cfg := c
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg
}

// Simulator 按概率矩阵独立采样整轮赛果。
// 比赛之间不建模相关性，这是既定的简化假设而非疏漏。
type Simulator struct {
	cfg    Config
	logger *zap.Logger
}

// New 创建模拟器。
func New(cfg Config, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{cfg: cfg.normalize(), logger: logger}
}

// Run 生成 Sims×M 的模拟批次。
// 每块使用由 (种子, 块起始序号) 派生的独立 PCG 流，
// 因此无论执行顺序如何，输出对相同输入逐位一致。
func (s *Simulator) Run(ctx context.Context, matrix *prob.Matrix) (*Batch, error) {
	if matrix == nil || matrix.Len() == 0 {
		return nil, fmt.Errorf("simulate: 概率矩阵不能为空")
	}
	if s.cfg.Sims < 1 {
		return nil, fmt.Errorf("simulate: 模拟次数必须不小于1, 当前为 %d", s.cfg.Sims)
	}

	numMatches := matrix.Len()
	// 每场比赛预计算累积阈值，采样时只做两次比较。
	thresholds := make([][2]float64, numMatches)
	for j := 0; j < numMatches; j++ {
		row := matrix.Row(j)
		thresholds[j][0] = row.P[prob.Home]
		thresholds[j][1] = row.P[prob.Home] + row.P[prob.Draw]
	}

	batch := &Batch{
		Sims:    s.cfg.Sims,
		Matches: numMatches,
		cells:   make([]prob.Outcome, s.cfg.Sims*numMatches),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Workers)

	for start := 0; start < s.cfg.Sims; start += chunkSize {
		start := start
		end := start + chunkSize
		if end > s.cfg.Sims {
			end = s.cfg.Sims
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			// 各块写入互不重叠的区间，无共享可变状态。
			rng := rand.New(rand.NewPCG(s.cfg.Seed, uint64(start)))
			for sim := start; sim < end; sim++ {
				base := sim * numMatches
				for j := 0; j < numMatches; j++ {
					u := rng.Float64()
					switch {
					case u < thresholds[j][0]:
						batch.cells[base+j] = prob.Home
					case u < thresholds[j][1]:
						batch.cells[base+j] = prob.Draw
					default:
						batch.cells[base+j] = prob.Away
					}
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("simulate: 模拟执行中断: %w", err)
	}

	s.logger.Debug("模拟批次已生成",
		zap.Int("sims", batch.Sims),
		zap.Int("matches", batch.Matches),
		zap.Uint64("seed", s.cfg.Seed),
	)

	return batch, nil
}
