package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"loteca-risk/internal/config"
	"loteca-risk/internal/engine"
	"loteca-risk/internal/odds"
	"loteca-risk/internal/prob"
	"loteca-risk/internal/report"
	"loteca-risk/internal/riskstats"
	"loteca-risk/internal/store"
	"loteca-risk/internal/ticket"
)

// App 聚合核心依赖并驱动一轮组合风险评估。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 对指定轮次执行完整评估：加载输入 → 模拟评估 → 写出报告 → 存档。
// 致命错误直接返回且不产生任何输出文件；输入缺陷按回退规则降级并记录事件。
func (a *App) Run(ctx context.Context, round string) error {
	if round == "" {
		return errors.New("app: 轮次标识不能为空")
	}

	dir := filepath.Join(a.cfg.Data.BaseDir, round)
	a.logger.Info("开始评估组合风险",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("round", round),
		zap.String("dir", dir),
	)

	matrix, err := prob.LoadCSV(filepath.Join(dir, a.cfg.Data.ProbabilitiesFile))
	if err != nil {
		return fmt.Errorf("app: 加载概率矩阵失败: %w", err)
	}

	plan, err := ticket.LoadPlanCSV(filepath.Join(dir, a.cfg.Data.PlanFile), matrix.Len())
	if err != nil {
		return fmt.Errorf("app: 加载投注计划失败: %w", err)
	}

	scheme, schemeFellBack := ticket.SchemeFromConfig(a.cfg.Risk.PayTable)
	if schemeFellBack {
		a.logger.Warn("派彩表无法解析，回退为二元全中方案")
	}

	pf, err := ticket.NewPortfolio(plan.Tickets, scheme, matrix.Len())
	if err != nil {
		return fmt.Errorf("app: 构建组合失败: %w", err)
	}

	evaluator, err := engine.New(engine.Config{
		Sims:    a.cfg.Simulation.Sims,
		Seed:    a.cfg.Simulation.Seed,
		Workers: a.cfg.Simulation.Workers,
		Alpha:   a.cfg.Risk.Alpha,
	}, a.logger)
	if err != nil {
		return err
	}

	result, err := evaluator.Evaluate(ctx, matrix, pf)
	if err != nil {
		return err
	}

	if err := a.writeReports(dir, result); err != nil {
		return err
	}

	history, err := store.NewHistory(a.store.DB(), a.logger)
	if err != nil {
		return fmt.Errorf("app: 初始化运行档案失败: %w", err)
	}

	runID, err := a.archive(ctx, history, round, plan, pf, schemeFellBack, result)
	if err != nil {
		// 存档失败不撤销已写出的报告，只向上报告。
		return fmt.Errorf("app: 存档运行记录失败: %w", err)
	}

	a.writeEdgeReport(ctx, history, dir, runID, matrix)

	a.logger.Info("评估完成",
		zap.String("round", round),
		zap.String("run_id", runID),
		zap.Float64("var", result.VaR),
		zap.Float64("es", result.ES),
	)
	return nil
}

func (a *App) writeReports(dir string, result engine.Result) error {
	if err := report.WriteReturns(filepath.Join(dir, a.cfg.Data.ReturnsFile), result.Returns); err != nil {
		return err
	}
	if err := report.WriteRiskSummary(filepath.Join(dir, a.cfg.Data.RiskFile), result.Alpha, result.VaR, result.ES); err != nil {
		return err
	}

	rows := make([]report.TicketSummary, 0, len(result.TicketStats))
	for _, stat := range result.TicketStats {
		rows = append(rows, report.TicketSummary{
			TicketID:   stat.TicketID,
			Weight:     stat.Weight,
			WinProb:    stat.WinProb,
			MeanPayout: stat.MeanPayout,
		})
	}
	return report.WriteTicketSummary(filepath.Join(dir, a.cfg.Data.TicketSummaryFile), rows)
}

// archive 将本次运行写入档案库，并把输入降级事件逐条记录。
func (a *App) archive(ctx context.Context, history *store.History, round string, plan *ticket.Plan, pf *ticket.Portfolio, schemeFellBack bool, result engine.Result) (string, error) {
	runID, err := history.RecordRun(ctx, store.RunRecord{
		Round:   round,
		Sims:    result.Sims,
		Seed:    a.cfg.Simulation.Seed,
		Alpha:   result.Alpha,
		VaR:     result.VaR,
		ES:      result.ES,
		Tickets: result.Tickets,
		Matches: result.Matches,
	})
	if err != nil {
		return "", err
	}

	if plan.FallbackCells > 0 {
		a.logger.Warn("部分投注代码回退为全包", zap.Int("cells", plan.FallbackCells))
		a.recordEvent(ctx, history, runID, "ticket_fallback",
			fmt.Sprintf("%d 个投注单元格回退为全包", plan.FallbackCells))
	}
	if plan.BadWeightRows > 0 {
		a.logger.Warn("部分注金权重无法解析，按0处理", zap.Int("rows", plan.BadWeightRows))
		a.recordEvent(ctx, history, runID, "bad_weight",
			fmt.Sprintf("%d 行注金权重无法解析", plan.BadWeightRows))
	}
	if pf.WeightFallback {
		a.logger.Warn("注金权重总和为零，回退为均匀权重")
		a.recordEvent(ctx, history, runID, "weight_fallback", "注金权重回退为均匀分配")
	}
	if schemeFellBack {
		a.recordEvent(ctx, history, runID, "paytable_discarded", "派彩表无法解析，使用二元全中方案")
	}

	return runID, nil
}

func (a *App) recordEvent(ctx context.Context, history *store.History, runID, eventType, message string) {
	if err := history.RecordEvent(ctx, runID, eventType, message); err != nil {
		a.logger.Warn("记录运行事件失败", zap.String("type", eventType), zap.Error(err))
	}
}

// writeEdgeReport 在赔率文件存在时产出模型对市场的边际分析。
// 补充报告的失败不阻断主流程，只记录日志与事件。
func (a *App) writeEdgeReport(ctx context.Context, history *store.History, dir, runID string, matrix *prob.Matrix) {
	oddsPath := filepath.Join(dir, a.cfg.Data.OddsFile)
	if _, err := os.Stat(oddsPath); errors.Is(err, os.ErrNotExist) {
		a.logger.Info("未提供赔率文件，跳过边际报告", zap.String("path", oddsPath))
		return
	}

	sheet, err := odds.LoadCSV(oddsPath)
	if err != nil {
		a.logger.Error("加载赔率文件失败，跳过边际报告", zap.Error(err))
		return
	}

	edges, err := riskstats.CompareOdds(matrix, sheet)
	if err != nil {
		a.logger.Error("赔率边际分析失败，跳过边际报告", zap.Error(err))
		return
	}

	reportPath := filepath.Join(dir, a.cfg.Data.EdgeReportFile)
	if err := report.WriteEdgeReport(reportPath, edges); err != nil {
		a.logger.Error("写出边际报告失败", zap.Error(err))
		return
	}
	a.recordEvent(ctx, history, runID, "edge_report", "已写出赔率边际报告")
}
