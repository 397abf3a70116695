package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了风险评估运行所需的全部配置项。
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Data       DataConfig       `mapstructure:"data"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Risk       RiskConfig       `mapstructure:"risk"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// DataConfig 描述每轮比赛的输入输出文件布局：
// 所有文件位于 <base_dir>/<round>/ 之下。
// OddsFile 为可选输入，文件不存在时跳过赔率边际报告。
type DataConfig struct {
	BaseDir           string `mapstructure:"base_dir"`
	ProbabilitiesFile string `mapstructure:"probabilities_file"`
	PlanFile          string `mapstructure:"plan_file"`
	OddsFile          string `mapstructure:"odds_file"`
	ReturnsFile       string `mapstructure:"returns_file"`
	RiskFile          string `mapstructure:"risk_file"`
	TicketSummaryFile string `mapstructure:"ticket_summary_file"`
	EdgeReportFile    string `mapstructure:"edge_report_file"`
}

// SimulationConfig 控制蒙特卡洛模拟。
type SimulationConfig struct {
	Sims    int    `mapstructure:"sims"`
	Seed    uint64 `mapstructure:"seed"`
	Workers int    `mapstructure:"workers"`
}

// RiskConfig 管理风险指标参数。
// PayTable 为可选的命中数→派彩映射；缺失或无法解析时回退为二元全中方案。
type RiskConfig struct {
	Alpha    float64            `mapstructure:"alpha"`
	PayTable map[string]float64 `mapstructure:"pay_table"`
}

// DatabaseConfig 管理运行档案数据库。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Data.BaseDir == "" {
		err = multierr.Append(err, errors.New("data.base_dir 不能为空"))
	}
	if c.Data.ProbabilitiesFile == "" {
		err = multierr.Append(err, errors.New("data.probabilities_file 不能为空"))
	}
	if c.Data.PlanFile == "" {
		err = multierr.Append(err, errors.New("data.plan_file 不能为空"))
	}
	if c.Data.ReturnsFile == "" {
		err = multierr.Append(err, errors.New("data.returns_file 不能为空"))
	}
	if c.Data.RiskFile == "" {
		err = multierr.Append(err, errors.New("data.risk_file 不能为空"))
	}
	if c.Data.TicketSummaryFile == "" {
		err = multierr.Append(err, errors.New("data.ticket_summary_file 不能为空"))
	}
	if c.Simulation.Sims < 1 {
		err = multierr.Append(err, errors.New("simulation.sims 必须不小于1"))
	}
	if c.Simulation.Workers < 0 {
		err = multierr.Append(err, errors.New("simulation.workers 不能为负"))
	}
	if c.Risk.Alpha <= 0 || c.Risk.Alpha >= 1 {
		err = multierr.Append(err, errors.New("risk.alpha 必须位于(0,1)"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
