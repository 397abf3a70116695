package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// History 记录每次风险评估的运行档案与恢复性告警事件。
type History struct {
	db     *sql.DB
	logger *zap.Logger
}

// RunRecord 为一次风险评估的存档行。
type RunRecord struct {
	ID      string
	Round   string
	Sims    int
	Seed    uint64
	Alpha   float64
	VaR     float64
	ES      float64
	Tickets int
	Matches int
}

// NewHistory 创建运行档案存储并初始化表结构。
func NewHistory(db *sql.DB, logger *zap.Logger) (*History, error) {
	if db == nil {
		return nil, errors.New("store: 数据库实例不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &History{db: db, logger: logger}
	if err := h.initSchema(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *History) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS run_history (
			id TEXT PRIMARY KEY,
			round TEXT NOT NULL,
			sims INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			alpha REAL NOT NULL,
			var REAL NOT NULL,
			es REAL NOT NULL,
			tickets INTEGER NOT NULL,
			matches INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			occurred_at TEXT NOT NULL,
			event_type TEXT NOT NULL,
			message TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_run_history_round ON run_history(round);`,
	}

	for _, stmt := range schema {
		if _, err := h.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: 初始化运行档案表失败: %w", err)
		}
	}
	return nil
}

// RecordRun 写入一次评估的存档，返回分配的运行 id。
func (h *History) RecordRun(ctx context.Context, rec RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Round == "" {
		return "", errors.New("store: round 不能为空")
	}

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO run_history (id, round, sims, seed, alpha, var, es, tickets, matches, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Round, rec.Sims, int64(rec.Seed), rec.Alpha, rec.VaR, rec.ES,
		rec.Tickets, rec.Matches, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("store: 写入运行档案失败: %w", err)
	}
	return rec.ID, nil
}

// RecordEvent 记录与某次运行关联的事件（如解析回退、权重回退）。
func (h *History) RecordEvent(ctx context.Context, runID, eventType, message string) error {
	if runID == "" || eventType == "" {
		return errors.New("store: runID 与 eventType 不能为空")
	}

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO run_events (run_id, occurred_at, event_type, message) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), eventType, message,
	)
	if err != nil {
		return fmt.Errorf("store: 写入运行事件失败: %w", err)
	}
	return nil
}

// RunsForRound 按时间倒序返回某一轮的历史存档。
func (h *History) RunsForRound(ctx context.Context, round string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, round, sims, seed, alpha, var, es, tickets, matches
		 FROM run_history WHERE round = ? ORDER BY created_at DESC LIMIT ?`,
		round, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: 查询运行档案失败: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var seed int64
		if err := rows.Scan(&rec.ID, &rec.Round, &rec.Sims, &seed, &rec.Alpha, &rec.VaR, &rec.ES, &rec.Tickets, &rec.Matches); err != nil {
			return nil, fmt.Errorf("store: 扫描运行档案失败: %w", err)
		}
		rec.Seed = uint64(seed)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: 遍历运行档案失败: %w", err)
	}

	return records, nil
}
