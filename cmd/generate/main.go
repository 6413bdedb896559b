package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
	"github.com/storechain-dev/shop-roster/backend/internal/scheduler"
	"github.com/storechain-dev/shop-roster/backend/internal/utils"
)

// 离线生成工具：从 JSON 文件读取排班请求，求解后把结果输出到标准输出
// 不依赖数据库和消息队列，方便在上线前对一份快照反复调参
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	inputPath := flag.String("input", "", "排班请求 JSON 文件路径")
	budgetSeconds := flag.Int("budget", 0, "时间预算（秒），0 表示使用请求中的值或默认值")
	flag.Parse()

	if *inputPath == "" {
		logger.Error("必须通过 -input 指定排班请求文件")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Error("无法读取排班请求文件", "error", err)
		os.Exit(1)
	}

	var request domain.RosterRequest
	if err := json.Unmarshal(data, &request); err != nil {
		logger.Error("无法解析排班请求", "error", err)
		os.Exit(1)
	}
	if *budgetSeconds > 0 {
		request.TimeBudgetSeconds = *budgetSeconds
	}

	snapshot, err := request.Normalize()
	if err != nil {
		logger.Error("排班请求不合法", "error", err)
		os.Exit(1)
	}
	if err := utils.ValidateRosterSnapshot(snapshot); err != nil {
		logger.Error("排班请求不合法", "error", err)
		os.Exit(1)
	}

	sched, err := scheduler.New(scheduler.DefaultParameters(), snapshot)
	if err != nil {
		logger.Error("无法构建求解器", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	result, err := sched.Schedule(context.Background())
	if err != nil {
		logger.Error("求解失败", "error", err)
		os.Exit(1)
	}
	logger.Info("求解完成", "status", result.Status, "objective", result.Objective, "shifts", len(result.Shifts), "duration", time.Since(start))

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error("无法输出结果", "error", err)
		os.Exit(1)
	}
}
