package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"buildforge/internal/config"
	"buildforge/internal/executor"
	"buildforge/internal/parser"
	"buildforge/internal/reporter"
	"buildforge/internal/scheduler"
	"buildforge/pkg/logger"
	"buildforge/pkg/types"
)

var (
	// run 命令的 flags
	runConcurrency int
	runTimeout     time.Duration
	runWorkDir     string
	runJSONOutput  string
	runCSVOutput   string
)

// runCmd 是 run 子命令
var runCmd = &cobra.Command{
	Use:   "run <build.yaml> [targets...]",
	Short: "执行构建文件",
	Long: `解析构建文件，装配任务依赖图并按拓扑顺序执行。

指定 targets 时只执行目标任务及其传递依赖，
否则执行文件中的全部任务。`,
	Example: `  # 执行全部任务
  buildforge run build.yaml

  # 只执行 deploy 及其依赖
  buildforge run build.yaml deploy

  # 并行执行
  buildforge run -c 4 build.yaml

  # 输出 JSON 报告
  buildforge run --out-json report.json build.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// run 命令的 flags
	runCmd.Flags().IntVarP(&runConcurrency, "concurrency", "c", 0, "并行任务数 (覆盖配置文件)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "单任务默认超时 (覆盖配置文件)")
	runCmd.Flags().StringVar(&runWorkDir, "work-dir", "", "任务默认工作目录")
	runCmd.Flags().StringVar(&runJSONOutput, "out-json", "", "输出 JSON 报告到文件")
	runCmd.Flags().StringVar(&runCSVOutput, "out-csv", "", "输出 CSV 报告到文件")
}

func runBuild(cmd *cobra.Command, args []string) error {
	buildPath := args[0]
	targets := args[1:]

	cfg, err := config.NewLoader().WithConfigPath(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 命令行参数覆盖
	if runConcurrency > 0 {
		cfg.Build.Concurrency = runConcurrency
	}
	if runTimeout > 0 {
		cfg.Build.TaskTimeout = runTimeout
	}
	if runWorkDir != "" {
		cfg.Build.WorkDir = runWorkDir
	}

	if debug {
		logger.EnableDebug()
	} else {
		logger.SetLevelFromString(cfg.Logging.Level)
	}
	log := logger.Default()

	// 解析构建文件
	p := parser.NewYAMLParser()
	build, err := p.ParseFile(buildPath)
	if err != nil {
		return fmt.Errorf("解析构建文件失败: %w", err)
	}

	// 未显式配置超时的任务继承全局默认超时
	if cfg.Build.TaskTimeout > 0 {
		for i := range build.Tasks {
			if build.Tasks[i].Config == nil {
				build.Tasks[i].Config = make(map[string]any)
			}
			if _, ok := build.Tasks[i].Config["timeout"]; !ok {
				build.Tasks[i].Config["timeout"] = cfg.Build.TaskTimeout.String()
			}
		}
	}

	g, err := BuildGraph(build, targets)
	if err != nil {
		return fmt.Errorf("装配任务图失败: %w", err)
	}

	if !quiet {
		printRunInfo(build, g.Len(), cfg.Build.Concurrency)
	}

	// 创建可取消的上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 处理关闭信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		fmt.Println("\n正在中止构建...")
		cancel()
	}()

	report := types.NewExecutionReport()
	runner := executor.NewRunner(log)
	sched := scheduler.New(scheduler.Config{
		Concurrency: cfg.Build.Concurrency,
		WorkDir:     cfg.Build.WorkDir,
		Cond:        executor.NewConditionEvaluator(),
	}, log)

	state, err := sched.Run(ctx, g, runner, report)
	if err != nil {
		return fmt.Errorf("执行失败: %w", err)
	}

	summary := report.Summarize()
	runReport := &reporter.RunReport{
		Build:   build.Name,
		RunID:   report.RunID(),
		State:   string(state),
		Summary: summary,
		Records: report.Records(),
	}

	manager := reporter.NewManager()
	if !quiet {
		manager.Add(reporter.NewConsoleReporter(nil))
	}
	if runJSONOutput != "" {
		manager.Add(reporter.NewJSONReporter(runJSONOutput))
	}
	if runCSVOutput != "" {
		manager.Add(reporter.NewCSVReporter(runCSVOutput))
	}
	if err := manager.WriteAll(runReport); err != nil {
		return err
	}

	if state == scheduler.RunAborted {
		return fmt.Errorf("构建已中止")
	}
	if summary.Failed > 0 {
		return fmt.Errorf("构建失败: %d 个任务失败", summary.Failed)
	}
	return nil
}

func printRunInfo(build *parser.BuildFile, taskCount, concurrency int) {
	fmt.Printf(Banner, Version)
	fmt.Println()
	fmt.Printf("  构建: %s\n", build.Name)
	if build.Description != "" {
		fmt.Printf("  描述: %s\n", build.Description)
	}
	fmt.Printf("  任务数: %d\n", taskCount)
	fmt.Printf("  并行度: %d\n", concurrency)
	fmt.Println()
	fmt.Println("执行中...")
	fmt.Println()
}

