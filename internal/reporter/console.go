package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"buildforge/pkg/types"
)

// ConsoleReporter 以人类可读格式将运行结果写到终端。
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter 创建控制台报告器，out 为 nil 时写到标准输出。
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// Name 实现 Reporter 接口。
func (r *ConsoleReporter) Name() string { return "console" }

// Write 实现 Reporter 接口。
func (r *ConsoleReporter) Write(report *RunReport) error {
	for _, rec := range report.Records {
		switch rec.Status {
		case types.OutcomeSuccess:
			fmt.Fprintf(r.out, "  ✓ %s (%s)\n", rec.Name, rec.Duration.Round(time.Millisecond))
		case types.OutcomeUpToDate:
			fmt.Fprintf(r.out, "  ≡ %s (最新)\n", rec.Name)
		case types.OutcomeFailed:
			fmt.Fprintf(r.out, "  ✗ %s (%s): %s\n", rec.Name, rec.Duration.Round(time.Millisecond), rec.Error)
		case types.OutcomeSkipped:
			reason := ""
			if rec.Outcome != nil {
				reason = rec.Outcome.Reason
			}
			fmt.Fprintf(r.out, "  - %s (跳过: %s)\n", rec.Name, reason)
		}
	}

	status := "成功"
	if report.State == "aborted" {
		status = "已中止"
	} else if report.Summary.Failed > 0 {
		status = "失败"
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "     构建结果:")
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "     状态...............: %s\n", status)
	fmt.Fprintf(r.out, "     总耗时.............: %s\n", report.Summary.WallTime.Round(time.Millisecond))
	fmt.Fprintf(r.out, "     任务总数...........: %d\n", report.Summary.Total)
	fmt.Fprintf(r.out, "     成功...............: %d\n", report.Summary.Succeeded)
	fmt.Fprintf(r.out, "     失败...............: %d\n", report.Summary.Failed)
	fmt.Fprintf(r.out, "     跳过...............: %d\n", report.Summary.Skipped)
	fmt.Fprintf(r.out, "     最新...............: %d\n", report.Summary.UpToDate)
	if report.Summary.P50 > 0 {
		fmt.Fprintf(r.out, "     P50 任务耗时.......: %s\n", report.Summary.P50.Round(time.Microsecond))
		fmt.Fprintf(r.out, "     P95 任务耗时.......: %s\n", report.Summary.P95.Round(time.Microsecond))
		fmt.Fprintf(r.out, "     P99 任务耗时.......: %s\n", report.Summary.P99.Round(time.Microsecond))
	}
	fmt.Fprintln(r.out)
	return nil
}
