// Package reporter 提供构建报告的输出框架。
package reporter

import (
	"fmt"

	"buildforge/pkg/types"
)

// RunReport 是一次构建运行的完整结果视图。
type RunReport struct {
	// Build 是构建名称。
	Build string
	// RunID 是本次运行的唯一标识。
	RunID string
	// State 是运行的终态（completed 或 aborted）。
	State string
	// Summary 是统计汇总。
	Summary *types.Summary
	// Records 是按记录顺序排列的任务结果。
	Records []types.TaskRecord
}

// Reporter 定义了报告输出的接口。
type Reporter interface {
	// Name 返回报告器名称。
	Name() string

	// Write 输出完整的运行报告。
	Write(report *RunReport) error
}

// Manager 将一份报告分发给多个报告器。
type Manager struct {
	reporters []Reporter
}

// NewManager 创建一个空的报告管理器。
func NewManager() *Manager {
	return &Manager{}
}

// Add 注册一个报告器。
func (m *Manager) Add(r Reporter) {
	m.reporters = append(m.reporters, r)
}

// WriteAll 依次调用所有报告器。第一个错误被返回，其余报告器仍会执行。
func (m *Manager) WriteAll(report *RunReport) error {
	var firstErr error
	for _, r := range m.reporters {
		if err := r.Write(report); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("报告器 %s 输出失败: %w", r.Name(), err)
		}
	}
	return firstErr
}
