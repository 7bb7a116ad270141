package reporter

import (
	"os"

	"github.com/ohler55/ojg/oj"

	"buildforge/pkg/types"
)

// JSONReporter 将完整运行报告写为 JSON 文件。
type JSONReporter struct {
	path string
}

// NewJSONReporter 创建 JSON 文件报告器。
func NewJSONReporter(path string) *JSONReporter {
	return &JSONReporter{path: path}
}

// Name 实现 Reporter 接口。
func (r *JSONReporter) Name() string { return "json" }

// jsonReport 是 JSON 输出的顶层结构。
type jsonReport struct {
	Build   string             `json:"build"`
	RunID   string             `json:"run_id"`
	State   string             `json:"state"`
	Summary *types.Summary     `json:"summary"`
	Tasks   []types.TaskRecord `json:"tasks"`
}

// Write 实现 Reporter 接口。
func (r *JSONReporter) Write(report *RunReport) error {
	out := jsonReport{
		Build:   report.Build,
		RunID:   report.RunID,
		State:   report.State,
		Summary: report.Summary,
		Tasks:   report.Records,
	}

	data, err := oj.Marshal(&out, 2)
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}
